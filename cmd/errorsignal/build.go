package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Long: `build imports the content directory, when present, and writes every
public page, the feeds and the assets into the output directory.
Admin pages are not exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		switch _, err := os.Stat(appConfig.ContentDir); {
		case err == nil:
			if _, err := app.ImportContent(appConfig.ContentDir); err != nil {
				return err
			}
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("no content dir, exporting stored posts", zap.String("dir", appConfig.ContentDir))
		default:
			return err
		}
		return app.Export(cmd.Context(), appConfig.OutputDir)
	},
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory (default dist)")
	cobra.CheckErr(v.BindPFlag("outputDir", buildCmd.Flags().Lookup("output")))
	rootCmd.AddCommand(buildCmd)
}
