package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog over HTTP",
	Long: `serve opens the store and serves every page, feed and the admin editor.
With --dev it also imports the content directory, watches it and reloads
open pages when a post changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if appConfig.Dev {
			if _, err := os.Stat(appConfig.ContentDir); err == nil {
				if _, err := app.ImportContent(appConfig.ContentDir); err != nil {
					return err
				}
			}
		}
		if err := app.Start(ctx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

// openApp builds and opens an App from the loaded configuration.
func openApp() (*errorsignal.App, error) {
	app := errorsignal.New(appConfig, errorsignal.WithLogger(logger))
	if err := app.Open(); err != nil {
		logger.Error("open site", zap.Error(err))
		return nil, err
	}
	return app, nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Bool("dev", false, "watch content and live reload pages")
	cobra.CheckErr(v.BindPFlag("addr", serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(v.BindPFlag("dev", serveCmd.Flags().Lookup("dev")))
	rootCmd.AddCommand(serveCmd)
}
