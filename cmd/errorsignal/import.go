package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import markdown posts into the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := appConfig.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := app.ImportContent(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts from %s\n", n, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
