package cli

import (
	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan all enabled sports on the configured interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scan loop and serve the latest reports over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Serve(cmd.Context())
	},
}

var scanQuiet bool

var scanCmd = &cobra.Command{
	Use:   "scan [sport...]",
	Short: "Scan once and print the reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Scan(cmd.Context(), app.ScanOptions{Sports: args, Quiet: scanQuiet})
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanQuiet, "quiet", false, "Only write report files, do not print")
}
