package cli

import (
	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var (
	exportPNGPath string
	exportCSVPath string
	exportMinROI  float64
)

var exportCmd = &cobra.Command{
	Use:   "export <report.json>",
	Short: "Export a saved report as CSV and/or PNG chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Input:   args[0],
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
			MinROI:  exportMinROI,
		}
		return getApp().Export(opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().Float64Var(&exportMinROI, "min-roi", 0, "Only export surebets with at least this ROI %")
}
