package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var (
	showLimit   int
	showMatches bool
)

var showCmd = &cobra.Command{
	Use:   "show <report.json>",
	Short: "Display a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		opts := app.ShowOptions{
			Input:   args[0],
			Matches: showMatches,
			Limit:   showLimit,
		}

		return getApp().Show(opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of rows to display (0 for all)")
	showCmd.Flags().BoolVar(&showMatches, "matches", false, "List parsed matches instead of surebets")
}
