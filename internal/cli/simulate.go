package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var (
	simulateSport      string
	simulateHome       string
	simulateAway       string
	simulateOdds       []float64
	simulateBookmakers []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "用给定赔率模拟一次套利并触发告警",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(simulateOdds) < 2 {
			return errors.New("--odds 至少需要两个赔率")
		}
		return getApp().SimulateAlert(cmd.Context(), app.SimulateOptions{
			Sport:      simulateSport,
			Home:       simulateHome,
			Away:       simulateAway,
			Odds:       simulateOdds,
			Bookmakers: simulateBookmakers,
		})
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateSport, "sport", "football", "Sport profile")
	simulateCmd.Flags().StringVar(&simulateHome, "home", "Home Team", "Home participant")
	simulateCmd.Flags().StringVar(&simulateAway, "away", "Away Team", "Away participant")
	simulateCmd.Flags().Float64SliceVar(&simulateOdds, "odds", []float64{2.10, 3.95, 4.20}, "Odds of the first outcome group")
	simulateCmd.Flags().StringSliceVar(&simulateBookmakers, "bookmakers", nil, "Bookmaker per outcome")
}
