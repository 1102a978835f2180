package cli

import (
	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var (
	stakesOdds       []float64
	stakesBookmakers []string
	stakesLabels     []string
	stakesTotal      float64
	stakesRound      float64
)

var stakesCmd = &cobra.Command{
	Use:   "stakes",
	Short: "Check manually entered odds and split a stake",
	Example: `  surebet stakes --odds 2.10,3.95,4.20 --bookmakers Mozzart,Meridian,Soccer --total 10000
  surebet stakes --odds 1.95,2.12 --labels Under,Over --round 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Stakes(app.StakesOptions{
			Odds:       stakesOdds,
			Bookmakers: stakesBookmakers,
			Labels:     stakesLabels,
			Total:      stakesTotal,
			RoundTo:    stakesRound,
		})
	},
}

func init() {
	stakesCmd.Flags().Float64SliceVar(&stakesOdds, "odds", nil, "Decimal odds, one per outcome")
	stakesCmd.Flags().StringSliceVar(&stakesBookmakers, "bookmakers", nil, "Bookmaker per outcome")
	stakesCmd.Flags().StringSliceVar(&stakesLabels, "labels", nil, "Outcome labels (defaults to Home/Draw/Away)")
	stakesCmd.Flags().Float64Var(&stakesTotal, "total", 0, "Total stake (defaults to the configured min/max midpoint)")
	stakesCmd.Flags().Float64Var(&stakesRound, "round", 0, "Stake rounding unit (defaults to config)")
	_ = stakesCmd.MarkFlagRequired("odds")
}
