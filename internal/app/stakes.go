package app

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/market"
)

// StakesOptions describe a manual surebet check.
type StakesOptions struct {
	Odds       []float64
	Bookmakers []string
	Labels     []string
	Total      float64
	RoundTo    float64
}

// Stakes checks manually entered odds and prints the stake split.
func (a *App) Stakes(opts StakesOptions) error {
	if len(opts.Odds) < 2 {
		return errors.New("at least two odds are required")
	}
	labels := stakeLabels(opts.Labels, len(opts.Odds))
	quotes := make([]arbitrage.LabeledQuote, 0, len(opts.Odds))
	for i, o := range opts.Odds {
		if o <= 1 {
			return fmt.Errorf("odds %g must be greater than 1", o)
		}
		q := arbitrage.LabeledQuote{Label: labels[i], Quote: market.Quote{Value: o}}
		if i < len(opts.Bookmakers) {
			q.Bookmaker = opts.Bookmakers[i]
		}
		quotes = append(quotes, q)
	}

	inv, margin, roi, ok := arbitrage.Check(quotes)
	if !ok {
		fmt.Fprintf(a.Out, "No surebet: inverse sum %.4f (bookmaker margin %.2f%%)\n", inv, (inv-1)*100)
		return nil
	}
	fmt.Fprintf(a.Out, "SUREBET: inverse sum %.4f, margin %.2f%%, ROI %.2f%%\n", inv, margin, roi)

	arb := a.Config.Arbitrage
	total := arbitrage.ChooseTotalStake(decimal.NewFromFloat(arb.MinStake), decimal.NewFromFloat(arb.MaxStake), decimal.NewFromFloat(opts.Total))
	roundTo := decimal.NewFromFloat(arb.RoundTo)
	if opts.RoundTo > 0 {
		roundTo = decimal.NewFromFloat(opts.RoundTo)
	}

	alloc, err := arbitrage.Allocate(quotes, total, roundTo)
	if errors.Is(err, arbitrage.ErrRoundingInfeasible) {
		fmt.Fprintf(a.Out, "Not actionable: rounding stakes to %s removes the edge on %s\n", roundTo, total)
		return nil
	}
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Outcome\tOdds\tBookmaker\tTheoretical\tStake\tReturn")
	for i, s := range alloc.Stakes {
		fmt.Fprintf(writer, "%s\t%.2f\t%s\t%.2f\t%s\t%s\n",
			s.Label, s.Odds, quotes[i].Book(), alloc.Theoretical[i], s.Amount.StringFixed(2), s.Return().StringFixed(2))
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Total %s, guaranteed profit %s (%s%%), theoretical %.2f (%.2f%%)\n",
		alloc.EffectiveTotal.StringFixed(2), alloc.ActualProfit.StringFixed(2), alloc.ActualProfitPct.StringFixed(2),
		alloc.TheoreticalProfit, alloc.TheoreticalProfitPct)
	return nil
}

func stakeLabels(given []string, n int) []market.Label {
	labels := make([]market.Label, n)
	for i := range labels {
		switch {
		case i < len(given) && given[i] != "":
			labels[i] = market.Label(given[i])
		case n == 2:
			labels[i] = []market.Label{market.Home, market.Away}[i]
		case n == 3:
			labels[i] = []market.Label{market.Home, market.Draw, market.Away}[i]
		default:
			labels[i] = market.Label(fmt.Sprintf("O%d", i+1))
		}
	}
	return labels
}
