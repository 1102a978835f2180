package app

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"surebet-scanner/internal/report"
)

// Show prints a saved JSON report.
func (a *App) Show(opts ShowOptions) error {
	if opts.Input == "" {
		return errors.New("a report path is required")
	}
	r, err := report.ReadJSONFile(opts.Input)
	if err != nil {
		return err
	}

	if opts.Matches {
		if opts.Limit > 0 && len(r.Matches) > opts.Limit {
			r.Matches = r.Matches[:opts.Limit]
		}
		return report.WriteMatches(a.Out, r)
	}

	if len(r.Surebets) == 0 {
		fmt.Fprintf(a.Out, "%s: %d matches, no surebets\n", r.Sport, r.TotalMatches)
		return nil
	}
	surebets := r.Surebets
	if opts.Limit > 0 && len(surebets) > opts.Limit {
		surebets = surebets[:opts.Limit]
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time\tMatch\tType\tROI%\tMargin%\tStake\tProfit\tCategory\tActionable")
	for _, s := range surebets {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			s.Time,
			sanitizeInline(s.Match),
			s.Type,
			s.ROIPct,
			s.MarginPct,
			s.TotalStake,
			s.AbsProfit,
			s.Category,
			actionable(s),
		)
	}
	return writer.Flush()
}

func actionable(s report.SurebetRecord) string {
	if s.Actionable {
		return "yes"
	}
	return "no: " + sanitizeInline(s.Reason)
}

func sanitizeInline(v string) string {
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(v)
}
