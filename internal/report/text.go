package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/market"
)

// DefaultSummaryLimit is how many surebets a summary lists.
const DefaultSummaryLimit = 12

// WriteText renders surebets grouped into local and online sections.
func WriteText(w io.Writer, r Report) error {
	title := fmt.Sprintf("%s Surebets - %s", strings.ToUpper(r.Sport), r.GeneratedAt.UTC().Format(time.DateTime)+" UTC")
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Matches parsed: %d\n\n", r.TotalMatches)

	if len(r.Surebets) == 0 {
		b.WriteString("No surebets found at this time.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	var local, online []SurebetRecord
	for _, s := range r.Surebets {
		if s.Category == string(arbitrage.CategoryOnline) {
			online = append(online, s)
		} else {
			local = append(local, s)
		}
	}
	writeGroup(&b, "LOCAL SUREBETS", local)
	writeGroup(&b, "ONLINE SUREBETS", online)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeGroup(b *strings.Builder, title string, group []SurebetRecord) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
	if len(group) == 0 {
		b.WriteString("  (none)\n\n")
		return
	}
	for _, s := range group {
		b.WriteString(s.Match)
		if s.Time != "" {
			b.WriteString(" (" + s.Time + ")")
		}
		b.WriteString("\n")
		fmt.Fprintf(b, "  %s SUREBET -> ROI %s%% | Margin %s%%\n", s.Type, fixed2(s.ROIPct), fixed2(s.MarginPct))
		fmt.Fprintf(b, "  Odds: %s\n", oddsLine(s.Outcomes))
		if s.Actionable {
			fmt.Fprintf(b, "  Stakes: %s (total %s, profit %s / %s%%)\n",
				stakesLine(s.Outcomes), fixed2(s.TotalStake), fixed2(s.AbsProfit), fixed2(s.ProfitPctActual))
		} else {
			fmt.Fprintf(b, "  Not actionable: %s\n", s.Reason)
		}
		b.WriteString("\n")
	}
}

// WriteMatches renders the parsed matches as an aligned table.
func WriteMatches(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Page\tTime\tMatch\tOdds\tMargin%")
	for _, m := range r.Matches {
		margin := ""
		if m.MarginPct != nil {
			margin = fixed2(*m.MarginPct)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.Page, m.Time, m.Match, oddsLine(m.Odds), margin)
	}
	return tw.Flush()
}

// Summary is the short alert text: counts plus the best surebets by ROI.
func Summary(r Report, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	lines := []string{
		fmt.Sprintf("%s surebets report", strings.ToUpper(r.Sport)),
		fmt.Sprintf("Total unique matches scraped: %d", r.TotalMatches),
		fmt.Sprintf("Surebets detected: %d", len(r.Surebets)),
		"",
	}
	if len(r.Surebets) == 0 {
		lines = append(lines, "No surebets available yet.")
		return strings.Join(lines, "\n")
	}

	top := append([]SurebetRecord(nil), r.Surebets...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ROIPct > top[j].ROIPct })
	if len(top) > limit {
		top = top[:limit]
	}
	lines = append(lines, "Top opportunities (ROI desc):")
	for _, s := range top {
		tm := s.Time
		if tm == "" {
			tm = "?"
		}
		line := fmt.Sprintf("%s | %s\n  %s: ROI %s%% | Margin %s%% | %s", tm, s.Match, s.Type, fixed2(s.ROIPct), fixed2(s.MarginPct), oddsLine(s.Outcomes))
		if s.Actionable {
			line += fmt.Sprintf("\n  Stakes: %s", stakesLine(s.Outcomes))
		}
		if s.Category == string(arbitrage.CategoryOnline) {
			line += " [online]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func oddsLine(outcomes []Outcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		part := fmt.Sprintf("%s=%s", o.Label, decimal.NewFromFloat(o.Odds).StringFixed(2))
		if o.Bookmaker != "" && o.Bookmaker != market.AutoBookmaker {
			part += "@" + o.Bookmaker
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func stakesLine(outcomes []Outcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("%s %s", o.Label, fixed2(o.Stake)))
	}
	return strings.Join(parts, ", ")
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
