package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/market"
)

// Outcome is one priced outcome of a match or surebet.
type Outcome struct {
	Label     string  `json:"label"`
	Odds      float64 `json:"odds"`
	Bookmaker string  `json:"bookmaker"`
	Stake     float64 `json:"stake,omitempty"`
}

// SurebetRecord is the flat serialisation of one opportunity.
type SurebetRecord struct {
	Sport                string    `json:"sport"`
	Match                string    `json:"match"`
	Time                 string    `json:"time,omitempty"`
	Type                 string    `json:"type"`
	MarginPct            float64   `json:"margin_pct"`
	ROIPct               float64   `json:"roi_pct"`
	Outcomes             []Outcome `json:"outcomes"`
	TotalStake           float64   `json:"total_stake"`
	AbsProfit            float64   `json:"abs_profit"`
	AbsProfitTheoretical float64   `json:"abs_profit_theoretical"`
	ProfitPctActual      float64   `json:"profit_pct_actual"`
	Actionable           bool      `json:"actionable"`
	Reason               string    `json:"reason,omitempty"`
	Category             string    `json:"category"`
}

// MatchView is a parsed match as shown in reports and the API.
type MatchView struct {
	Match        string    `json:"match"`
	Time         string    `json:"time,omitempty"`
	Weekday      string    `json:"weekday,omitempty"`
	Page         int       `json:"page"`
	RangeTag     string    `json:"range_tag,omitempty"`
	Odds         []Outcome `json:"odds"`
	HandicapLine *float64  `json:"handicap_line,omitempty"`
	TotalLine    *float64  `json:"total_line,omitempty"`
	// MarginPct is the bookmaker margin of the 1X2 market when fully priced.
	MarginPct *float64 `json:"margin_pct,omitempty"`
}

// Report is the result of one scan of one sport.
type Report struct {
	Sport        string          `json:"sport"`
	Source       string          `json:"source"`
	GeneratedAt  time.Time       `json:"generated_at"`
	TotalMatches int             `json:"total_matches"`
	Matches      []MatchView     `json:"matches"`
	Surebets     []SurebetRecord `json:"surebets"`
}

// Actionable returns the surebets that carry a usable stake split.
func (r Report) Actionable() []SurebetRecord {
	var out []SurebetRecord
	for _, s := range r.Surebets {
		if s.Actionable {
			out = append(out, s)
		}
	}
	return out
}

// Filter returns the surebets with ROI at or above minROI.
func (r Report) Filter(minROI float64) []SurebetRecord {
	out := make([]SurebetRecord, 0, len(r.Surebets))
	for _, s := range r.Surebets {
		if s.ROIPct >= minROI {
			out = append(out, s)
		}
	}
	return out
}

// Build flattens matches and opportunities into a report. Matches keep page
// and anchor order; surebets are sorted by ROI, highest first.
func Build(sport, source string, matches []market.MatchRecord, opps []arbitrage.Opportunity, generatedAt time.Time) Report {
	r := Report{
		Sport:        sport,
		Source:       source,
		GeneratedAt:  generatedAt.UTC(),
		TotalMatches: len(matches),
		Matches:      make([]MatchView, 0, len(matches)),
		Surebets:     make([]SurebetRecord, 0, len(opps)),
	}

	ordered := append([]market.MatchRecord(nil), matches...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Context, ordered[j].Context
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		return a.AnchorIndex < b.AnchorIndex
	})
	for _, m := range ordered {
		r.Matches = append(r.Matches, matchView(m))
	}

	for _, o := range opps {
		r.Surebets = append(r.Surebets, Record(sport, o))
	}
	sort.SliceStable(r.Surebets, func(i, j int) bool {
		return r.Surebets[i].ROIPct > r.Surebets[j].ROIPct
	})
	return r
}

// Record flattens one opportunity. Percentages and money are rounded to two
// places here and nowhere earlier.
func Record(sport string, o arbitrage.Opportunity) SurebetRecord {
	rec := SurebetRecord{
		Sport:                sport,
		Match:                o.Match.Name(),
		Time:                 o.Match.Context.Time,
		Type:                 o.Group.Name,
		MarginPct:            Round2(o.MarginPct),
		ROIPct:               Round2(o.ROIPct),
		AbsProfitTheoretical: Round2(o.Allocation.TheoreticalProfit),
		Actionable:           o.Actionable,
		Reason:               o.Reason,
		Category:             string(o.Category),
	}

	stakes := make(map[market.Label]arbitrage.Stake, len(o.Allocation.Stakes))
	for _, s := range o.Allocation.Stakes {
		stakes[s.Label] = s
	}
	for _, q := range o.Quotes {
		out := Outcome{Label: string(q.Label), Odds: q.Value, Bookmaker: q.Book()}
		if s, ok := stakes[q.Label]; ok {
			out.Stake = s.Amount.InexactFloat64()
		}
		rec.Outcomes = append(rec.Outcomes, out)
	}

	if o.Actionable {
		rec.TotalStake = o.Allocation.EffectiveTotal.Round(2).InexactFloat64()
		rec.AbsProfit = o.Allocation.ActualProfit.Round(2).InexactFloat64()
		rec.ProfitPctActual = o.Allocation.ActualProfitPct.Round(2).InexactFloat64()
	} else {
		rec.TotalStake = o.Allocation.Target.Round(2).InexactFloat64()
	}
	return rec
}

func matchView(m market.MatchRecord) MatchView {
	v := MatchView{
		Match:        m.Name(),
		Time:         m.Context.Time,
		Weekday:      m.Context.Weekday,
		Page:         m.Context.PageIndex,
		RangeTag:     m.Context.RangeTag,
		HandicapLine: m.Context.HandicapLine,
		TotalLine:    m.Context.TotalLine,
	}
	labels := make([]market.Label, 0, len(m.Odds))
	for l := range m.Odds {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		ri, rj := market.Rank(labels[i]), market.Rank(labels[j])
		if ri != rj {
			return ri < rj
		}
		return labels[i] < labels[j]
	})
	for _, l := range labels {
		q := m.Odds[l]
		v.Odds = append(v.Odds, Outcome{Label: string(l), Odds: q.Value, Bookmaker: q.Book()})
	}
	if m.Has(market.Home, market.Draw, market.Away) {
		inv := 1/m.Odds[market.Home].Value + 1/m.Odds[market.Draw].Value + 1/m.Odds[market.Away].Value
		margin := Round2((inv - 1) * 100)
		v.MarginPct = &margin
	}
	return v
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
