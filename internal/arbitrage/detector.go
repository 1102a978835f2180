package arbitrage

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"surebet-scanner/internal/market"
)

// Category splits surebets by where the bookmakers can be reached.
type Category string

const (
	CategoryLocal  Category = "local"
	CategoryOnline Category = "online"
)

// Opportunity is one outcome group of one match whose odds form an arbitrage.
type Opportunity struct {
	Match  market.MatchRecord
	Group  market.OutcomeGroup
	Quotes []LabeledQuote

	InvSum    float64
	MarginPct float64
	ROIPct    float64

	Allocation Allocation
	// Actionable is false when no rounded stake split keeps the edge above
	// the minimum profit. Reason says why.
	Actionable bool
	Reason     string
	Category   Category
}

// Check evaluates the sum-of-inverse-odds test. ok is false unless the sum
// is strictly below one.
func Check(quotes []LabeledQuote) (inv, marginPct, roiPct float64, ok bool) {
	if len(quotes) < 2 {
		return 0, 0, 0, false
	}
	inv = InverseSum(quotes)
	if inv >= 1 {
		return inv, 0, 0, false
	}
	return inv, (1 - inv) * 100, (1/inv - 1) * 100, true
}

// NormalizeBookmaker lowercases and strips spaces and dots.
func NormalizeBookmaker(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", ".", "").Replace(name)
}

// Detector finds surebets in parsed matches for one sport profile.
type Detector struct {
	profile market.Profile
	online  map[string]struct{}
	logger  zerolog.Logger
}

// NewDetector builds a detector. The profile is copied.
func NewDetector(profile market.Profile, logger zerolog.Logger) *Detector {
	online := make(map[string]struct{}, len(profile.OnlineBookmakers))
	for _, b := range profile.OnlineBookmakers {
		online[NormalizeBookmaker(b)] = struct{}{}
	}
	return &Detector{
		profile: profile.Clone(),
		online:  online,
		logger:  logger.With().Str("component", "arbitrage").Str("sport", profile.Sport).Logger(),
	}
}

// Detect tests every outcome group of every match and returns the
// opportunities in match then group order.
func (d *Detector) Detect(matches []market.MatchRecord) []Opportunity {
	var out []Opportunity
	for _, m := range matches {
		for _, g := range d.profile.Groups {
			if opp, ok := d.evaluate(m, g); ok {
				out = append(out, opp)
			}
		}
	}
	return out
}

func (d *Detector) evaluate(m market.MatchRecord, g market.OutcomeGroup) (Opportunity, bool) {
	if !m.Has(g.Labels...) {
		return Opportunity{}, false
	}
	quotes := make([]LabeledQuote, 0, len(g.Labels))
	for _, l := range g.Labels {
		q := m.Odds[l]
		r, ok := d.profile.RangeFor(l)
		if !ok || !r.Contains(q.Value) {
			d.logger.Debug().Str("match", m.Name()).Str("group", g.Name).Str("label", string(l)).
				Float64("odds", q.Value).Msg("group excluded by range check")
			return Opportunity{}, false
		}
		quotes = append(quotes, LabeledQuote{Label: l, Quote: q})
	}

	inv, margin, roi, ok := Check(quotes)
	if !ok || roi <= 0 || roi < d.profile.MinProfitPct {
		return Opportunity{}, false
	}

	opp := Opportunity{
		Match:     m,
		Group:     g,
		Quotes:    quotes,
		InvSum:    inv,
		MarginPct: margin,
		ROIPct:    roi,
		Category:  d.category(quotes),
	}

	alloc, err := Allocate(quotes, d.profile.TotalStake, d.profile.RoundTo)
	opp.Allocation = alloc
	switch {
	case errors.Is(err, ErrRoundingInfeasible):
		opp.Reason = "rounding to " + d.profile.RoundTo.String() + " removes the edge"
	case err != nil:
		opp.Reason = err.Error()
	case alloc.ActualProfitPct.LessThan(decimal.NewFromFloat(d.profile.MinProfitPct)):
		opp.Reason = "rounded profit " + alloc.ActualProfitPct.StringFixed(2) + "% below minimum"
	default:
		opp.Actionable = true
	}
	if !opp.Actionable {
		d.logger.Debug().Str("match", m.Name()).Str("group", g.Name).Str("reason", opp.Reason).Msg("surebet not actionable")
	}
	return opp, true
}

func (d *Detector) category(quotes []LabeledQuote) Category {
	for _, q := range quotes {
		if _, ok := d.online[NormalizeBookmaker(q.Bookmaker)]; ok {
			return CategoryOnline
		}
	}
	return CategoryLocal
}
