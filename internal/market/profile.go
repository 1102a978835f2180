package market

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ConfigError reports an invalid sport profile. It is a programming or
// configuration mistake and callers should fail fast on it.
type ConfigError struct {
	Sport  string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sport %q: %s: %s", e.Sport, e.Field, e.Reason)
}

// Profile is the declarative per-sport configuration driving the parser and
// the arbitrage detector.
type Profile struct {
	Sport string
	Slots []Slot

	Ranges map[Class]Range
	Lines  map[LineKind]LineRule

	MinLabels      int
	WindowSize     int
	BestAggregate  bool
	RequireWeekday bool

	Groups     []OutcomeGroup
	PairChecks []PairCheck

	MinProfitPct     float64
	TotalStake       decimal.Decimal
	RoundTo          decimal.Decimal
	OnlineBookmakers []string
}

// Clone returns a deep copy so overrides never leak into built-ins.
func (p Profile) Clone() Profile {
	out := p
	out.Slots = append([]Slot(nil), p.Slots...)
	out.Ranges = make(map[Class]Range, len(p.Ranges))
	for k, v := range p.Ranges {
		out.Ranges[k] = v
	}
	out.Lines = make(map[LineKind]LineRule, len(p.Lines))
	for k, v := range p.Lines {
		out.Lines[k] = v
	}
	out.Groups = make([]OutcomeGroup, len(p.Groups))
	for i, g := range p.Groups {
		out.Groups[i] = OutcomeGroup{Name: g.Name, Labels: append([]Label(nil), g.Labels...)}
	}
	out.PairChecks = append([]PairCheck(nil), p.PairChecks...)
	out.OnlineBookmakers = append([]string(nil), p.OnlineBookmakers...)
	return out
}

// OddsLabels lists the odds-bearing labels in sequence order.
func (p Profile) OddsLabels() []Label {
	labels := make([]Label, 0, len(p.Slots))
	for _, s := range p.Slots {
		if !s.IsLine() {
			labels = append(labels, s.Label)
		}
	}
	return labels
}

// ClassOf returns the class of an odds label.
func (p Profile) ClassOf(label Label) (Class, bool) {
	for _, s := range p.Slots {
		if s.Label == label && !s.IsLine() {
			return s.Class, true
		}
	}
	return 0, false
}

// RangeFor returns the valid odds range of a label.
func (p Profile) RangeFor(label Label) (Range, bool) {
	class, ok := p.ClassOf(label)
	if !ok {
		return Range{}, false
	}
	r, ok := p.Ranges[class]
	return r, ok
}

// Check validates the profile itself.
func (p Profile) Check() error {
	fail := func(field, format string, args ...any) error {
		return &ConfigError{Sport: p.Sport, Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	if len(p.Slots) == 0 {
		return fail("slots", "label sequence is empty")
	}
	seen := make(map[Label]bool, len(p.Slots))
	for _, s := range p.Slots {
		if seen[s.Label] {
			return fail("slots", "label %s appears twice", s.Label)
		}
		seen[s.Label] = true
		if s.IsLine() {
			rule, ok := p.Lines[s.Line]
			if !ok {
				return fail("lines", "no rule for %s line slot %s", s.Line, s.Label)
			}
			if rule.Range.Min > rule.Range.Max {
				return fail("lines", "%s line range %s is inverted", s.Line, rule.Range)
			}
			continue
		}
		r, ok := p.Ranges[s.Class]
		if !ok {
			return fail("ranges", "no odds range for class %s", s.Class)
		}
		if r.Min > r.Max {
			return fail("ranges", "%s range %s is inverted", s.Class, r)
		}
		if r.Min <= 0 {
			return fail("ranges", "%s range %s must be positive", s.Class, r)
		}
	}

	oddsCount := len(p.OddsLabels())
	if p.MinLabels < 1 || p.MinLabels > oddsCount {
		return fail("min_labels", "%d outside 1..%d", p.MinLabels, oddsCount)
	}
	if p.WindowSize < 1 {
		return fail("window_size", "must be positive, got %d", p.WindowSize)
	}

	for _, g := range p.Groups {
		if len(g.Labels) < 2 {
			return fail("groups", "group %s needs at least two labels", g.Name)
		}
		for _, l := range g.Labels {
			if _, ok := p.ClassOf(l); !ok {
				return fail("groups", "group %s references unknown label %s", g.Name, l)
			}
		}
	}
	for _, pc := range p.PairChecks {
		if _, ok := p.ClassOf(pc.A); !ok {
			return fail("pair_checks", "unknown label %s", pc.A)
		}
		if _, ok := p.ClassOf(pc.B); !ok {
			return fail("pair_checks", "unknown label %s", pc.B)
		}
		if pc.Range.Min > pc.Range.Max {
			return fail("pair_checks", "range %s is inverted", pc.Range)
		}
	}

	if p.MinProfitPct < 0 || math.IsNaN(p.MinProfitPct) {
		return fail("min_profit_pct", "cannot be negative")
	}
	if !p.TotalStake.IsPositive() {
		return fail("total_stake", "must be greater than zero")
	}
	if !p.RoundTo.IsPositive() {
		return fail("round_to", "must be greater than zero")
	}
	return nil
}

// Accept applies the completed-map validation gate. The returned reason is
// empty when the record is accepted.
func (p Profile) Accept(rec MatchRecord) (bool, string) {
	if len(rec.Odds) < p.MinLabels {
		return false, fmt.Sprintf("found %d odds, need %d", len(rec.Odds), p.MinLabels)
	}
	for _, pc := range p.PairChecks {
		a, okA := rec.Odds[pc.A]
		b, okB := rec.Odds[pc.B]
		if !okA || !okB {
			continue
		}
		if math.Abs(a.Value-b.Value) < pc.MinGap {
			return false, fmt.Sprintf("%s=%g and %s=%g too close", pc.A, a.Value, pc.B, b.Value)
		}
		if !pc.Range.Contains(a.Value) || !pc.Range.Contains(b.Value) {
			return false, fmt.Sprintf("%s=%g or %s=%g outside %s", pc.A, a.Value, pc.B, b.Value, pc.Range)
		}
	}
	return true, ""
}
