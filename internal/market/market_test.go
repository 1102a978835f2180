package market

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuiltinProfilesPassCheck(t *testing.T) {
	for _, sport := range Sports() {
		p, ok := Builtin(sport)
		if !ok {
			t.Fatalf("builtin %s missing", sport)
		}
		if err := p.Check(); err != nil {
			t.Fatalf("builtin %s failed check: %v", sport, err)
		}
	}
}

func TestBuiltinReturnsIndependentCopies(t *testing.T) {
	a, _ := Builtin("basketball")
	a.Groups[0].Labels[0] = Draw
	a.Ranges[ClassMoneyline] = Range{Min: 5, Max: 6}

	b, _ := Builtin("basketball")
	if b.Groups[0].Labels[0] != Home {
		t.Fatalf("group mutation leaked into builtin")
	}
	if b.Ranges[ClassMoneyline].Min != 1.01 {
		t.Fatalf("range mutation leaked into builtin")
	}
	if _, ok := Builtin("curling"); ok {
		t.Fatalf("expected unknown sport to be missing")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p, _ := Builtin("football")
	c := p.Clone()
	c.Slots[0].Label = "X"
	c.PairChecks[0].MinGap = 9
	c.Groups[1].Labels[0] = Home
	if p.Slots[0].Label != Home || p.PairChecks[0].MinGap != 0.3 || p.Groups[1].Labels[0] != Under {
		t.Fatalf("clone shares state with original")
	}
}

func TestCheckRejectsBadProfiles(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Profile)
		field  string
	}{
		{"inverted range", func(p *Profile) { p.Ranges[ClassMoneyline] = Range{Min: 5, Max: 2} }, "ranges"},
		{"missing range", func(p *Profile) { delete(p.Ranges, ClassThreshold) }, "ranges"},
		{"unknown group label", func(p *Profile) { p.Groups = append(p.Groups, OutcomeGroup{Name: "bad", Labels: []Label{Home, "Nope"}}) }, "groups"},
		{"single label group", func(p *Profile) { p.Groups = []OutcomeGroup{{Name: "one", Labels: []Label{Home}}} }, "groups"},
		{"line slot in group", func(p *Profile) { p.Groups = []OutcomeGroup{{Name: "x", Labels: []Label{Home, TotalLine}}} }, "groups"},
		{"zero stake", func(p *Profile) { p.TotalStake = decimal.Zero }, "total_stake"},
		{"negative rounding", func(p *Profile) { p.RoundTo = decimal.NewFromInt(-1) }, "round_to"},
		{"min labels too high", func(p *Profile) { p.MinLabels = 7 }, "min_labels"},
		{"window", func(p *Profile) { p.WindowSize = 0 }, "window_size"},
		{"negative profit", func(p *Profile) { p.MinProfitPct = -1 }, "min_profit_pct"},
		{"duplicate slot", func(p *Profile) { p.Slots = append(p.Slots, Slot{Label: Home}) }, "slots"},
		{"missing line rule", func(p *Profile) { delete(p.Lines, LineTotal) }, "lines"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := Builtin("tennis")
			tc.mutate(&p)
			err := p.Check()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("expected field %s, got %s (%v)", tc.field, cfgErr.Field, err)
			}
		})
	}
}

func TestAcceptAppliesPairCheck(t *testing.T) {
	p, _ := Builtin("football")
	base := map[Label]Quote{
		Home: {Value: 2.1}, Draw: {Value: 3.4}, Away: {Value: 3.6},
	}
	with := func(under, over float64) MatchRecord {
		odds := make(map[Label]Quote, len(base)+2)
		for k, v := range base {
			odds[k] = v
		}
		odds[Under] = Quote{Value: under}
		odds[Over] = Quote{Value: over}
		return MatchRecord{Odds: odds}
	}

	if ok, reason := p.Accept(with(1.85, 1.95)); ok {
		t.Fatalf("expected gap rejection")
	} else if reason == "" {
		t.Fatalf("expected a reason")
	}
	if ok, _ := p.Accept(with(1.05, 9.5)); ok {
		t.Fatalf("expected range rejection")
	}
	if ok, reason := p.Accept(with(1.6, 2.3)); !ok {
		t.Fatalf("expected acceptance, got %s", reason)
	}
	if ok, _ := p.Accept(MatchRecord{Odds: map[Label]Quote{Home: {Value: 2}}}); ok {
		t.Fatalf("expected min label rejection")
	}
}

func TestLineRuleMatches(t *testing.T) {
	rule := LineRule{Range: Range{Min: 30, Max: 120}, Step: 0.5}
	cases := map[float64]bool{61.5: true, 62: true, 61.3: false, 29.5: false, 120: true, 120.5: false}
	for v, want := range cases {
		if got := rule.Matches(v); got != want {
			t.Fatalf("Matches(%g) = %v, want %v", v, got, want)
		}
	}
}

func TestQuoteBookAndRecordName(t *testing.T) {
	if (Quote{Value: 2}).Book() != AutoBookmaker {
		t.Fatalf("expected AUTO placeholder")
	}
	rec := MatchRecord{Participants: [2]string{"Arsenal", "Chelsea"}, Odds: map[Label]Quote{Home: {Value: 2}}}
	if rec.Name() != "Arsenal vs Chelsea" {
		t.Fatalf("unexpected name %q", rec.Name())
	}
	if !rec.Has(Home) || rec.Has(Home, Away) {
		t.Fatalf("Has mismatch")
	}
}
