package arbitrage

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"surebet-scanner/internal/market"
)

func lq(label market.Label, odds float64, book string) LabeledQuote {
	return LabeledQuote{Label: label, Quote: market.Quote{Value: odds, Bookmaker: book}}
}

func record(odds map[market.Label]float64) market.MatchRecord {
	m := market.MatchRecord{Participants: [2]string{"Alpha FC", "Beta FC"}, Odds: map[market.Label]market.Quote{}}
	for l, v := range odds {
		m.Odds[l] = market.Quote{Value: v, Bookmaker: "Bet1"}
	}
	return m
}

func footballProfile(t *testing.T) market.Profile {
	t.Helper()
	p, ok := market.Builtin("football")
	if !ok {
		t.Fatalf("missing football profile")
	}
	return p
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestCheckThreeWay(t *testing.T) {
	inv, margin, roi, ok := Check([]LabeledQuote{
		lq(market.Home, 2.10, ""), lq(market.Draw, 3.95, ""), lq(market.Away, 4.20, ""),
	})
	if !ok {
		t.Fatalf("expected surebet")
	}
	if !approx(inv, 0.96745, 1e-4) || !approx(roi, 3.365, 0.01) || !approx(margin, 3.255, 0.01) {
		t.Fatalf("unexpected inv=%f margin=%f roi=%f", inv, margin, roi)
	}
}

func TestCheckRejectsOverround(t *testing.T) {
	inv, _, _, ok := Check([]LabeledQuote{
		lq(market.Home, 2.10, "Bet1"), lq(market.Draw, 3.40, "Bet1"), lq(market.Away, 3.90, "Bet1"),
	})
	if ok || !approx(inv, 1.0267, 1e-3) {
		t.Fatalf("expected no surebet, inv=%f ok=%v", inv, ok)
	}
	if _, _, _, ok := Check([]LabeledQuote{lq(market.Under, 2, ""), lq(market.Over, 2, "")}); ok {
		t.Fatalf("inverse sum of exactly one must not be a surebet")
	}
	if _, _, _, ok := Check([]LabeledQuote{lq(market.Home, 5, "")}); ok {
		t.Fatalf("single quote cannot be a surebet")
	}
}

func TestCheckTwoWay(t *testing.T) {
	_, _, roi, ok := Check([]LabeledQuote{lq(market.Under, 2.10, ""), lq(market.Over, 1.95, "")})
	if !ok || !approx(roi, 1.11, 0.01) {
		t.Fatalf("expected roi ~1.11, got %f ok=%v", roi, ok)
	}
}

func TestAllocateEqualReturnBeforeRounding(t *testing.T) {
	quotes := []LabeledQuote{lq(market.Home, 2.10, ""), lq(market.Draw, 3.95, ""), lq(market.Away, 4.20, "")}
	alloc, err := Allocate(quotes, decimal.NewFromInt(100), decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	var sum float64
	for i, q := range quotes {
		ret := alloc.Theoretical[i] * q.Value
		if !approx(ret, alloc.TheoreticalReturn, 1e-9) {
			t.Fatalf("theoretical return %f differs from %f", ret, alloc.TheoreticalReturn)
		}
		sum += alloc.Theoretical[i]
	}
	if !approx(sum, 100, 1e-9) {
		t.Fatalf("theoretical stakes sum to %f", sum)
	}
	if !approx(alloc.TheoreticalReturn, 103.36, 0.01) {
		t.Fatalf("unexpected theoretical return %f", alloc.TheoreticalReturn)
	}
}

func TestAllocateGreedyRounding(t *testing.T) {
	quotes := []LabeledQuote{lq(market.Home, 2.10, "Bet1"), lq(market.Draw, 3.95, "Bet2"), lq(market.Away, 4.20, "")}
	alloc, err := Allocate(quotes, decimal.NewFromInt(100), decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	want := []int64{49, 26, 25}
	for i, s := range alloc.Stakes {
		if !s.Amount.Equal(decimal.NewFromInt(want[i])) {
			t.Fatalf("stake %s = %s, want %d", s.Label, s.Amount, want[i])
		}
	}
	if alloc.Stakes[2].Bookmaker != market.AutoBookmaker {
		t.Fatalf("expected AUTO placeholder, got %q", alloc.Stakes[2].Bookmaker)
	}
	if !alloc.EffectiveTotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("effective total %s", alloc.EffectiveTotal)
	}
	if !alloc.MinReturn.Equal(decimal.RequireFromString("102.7")) {
		t.Fatalf("min return %s", alloc.MinReturn)
	}
	if !alloc.ActualProfit.Equal(decimal.RequireFromString("2.7")) {
		t.Fatalf("actual profit %s", alloc.ActualProfit)
	}
	for _, s := range alloc.Stakes {
		if !s.Return().GreaterThan(alloc.EffectiveTotal) {
			t.Fatalf("stake %s returns %s, not above %s", s.Label, s.Return(), alloc.EffectiveTotal)
		}
	}
}

func TestAllocateRoundingInfeasible(t *testing.T) {
	quotes := []LabeledQuote{lq(market.Under, 2.02, ""), lq(market.Over, 2.00, "")}
	alloc, err := Allocate(quotes, decimal.NewFromInt(100), decimal.NewFromInt(50))
	if !errors.Is(err, ErrRoundingInfeasible) {
		t.Fatalf("expected ErrRoundingInfeasible, got %v", err)
	}
	if len(alloc.Stakes) != 0 {
		t.Fatalf("expected empty stakes, got %+v", alloc.Stakes)
	}
	if alloc.TheoreticalProfitPct <= 0 {
		t.Fatalf("theoretical figures should still be reported")
	}
}

func TestAllocatePostRoundingGuarantee(t *testing.T) {
	cases := [][]float64{
		{2.10, 1.95}, {2.20, 1.90}, {3.10, 3.60, 3.20}, {1.50, 3.40}, {2.05, 3.90, 4.60}, {12.0, 1.12},
	}
	rounds := []int64{1, 5, 10, 100}
	totals := []int64{100, 1000, 12500}
	for _, odds := range cases {
		quotes := make([]LabeledQuote, len(odds))
		for i, o := range odds {
			quotes[i] = lq(market.Label(rune('A'+i)), o, "")
		}
		for _, r := range rounds {
			for _, total := range totals {
				alloc, err := Allocate(quotes, decimal.NewFromInt(total), decimal.NewFromInt(r))
				if errors.Is(err, ErrNotArbitrage) || errors.Is(err, ErrRoundingInfeasible) {
					if len(alloc.Stakes) != 0 {
						t.Fatalf("%v: error %v with stakes", odds, err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("%v: %v", odds, err)
				}
				sum := decimal.Zero
				for _, s := range alloc.Stakes {
					sum = sum.Add(s.Amount)
					if !s.Amount.Mod(decimal.NewFromInt(r)).IsZero() {
						t.Fatalf("%v: stake %s not a multiple of %d", odds, s.Amount, r)
					}
				}
				for _, s := range alloc.Stakes {
					if !s.Return().GreaterThan(sum) {
						t.Fatalf("%v total=%d round=%d: %s returns %s <= %s", odds, total, r, s.Label, s.Return(), sum)
					}
				}
			}
		}
	}
}

func TestAllocateRejectsBadInput(t *testing.T) {
	quotes := []LabeledQuote{lq(market.Home, 2.1, ""), lq(market.Away, 2.1, "")}
	if _, err := Allocate(quotes[:1], decimal.NewFromInt(100), decimal.NewFromInt(1)); err == nil {
		t.Fatalf("expected error for single outcome")
	}
	if _, err := Allocate(quotes, decimal.Zero, decimal.NewFromInt(1)); err == nil {
		t.Fatalf("expected error for zero total")
	}
	if _, err := Allocate([]LabeledQuote{lq(market.Home, 1.8, ""), lq(market.Away, 1.9, "")}, decimal.NewFromInt(100), decimal.NewFromInt(1)); !errors.Is(err, ErrNotArbitrage) {
		t.Fatalf("expected ErrNotArbitrage, got %v", err)
	}
}

func TestChooseTotalStake(t *testing.T) {
	d := decimal.NewFromInt
	if got := ChooseTotalStake(d(10000), d(15000), decimal.Zero); !got.Equal(d(12500)) {
		t.Fatalf("midpoint = %s", got)
	}
	if got := ChooseTotalStake(d(10000), d(15000), d(777)); !got.Equal(d(777)) {
		t.Fatalf("explicit = %s", got)
	}
	if got := ChooseTotalStake(d(1000), d(500), decimal.Zero); !got.Equal(d(1000)) {
		t.Fatalf("inverted = %s", got)
	}
	if got := ChooseTotalStake(d(1010), d(1040), decimal.Zero); !got.Equal(d(1010)) {
		t.Fatalf("clamped = %s", got)
	}
}

func TestDetectScenarios(t *testing.T) {
	det := NewDetector(footballProfile(t), zerolog.Nop())

	none := det.Detect([]market.MatchRecord{record(map[market.Label]float64{
		market.Home: 2.10, market.Draw: 3.40, market.Away: 3.90,
	})})
	if len(none) != 0 {
		t.Fatalf("expected no surebet, got %+v", none)
	}

	opps := det.Detect([]market.MatchRecord{record(map[market.Label]float64{
		market.Home: 2.10, market.Draw: 3.95, market.Away: 4.20,
		market.Under: 2.10, market.Over: 1.95,
	})})
	if len(opps) != 2 {
		t.Fatalf("expected 1X2 and totals surebets, got %d", len(opps))
	}
	for _, o := range opps {
		if o.InvSum >= 1 {
			t.Fatalf("emitted opportunity with inv %f", o.InvSum)
		}
		if !approx(o.ROIPct, (1/o.InvSum-1)*100, 1e-12) {
			t.Fatalf("roi mismatch")
		}
		if !o.Actionable {
			t.Fatalf("%s should be actionable: %s", o.Group.Name, o.Reason)
		}
		if o.Category != CategoryLocal {
			t.Fatalf("expected local category")
		}
	}
	if opps[0].Group.Name != "1X2" || opps[1].Group.Name != "Totals" {
		t.Fatalf("unexpected group order %s, %s", opps[0].Group.Name, opps[1].Group.Name)
	}
	if !approx(opps[1].ROIPct, 1.11, 0.01) {
		t.Fatalf("totals roi %f", opps[1].ROIPct)
	}
}

func TestDetectRangeFailureExcludesGroup(t *testing.T) {
	p := footballProfile(t)
	p.Ranges[market.ClassMoneyline] = market.Range{Min: 1.01, Max: 4}
	det := NewDetector(p, zerolog.Nop())
	opps := det.Detect([]market.MatchRecord{record(map[market.Label]float64{
		market.Home: 2.10, market.Draw: 3.95, market.Away: 4.20,
	})})
	if len(opps) != 0 {
		t.Fatalf("expected group to be excluded, got %+v", opps)
	}
}

func TestDetectMinProfitAndActionability(t *testing.T) {
	p := footballProfile(t)
	p.MinProfitPct = 2
	det := NewDetector(p, zerolog.Nop())
	opps := det.Detect([]market.MatchRecord{record(map[market.Label]float64{
		market.Home: 2.10, market.Draw: 3.95, market.Away: 4.20,
		market.Under: 2.10, market.Over: 1.95,
	})})
	if len(opps) != 1 || opps[0].Group.Name != "1X2" {
		t.Fatalf("expected only 1X2 above 2%%, got %+v", opps)
	}

	p = footballProfile(t)
	p.RoundTo = decimal.NewFromInt(50)
	det = NewDetector(p, zerolog.Nop())
	opps = det.Detect([]market.MatchRecord{record(map[market.Label]float64{
		market.Home: 2.10, market.Draw: 3.95, market.Away: 4.20,
	})})
	if len(opps) != 1 {
		t.Fatalf("expected opportunity to be reported, got %d", len(opps))
	}
	if opps[0].Actionable || opps[0].Reason == "" || len(opps[0].Allocation.Stakes) != 0 {
		t.Fatalf("expected not actionable with empty stakes, got %+v", opps[0])
	}
}

func TestDetectOnlineCategory(t *testing.T) {
	p := footballProfile(t)
	p.OnlineBookmakers = []string{"365.rs", "Vivat Bet"}
	det := NewDetector(p, zerolog.Nop())
	m := record(map[market.Label]float64{market.Under: 2.10, market.Over: 1.95})
	m.Odds[market.Over] = market.Quote{Value: 1.95, Bookmaker: "VivatBet"}
	opps := det.Detect([]market.MatchRecord{m})
	if len(opps) != 1 || opps[0].Category != CategoryOnline {
		t.Fatalf("expected online category, got %+v", opps)
	}
}
