package arbitrage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"surebet-scanner/internal/market"
)

var (
	// ErrRoundingInfeasible means the odds are an arbitrage but no rounded
	// stake split keeps a guaranteed profit.
	ErrRoundingInfeasible = errors.New("rounding removes the guaranteed profit")
	// ErrNotArbitrage means the inverse odds sum to one or more.
	ErrNotArbitrage = errors.New("odds do not form an arbitrage")
)

var hundred = decimal.NewFromInt(100)

// LabeledQuote is one outcome of an outcome group.
type LabeledQuote struct {
	Label market.Label `json:"label"`
	market.Quote
}

// Stake is the amount to place on one outcome.
type Stake struct {
	Label     market.Label    `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Odds      float64         `json:"odds"`
	Bookmaker string          `json:"bookmaker"`
}

// Return is the payout if this outcome wins.
func (s Stake) Return() decimal.Decimal {
	return s.Amount.Mul(decimal.NewFromFloat(s.Odds))
}

// Allocation is a stake split plus its theoretical and rounded figures.
type Allocation struct {
	Stakes []Stake

	// Theoretical holds the unrounded stakes in group order.
	Theoretical          []float64
	TheoreticalReturn    float64
	TheoreticalProfit    float64
	TheoreticalProfitPct float64

	Target          decimal.Decimal
	EffectiveTotal  decimal.Decimal
	MinReturn       decimal.Decimal
	ActualProfit    decimal.Decimal
	ActualProfitPct decimal.Decimal
}

// InverseSum returns the sum of implied probabilities.
func InverseSum(quotes []LabeledQuote) float64 {
	var inv float64
	for _, q := range quotes {
		inv += 1 / q.Value
	}
	return inv
}

// Allocate splits total across quotes so every outcome returns the same
// amount, then rounds each stake down to a multiple of roundTo and hands the
// remaining units to whichever outcome currently returns least.
func Allocate(quotes []LabeledQuote, total, roundTo decimal.Decimal) (Allocation, error) {
	if len(quotes) < 2 {
		return Allocation{}, fmt.Errorf("allocate: need at least two outcomes, got %d", len(quotes))
	}
	if !total.IsPositive() || !roundTo.IsPositive() {
		return Allocation{}, fmt.Errorf("allocate: total %s and rounding %s must be positive", total, roundTo)
	}
	for _, q := range quotes {
		if q.Value <= 0 {
			return Allocation{}, fmt.Errorf("allocate: %s has non-positive odds %g", q.Label, q.Value)
		}
	}
	inv := InverseSum(quotes)
	if inv >= 1 {
		return Allocation{}, ErrNotArbitrage
	}

	totalF := total.InexactFloat64()
	alloc := Allocation{
		Theoretical:          make([]float64, len(quotes)),
		TheoreticalReturn:    totalF / inv,
		TheoreticalProfit:    totalF/inv - totalF,
		TheoreticalProfitPct: (1/inv - 1) * 100,
		Target:               total,
	}

	stakes := make([]Stake, len(quotes))
	sum := decimal.Zero
	for i, q := range quotes {
		exact := totalF * (1 / q.Value) / inv
		alloc.Theoretical[i] = exact

		amount := decimal.NewFromFloat(exact).Div(roundTo).Floor().Mul(roundTo)
		if !amount.IsPositive() {
			amount = roundTo
		}
		stakes[i] = Stake{Label: q.Label, Amount: amount, Odds: q.Value, Bookmaker: q.Book()}
		sum = sum.Add(amount)
	}

	for total.Sub(sum).GreaterThanOrEqual(roundTo) {
		low := 0
		for i := 1; i < len(stakes); i++ {
			if stakes[i].Return().LessThan(stakes[low].Return()) {
				low = i
			}
		}
		stakes[low].Amount = stakes[low].Amount.Add(roundTo)
		sum = sum.Add(roundTo)
	}

	minReturn := stakes[0].Return()
	for _, s := range stakes[1:] {
		if r := s.Return(); r.LessThan(minReturn) {
			minReturn = r
		}
	}

	alloc.EffectiveTotal = sum
	alloc.MinReturn = minReturn
	alloc.ActualProfit = minReturn.Sub(sum)
	if !alloc.ActualProfit.IsPositive() {
		alloc.ActualProfit = decimal.Zero
		return alloc, ErrRoundingInfeasible
	}
	alloc.ActualProfitPct = alloc.ActualProfit.Div(sum).Mul(hundred)
	alloc.Stakes = stakes
	return alloc, nil
}

// ChooseTotalStake returns explicit when set, otherwise the midpoint of
// [lo, hi] rounded to the nearest hundred and clamped into the range.
func ChooseTotalStake(lo, hi, explicit decimal.Decimal) decimal.Decimal {
	if explicit.IsPositive() {
		return explicit
	}
	if hi.LessThan(lo) {
		hi = lo
	}
	mid := lo.Add(hi).Div(decimal.NewFromInt(2)).Floor()
	mid = mid.Div(hundred).Round(0).Mul(hundred)
	if mid.LessThan(lo) {
		return lo
	}
	if mid.GreaterThan(hi) {
		return hi
	}
	return mid
}
