package extract

import (
	"math"

	"surebet-scanner/internal/market"
)

// DefaultWindowSize bounds an odds window when the profile leaves it unset.
const DefaultWindowSize = 30

// Step is the outcome of feeding one token to the window state machine.
type Step int

const (
	Skipped Step = iota
	Accepted
	Stop
)

func (s Step) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Stop:
		return "stop"
	default:
		return "skipped"
	}
}

// Window is the result of scanning the tokens after one anchor.
type Window struct {
	Odds         map[market.Label]market.Quote
	HandicapLine *float64
	TotalLine    *float64

	// Start and End delimit the tokens the window claimed, End exclusive.
	Start int
	End   int
	// Next is where the outer scan resumes. It skips a consumed stop marker.
	Next int

	Grouped  bool
	Accepted int
	Skipped  int
}

// Extract fills the profile's label sequence from tokens starting at start.
func Extract(tokens []Token, start int, profile market.Profile) Window {
	if start < 0 {
		start = 0
	}
	if start > len(tokens) {
		start = len(tokens)
	}
	size := profile.WindowSize
	if size <= 0 {
		size = DefaultWindowSize
	}
	limit := start + size
	if limit > len(tokens) {
		limit = len(tokens)
	}

	grouped := hasSeparator(tokens, start, limit)
	st := &windowState{
		profile: profile,
		grouped: grouped,
		win: Window{
			Odds:    make(map[market.Label]market.Quote),
			Start:   start,
			Grouped: grouped,
		},
	}

	i := start
	next := -1
scan:
	for ; i < limit && !st.done(); i++ {
		switch st.step(tokens, i) {
		case Accepted:
			st.win.Accepted++
		case Skipped:
			st.win.Skipped++
		case Stop:
			next = i
			if tokens[i].Kind == StopMarker {
				next = i + 1
			}
			break scan
		}
	}
	st.flush()
	if next < 0 {
		next = i
	}
	st.win.End, st.win.Next = i, next
	return st.win
}

// hasSeparator reports whether the bounded window contains a separator
// before its first stop marker or anchor.
func hasSeparator(tokens []Token, start, limit int) bool {
	for j := start; j < limit; j++ {
		switch {
		case tokens[j].Kind == StopMarker, AnchorAt(tokens, j):
			return false
		case tokens[j].Kind == Separator:
			return true
		}
	}
	return false
}

type windowState struct {
	profile market.Profile
	grouped bool
	stage   int

	pending    market.Quote
	hasPending bool

	win Window
}

func (st *windowState) done() bool {
	return st.stage >= len(st.profile.Slots)
}

func (st *windowState) step(tokens []Token, i int) Step {
	tok := tokens[i]
	if tok.Kind == StopMarker || AnchorAt(tokens, i) {
		return Stop
	}
	switch tok.Kind {
	case Separator:
		if st.grouped && st.hasPending {
			st.commit()
			return Accepted
		}
		return Skipped
	case Line:
		return st.line(tok)
	case Number, NumberWithBookmaker:
		return st.number(tok)
	default:
		return Skipped
	}
}

// line handles signed tokens. They are thresholds and never odds.
func (st *windowState) line(tok Token) Step {
	slot := st.profile.Slots[st.stage]
	if !slot.IsLine() {
		return Skipped
	}
	rule := st.profile.Lines[slot.Line]
	if !rule.Matches(math.Abs(tok.Value)) {
		return Skipped
	}
	st.recordLine(slot, tok.Value)
	return Accepted
}

func (st *windowState) number(tok Token) Step {
	// An unsigned number at a line slot is either the line itself or a sign
	// that the market prints no line; in that case the slot is skipped.
	for !st.done() {
		slot := st.profile.Slots[st.stage]
		if !slot.IsLine() {
			break
		}
		if tok.Kind == Number && st.profile.Lines[slot.Line].Matches(tok.Value) {
			st.recordLine(slot, tok.Value)
			return Accepted
		}
		st.stage++
	}
	if st.done() {
		return Skipped
	}

	slot := st.profile.Slots[st.stage]
	if slot.IsLine() {
		return Skipped
	}
	r, ok := st.profile.Ranges[slot.Class]
	if !ok || !r.Contains(tok.Value) {
		return Skipped
	}

	q := market.Quote{Value: tok.Value, Bookmaker: tok.Bookmaker}
	if !st.grouped {
		st.win.Odds[slot.Label] = q
		st.stage++
		return Accepted
	}
	if !st.hasPending || (st.profile.BestAggregate && q.Value > st.pending.Value) {
		st.pending = q
	}
	st.hasPending = true
	return Accepted
}

func (st *windowState) recordLine(slot market.Slot, v float64) {
	val := v
	switch slot.Line {
	case market.LineHandicap:
		st.win.HandicapLine = &val
	case market.LineTotal:
		st.win.TotalLine = &val
	}
	st.stage++
}

func (st *windowState) commit() {
	slot := st.profile.Slots[st.stage]
	st.win.Odds[slot.Label] = st.pending
	st.pending = market.Quote{}
	st.hasPending = false
	st.stage++
}

func (st *windowState) flush() {
	if st.hasPending && !st.done() {
		st.commit()
	}
}
