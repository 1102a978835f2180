package market

import (
	"fmt"
	"math"
	"strings"
)

// Label names a single outcome slot within a match's odds map.
type Label string

const (
	Home     Label = "Home"
	Draw     Label = "Draw"
	Away     Label = "Away"
	Under    Label = "Under"
	Over     Label = "Over"
	BTTS     Label = "GG"
	BTTSOver Label = "GG3+"
	H1       Label = "H1"
	H2       Label = "H2"
	Winner1  Label = "Winner1"
	Winner2  Label = "Winner2"

	HandicapLine Label = "HandicapLine"
	TotalLine    Label = "TotalLine"
)

var labelOrder = []Label{Home, Draw, Away, Winner1, Winner2, H1, H2, Under, Over, BTTS, BTTSOver}

// Rank orders labels for display. Unknown labels sort last.
func Rank(l Label) int {
	for i, known := range labelOrder {
		if known == l {
			return i
		}
	}
	return len(labelOrder)
}

// Class groups labels that share a valid odds range.
type Class int

const (
	ClassMoneyline Class = iota
	ClassThreshold
)

func (c Class) String() string {
	switch c {
	case ClassMoneyline:
		return "moneyline"
	case ClassThreshold:
		return "threshold"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// LineKind identifies a threshold marker slot (handicap spread or total).
type LineKind int

const (
	LineNone LineKind = iota
	LineHandicap
	LineTotal
)

func (k LineKind) String() string {
	switch k {
	case LineHandicap:
		return "handicap"
	case LineTotal:
		return "total"
	default:
		return "none"
	}
}

// Slot is one position of a sport's ordered label sequence. A slot with a
// non-zero Line holds a threshold marker rather than odds.
type Slot struct {
	Label Label
	Class Class
	Line  LineKind
}

// IsLine reports whether the slot records a threshold marker.
func (s Slot) IsLine() bool { return s.Line != LineNone }

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// LineRule decides whether an unsigned number looks like a threshold line.
// Step > 0 additionally requires the value to sit on a multiple of Step.
type LineRule struct {
	Range Range
	Step  float64
}

// Matches applies the magnitude and step heuristics.
func (r LineRule) Matches(v float64) bool {
	if !r.Range.Contains(v) {
		return false
	}
	if r.Step <= 0 {
		return true
	}
	q := v / r.Step
	return math.Abs(q-math.Round(q)) < 1e-9
}

// OutcomeGroup is a set of mutually exclusive labels tested together for arbitrage.
type OutcomeGroup struct {
	Name   string
	Labels []Label
}

func (g OutcomeGroup) String() string {
	parts := make([]string, len(g.Labels))
	for i, l := range g.Labels {
		parts[i] = string(l)
	}
	return g.Name + "{" + strings.Join(parts, ",") + "}"
}

// PairCheck rejects two-outcome threshold markets whose odds look misaligned.
type PairCheck struct {
	A, B   Label
	MinGap float64
	Range  Range
}

// Quote is a single decimal odds value and the bookmaker offering it.
type Quote struct {
	Value     float64 `json:"odds"`
	Bookmaker string  `json:"bookmaker,omitempty"`
}

// AutoBookmaker is the placeholder used for bare numeric odds.
const AutoBookmaker = "AUTO"

// Book returns the bookmaker or the AUTO placeholder.
func (q Quote) Book() string {
	if q.Bookmaker == "" {
		return AutoBookmaker
	}
	return q.Bookmaker
}

// MatchContext carries the positional and auxiliary data of a parsed match.
type MatchContext struct {
	PageIndex    int      `json:"page_index"`
	RangeTag     string   `json:"range_tag,omitempty"`
	Time         string   `json:"time,omitempty"`
	Weekday      string   `json:"weekday,omitempty"`
	AnchorIndex  int      `json:"anchor_index"`
	WindowStart  int      `json:"window_start"`
	WindowEnd    int      `json:"window_end"`
	HandicapLine *float64 `json:"handicap_line,omitempty"`
	TotalLine    *float64 `json:"total_line,omitempty"`
}

// MatchRecord is one segmented match and its extracted odds.
type MatchRecord struct {
	Participants [2]string       `json:"participants"`
	Odds         map[Label]Quote `json:"odds"`
	Context      MatchContext    `json:"context"`
}

// Name renders "Home vs Away".
func (m MatchRecord) Name() string {
	return m.Participants[0] + " vs " + m.Participants[1]
}

// Has reports whether every label has a quote.
func (m MatchRecord) Has(labels ...Label) bool {
	for _, l := range labels {
		if _, ok := m.Odds[l]; !ok {
			return false
		}
	}
	return true
}
