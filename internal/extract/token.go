package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind tags a classified token.
type Kind int

const (
	Other Kind = iota
	Number
	NumberWithBookmaker
	Line
	Separator
	StopMarker
	Anchor
	Weekday
	TeamCandidate
)

var kindNames = map[Kind]string{
	Other:               "other",
	Number:              "number",
	NumberWithBookmaker: "number+bookmaker",
	Line:                "line",
	Separator:           "separator",
	StopMarker:          "stop",
	Anchor:              "anchor",
	Weekday:             "weekday",
	TeamCandidate:       "team",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a raw text token plus the fields its kind carries.
type Token struct {
	Raw  string
	Kind Kind

	// Number, NumberWithBookmaker, Line.
	Value     float64
	Bookmaker string

	// Anchor and Weekday.
	Time    string
	Weekday string
}

// IsNumeric reports whether the token carries an unsigned numeric value.
func (t Token) IsNumeric() bool {
	return t.Kind == Number || t.Kind == NumberWithBookmaker
}

const weekdays = `pon|uto|sre|čet|cet|pet|sub|ned|mon|tue|wed|thu|fri|sat|sun`

var (
	stopRe      = regexp.MustCompile(`^\+\d+$`)
	separatorRe = regexp.MustCompile(`^-+$`)
	numberRe    = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	signedRe    = regexp.MustCompile(`^[+-]\d+(?:[.,]\d+)?$`)
	withBookRe  = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(\p{L}[\p{L}\p{N} .\-]*)$`)
	timeRe      = regexp.MustCompile(`^(?:[01]?\d|2[0-3]):[0-5]\d$`)
	weekdayRe   = regexp.MustCompile(`(?i)^(` + weekdays + `)\.?,?$`)
	combinedRe  = regexp.MustCompile(`(?i)^(` + weekdays + `)\.?,?\s*(?:\d{1,2}\.\s*\d{1,2}\.?\s*)?((?:[01]?\d|2[0-3]):[0-5]\d)$`)
)

// Classify tags a single trimmed token. Classification never fails; tokens
// that fit no pattern are Other.
func Classify(raw string) Token {
	tok := Token{Raw: raw}
	switch {
	case raw == "":
	case stopRe.MatchString(raw):
		tok.Kind = StopMarker
	case separatorRe.MatchString(raw):
		tok.Kind = Separator
	case numberRe.MatchString(raw):
		if v, ok := parseDecimal(raw); ok {
			tok.Kind, tok.Value = Number, v
		}
	case signedRe.MatchString(raw):
		if v, ok := parseDecimal(raw); ok {
			tok.Kind, tok.Value = Line, v
		}
	case timeRe.MatchString(raw):
		tok.Kind, tok.Time = Anchor, raw
	case weekdayRe.MatchString(raw):
		tok.Kind, tok.Weekday = Weekday, strings.ToLower(weekdayRe.FindStringSubmatch(raw)[1])
	case combinedRe.MatchString(raw):
		m := combinedRe.FindStringSubmatch(raw)
		tok.Kind, tok.Weekday, tok.Time = Anchor, strings.ToLower(m[1]), m[2]
	default:
		if m := withBookRe.FindStringSubmatch(raw); m != nil {
			if v, ok := parseDecimal(m[1]); ok {
				tok.Kind, tok.Value, tok.Bookmaker = NumberWithBookmaker, v, strings.TrimSpace(m[2])
				return tok
			}
		}
		if countLetters(raw) >= 2 {
			tok.Kind = TeamCandidate
		}
	}
	return tok
}

// ClassifyAll tags every token in order.
func ClassifyAll(raw []string) []Token {
	out := make([]Token, len(raw))
	for i, r := range raw {
		out[i] = Classify(strings.TrimSpace(r))
	}
	return out
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
