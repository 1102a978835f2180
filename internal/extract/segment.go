package extract

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinTeamLength is the shortest accepted participant name in runes.
const DefaultMinTeamLength = 4

// DefaultStoplist holds navigation and category rows that sit next to
// time-like tokens on listing pages.
var DefaultStoplist = []string{
	"premier league", "la liga", "serie a", "bundesliga", "ligue 1",
	"champions league", "europa league", "conference league", "nba", "nhl", "euroleague",
	"fudbal", "košarka", "tenis", "hokej", "rukomet", "ostali sportovi", "sportovi",
	"football", "soccer", "basketball", "tennis", "hockey", "handball",
	"početna", "kvote", "najbolje kvote", "prognozer", "promocije", "bonusi", "tiket",
	"danas", "sutra", "uživo", "live", "naredne utakmice", "mečevi", "kontakt", "marketing",
	"home", "draw", "away", "under", "over",
}

// TeamValidator decides whether a token can be a participant name.
type TeamValidator struct {
	MinLength int
	stop      map[string]struct{}
}

// NewTeamValidator builds a validator. A non-positive minLength selects the
// default and a nil stoplist selects DefaultStoplist.
func NewTeamValidator(minLength int, stoplist []string) TeamValidator {
	if minLength <= 0 {
		minLength = DefaultMinTeamLength
	}
	if stoplist == nil {
		stoplist = DefaultStoplist
	}
	stop := make(map[string]struct{}, len(stoplist))
	for _, s := range stoplist {
		stop[normalizeName(s)] = struct{}{}
	}
	return TeamValidator{MinLength: minLength, stop: stop}
}

// Valid checks a single participant candidate.
func (v TeamValidator) Valid(tok Token) bool {
	if tok.Kind != TeamCandidate {
		return false
	}
	if utf8.RuneCountInString(tok.Raw) < v.MinLength {
		return false
	}
	_, stopped := v.stop[normalizeName(tok.Raw)]
	return !stopped
}

// Pair checks both participants and that they differ.
func (v TeamValidator) Pair(home, away Token) bool {
	return v.Valid(home) && v.Valid(away) && normalizeName(home.Raw) != normalizeName(away.Raw)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Segment is one recognised match start.
type Segment struct {
	AnchorIndex int
	Time        string
	Weekday     string
	Home        string
	Away        string
	WindowStart int
}

// Segmenter scans classified tokens left to right for anchor + two
// participant rows. It is restartable with Reset.
type Segmenter struct {
	tokens         []Token
	teams          TeamValidator
	requireWeekday bool
	pos            int
}

// NewSegmenter prepares a scan over tokens.
func NewSegmenter(tokens []Token, teams TeamValidator, requireWeekday bool) *Segmenter {
	return &Segmenter{tokens: tokens, teams: teams, requireWeekday: requireWeekday}
}

// Reset rewinds the scan to the first token.
func (s *Segmenter) Reset() { s.pos = 0 }

// Resume moves the scan forward to idx. It never moves backwards.
func (s *Segmenter) Resume(idx int) {
	if idx > s.pos {
		s.pos = idx
	}
}

// Next returns the next segment, or false when the tokens are exhausted.
func (s *Segmenter) Next() (Segment, bool) {
	for i := s.pos; i < len(s.tokens); i++ {
		seg, ok := s.matchAt(i)
		if !ok {
			continue
		}
		s.pos = seg.WindowStart
		return seg, true
	}
	s.pos = len(s.tokens)
	return Segment{}, false
}

// AnchorAt reports whether a match anchor begins at index i.
func AnchorAt(tokens []Token, i int) bool {
	if i < 0 || i >= len(tokens) {
		return false
	}
	switch tokens[i].Kind {
	case Anchor:
		return true
	case Weekday:
		return i+1 < len(tokens) && tokens[i+1].Kind == Anchor && tokens[i+1].Weekday == ""
	}
	return false
}

func (s *Segmenter) matchAt(i int) (Segment, bool) {
	tok := s.tokens[i]
	seg := Segment{AnchorIndex: i}
	teamsAt := i + 1

	switch tok.Kind {
	case Weekday:
		if i+1 >= len(s.tokens) || s.tokens[i+1].Kind != Anchor || s.tokens[i+1].Weekday != "" {
			return Segment{}, false
		}
		seg.Weekday = tok.Weekday
		seg.Time = s.tokens[i+1].Time
		teamsAt = i + 2
	case Anchor:
		seg.Time = tok.Time
		seg.Weekday = tok.Weekday
	default:
		return Segment{}, false
	}

	if s.requireWeekday && seg.Weekday == "" {
		return Segment{}, false
	}
	if teamsAt+1 >= len(s.tokens) {
		return Segment{}, false
	}
	home, away := s.tokens[teamsAt], s.tokens[teamsAt+1]
	if !s.teams.Pair(home, away) {
		return Segment{}, false
	}

	seg.Home = home.Raw
	seg.Away = away.Raw
	seg.WindowStart = teamsAt + 2
	return seg, true
}
