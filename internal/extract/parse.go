package extract

import (
	"github.com/rs/zerolog"

	"surebet-scanner/internal/market"
)

// PageInfo identifies the page a token stream came from.
type PageInfo struct {
	Index    int
	RangeTag string
}

// Parser turns token streams into validated match records for one sport.
type Parser struct {
	profile market.Profile
	teams   TeamValidator
	logger  zerolog.Logger
}

// NewParser builds a parser. The profile is copied.
func NewParser(profile market.Profile, teams TeamValidator, logger zerolog.Logger) *Parser {
	return &Parser{
		profile: profile.Clone(),
		teams:   teams,
		logger:  logger.With().Str("component", "extract").Str("sport", profile.Sport).Logger(),
	}
}

// ParsePage parses one page with the default team validator and no logging.
func ParsePage(raw []string, profile market.Profile, page PageInfo) []market.MatchRecord {
	return NewParser(profile, NewTeamValidator(0, nil), zerolog.Nop()).ParsePage(raw, page)
}

// ParsePage segments the tokens, extracts a window per match and applies the
// profile's validation gate. Records come back in anchor order.
func (p *Parser) ParsePage(raw []string, page PageInfo) []market.MatchRecord {
	tokens := ClassifyAll(raw)
	seg := NewSegmenter(tokens, p.teams, p.profile.RequireWeekday)

	var out []market.MatchRecord
	for {
		s, ok := seg.Next()
		if !ok {
			break
		}
		w := Extract(tokens, s.WindowStart, p.profile)
		seg.Resume(w.Next)

		rec := market.MatchRecord{
			Participants: [2]string{s.Home, s.Away},
			Odds:         w.Odds,
			Context: market.MatchContext{
				PageIndex:    page.Index,
				RangeTag:     page.RangeTag,
				Time:         s.Time,
				Weekday:      s.Weekday,
				AnchorIndex:  s.AnchorIndex,
				WindowStart:  w.Start,
				WindowEnd:    w.End,
				HandicapLine: w.HandicapLine,
				TotalLine:    w.TotalLine,
			},
		}
		if ok, reason := p.profile.Accept(rec); !ok {
			p.logger.Debug().
				Str("match", rec.Name()).
				Int("anchor", s.AnchorIndex).
				Int("skipped", w.Skipped).
				Str("reason", reason).
				Msg("match rejected")
			continue
		}
		p.logger.Debug().
			Str("match", rec.Name()).
			Int("odds", len(rec.Odds)).
			Bool("grouped", w.Grouped).
			Msg("match parsed")
		out = append(out, rec)
	}

	p.logger.Info().Int("page", page.Index).Int("tokens", len(tokens)).Int("matches", len(out)).Msg("page parsed")
	return out
}
