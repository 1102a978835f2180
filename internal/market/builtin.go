package market

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	oneXTwo  = OutcomeGroup{Name: "1X2", Labels: []Label{Home, Draw, Away}}
	homeAway = func(name string) OutcomeGroup { return OutcomeGroup{Name: name, Labels: []Label{Home, Away}} }
	handicap = OutcomeGroup{Name: "Handicap", Labels: []Label{H1, H2}}
	totals   = OutcomeGroup{Name: "Totals", Labels: []Label{Under, Over}}
)

// Site market order: 1, 2, H1, spread, H2, under, total, over.
func twoWayWithLines(sport string, moneyline Range, handicapRule, totalRule LineRule) Profile {
	return Profile{
		Sport: sport,
		Slots: []Slot{
			{Label: Home, Class: ClassMoneyline},
			{Label: Away, Class: ClassMoneyline},
			{Label: H1, Class: ClassThreshold},
			{Label: HandicapLine, Line: LineHandicap},
			{Label: H2, Class: ClassThreshold},
			{Label: Under, Class: ClassThreshold},
			{Label: TotalLine, Line: LineTotal},
			{Label: Over, Class: ClassThreshold},
		},
		Ranges: map[Class]Range{
			ClassMoneyline: moneyline,
			ClassThreshold: {Min: 1.01, Max: 10},
		},
		Lines: map[LineKind]LineRule{
			LineHandicap: handicapRule,
			LineTotal:    totalRule,
		},
		MinLabels:  2,
		WindowSize: 24,
		Groups:     []OutcomeGroup{homeAway("Match Winner"), handicap, totals},
		TotalStake: decimal.NewFromInt(100),
		RoundTo:    decimal.NewFromInt(1),
	}
}

var builtins = map[string]func() Profile{
	"football": func() Profile {
		return Profile{
			Sport: "football",
			Slots: []Slot{
				{Label: Home, Class: ClassMoneyline},
				{Label: Draw, Class: ClassMoneyline},
				{Label: Away, Class: ClassMoneyline},
				{Label: Under, Class: ClassThreshold},
				{Label: Over, Class: ClassThreshold},
				{Label: BTTS, Class: ClassThreshold},
				{Label: BTTSOver, Class: ClassThreshold},
			},
			Ranges: map[Class]Range{
				ClassMoneyline: {Min: 1.01, Max: 50},
				ClassThreshold: {Min: 1.01, Max: 50},
			},
			MinLabels:  3,
			WindowSize: 30,
			Groups:     []OutcomeGroup{oneXTwo, totals},
			PairChecks: []PairCheck{{A: Under, B: Over, MinGap: 0.3, Range: Range{Min: 1.1, Max: 10}}},
			TotalStake: decimal.NewFromInt(100),
			RoundTo:    decimal.NewFromInt(1),
		}
	},
	"football-winner": func() Profile {
		return Profile{
			Sport: "football-winner",
			Slots: []Slot{
				{Label: Winner1, Class: ClassMoneyline},
				{Label: Winner2, Class: ClassMoneyline},
			},
			Ranges:     map[Class]Range{ClassMoneyline: {Min: 1.01, Max: 69}},
			MinLabels:  2,
			WindowSize: 20,
			Groups:     []OutcomeGroup{{Name: "Winner", Labels: []Label{Winner1, Winner2}}},
			TotalStake: decimal.NewFromInt(100),
			RoundTo:    decimal.NewFromInt(1),
		}
	},
	"tennis": func() Profile {
		return twoWayWithLines("tennis",
			Range{Min: 1.01, Max: 200},
			LineRule{Range: Range{Min: 1, Max: 15}, Step: 0.5},
			LineRule{Range: Range{Min: 15, Max: 60}, Step: 0.5},
		)
	},
	"basketball": func() Profile {
		p := twoWayWithLines("basketball",
			Range{Min: 1.01, Max: 200},
			LineRule{Range: Range{Min: 1, Max: 30}, Step: 0.5},
			LineRule{Range: Range{Min: 100, Max: 300}, Step: 0.5},
		)
		p.Groups[0].Name = "Moneyline"
		return p
	},
	"handball": func() Profile {
		return Profile{
			Sport: "handball",
			Slots: []Slot{
				{Label: Home, Class: ClassMoneyline},
				{Label: Draw, Class: ClassMoneyline},
				{Label: Away, Class: ClassMoneyline},
				{Label: HandicapLine, Line: LineHandicap},
				{Label: H1, Class: ClassThreshold},
				{Label: H2, Class: ClassThreshold},
				{Label: TotalLine, Line: LineTotal},
				{Label: Under, Class: ClassThreshold},
				{Label: Over, Class: ClassThreshold},
			},
			Ranges: map[Class]Range{
				ClassMoneyline: {Min: 1.01, Max: 70},
				ClassThreshold: {Min: 1.01, Max: 5},
			},
			Lines: map[LineKind]LineRule{
				LineHandicap: {Range: Range{Min: 1, Max: 30}, Step: 0.5},
				LineTotal:    {Range: Range{Min: 30, Max: 120}, Step: 0.5},
			},
			MinLabels:  2,
			WindowSize: 24,
			Groups:     []OutcomeGroup{oneXTwo, handicap, totals},
			TotalStake: decimal.NewFromInt(100),
			RoundTo:    decimal.NewFromInt(1),
		}
	},
	"hockey": func() Profile {
		return Profile{
			Sport: "hockey",
			Slots: []Slot{
				{Label: Home, Class: ClassMoneyline},
				{Label: Draw, Class: ClassMoneyline},
				{Label: Away, Class: ClassMoneyline},
				{Label: H1, Class: ClassThreshold},
				{Label: HandicapLine, Line: LineHandicap},
				{Label: H2, Class: ClassThreshold},
				{Label: Under, Class: ClassThreshold},
				{Label: TotalLine, Line: LineTotal},
				{Label: Over, Class: ClassThreshold},
			},
			Ranges: map[Class]Range{
				ClassMoneyline: {Min: 1.01, Max: 150},
				ClassThreshold: {Min: 1.01, Max: 10},
			},
			Lines: map[LineKind]LineRule{
				LineHandicap: {Range: Range{Min: 0.5, Max: 5}, Step: 0.5},
				LineTotal:    {Range: Range{Min: 3, Max: 9}, Step: 0.5},
			},
			MinLabels:  3,
			WindowSize: 24,
			Groups:     []OutcomeGroup{oneXTwo, handicap, totals},
			TotalStake: decimal.NewFromInt(100),
			RoundTo:    decimal.NewFromInt(1),
		}
	},
	"nfl": func() Profile {
		return Profile{
			Sport: "nfl",
			Slots: []Slot{
				{Label: Home, Class: ClassMoneyline},
				{Label: Away, Class: ClassMoneyline},
			},
			Ranges:         map[Class]Range{ClassMoneyline: {Min: 1.01, Max: 69}},
			MinLabels:      2,
			WindowSize:     12,
			RequireWeekday: true,
			Groups:         []OutcomeGroup{homeAway("Moneyline")},
			TotalStake:     decimal.NewFromInt(100),
			RoundTo:        decimal.NewFromInt(1),
		}
	},
}

// Builtin returns a fresh copy of a built-in sport profile.
func Builtin(sport string) (Profile, bool) {
	build, ok := builtins[sport]
	if !ok {
		return Profile{}, false
	}
	return build(), true
}

// Sports lists the built-in profile names in sorted order.
func Sports() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
