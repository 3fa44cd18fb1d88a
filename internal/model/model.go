// Package model holds the match and standings types shared by the ingest,
// aggregation, tie-break, storage and report layers.
package model

// Result is a single team's outcome in one match.
type Result byte

const (
	ResultWin  Result = 'W'
	ResultDraw Result = 'D'
	ResultLoss Result = 'L'
)

func (r Result) String() string { return string(r) }

// Points returns the league points earned for the result (3/1/0).
func (r Result) Points() int {
	switch r {
	case ResultWin:
		return 3
	case ResultDraw:
		return 1
	default:
		return 0
	}
}

// ---- Input ----

// MatchResult is one finished fixture. Team names must already be normalized.
type MatchResult struct {
	RoundLabel string `json:"round" validate:"required"`
	HomeTeam   string `json:"home" validate:"required"`
	AwayTeam   string `json:"away" validate:"required,nefield=HomeTeam"`
	HomeGoals  int    `json:"home_score" validate:"min=0"`
	AwayGoals  int    `json:"away_score" validate:"min=0"`

	HomeYellowCards int `json:"home_yellows" validate:"min=0"`
	HomeRedCards    int `json:"home_reds" validate:"min=0"`
	AwayYellowCards int `json:"away_yellows" validate:"min=0"`
	AwayRedCards    int `json:"away_reds" validate:"min=0"`
}

// HomeResult returns the home side's outcome.
func (m MatchResult) HomeResult() Result {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return ResultWin
	case m.HomeGoals < m.AwayGoals:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// AwayResult returns the away side's outcome.
func (m MatchResult) AwayResult() Result {
	switch m.HomeResult() {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return ResultDraw
	}
}

// ---- Fair play ----

// FairPlayPolicy weights disciplinary cards into a single score. Lower is better.
type FairPlayPolicy struct {
	YellowWeight int
	RedWeight    int
}

// DefaultFairPlay counts a yellow as 1 and a red as 3.
var DefaultFairPlay = FairPlayPolicy{YellowWeight: 1, RedWeight: 3}

// Score returns the weighted disciplinary score for the given card counts.
func (p FairPlayPolicy) Score(yellows, reds int) int {
	return yellows*p.YellowWeight + reds*p.RedWeight
}

// ---- Accumulated state ----

// TeamStats is the cumulative record of one team up to some point in the season.
type TeamStats struct {
	Team         string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int // GoalsFor - GoalsAgainst
	Points       int
	YellowCards  int
	RedCards     int
	FairPlay     int    // FairPlayPolicy.Score(YellowCards, RedCards)
	Form         string // last results, oldest first
}

// HeadToHeadRecord is one team's accumulated record against one opponent.
// The (A,B) and (B,A) records are tracked separately.
type HeadToHeadRecord struct {
	Team         string `json:"team"`
	Opponent     string `json:"opponent"`
	Meetings     int    `json:"meetings"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

// GoalDiff returns GoalsFor - GoalsAgainst.
func (r HeadToHeadRecord) GoalDiff() int { return r.GoalsFor - r.GoalsAgainst }

// ---- Output ----

// TableRow is one ranked line of a league table.
type TableRow struct {
	Rank         int    `json:"rank"`
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Won          int    `json:"win"`
	Drawn        int    `json:"draw"`
	Lost         int    `json:"loss"`
	GoalsFor     int    `json:"gf"`
	GoalsAgainst int    `json:"ga"`
	GoalDiff     int    `json:"gd"`
	Points       int    `json:"points"`
	YellowCards  int    `json:"yellows"`
	RedCards     int    `json:"reds"`
	FairPlay     int    `json:"fair_play"`
	Form         string `json:"form,omitempty"`
}

// RowFromStats copies a TeamStats into an unranked TableRow.
func RowFromStats(s TeamStats) TableRow {
	return TableRow{
		Team:         s.Team,
		Played:       s.Played,
		Won:          s.Won,
		Drawn:        s.Drawn,
		Lost:         s.Lost,
		GoalsFor:     s.GoalsFor,
		GoalsAgainst: s.GoalsAgainst,
		GoalDiff:     s.GoalDiff,
		Points:       s.Points,
		YellowCards:  s.YellowCards,
		RedCards:     s.RedCards,
		FairPlay:     s.FairPlay,
		Form:         s.Form,
	}
}

// RoundSnapshot is the ranked table frozen at the end of one round.
type RoundSnapshot struct {
	Round   string     `json:"round"`
	Order   int        `json:"order"`
	Matches int        `json:"matches"` // matches folded so far, season to date
	Table   []TableRow `json:"table"`
}

// Row returns the row for team, if present.
func (s RoundSnapshot) Row(team string) (TableRow, bool) {
	for _, r := range s.Table {
		if r.Team == team {
			return r, true
		}
	}
	return TableRow{}, false
}

// Leader returns the first-ranked row. ok is false for an empty table.
func (s RoundSnapshot) Leader() (row TableRow, ok bool) {
	if len(s.Table) == 0 {
		return TableRow{}, false
	}
	return s.Table[0], true
}
