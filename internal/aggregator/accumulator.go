// Package aggregator folds match results into per-team cumulative statistics
// and a pairwise head-to-head ledger.
package aggregator

import (
	"sort"

	"github.com/pable/go-league-standings/internal/model"
)

// FormLength is the number of recent results kept in the form guide.
const FormLength = 5

// Accumulator holds the running TeamStats of every team seen so far.
// It is not safe for concurrent use.
type Accumulator struct {
	policy model.FairPlayPolicy
	teams  map[string]*model.TeamStats
}

// NewAccumulator returns an empty accumulator scoring discipline with policy.
func NewAccumulator(policy model.FairPlayPolicy) *Accumulator {
	return &Accumulator{
		policy: policy,
		teams:  make(map[string]*model.TeamStats),
	}
}

// Apply folds one match into both participants' records. Each match must be
// applied exactly once.
func (a *Accumulator) Apply(m model.MatchResult) {
	a.applySide(m.HomeTeam, m.HomeGoals, m.AwayGoals, m.HomeYellowCards, m.HomeRedCards, m.HomeResult())
	a.applySide(m.AwayTeam, m.AwayGoals, m.HomeGoals, m.AwayYellowCards, m.AwayRedCards, m.AwayResult())
}

func (a *Accumulator) applySide(team string, gf, ga, yellows, reds int, res model.Result) {
	s := a.team(team)
	s.Played++
	s.GoalsFor += gf
	s.GoalsAgainst += ga
	s.GoalDiff = s.GoalsFor - s.GoalsAgainst
	s.Points += res.Points()
	switch res {
	case model.ResultWin:
		s.Won++
	case model.ResultDraw:
		s.Drawn++
	default:
		s.Lost++
	}
	s.YellowCards += yellows
	s.RedCards += reds
	s.FairPlay = a.policy.Score(s.YellowCards, s.RedCards)

	s.Form += res.String()
	if len(s.Form) > FormLength {
		s.Form = s.Form[len(s.Form)-FormLength:]
	}
}

func (a *Accumulator) team(name string) *model.TeamStats {
	s, ok := a.teams[name]
	if !ok {
		s = &model.TeamStats{Team: name}
		a.teams[name] = s
	}
	return s
}

// Team returns a copy of one team's current record.
func (a *Accumulator) Team(name string) (model.TeamStats, bool) {
	s, ok := a.teams[name]
	if !ok {
		return model.TeamStats{}, false
	}
	return *s, true
}

// Len returns the number of distinct teams seen.
func (a *Accumulator) Len() int { return len(a.teams) }

// Snapshot copies every team's current record, sorted by team name so the
// result does not depend on map iteration order.
func (a *Accumulator) Snapshot() []model.TeamStats {
	out := make([]model.TeamStats, 0, len(a.teams))
	for _, s := range a.teams {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}
