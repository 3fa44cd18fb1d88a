package aggregator

import (
	"sort"

	"github.com/pable/go-league-standings/internal/model"
)

type pairKey struct {
	team, opponent string
}

// Ledger records every pairwise meeting from each side's perspective.
// (A,B) and (B,A) are separate records with the same meeting count.
// It is not safe for concurrent use.
type Ledger struct {
	records map[pairKey]*model.HeadToHeadRecord
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[pairKey]*model.HeadToHeadRecord)}
}

// Record adds one match to both directional records of the pair.
func (l *Ledger) Record(m model.MatchResult) {
	l.recordSide(m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals, m.HomeResult())
	l.recordSide(m.AwayTeam, m.HomeTeam, m.AwayGoals, m.HomeGoals, m.AwayResult())
}

func (l *Ledger) recordSide(team, opponent string, gf, ga int, res model.Result) {
	k := pairKey{team, opponent}
	r, ok := l.records[k]
	if !ok {
		r = &model.HeadToHeadRecord{Team: team, Opponent: opponent}
		l.records[k] = r
	}
	r.Meetings++
	r.GoalsFor += gf
	r.GoalsAgainst += ga
	r.Points += res.Points()
	switch res {
	case model.ResultWin:
		r.Won++
	case model.ResultDraw:
		r.Drawn++
	default:
		r.Lost++
	}
}

// Get returns team's record against opponent. Teams that have not met get a
// zero record carrying both names.
func (l *Ledger) Get(team, opponent string) model.HeadToHeadRecord {
	if r, ok := l.records[pairKey{team, opponent}]; ok {
		return *r
	}
	return model.HeadToHeadRecord{Team: team, Opponent: opponent}
}

// Meetings returns how many times a and b have played each other.
func (l *Ledger) Meetings(a, b string) int {
	if r, ok := l.records[pairKey{a, b}]; ok {
		return r.Meetings
	}
	return 0
}

// Records returns every directional record sorted by team then opponent.
func (l *Ledger) Records() []model.HeadToHeadRecord {
	out := make([]model.HeadToHeadRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Opponent < out[j].Opponent
	})
	return out
}

// Against sums team's records against every member of group other than
// itself.
func (l *Ledger) Against(team string, group []string) model.HeadToHeadRecord {
	total := model.HeadToHeadRecord{Team: team}
	for _, opp := range group {
		if opp == team {
			continue
		}
		r := l.Get(team, opp)
		total.Meetings += r.Meetings
		total.Won += r.Won
		total.Drawn += r.Drawn
		total.Lost += r.Lost
		total.Points += r.Points
		total.GoalsFor += r.GoalsFor
		total.GoalsAgainst += r.GoalsAgainst
	}
	return total
}
