// Package tiebreak ranks a league table from accumulated team statistics.
//
// Teams are ordered by points. Within a group level on points, head-to-head
// results between the group's members decide the order, but only when the
// group is eligible: every member has played the same number of matches and
// every pair of members has met the same, non-zero number of times. When
// head-to-head separates some members but not others, the still-level subset
// is compared again using only the matches among themselves. A subset that
// head-to-head cannot split at all falls back to overall goal difference,
// goals scored and fair-play score.
package tiebreak

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/pable/go-league-standings/internal/model"
)

// HeadToHead is the read side of the season head-to-head ledger.
type HeadToHead interface {
	// Meetings returns how many times a and b have played each other.
	Meetings(a, b string) int
	// Against sums team's records against the other members of group.
	Against(team string, group []string) model.HeadToHeadRecord
}

// Resolve returns the ranked table for stats. Ranks start at 1 and are
// contiguous. stats is not modified.
func Resolve(stats []model.TeamStats, h2h HeadToHead) ([]model.TableRow, error) {
	seen := make(map[string]struct{}, len(stats))
	for _, s := range stats {
		if _, dup := seen[s.Team]; dup {
			return nil, errors.AssertionFailedf("team %q appears twice in standings input", s.Team)
		}
		seen[s.Team] = struct{}{}
	}

	ordered := make([]model.TeamStats, len(stats))
	copy(ordered, stats)
	sort.SliceStable(ordered, func(i, j int) bool { return overallLess(ordered[i], ordered[j]) })

	out := make([]model.TeamStats, 0, len(ordered))
	for start := 0; start < len(ordered); {
		end := start + 1
		for end < len(ordered) && ordered[end].Points == ordered[start].Points {
			end++
		}
		group := ordered[start:end]
		if len(group) > 1 && Eligible(group, h2h) {
			group = resolveHeadToHead(group, h2h)
		}
		out = append(out, group...)
		start = end
	}
	if len(out) != len(stats) {
		return nil, errors.AssertionFailedf("resolved %d teams from %d", len(out), len(stats))
	}

	rows := make([]model.TableRow, len(out))
	for i, s := range out {
		rows[i] = model.RowFromStats(s)
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Eligible reports whether head-to-head may be used to order group: all
// members have the same played count and every pair has met the same
// positive number of times.
func Eligible(group []model.TeamStats, h2h HeadToHead) bool {
	if len(group) < 2 {
		return false
	}
	played := group[0].Played
	for _, s := range group[1:] {
		if s.Played != played {
			return false
		}
	}
	meetings := h2h.Meetings(group[0].Team, group[1].Team)
	if meetings == 0 {
		return false
	}
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			if h2h.Meetings(group[i].Team, group[j].Team) != meetings {
				return false
			}
		}
	}
	return true
}

// overallLess is the season-wide order: points, goal difference and goals
// scored descending, then fair-play score ascending. Team name keeps the
// order total when every criterion is level.
func overallLess(a, b model.TeamStats) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDiff != b.GoalDiff {
		return a.GoalDiff > b.GoalDiff
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	if a.FairPlay != b.FairPlay {
		return a.FairPlay < b.FairPlay
	}
	return a.Team < b.Team
}

type h2hKey struct {
	points, goalDiff, goalsFor int
}

func (k h2hKey) better(o h2hKey) bool {
	if k.points != o.points {
		return k.points > o.points
	}
	if k.goalDiff != o.goalDiff {
		return k.goalDiff > o.goalDiff
	}
	return k.goalsFor > o.goalsFor
}

type keyedTeam struct {
	stats model.TeamStats
	key   h2hKey
}

// resolveHeadToHead orders subset by results among its own members. Runs
// still level are resolved recursively over the smaller run; a run that spans
// the whole subset cannot shrink further and takes the overall order.
func resolveHeadToHead(subset []model.TeamStats, h2h HeadToHead) []model.TeamStats {
	names := make([]string, len(subset))
	for i, s := range subset {
		names[i] = s.Team
	}

	keyed := make([]keyedTeam, len(subset))
	for i, s := range subset {
		r := h2h.Against(s.Team, names)
		keyed[i] = keyedTeam{stats: s, key: h2hKey{r.Points, r.GoalDiff(), r.GoalsFor}}
	}
	sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].key.better(keyed[j].key) })

	out := make([]model.TeamStats, 0, len(subset))
	for start := 0; start < len(keyed); {
		end := start + 1
		for end < len(keyed) && keyed[end].key == keyed[start].key {
			end++
		}
		run := make([]model.TeamStats, 0, end-start)
		for _, k := range keyed[start:end] {
			run = append(run, k.stats)
		}
		switch {
		case len(run) == 1:
		case len(run) == len(subset):
			sort.SliceStable(run, func(i, j int) bool { return overallLess(run[i], run[j]) })
		default:
			run = resolveHeadToHead(run, h2h)
		}
		out = append(out, run...)
		start = end
	}
	return out
}
