package engine

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/model"
)

func m(round, home, away string, hg, ag int) model.MatchResult {
	return model.MatchResult{RoundLabel: round, HomeTeam: home, AwayTeam: away, HomeGoals: hg, AwayGoals: ag}
}

// season is a four-team double round robin cut after five rounds, given out
// of round order.
func season() []model.MatchResult {
	return []model.MatchResult{
		m("Round 3", "Persib", "Bali", 1, 1),
		m("Round 3", "Borneo", "Persija", 0, 2),
		m("Round 1", "Persib", "Borneo", 2, 1),
		m("Round 1", "Persija", "Bali", 0, 0),
		m("Round 2", "Bali", "Borneo", 1, 3),
		m("Round 2", "Persija", "Persib", 1, 1),
		m("Round 10", "Borneo", "Persib", 1, 1),
		m("Round 10", "Bali", "Persija", 2, 0),
		m("Round 5", "Bali", "Persib", 0, 2),
		m("Round 5", "Persija", "Borneo", 1, 1),
	}
}

func teamOrder(s model.RoundSnapshot) []string {
	out := make([]string, len(s.Table))
	for i, r := range s.Table {
		out[i] = r.Team
	}
	return out
}

func TestBuild_OneSnapshotPerRound(t *testing.T) {
	history, b, err := Build(season())
	require.NoError(t, err)
	require.NotNil(t, b)

	labels := make([]string, len(history))
	for i, s := range history {
		labels[i] = s.Round
	}
	assert.Equal(t, []string{"Round 1", "Round 2", "Round 3", "Round 5", "Round 10"}, labels)
	assert.Equal(t, []int{1, 2, 3, 5, 10}, []int{history[0].Order, history[1].Order, history[2].Order, history[3].Order, history[4].Order})
	assert.Equal(t, 2, history[0].Matches)
	assert.Equal(t, 10, history[4].Matches)
}

func TestBuild_RanksAndPointsInvariants(t *testing.T) {
	history, _, err := Build(season())
	require.NoError(t, err)

	for _, s := range history {
		require.Len(t, s.Table, 4, s.Round)
		for i, r := range s.Table {
			assert.Equal(t, i+1, r.Rank, s.Round)
			assert.Equal(t, 3*r.Won+r.Drawn, r.Points, "%s %s", s.Round, r.Team)
			assert.Equal(t, r.GoalsFor-r.GoalsAgainst, r.GoalDiff, "%s %s", s.Round, r.Team)
		}
	}
}

func TestBuild_TableGrowsWithTeamsSeen(t *testing.T) {
	history, _, err := Build([]model.MatchResult{
		m("Round 1", "A", "B", 1, 0),
		m("Round 2", "C", "D", 2, 0),
		m("Round 2", "A", "C", 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Len(t, history[0].Table, 2)
	assert.Len(t, history[1].Table, 4)
}

func TestBuild_PlayedIsMonotonic(t *testing.T) {
	history, _, err := Build(season())
	require.NoError(t, err)

	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		for _, r := range cur.Table {
			p, ok := prev.Row(r.Team)
			require.True(t, ok)
			assert.GreaterOrEqual(t, r.Played, p.Played)
		}
	}
	// Everyone plays once per round here.
	last := history[len(history)-1]
	for _, r := range last.Table {
		assert.Equal(t, 5, r.Played, r.Team)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	first, _, err := Build(season())
	require.NoError(t, err)
	second, _, err := Build(season())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_ExpectedTables(t *testing.T) {
	history, b, err := Build(season())
	require.NoError(t, err)

	// Round 1: Persib W 2-1, Persija and Bali 0-0 draw, Borneo L.
	assert.Equal(t, []string{"Persib", "Bali", "Persija", "Borneo"}, teamOrder(history[0]))

	// Round 10: Persib 9, Persija 6, Borneo 5, Bali 5. Borneo and Bali have
	// both played five and met once; Borneo won 3-1 so goes above despite
	// the level points.
	final := history[len(history)-1]
	assert.Equal(t, []string{"Persib", "Persija", "Borneo", "Bali"}, teamOrder(final))

	persib, ok := b.Team("Persib")
	require.True(t, ok)
	assert.Equal(t, 9, persib.Points)
	assert.Equal(t, "WDDWD", persib.Form)

	assert.Equal(t, 2, b.Ledger().Meetings("Bali", "Persija"))
}

func TestBuild_HeadToHeadMidSeason(t *testing.T) {
	// A and B both reach 10 points from five games. B has the better goal
	// difference but A won their only meeting 2-1.
	history, _, err := Build([]model.MatchResult{
		m("Round 1", "B", "A", 1, 2),
		m("Round 2", "B", "C", 3, 0),
		m("Round 2", "A", "D", 1, 1),
		m("Round 3", "B", "D", 3, 1),
		m("Round 3", "A", "C", 2, 0),
		m("Round 4", "B", "E", 1, 1),
		m("Round 4", "A", "F", 3, 1),
		m("Round 5", "A", "E", 0, 1),
		m("Round 5", "B", "F", 4, 0),
	})
	require.NoError(t, err)
	final := history[len(history)-1]

	a, _ := final.Row("A")
	bRow, _ := final.Row("B")
	require.Equal(t, 10, a.Points)
	require.Equal(t, 10, bRow.Points)
	require.Greater(t, bRow.GoalDiff, a.GoalDiff)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 2, bRow.Rank)
}

// ---- Failure modes ----

func TestBuilder_OutOfOrderRound(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(m("Round 2", "A", "B", 1, 0)))
	require.NoError(t, b.Add(m("Round 3", "C", "D", 1, 0)))

	err := b.Add(m("Round 2", "A", "C", 1, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOutOfOrderRound))

	// The emitted round is untouched and nothing was folded.
	h := b.History()
	require.Len(t, h, 1)
	assert.Len(t, h[0].Table, 2)
	a, _ := b.Team("A")
	assert.Equal(t, 1, a.Played)
}

func TestBuilder_SameOrderDifferentLabel(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(m("Round 7", "A", "B", 1, 0)))
	err := b.Add(m("Matchday 7", "C", "D", 1, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOutOfOrderRound))
}

func TestBuilder_CannotReopenFlushedRound(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(m("Round 1", "A", "B", 1, 0)))
	require.NoError(t, b.Flush())
	require.NoError(t, b.Flush())

	err := b.Add(m("Round 1", "C", "D", 1, 0))
	assert.True(t, errors.Is(err, model.ErrOutOfOrderRound))

	require.NoError(t, b.Add(m("Round 2", "C", "D", 1, 0)))
	history, err := b.Finish()
	require.NoError(t, err)
	assert.Len(t, history, 2)

	assert.Error(t, b.Add(m("Round 3", "A", "D", 1, 0)))
}

func TestBuilder_RejectsBadRecords(t *testing.T) {
	b := NewBuilder()
	err := b.Add(m("Round 1", "A", "", 1, 0))
	assert.True(t, errors.Is(err, model.ErrIncompleteMatchRecord))

	err = b.Add(m("Final", "A", "B", 1, 0))
	assert.True(t, errors.Is(err, model.ErrMalformedRoundLabel))

	history, err := b.Finish()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBuild_PropagatesStoreErrors(t *testing.T) {
	_, _, err := Build([]model.MatchResult{m("Round 1", "A", "B", 1, 0), m("Round x", "A", "B", 1, 0)})
	assert.True(t, errors.Is(err, model.ErrMalformedRoundLabel))

	_, _, err = Build([]model.MatchResult{m("Round 7", "A", "B", 1, 0), m("Matchday 7", "C", "D", 1, 0)})
	assert.True(t, errors.Is(err, model.ErrOutOfOrderRound))
}

func TestBuilder_FairPlayOption(t *testing.T) {
	b := NewBuilder(WithFairPlay(model.FairPlayPolicy{YellowWeight: 2, RedWeight: 5}))
	require.NoError(t, b.Add(model.MatchResult{
		RoundLabel: "Round 1", HomeTeam: "A", AwayTeam: "B",
		HomeYellowCards: 1, HomeRedCards: 1,
	}))
	history, err := b.Finish()
	require.NoError(t, err)
	row, ok := history[0].Row("A")
	require.True(t, ok)
	assert.Equal(t, 7, row.FairPlay)
	// Level on everything but cards: B has the cleaner record.
	assert.Equal(t, "B", history[0].Table[0].Team)
}

func TestBuilder_LogsSnapshots(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := NewBuilder(WithLogger(logging.FromZap(zap.New(core))))
	require.NoError(t, b.Add(m("Round 1", "A", "B", 1, 0)))
	_, err := b.Finish()
	require.NoError(t, err)

	entries := logs.FilterMessage("round snapshot").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Round 1", entries[0].ContextMap()["round"])
}
