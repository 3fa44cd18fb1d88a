package matches

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-standings/internal/model"
)

func match(round, home, away string, hg, ag int) model.MatchResult {
	return model.MatchResult{RoundLabel: round, HomeTeam: home, AwayTeam: away, HomeGoals: hg, AwayGoals: ag}
}

func TestParseRoundOrder(t *testing.T) {
	cases := map[string]int{
		"Round 7":      7,
		"Matchday 12":  12,
		"Round 07":     7,
		"34":           34,
		"Week 3 (rep)": 3,
	}
	for label, want := range cases {
		got, err := ParseRoundOrder(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}
}

func TestParseRoundOrder_Malformed(t *testing.T) {
	for _, label := range []string{"", "Final", "Round seven", "Round 99999999999999999999999"} {
		_, err := ParseRoundOrder(label)
		require.Error(t, err, label)
		assert.True(t, errors.Is(err, model.ErrMalformedRoundLabel), label)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(match("Round 1", "A", "B", 0, 0)))

	bad := []model.MatchResult{
		match("Round 1", "", "B", 1, 0),
		match("Round 1", "A", "", 1, 0),
		match("", "A", "B", 1, 0),
		match("Round 1", "A", "A", 1, 0),
		match("Round 1", "A", "B", -1, 0),
		{RoundLabel: "Round 1", HomeTeam: "A", AwayTeam: "B", AwayRedCards: -2},
	}
	for _, m := range bad {
		err := Validate(m)
		require.Error(t, err, "%+v", m)
		assert.True(t, errors.Is(err, model.ErrIncompleteMatchRecord), "%+v", m)
	}
}

func TestNewStore_SortsByRoundKeepingInputOrder(t *testing.T) {
	s, err := NewStore([]model.MatchResult{
		match("Round 10", "E", "F", 1, 0),
		match("Round 2", "A", "B", 1, 0),
		match("Round 9", "C", "D", 2, 2),
		match("Round 2", "C", "D", 0, 3),
	})
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())

	all := s.All()
	assert.Equal(t, "A", all[0].HomeTeam)
	assert.Equal(t, "C", all[1].HomeTeam)
	assert.Equal(t, "Round 2", all[1].RoundLabel)
	assert.Equal(t, "Round 9", all[2].RoundLabel)
	assert.Equal(t, "Round 10", all[3].RoundLabel)

	assert.Equal(t, []string{"Round 2", "Round 9", "Round 10"}, s.Rounds())
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, s.Teams())
	assert.Equal(t, 10, s.Entries()[3].Order)
}

func TestNewStore_RejectsWholeInput(t *testing.T) {
	_, err := NewStore([]model.MatchResult{
		match("Round 1", "A", "B", 1, 0),
		match("Cup final", "C", "D", 1, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedRoundLabel))
	assert.Contains(t, err.Error(), "match 1")

	_, err = NewStore([]model.MatchResult{match("Round 1", "A", "", 1, 0)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrIncompleteMatchRecord))
}
