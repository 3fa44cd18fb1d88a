package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchResultOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		home, away int
		wantHome   Result
		wantAway   Result
	}{
		{"home win", 2, 0, ResultWin, ResultLoss},
		{"away win", 1, 3, ResultLoss, ResultWin},
		{"draw", 1, 1, ResultDraw, ResultDraw},
		{"goalless", 0, 0, ResultDraw, ResultDraw},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := MatchResult{HomeTeam: "A", AwayTeam: "B", HomeGoals: tc.home, AwayGoals: tc.away}
			assert.Equal(t, tc.wantHome, m.HomeResult())
			assert.Equal(t, tc.wantAway, m.AwayResult())
		})
	}
}

func TestResultPoints(t *testing.T) {
	assert.Equal(t, 3, ResultWin.Points())
	assert.Equal(t, 1, ResultDraw.Points())
	assert.Equal(t, 0, ResultLoss.Points())
	assert.Equal(t, "W", ResultWin.String())
}

func TestFairPlayPolicy(t *testing.T) {
	assert.Equal(t, 2+3*1, DefaultFairPlay.Score(2, 1))
	reds := FairPlayPolicy{YellowWeight: 0, RedWeight: 1}
	assert.Equal(t, 2, reds.Score(5, 2))
}

func TestRoundSnapshotLookups(t *testing.T) {
	s := RoundSnapshot{Round: "Round 1", Table: []TableRow{
		{Rank: 1, Team: "A", Points: 3},
		{Rank: 2, Team: "B"},
	}}

	lead, ok := s.Leader()
	assert.True(t, ok)
	assert.Equal(t, "A", lead.Team)

	row, ok := s.Row("B")
	assert.True(t, ok)
	assert.Equal(t, 2, row.Rank)

	_, ok = s.Row("C")
	assert.False(t, ok)

	_, ok = RoundSnapshot{}.Leader()
	assert.False(t, ok)
}
