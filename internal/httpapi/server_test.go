package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-standings/internal/engine"
	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/matches"
	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/storage"
)

func seededDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	records := []model.MatchResult{
		{RoundLabel: "Round 1", HomeTeam: "Persib", AwayTeam: "Persija", HomeGoals: 2, AwayGoals: 0},
		{RoundLabel: "Round 1", HomeTeam: "Bali United", AwayTeam: "Borneo", HomeGoals: 1, AwayGoals: 1},
		{RoundLabel: "Round 2", HomeTeam: "Persija", AwayTeam: "Persib", HomeGoals: 1, AwayGoals: 1},
		{RoundLabel: "Round 2", HomeTeam: "Borneo", AwayTeam: "Bali United", HomeGoals: 0, AwayGoals: 1},
	}
	store, err := matches.NewStore(records)
	require.NoError(t, err)
	history, b, err := engine.Build(records, engine.WithLogger(logging.NewNop()))
	require.NoError(t, err)

	require.NoError(t, db.InsertMatches("test", store.Entries()))
	require.NoError(t, db.ReplaceSnapshots(history))
	require.NoError(t, db.ReplaceHeadToHead(b.Ledger().Records()))
	return db
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListRounds(t *testing.T) {
	h := NewRouter(seededDB(t), logging.NewNop())
	rec := get(t, h, "/rounds")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []storage.RoundSummary
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Round 2", body[1].Round)
	assert.Equal(t, "Persib", body[1].Leader)
	assert.Equal(t, 4, body[1].LeaderPoints)
}

func TestRoundByLabelAndNumber(t *testing.T) {
	h := NewRouter(seededDB(t), logging.NewNop())

	for _, path := range []string{"/rounds/Round%201", "/rounds/1"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var snap model.RoundSnapshot
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, "Round 1", snap.Round, path)
		require.Len(t, snap.Table, 4, path)
		assert.Equal(t, "Persib", snap.Table[0].Team, path)
	}

	rec := get(t, h, "/rounds/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown round")
}

func TestLatest(t *testing.T) {
	h := NewRouter(seededDB(t), logging.NewNop())
	rec := get(t, h, "/rounds/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.RoundSnapshot
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "Round 2", snap.Round)
	assert.Equal(t, 4, snap.Matches)
}

func TestLatest_Empty(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewRouter(db, logging.NewNop())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/rounds/latest").Code)

	rec := get(t, h, "/rounds")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHeadToHead(t *testing.T) {
	h := NewRouter(seededDB(t), logging.NewNop())
	rec := get(t, h, "/h2h/persib/persija")
	require.Equal(t, http.StatusOK, rec.Code)

	var body headToHeadResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Persib", body.Record.Team)
	assert.Equal(t, 2, body.Record.Meetings)
	assert.Equal(t, 4, body.Record.Points)
	assert.Equal(t, 1, body.Reverse.Points)
	assert.Len(t, body.Meetings, 2)

	rec = get(t, h, "/h2h/Persib/Borneo")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	h := NewRouter(seededDB(t), logging.NewNop())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/teams").Code)

	req := httptest.NewRequest(http.MethodPost, "/rounds", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

type failingSource struct{ Source }

func (failingSource) ListRounds() ([]storage.RoundSummary, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrorHidesDetail(t *testing.T) {
	h := NewRouter(failingSource{}, logging.NewNop())
	rec := get(t, h, "/rounds")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}
