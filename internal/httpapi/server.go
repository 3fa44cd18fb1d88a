// Package httpapi serves stored standings as read-only JSON.
//
//	GET /rounds                    round list with leaders
//	GET /rounds/latest             latest snapshot
//	GET /rounds/{round}            snapshot by label ("Round 7") or number ("7")
//	GET /h2h/{team}/{opponent}     pairwise record and meetings
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"

	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/storage"
)

// Source is the read side of the standings store.
type Source interface {
	ListRounds() ([]storage.RoundSummary, error)
	GetSnapshot(round string) (*model.RoundSnapshot, error)
	GetSnapshotByOrder(order int) (*model.RoundSnapshot, error)
	LatestSnapshot() (*model.RoundSnapshot, error)
	GetHeadToHead(team, opponent string) (*model.HeadToHeadRecord, error)
	MatchesBetween(a, b string) ([]model.MatchResult, error)
}

type handler struct {
	src Source
	log *logging.Logger
}

// NewRouter returns the routes for src.
func NewRouter(src Source, log *logging.Logger) http.Handler {
	if log == nil {
		log = logging.Default()
	}
	h := &handler{src: src, log: log}

	r := mux.NewRouter()
	r.Use(h.logRequests)
	api := r.Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/rounds", h.listRounds)
	api.HandleFunc("/rounds/latest", h.latest)
	api.HandleFunc("/rounds/{round}", h.round)
	api.HandleFunc("/h2h/{team}/{opponent}", h.headToHead)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

type headToHeadResponse struct {
	Record   model.HeadToHeadRecord `json:"record"`
	Reverse  model.HeadToHeadRecord `json:"reverse"`
	Meetings []model.MatchResult    `json:"meetings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.src.ListRounds()
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if rounds == nil {
		rounds = []storage.RoundSummary{}
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (h *handler) latest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.src.LatestSnapshot()
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "no rounds stored")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// round resolves the path segment as an exact label first, then as a bare
// round number.
func (h *handler) round(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["round"]

	snap, err := h.src.GetSnapshot(label)
	if err == nil && snap == nil {
		if n, convErr := strconv.Atoi(label); convErr == nil {
			snap, err = h.src.GetSnapshotByOrder(n)
		}
	}
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown round "+strconv.Quote(label))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) headToHead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team, opp := vars["team"], vars["opponent"]

	rec, err := h.src.GetHeadToHead(team, opp)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, team+" and "+opp+" have not met")
		return
	}
	rev, err := h.src.GetHeadToHead(rec.Opponent, rec.Team)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	meetings, err := h.src.MatchesBetween(rec.Team, rec.Opponent)
	if err != nil {
		h.internal(w, r, err)
		return
	}

	resp := headToHeadResponse{Record: *rec, Meetings: meetings}
	if rev != nil {
		resp.Reverse = *rev
	}
	if resp.Meetings == nil {
		resp.Meetings = []model.MatchResult{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) internal(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
