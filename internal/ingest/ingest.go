// Package ingest turns a JSON results file into validated, normalized match
// records for the standings engine.
//
// Two shapes are accepted: a bare array of records, or an object with
// league, season and matches fields. Each record:
//
//	{"round": "Round 7", "home": "Persib", "away": "Borneo FC",
//	 "home_score": 3, "away_score": 1, "home_reds": 0, "away_reds": 1,
//	 "home_yellows": 2, "away_yellows": 4, "status": "FT"}
package ingest

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/matches"
	"github.com/pable/go-league-standings/internal/model"
)

var validate = validator.New()

// Record is one fixture as it appears in the input file.
type Record struct {
	Round       string `json:"round" validate:"required"`
	Home        string `json:"home" validate:"required"`
	Away        string `json:"away" validate:"required"`
	HomeScore   *int   `json:"home_score" validate:"required,min=0"`
	AwayScore   *int   `json:"away_score" validate:"required,min=0"`
	HomeYellows int    `json:"home_yellows" validate:"min=0"`
	HomeReds    int    `json:"home_reds" validate:"min=0"`
	AwayYellows int    `json:"away_yellows" validate:"min=0"`
	AwayReds    int    `json:"away_reds" validate:"min=0"`
	Status      string `json:"status,omitempty"`
}

// Finished reports whether the record carries a final score. An empty status
// is taken as finished.
func (r Record) Finished() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case "", "FT", "AET", "PEN", "FINISHED", "ENDED":
		return true
	}
	return false
}

type fileEnvelope struct {
	League  string   `json:"league"`
	Season  string   `json:"season"`
	Matches []Record `json:"matches"`
}

// Batch is the decoded content of one input file.
type Batch struct {
	League   string
	Season   string
	Matches  []model.MatchResult
	Skipped  int // unfinished fixtures left out
	Warnings []AliasWarning
}

// Options controls decoding.
type Options struct {
	Normalizer *Normalizer
	Logger     *logging.Logger
}

// LoadFile decodes the results file at path.
func LoadFile(path string, opts Options) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open results file")
	}
	defer f.Close()
	return Decode(f, opts)
}

// Decode reads a results document. Unfinished fixtures are skipped and
// logged; a finished fixture with a missing score or team fails the whole
// batch with model.ErrIncompleteMatchRecord.
func Decode(r io.Reader, opts Options) (*Batch, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read results")
	}
	data = bytes.TrimSpace(data)

	var env fileEnvelope
	switch {
	case len(data) == 0:
		return nil, errors.New("empty results document")
	case data[0] == '[':
		if err := sonic.Unmarshal(data, &env.Matches); err != nil {
			return nil, errors.Wrap(err, "decode results array")
		}
	default:
		if err := sonic.Unmarshal(data, &env); err != nil {
			return nil, errors.Wrap(err, "decode results object")
		}
	}

	batch := &Batch{League: env.League, Season: env.Season}
	seen := make(map[string]struct{})
	for i, rec := range env.Matches {
		if !rec.Finished() {
			batch.Skipped++
			log.Warn("skipping unfinished fixture", "index", i, "round", rec.Round,
				"home", rec.Home, "away", rec.Away, "status", rec.Status)
			continue
		}
		m, err := rec.toMatch(opts.Normalizer)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		seen[m.HomeTeam] = struct{}{}
		seen[m.AwayTeam] = struct{}{}
		batch.Matches = append(batch.Matches, m)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	batch.Warnings = SimilarNames(names)
	for _, w := range batch.Warnings {
		log.Warn("team names look alike; add an alias if they are the same club",
			"name", w.Name, "similar", w.Similar)
	}
	return batch, nil
}

func (r Record) toMatch(n *Normalizer) (model.MatchResult, error) {
	if err := validate.Struct(r); err != nil {
		return model.MatchResult{}, errors.Mark(
			errors.Wrapf(err, "round %q: %s vs %s", r.Round, r.Home, r.Away),
			model.ErrIncompleteMatchRecord,
		)
	}
	m := model.MatchResult{
		RoundLabel:      strings.TrimSpace(r.Round),
		HomeTeam:        n.Normalize(r.Home),
		AwayTeam:        n.Normalize(r.Away),
		HomeGoals:       *r.HomeScore,
		AwayGoals:       *r.AwayScore,
		HomeYellowCards: r.HomeYellows,
		HomeRedCards:    r.HomeReds,
		AwayYellowCards: r.AwayYellows,
		AwayRedCards:    r.AwayReds,
	}
	if err := matches.Validate(m); err != nil {
		return model.MatchResult{}, err
	}
	return m, nil
}

type fixtureKey struct{ round, home, away string }

// Merge overlays incoming on existing. A fixture already present (same round
// label, home and away team) is replaced in place; new fixtures are appended.
func Merge(existing, incoming []model.MatchResult) []model.MatchResult {
	out := append([]model.MatchResult(nil), existing...)
	idx := make(map[fixtureKey]int, len(out))
	for i, m := range out {
		idx[fixtureKey{m.RoundLabel, m.HomeTeam, m.AwayTeam}] = i
	}
	for _, m := range incoming {
		k := fixtureKey{m.RoundLabel, m.HomeTeam, m.AwayTeam}
		if i, ok := idx[k]; ok {
			out[i] = m
			continue
		}
		idx[k] = len(out)
		out = append(out, m)
	}
	return out
}

// Changed returns the incoming entries that are not already in existing with
// the same score and cards, in input order.
func Changed(existing []model.MatchResult, incoming []matches.Entry) []matches.Entry {
	stored := make(map[fixtureKey]model.MatchResult, len(existing))
	for _, m := range existing {
		stored[fixtureKey{m.RoundLabel, m.HomeTeam, m.AwayTeam}] = m
	}
	var out []matches.Entry
	for _, e := range incoming {
		m := e.Match
		if old, ok := stored[fixtureKey{m.RoundLabel, m.HomeTeam, m.AwayTeam}]; ok && old == m {
			continue
		}
		out = append(out, e)
	}
	return out
}
