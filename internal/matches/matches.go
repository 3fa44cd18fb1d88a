// Package matches validates and orders finished match records before they are
// replayed into standings.
package matches

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/pable/go-league-standings/internal/model"
)

var (
	validate     = validator.New()
	roundDigitRe = regexp.MustCompile(`\d+`)
)

// ParseRoundOrder derives the numeric ordering key from a round label, using
// the first run of digits in it ("Round 7" -> 7, "Matchday 12" -> 12).
func ParseRoundOrder(label string) (int, error) {
	digits := roundDigitRe.FindString(label)
	if digits == "" {
		return 0, errors.Wrapf(model.ErrMalformedRoundLabel, "no round number in %q", label)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "round label %q", label), model.ErrMalformedRoundLabel)
	}
	return n, nil
}

// Validate checks that m is a complete record: both teams named and distinct,
// a round label present, and no negative score or card count.
func Validate(m model.MatchResult) error {
	if err := validate.Struct(m); err != nil {
		return errors.Mark(
			errors.Wrapf(err, "round %q: %s vs %s", m.RoundLabel, m.HomeTeam, m.AwayTeam),
			model.ErrIncompleteMatchRecord,
		)
	}
	return nil
}

// Entry is a validated match together with its round ordering key.
type Entry struct {
	Match model.MatchResult
	Order int
}

// Store is an ordered, validated collection of match results.
type Store struct {
	entries []Entry
}

// NewStore validates every record and sorts them by round order. Records in
// the same round keep their input order. The first invalid record fails the
// whole store; nothing is partially accepted.
func NewStore(records []model.MatchResult) (*Store, error) {
	entries := make([]Entry, 0, len(records))
	for i, m := range records {
		if err := Validate(m); err != nil {
			return nil, errors.Wrapf(err, "match %d", i)
		}
		order, err := ParseRoundOrder(m.RoundLabel)
		if err != nil {
			return nil, errors.Wrapf(err, "match %d", i)
		}
		entries = append(entries, Entry{Match: m, Order: order})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return &Store{entries: entries}, nil
}

// Len returns the number of stored matches.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns the ordered entries. The slice must not be modified.
func (s *Store) Entries() []Entry { return s.entries }

// All returns the ordered match results.
func (s *Store) All() []model.MatchResult {
	out := make([]model.MatchResult, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Match
	}
	return out
}

// Rounds returns the distinct round labels in replay order.
func (s *Store) Rounds() []string {
	var out []string
	for i, e := range s.entries {
		if i == 0 || e.Match.RoundLabel != s.entries[i-1].Match.RoundLabel {
			out = append(out, e.Match.RoundLabel)
		}
	}
	return out
}

// Teams returns every team that appears in the store, sorted by name.
func (s *Store) Teams() []string {
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		seen[e.Match.HomeTeam] = struct{}{}
		seen[e.Match.AwayTeam] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
