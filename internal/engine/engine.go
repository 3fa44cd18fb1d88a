// Package engine replays finished matches in round order and freezes a ranked
// table at every round boundary.
package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/pable/go-league-standings/internal/aggregator"
	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/matches"
	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/tiebreak"
)

// Option configures a Builder.
type Option func(*Builder)

// WithFairPlay sets the card weighting used for the fair-play score.
func WithFairPlay(p model.FairPlayPolicy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithLogger sets the logger used for per-round debug output.
func WithLogger(l *logging.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// Builder owns the accumulator and ledger for one run. Matches are added in
// round order; a snapshot is emitted each time the round label changes and
// once more on Finish. A Builder is single-use and not safe for concurrent
// use.
type Builder struct {
	policy model.FairPlayPolicy
	log    *logging.Logger

	acc    *aggregator.Accumulator
	ledger *aggregator.Ledger

	round   string
	order   int
	open    bool // a round has matches not yet snapshotted
	folded  int
	history []model.RoundSnapshot
	done    bool
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{policy: model.DefaultFairPlay}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logging.Default()
	}
	b.acc = aggregator.NewAccumulator(b.policy)
	b.ledger = aggregator.NewLedger()
	return b
}

// Add validates m and folds it. When m starts a new round, the previous round
// is snapshotted first. A match whose round sorts at or before an already
// started different round is rejected with ErrOutOfOrderRound and nothing is
// folded.
func (b *Builder) Add(m model.MatchResult) error {
	if b.done {
		return errors.New("builder already finished")
	}
	if err := matches.Validate(m); err != nil {
		return err
	}
	order, err := matches.ParseRoundOrder(m.RoundLabel)
	if err != nil {
		return err
	}

	if b.open && m.RoundLabel != b.round {
		if order <= b.order {
			return errors.Wrapf(model.ErrOutOfOrderRound,
				"%q (order %d) after %q (order %d): %s vs %s",
				m.RoundLabel, order, b.round, b.order, m.HomeTeam, m.AwayTeam)
		}
		if err := b.emit(); err != nil {
			return err
		}
	} else if !b.open && len(b.history) > 0 && order <= b.order {
		return errors.Wrapf(model.ErrOutOfOrderRound,
			"%q (order %d) after emitted %q (order %d)", m.RoundLabel, order, b.round, b.order)
	}

	b.round, b.order, b.open = m.RoundLabel, order, true
	b.acc.Apply(m)
	b.ledger.Record(m)
	b.folded++
	return nil
}

// Flush snapshots the round in progress, if any. Further matches must belong
// to a later round.
func (b *Builder) Flush() error {
	if !b.open {
		return nil
	}
	return b.emit()
}

// Finish flushes the last round and returns the snapshot history in round
// order. The builder accepts no further matches.
func (b *Builder) Finish() ([]model.RoundSnapshot, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}
	b.done = true
	return b.History(), nil
}

// History returns a copy of the snapshots emitted so far.
func (b *Builder) History() []model.RoundSnapshot {
	out := make([]model.RoundSnapshot, len(b.history))
	copy(out, b.history)
	return out
}

// Ledger exposes the season head-to-head ledger. Callers must not record
// into it.
func (b *Builder) Ledger() *aggregator.Ledger { return b.ledger }

// Team returns a team's current cumulative record.
func (b *Builder) Team(name string) (model.TeamStats, bool) { return b.acc.Team(name) }

func (b *Builder) emit() error {
	rows, err := tiebreak.Resolve(b.acc.Snapshot(), b.ledger)
	if err != nil {
		return errors.Wrapf(err, "resolve %q", b.round)
	}
	b.history = append(b.history, model.RoundSnapshot{
		Round:   b.round,
		Order:   b.order,
		Matches: b.folded,
		Table:   rows,
	})
	b.open = false
	b.log.Debug("round snapshot", "round", b.round, "teams", len(rows), "matches", b.folded)
	return nil
}

// Build sorts records by round through a matches.Store and replays them,
// returning one snapshot per round. The builder is returned for ledger
// queries on the full season.
func Build(records []model.MatchResult, opts ...Option) ([]model.RoundSnapshot, *Builder, error) {
	store, err := matches.NewStore(records)
	if err != nil {
		return nil, nil, err
	}
	b := NewBuilder(opts...)
	for i, m := range store.All() {
		if err := b.Add(m); err != nil {
			return nil, nil, errors.Wrapf(err, "replay match %d", i)
		}
	}
	history, err := b.Finish()
	if err != nil {
		return nil, nil, err
	}
	return history, b, nil
}
