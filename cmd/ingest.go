package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/engine"
	"github.com/pable/go-league-standings/internal/ingest"
	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/matches"
	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/report"
	"github.com/pable/go-league-standings/internal/storage"
)

var (
	ingestAliases string
	ingestLeague  string
	ingestSeason  string
	ingestQuiet   bool
	ingestRebuild bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <results.json>",
	Short: "Validate and store match results, then recompute every round table",
	Long: `Reads a JSON results file (a bare array of fixtures, or an object with
league, season and matches), merges it with the matches already stored and
replays the whole season. Nothing is written unless every round replays
cleanly.

Stored round tables are history. A file that adds or changes a fixture in a
round at or before the latest stored round is rejected; pass --rebuild to
accept it and recompute those tables. Fixtures identical to stored ones are
ignored by this check.

Fixture fields: round, home, away, home_score, away_score, home_yellows,
home_reds, away_yellows, away_reds, status. Fixtures whose status is not
finished (FT, AET, PEN, FINISHED or empty) are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestAliases, "aliases", "", "YAML file mapping canonical team names to variants (default $STANDINGS_ALIASES_FILE)")
	ingestCmd.Flags().StringVar(&ingestLeague, "league", "", "league name stored with the standings")
	ingestCmd.Flags().StringVar(&ingestSeason, "season", "", "season label stored with the standings")
	ingestCmd.Flags().BoolVarP(&ingestQuiet, "quiet", "q", false, "do not print the latest table")
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "allow fixtures for rounds already stored and recompute their tables")
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Default()

	aliasPath := ingestAliases
	if aliasPath == "" {
		aliasPath = cfg.AliasesFile
	}
	var normalizer *ingest.Normalizer
	if aliasPath != "" {
		aliases, err := ingest.LoadAliases(aliasPath)
		if err != nil {
			return fmt.Errorf("load aliases: %w", err)
		}
		normalizer = ingest.NewNormalizer(aliases)
	}

	batch, err := ingest.LoadFile(args[0], ingest.Options{Normalizer: normalizer, Logger: log})
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := ingestBatch(db, batch, ingestOptions{
		League:  firstNonEmpty(ingestLeague, batch.League, cfg.League),
		Season:  firstNonEmpty(ingestSeason, batch.Season, cfg.Season),
		Rebuild: ingestRebuild,
		Policy:  cfg.FairPlay.Policy(),
		Log:     log,
	})
	if err != nil {
		return err
	}
	log.Info("ingested results", "file", args[0], "batch", res.BatchID,
		"matches", res.Stored, "skipped", batch.Skipped, "rounds", len(res.History))

	fmt.Fprintf(os.Stdout, "Stored %d matches (%d skipped, %d total) across %d rounds.\n",
		res.Stored, batch.Skipped, res.Total, len(res.History))
	if ingestQuiet || len(res.History) == 0 {
		return nil
	}
	latest := res.History[len(res.History)-1]
	report.PrintSnapshotHeader(os.Stdout, latest)
	report.PrintTable(latest.Table, "")
	return nil
}

type ingestOptions struct {
	League  string
	Season  string
	Rebuild bool
	Policy  model.FairPlayPolicy
	Log     *logging.Logger
}

type ingestResult struct {
	BatchID string
	Stored  int
	Total   int
	History []model.RoundSnapshot
}

// ingestBatch merges batch into the stored season, replays it and saves the
// result in one transaction.
func ingestBatch(db *storage.DB, batch *ingest.Batch, opts ingestOptions) (*ingestResult, error) {
	incoming, err := matches.NewStore(batch.Matches)
	if err != nil {
		return nil, fmt.Errorf("validate results: %w", err)
	}
	existing, err := db.ListMatches()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	latest, err := db.LatestSnapshot()
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	if latest != nil {
		if rounds := storedRounds(ingest.Changed(existing, incoming.Entries()), latest.Order); len(rounds) > 0 {
			if !opts.Rebuild {
				return nil, fmt.Errorf("%s already stored (latest %q), re-run with --rebuild to recompute: %w",
					strings.Join(rounds, ", "), latest.Round, model.ErrOutOfOrderRound)
			}
			opts.Log.Warn("rebuilding stored rounds", "rounds", rounds, "latest", latest.Round)
		}
	}

	history, builder, err := engine.Build(
		ingest.Merge(existing, batch.Matches),
		engine.WithFairPlay(opts.Policy),
		engine.WithLogger(opts.Log),
	)
	if err != nil {
		return nil, fmt.Errorf("replay season: %w", err)
	}

	batchID := uuid.NewString()
	err = db.SaveSeason(storage.Season{
		BatchID:    batchID,
		Entries:    incoming.Entries(),
		History:    history,
		HeadToHead: builder.Ledger().Records(),
		Meta:       map[string]string{storage.MetaLeague: opts.League, storage.MetaSeason: opts.Season},
	})
	if err != nil {
		return nil, fmt.Errorf("store season: %w", err)
	}

	total, err := db.MatchCount()
	if err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}
	return &ingestResult{BatchID: batchID, Stored: incoming.Len(), Total: total, History: history}, nil
}

// storedRounds lists the distinct round labels among entries whose order is
// at or before latest. entries must be in round order.
func storedRounds(entries []matches.Entry, latest int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Order > latest || seen[e.Match.RoundLabel] {
			continue
		}
		seen[e.Match.RoundLabel] = true
		out = append(out, e.Match.RoundLabel)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
