package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/report"
	"github.com/pable/go-league-standings/internal/storage"
)

var (
	exportOut    string
	exportLeague string
	exportSeason string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every round's table as a JSON standings document",
	Long: `Writes the stored round snapshots as one JSON document:

  {
    "league": "...", "season": "...", "generated_at": "...",
    "note": "<ranking order>", "total_matches": 306,
    "standings": [{"round": "Round 1", "table": [...]}, ...]
  }

League and season default to the values recorded at ingest time.

Example:
  standings export --out perweek.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportLeague, "league", "", "override the stored league name")
	exportCmd.Flags().StringVar(&exportSeason, "season", "", "override the stored season label")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := loadHistory(db)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(os.Stderr, "No rounds stored yet. Run 'standings ingest <results.json>' to add some.")
		return nil
	}

	league, err := metaOr(db, storage.MetaLeague, exportLeague, cfg.League)
	if err != nil {
		return err
	}
	season, err := metaOr(db, storage.MetaSeason, exportSeason, cfg.Season)
	if err != nil {
		return err
	}
	doc := report.NewDocument(league, season, history, time.Now())

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteDocument(w, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rounds to %s\n", len(doc.Standings), exportOut)
	}
	return nil
}

// loadHistory reads every stored snapshot in round order.
func loadHistory(db *storage.DB) ([]model.RoundSnapshot, error) {
	rounds, err := db.ListRounds()
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	history := make([]model.RoundSnapshot, 0, len(rounds))
	for _, r := range rounds {
		snap, err := db.GetSnapshot(r.Round)
		if err != nil {
			return nil, fmt.Errorf("get snapshot %s: %w", r.Round, err)
		}
		if snap != nil {
			history = append(history, *snap)
		}
	}
	return history, nil
}

// metaOr returns override if set, then the stored meta value, then fallback.
func metaOr(db *storage.DB, key, override, fallback string) (string, error) {
	if override != "" {
		return override, nil
	}
	v, err := db.GetMeta(key)
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return firstNonEmpty(v, fallback), nil
}
