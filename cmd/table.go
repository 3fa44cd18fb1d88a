package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/report"
	"github.com/pable/go-league-standings/internal/storage"
)

var tableTeam string

var tableCmd = &cobra.Command{
	Use:   "table [round]",
	Short: "Show the league table as of a round (default: latest)",
	Long: `Show the ranked table frozen at the end of a round. The round may be
given as its label ("Round 7") or its number ("7"). Without an argument the
latest stored round is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVar(&tableTeam, "team", "", "highlight this team's row")
}

func runTable(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	round := ""
	if len(args) == 1 {
		round = args[0]
	}
	snap, err := lookupSnapshot(db, round)
	if err != nil {
		return fmt.Errorf("query snapshot: %w", err)
	}
	if snap == nil {
		if round == "" {
			fmt.Fprintln(os.Stderr, "No rounds stored yet. Run 'standings ingest <results.json>' to add some.")
		} else {
			fmt.Fprintf(os.Stderr, "No round found matching %q\n", round)
		}
		return nil
	}

	report.PrintSnapshotHeader(os.Stdout, *snap)
	report.PrintTable(snap.Table, tableTeam)
	return nil
}

// lookupSnapshot resolves round as a label, then as a round number. An empty
// round means the latest snapshot.
func lookupSnapshot(db *storage.DB, round string) (*model.RoundSnapshot, error) {
	if round == "" {
		return db.LatestSnapshot()
	}
	snap, err := db.GetSnapshot(round)
	if err != nil || snap != nil {
		return snap, err
	}
	n, convErr := strconv.Atoi(round)
	if convErr != nil {
		return nil, nil
	}
	return db.GetSnapshotByOrder(n)
}
