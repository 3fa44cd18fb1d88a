package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/report"
	"github.com/pable/go-league-standings/internal/storage"
)

// h2hCmd prints the season record between two teams.
var h2hCmd = &cobra.Command{
	Use:   "h2h <team> <opponent>",
	Short: "Head-to-head record between two teams",
	Long: `Print both teams' record against each other over every stored meeting,
followed by the individual results. Names are matched case-insensitively;
quote names that contain spaces.`,
	Args: cobra.ExactArgs(2),
	RunE: runH2H,
}

func runH2H(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()
	return printHeadToHead(db, args[0], args[1])
}

func printHeadToHead(db *storage.DB, team, opponent string) error {
	rec, err := db.GetHeadToHead(team, opponent)
	if err != nil {
		return fmt.Errorf("query head-to-head: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "%s and %s have not met\n", team, opponent)
		return nil
	}
	rev, err := db.GetHeadToHead(rec.Opponent, rec.Team)
	if err != nil {
		return fmt.Errorf("query head-to-head: %w", err)
	}
	meetings, err := db.MatchesBetween(rec.Team, rec.Opponent)
	if err != nil {
		return fmt.Errorf("query meetings: %w", err)
	}
	if rev == nil {
		return fmt.Errorf("head-to-head for %s vs %s is stored in one direction only", rec.Team, rec.Opponent)
	}
	report.PrintHeadToHead(os.Stdout, *rec, *rev, meetings)
	return nil
}
