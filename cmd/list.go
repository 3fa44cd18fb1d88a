package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/report"
)

var (
	listRound string
	listTeam  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listRound, "round", "", "only show matches with this round label")
	listCmd.Flags().StringVar(&listTeam, "team", "", "only show matches involving this team")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	ms, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(ms) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'standings ingest <results.json>' to add some.")
		return nil
	}

	ms = filterMatches(ms, listRound, listTeam)
	if len(ms) == 0 {
		fmt.Fprintln(os.Stderr, "No matches match the given filters.")
		return nil
	}
	report.PrintMatches(os.Stdout, ms)
	fmt.Fprintf(os.Stdout, "\n(%d matches)\n", len(ms))
	return nil
}

// filterMatches applies --round and --team filters, both case-insensitive.
func filterMatches(ms []model.MatchResult, round, team string) []model.MatchResult {
	var out []model.MatchResult
	for _, m := range ms {
		if round != "" && !strings.EqualFold(m.RoundLabel, round) {
			continue
		}
		if team != "" && !strings.EqualFold(m.HomeTeam, team) && !strings.EqualFold(m.AwayTeam, team) {
			continue
		}
		out = append(out, m)
	}
	return out
}
