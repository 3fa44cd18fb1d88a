package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/report"
)

// roundsCmd lists every stored round snapshot with its leader.
var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List stored rounds and their leaders",
	Args:  cobra.NoArgs,
	RunE:  runRounds,
}

func runRounds(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	rounds, err := db.ListRounds()
	if err != nil {
		return fmt.Errorf("list rounds: %w", err)
	}
	if len(rounds) == 0 {
		fmt.Fprintln(os.Stdout, "No rounds stored yet. Run 'standings ingest <results.json>' to add some.")
		return nil
	}
	report.PrintRounds(os.Stdout, rounds)
	return nil
}
