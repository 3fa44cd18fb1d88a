package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the standings database",
	Long: `Run an arbitrary SQL query against the standings database and print results as a table.

Schema overview:
  meta(key, value)                      league, season
  matches(seq, batch_id, round_label, round_order, home_team, away_team,
    home_goals, away_goals, home_yellows, home_reds, away_yellows, away_reds)
  snapshots(round_label, round_order, matches)
  snapshot_rows(round_label, rank, team, played, won, drawn, lost, goals_for,
    goals_against, goal_diff, points, yellow_cards, red_cards, fair_play, form)
  head_to_head(team, opponent, meetings, won, drawn, lost, points,
    goals_for, goals_against)

Example:
  standings sql "SELECT team, points FROM snapshot_rows WHERE round_label = 'Round 5' ORDER BY rank"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	printRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

// printRaw renders QueryRaw output as a table.
func printRaw(w io.Writer, cols []string, rows [][]string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

