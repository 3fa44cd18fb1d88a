package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-league-standings/internal/model"
	"github.com/pable/go-league-standings/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSnapshotHeader prints a one-line header for a round snapshot.
func PrintSnapshotHeader(w io.Writer, s model.RoundSnapshot) {
	leader := "—"
	if row, ok := s.Leader(); ok {
		leader = fmt.Sprintf("%s (%d pts)", row.Team, row.Points)
	}
	fmt.Fprintf(w, "\nRound: %s  |  Matches: %d  |  Teams: %d  |  Leader: %s\n\n",
		s.Round, s.Matches, len(s.Table), leader)
}

// PrintTable prints a ranked league table to stdout.
// If focus is non-empty, that team's row is marked with ">".
func PrintTable(rows []model.TableRow, focus string) {
	PrintTableTo(os.Stdout, rows, focus)
}

// PrintTableTo writes the league table to the provided writer.
func PrintTableTo(w io.Writer, rows []model.TableRow, focus string) {
	table := newTable(w)
	table.Header(" ", "#", "TEAM", "P", "W", "D", "L", "GF", "GA", "GD", "PTS", "YC", "RC", "FP", "FORM")

	for _, r := range rows {
		marker := " "
		if focus != "" && r.Team == focus {
			marker = ">"
		}
		form := "—"
		if r.Form != "" {
			form = r.Form
		}
		table.Append(
			marker,
			strconv.Itoa(r.Rank),
			r.Team,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Drawn),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			signed(r.GoalDiff),
			strconv.Itoa(r.Points),
			strconv.Itoa(r.YellowCards),
			strconv.Itoa(r.RedCards),
			strconv.Itoa(r.FairPlay),
			form,
		)
	}
	table.Render()
}

// PrintRounds prints one line per stored round with its leader.
func PrintRounds(w io.Writer, rounds []storage.RoundSummary) {
	table := newTable(w)
	table.Header("ORDER", "ROUND", "MATCHES", "TEAMS", "LEADER", "PTS")
	for _, r := range rounds {
		table.Append(
			strconv.Itoa(r.Order),
			r.Round,
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Teams),
			r.Leader,
			strconv.Itoa(r.LeaderPoints),
		)
	}
	table.Render()
}

// PrintHeadToHead prints both directions of a pairwise record followed by
// the individual meetings.
func PrintHeadToHead(w io.Writer, rec, rev model.HeadToHeadRecord, meetings []model.MatchResult) {
	fmt.Fprintf(w, "\n%s vs %s  |  Meetings: %d\n\n", rec.Team, rec.Opponent, rec.Meetings)

	table := newTable(w)
	table.Header("TEAM", "W", "D", "L", "GF", "GA", "GD", "PTS")
	for _, r := range []model.HeadToHeadRecord{rec, rev} {
		table.Append(
			r.Team,
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Drawn),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			signed(r.GoalDiff()),
			strconv.Itoa(r.Points),
		)
	}
	table.Render()

	if len(meetings) > 0 {
		fmt.Fprintln(w)
		PrintMatches(w, meetings)
	}
}

// PrintMatches prints stored fixtures in replay order.
func PrintMatches(w io.Writer, ms []model.MatchResult) {
	table := newTable(w)
	table.Header("ROUND", "HOME", "SCORE", "AWAY", "CARDS (H)", "CARDS (A)")
	for _, m := range ms {
		table.Append(
			m.RoundLabel,
			m.HomeTeam,
			fmt.Sprintf("%d – %d", m.HomeGoals, m.AwayGoals),
			m.AwayTeam,
			cards(m.HomeYellowCards, m.HomeRedCards),
			cards(m.AwayYellowCards, m.AwayRedCards),
		)
	}
	table.Render()
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func cards(yellow, red int) string {
	return fmt.Sprintf("%dY %dR", yellow, red)
}
