package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/report"
	"github.com/pable/go-league-standings/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("standings shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("standings")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db, rest)
		case "rounds":
			shellRounds(db)
		case "table":
			shellTable(db, rest)
		case "h2h":
			team, opp, ok := splitVs(rest)
			if !ok {
				cError.Fprintln(os.Stderr, "usage: h2h <team> vs <opponent>")
				continue
			}
			if err := printHeadToHead(db, team, opp); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "sql":
			shellSQL(db, rest)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [team]", "list stored matches, optionally for one team"},
		{"rounds", "list stored rounds and their leaders"},
		{"table [round]", "league table as of a round (default: latest)"},
		{"h2h <team> vs <opponent>", "head-to-head record between two teams"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// splitVs splits "Persib Bandung vs Bali United" into its two team names.
func splitVs(s string) (string, string, bool) {
	lower := strings.ToLower(s)
	i := strings.Index(lower, " vs ")
	if i < 0 {
		return "", "", false
	}
	team, opp := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(" vs "):])
	return team, opp, team != "" && opp != ""
}

func shellList(db *storage.DB, team string) {
	ms, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	ms = filterMatches(ms, "", team)
	if len(ms) == 0 {
		cMuted.Println("No matches stored.")
		return
	}
	report.PrintMatches(os.Stdout, ms)
}

func shellRounds(db *storage.DB) {
	rounds, err := db.ListRounds()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rounds) == 0 {
		cMuted.Println("No rounds stored yet.")
		return
	}
	report.PrintRounds(os.Stdout, rounds)
}

func shellTable(db *storage.DB, round string) {
	snap, err := lookupSnapshot(db, round)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if snap == nil {
		cWarn.Fprintf(os.Stderr, "no round found matching %q\n", round)
		return
	}
	report.PrintSnapshotHeader(os.Stdout, *snap)
	report.PrintTable(snap.Table, "")
}

func shellSQL(db *storage.DB, query string) {
	if query == "" {
		cError.Fprintln(os.Stderr, "usage: sql <query>")
		return
	}
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("(no rows)")
		return
	}
	printRaw(os.Stdout, cols, rows)
}
