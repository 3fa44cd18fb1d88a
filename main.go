// Package main is the entry point for the standings CLI tool, which ingests
// football match results and computes round-by-round league tables.
package main

import "github.com/pable/go-league-standings/cmd"

func main() {
	cmd.Execute()
}
