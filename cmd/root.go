package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/config"
	"github.com/pable/go-league-standings/internal/logging"
	"github.com/pable/go-league-standings/internal/storage"
)

var (
	dbPath   string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "standings",
	Short: "Football league standings tool",
	Long: `Ingest match results and compute round-by-round league tables with
head-to-head tie-breaks.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Default().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default $STANDINGS_DB_PATH or ~/.standings/standings.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $STANDINGS_LOG_LEVEL or info)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads configuration and installs the default logger. Flags win over
// the environment.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	dbPath = c.DBPath

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	if c.LogFormat == "json" {
		logging.SetDefault(logging.NewJSON(level))
	} else {
		logging.SetDefault(logging.NewConsole(level))
	}
	cfg = c
	return nil
}

// openStorage opens the configured database, creating its directory first.
func openStorage() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
