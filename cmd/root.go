package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/phonix/internal/logging"
	"github.com/abhisek/phonix/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "phonix",
	Short: "English pronunciation trainer",
	Long:  "phonix is a terminal trainer for phoneme spelling and homophones, backed by a scoring service.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PHONIX_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PHONIX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveLevel reads --log-level, falling back to PHONIX_LOG_LEVEL.
func resolveLevel(cmd *cobra.Command) (slog.Level, error) {
	s, _ := cmd.Flags().GetString("log-level")
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv("PHONIX_LOG_LEVEL"); v != "" {
			s = v
		}
	}
	level, err := logging.ParseLevel(s)
	if err != nil {
		return level, fmt.Errorf("--log-level: %w", err)
	}
	return level, nil
}

// openStore opens the event store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, string, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, dbPath, nil
}
