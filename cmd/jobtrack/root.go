package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"jobtrack/internal/config"
	"jobtrack/internal/history"
	"jobtrack/internal/store"
)

var (
	noColor    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:     "jobtrack",
	Short:   "Track job applications from the command line",
	Version: version,
	Long: `jobtrack keeps a local record of job applications: add and update
them one by one, bulk-import from semicolon-delimited CSV files, and
export a paginated PDF report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// openStore loads the config and the record store it points at. Every
// command goes through here; nothing touches the state file directly.
func openStore() (*store.Store, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	s, err := store.Open(cfg.DataFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	return s, cfg, nil
}

// recordHistory appends an event to the command journal. The journal
// is best-effort: problems are logged, never surfaced as command
// failures.
func recordHistory(cfg config.Config, e history.Event) {
	if !cfg.History.Enabled {
		return
	}

	journal, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("history journal unavailable", "path", cfg.History.Path, "error", err)
		return
	}
	defer journal.Close()

	if err := journal.Record(e); err != nil {
		slog.Warn("recording history event", "action", e.Action, "error", err)
	}
}
