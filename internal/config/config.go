// Package config loads jobtrack settings from a TOML file layered over
// built-in defaults, with JOBTRACK_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Export configures the PDF report.
type Export struct {
	OutputFile string `toml:"output_file"`
	PageSize   int    `toml:"page_size"`
}

// History configures the command journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config holds all jobtrack settings.
type Config struct {
	DataFile string  `toml:"data_file"`
	Export   Export  `toml:"export"`
	History  History `toml:"history"`
}

// Default returns the built-in configuration: state and report files
// in the working directory, history under the user data dir.
func Default() Config {
	return Config{
		DataFile: "jobs.json",
		Export: Export{
			OutputFile: "jobs.pdf",
			PageSize:   25,
		},
		History: History{
			Enabled: true,
			Path:    filepath.Join(defaultDataDir(), "history.db"),
		},
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/jobtrack/config.toml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "jobtrack", "config.toml")
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "jobtrack-data"
		}
	}
	return filepath.Join(dir, "jobtrack")
}

// Load reads the config file at path (DefaultPath when empty). A
// missing file is not an error; the defaults apply. Environment
// variables override file values on all platforms:
// JOBTRACK_DATA_FILE, JOBTRACK_EXPORT_FILE, JOBTRACK_PAGE_SIZE,
// JOBTRACK_HISTORY, JOBTRACK_HISTORY_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Export.PageSize < 1 {
		return Config{}, fmt.Errorf("export.page_size must be at least 1, got %d", cfg.Export.PageSize)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("JOBTRACK_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("JOBTRACK_EXPORT_FILE"); v != "" {
		cfg.Export.OutputFile = v
	}
	if v := os.Getenv("JOBTRACK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBTRACK_PAGE_SIZE %q: %w", v, err)
		}
		cfg.Export.PageSize = n
	}
	if v := os.Getenv("JOBTRACK_HISTORY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBTRACK_HISTORY %q: %w", v, err)
		}
		cfg.History.Enabled = enabled
	}
	if v := os.Getenv("JOBTRACK_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	return nil
}
