package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if cfg.DataFile != want.DataFile {
		t.Errorf("DataFile = %q, want %q", cfg.DataFile, want.DataFile)
	}
	if cfg.Export.PageSize != want.Export.PageSize {
		t.Errorf("PageSize = %d, want %d", cfg.Export.PageSize, want.Export.PageSize)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_file = "applications.json"

[export]
output_file = "report.pdf"
page_size = 40

[history]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataFile != "applications.json" {
		t.Errorf("DataFile = %q, want applications.json", cfg.DataFile)
	}
	if cfg.Export.OutputFile != "report.pdf" {
		t.Errorf("OutputFile = %q, want report.pdf", cfg.Export.OutputFile)
	}
	if cfg.Export.PageSize != 40 {
		t.Errorf("PageSize = %d, want 40", cfg.Export.PageSize)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, `data_file = "applications.json"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Export.PageSize != 25 {
		t.Errorf("PageSize = %d, want default 25", cfg.Export.PageSize)
	}
	if cfg.Export.OutputFile != "jobs.pdf" {
		t.Errorf("OutputFile = %q, want default jobs.pdf", cfg.Export.OutputFile)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `data_file = "applications.json"`)

	t.Setenv("JOBTRACK_DATA_FILE", "env.json")
	t.Setenv("JOBTRACK_PAGE_SIZE", "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataFile != "env.json" {
		t.Errorf("DataFile = %q, want env.json", cfg.DataFile)
	}
	if cfg.Export.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Export.PageSize)
	}
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	path := writeConfig(t, "[export]\npage_size = 0\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted page_size = 0, want error")
	}
}

func TestLoadRejectsInvalidEnvPageSize(t *testing.T) {
	t.Setenv("JOBTRACK_PAGE_SIZE", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err == nil || !strings.Contains(err.Error(), "JOBTRACK_PAGE_SIZE") {
		t.Fatalf("Load = %v, want JOBTRACK_PAGE_SIZE error", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "data_file = [not toml")

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed TOML, want error")
	}
}
