package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobtrack/internal/history"
	"jobtrack/internal/store"
)

// setupEnv points every file the tool touches into a temp directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("JOBTRACK_DATA_FILE", filepath.Join(dir, "jobs.json"))
	t.Setenv("JOBTRACK_EXPORT_FILE", filepath.Join(dir, "jobs.pdf"))
	return dir
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	defer rootCmd.SetArgs(nil)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func openDataFile(t *testing.T, dir string) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(dir, "jobs.json"))
	if err != nil {
		t.Fatalf("opening data file: %v", err)
	}
	return s
}

func TestAddCommand(t *testing.T) {
	dir := setupEnv(t)

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin", "2026-08-20"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s := openDataFile(t, dir)
	if s.Len() != 1 {
		t.Fatalf("store has %d records, want 1", s.Len())
	}
	rec := s.List()[0]
	if rec.Company != "Acme" || rec.Title != "Engineer" || rec.DateApplied != "2026-08-20" {
		t.Errorf("stored record = %+v", rec)
	}
}

func TestAddCommandRejectsEmptyCompany(t *testing.T) {
	setupEnv(t)

	err := runCommand(t, "add", "", "Engineer", "CV", "Berlin")
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("add = %v, want *store.ValidationError", err)
	}
}

func TestUpdateCommand(t *testing.T) {
	dir := setupEnv(t)

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := runCommand(t, "update", "--id", "1", "--answer", "offer"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	s := openDataFile(t, dir)
	if got := s.List()[0].Answer; got != "offer" {
		t.Errorf("Answer = %q, want offer", got)
	}
}

func TestUpdateCommandUnknownID(t *testing.T) {
	setupEnv(t)

	err := runCommand(t, "update", "--id", "42", "--answer", "offer")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update = %v, want ErrNotFound", err)
	}
}

func TestDeleteCommand(t *testing.T) {
	dir := setupEnv(t)

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := runCommand(t, "delete", "--id", "1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if s := openDataFile(t, dir); s.Len() != 0 {
		t.Errorf("store has %d records after delete, want 0", s.Len())
	}
}

func TestImportCommand(t *testing.T) {
	dir := setupEnv(t)

	csvPath := filepath.Join(dir, "import.csv")
	content := "company;title;docs;location;date\n" +
		"Acme;Engineer;CV;Berlin;2026-01-10\n" +
		"Initech;Analyst;CV;Hamburg;2026-01-11\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "import", csvPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if s := openDataFile(t, dir); s.Len() != 2 {
		t.Errorf("store has %d records after import, want 2", s.Len())
	}
}

func TestExportCommand(t *testing.T) {
	dir := setupEnv(t)

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := runCommand(t, "export"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "jobs.pdf")); err != nil {
		t.Errorf("export did not create the report: %v", err)
	}
}

func TestMutationsAreJournaled(t *testing.T) {
	dir := setupEnv(t)

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	journal, err := history.Open(filepath.Join(dir, "data", "jobtrack", "history.db"))
	if err != nil {
		t.Fatalf("opening journal: %v", err)
	}
	defer journal.Close()

	events, err := journal.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 1 || events[0].Action != history.ActionAdd {
		t.Errorf("journal = %+v, want one add event", events)
	}
}

func TestHistoryDisabledIsNotFatal(t *testing.T) {
	setupEnv(t)
	t.Setenv("JOBTRACK_HISTORY", "false")

	if err := runCommand(t, "add", "Acme", "Engineer", "CV", "Berlin"); err != nil {
		t.Fatalf("add with disabled history failed: %v", err)
	}
}

func TestColorizeRespectsNoColor(t *testing.T) {
	oldNoColor, oldTTY := noColor, stderrIsTTY
	defer func() { noColor, stderrIsTTY = oldNoColor, oldTTY }()
	stderrIsTTY = true

	noColor = true
	if got := colorize(colorGreen, "ok"); strings.Contains(got, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", got)
	}

	noColor = false
	if got := colorize(colorGreen, "ok"); !strings.Contains(got, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", got)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip(short) = %q", got)
	}
	if got := clip("a rather long company name", 10); got != "a rathe..." {
		t.Errorf("clip = %q, want a rathe...", got)
	}
}
