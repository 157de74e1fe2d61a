// Package history keeps an append-only journal of commands in a local
// SQLite database. It is a convenience log, not a source of truth: the
// record store never reads from it, and callers treat failures here as
// non-fatal.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Actions recorded in the journal.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionExport = "export"
)

// Event is one journal entry. RecordID is zero for actions that do not
// target a single record; BatchID carries the import batch id.
type Event struct {
	ID         int64
	OccurredAt time.Time
	Action     string
	RecordID   int
	BatchID    string
	Detail     string
}

// Log wraps the SQLite journal database.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path. Pass ":memory:"
// for an in-memory journal (used by tests).
func Open(path string) (*Log, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		occurred_at TEXT NOT NULL,
		action TEXT NOT NULL,
		record_id INTEGER NOT NULL DEFAULT 0,
		batch_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating events table: %w", err)
	}

	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_events_occurred ON events (occurred_at)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating events index: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an event. A zero OccurredAt is filled with now.
func (l *Log) Record(e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := l.db.Exec(
		`INSERT INTO events (occurred_at, action, record_id, batch_id, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		e.OccurredAt.UTC().Format(time.RFC3339Nano), e.Action, e.RecordID, e.BatchID, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("recording %s event: %w", e.Action, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	rows, err := l.db.Query(
		`SELECT id, occurred_at, action, record_id, batch_id, detail
		 FROM events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var occurredAt string
		if err := rows.Scan(&e.ID, &occurredAt, &e.Action, &e.RecordID, &e.BatchID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, occurredAt); err == nil {
			e.OccurredAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
