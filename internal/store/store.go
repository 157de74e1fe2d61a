package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store holds the full ordered record collection in memory and mirrors
// it to a single JSON file. Every mutating method rewrites the file in
// full; the write goes through a temp file and rename so a crash never
// leaves a half-written state file behind.
//
// A Store is not safe for concurrent use. Two processes sharing one
// state file race with last-writer-wins semantics.
type Store struct {
	path    string
	records []Record

	// nextID never decreases, so ids are not reused after delete
	// within the lifetime of this handle.
	nextID int

	now func() time.Time
}

// Open reads the state file at path. A missing file yields an empty
// store; a present but malformed file yields a *CorruptStateError.
func Open(path string) (*Store, error) {
	s := &Store{path: path, nextID: 1, now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, &CorruptStateError{Path: path, Err: err}
		}
	}

	for _, r := range s.records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return s, nil
}

// Path returns the location of the state file.
func (s *Store) Path() string { return s.path }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// List returns all records in insertion order. The returned slice is a
// copy; mutating it does not affect the store.
func (s *Store) List() []Record {
	return append([]Record(nil), s.records...)
}

// Has reports whether a record with exactly the given company and
// title already exists. Comparison is case-sensitive.
func (s *Store) Has(company, title string) bool {
	for _, r := range s.records {
		if r.Company == company && r.Title == title {
			return true
		}
	}
	return false
}

// Add validates f, assigns the next id, appends the record and
// persists the store. It returns the new record.
func (s *Store) Add(f Fields) (Record, error) {
	rec, err := s.Append(f)
	if err != nil {
		return Record{}, err
	}
	if err := s.Save(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return Record{}, err
	}
	return rec, nil
}

// Append validates f and adds the record in memory without persisting.
// Callers doing bulk inserts use Append per row and Save once at the
// end; everyone else wants Add.
func (s *Store) Append(f Fields) (Record, error) {
	f.Company = strings.TrimSpace(f.Company)
	f.Title = strings.TrimSpace(f.Title)
	f.Docs = strings.TrimSpace(f.Docs)
	f.Location = strings.TrimSpace(f.Location)
	f.DateApplied = strings.TrimSpace(f.DateApplied)

	switch {
	case f.Company == "":
		return Record{}, &ValidationError{Field: "company"}
	case f.Title == "":
		return Record{}, &ValidationError{Field: "title"}
	case f.Location == "":
		return Record{}, &ValidationError{Field: "location"}
	}

	if f.DateApplied == "" {
		f.DateApplied = s.now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, f.DateApplied); err != nil {
		return Record{}, &ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("%q is not a valid %s date", f.DateApplied, DateLayout),
		}
	}

	rec := Record{
		ID:          s.nextID,
		Company:     f.Company,
		Title:       f.Title,
		Docs:        f.Docs,
		Location:    f.Location,
		DateApplied: f.DateApplied,
	}
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

// Update sets the answer of the record with the given id and persists
// the store. Returns ErrNotFound if the id is unknown.
func (s *Store) Update(id int, answer string) (Record, error) {
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records[i].Answer = answer
		if err := s.Save(); err != nil {
			return Record{}, err
		}
		return s.records[i], nil
	}
	return Record{}, fmt.Errorf("updating record %d: %w", id, ErrNotFound)
}

// Delete removes the record with the given id and persists the store.
// Returns ErrNotFound if the id is unknown. The id is not reused.
func (s *Store) Delete(id int) error {
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		return s.Save()
	}
	return fmt.Errorf("deleting record %d: %w", id, ErrNotFound)
}

// Save serializes the full collection and atomically replaces the
// state file. The previous file stays valid until the rename.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
