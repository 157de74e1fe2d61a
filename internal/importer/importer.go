// Package importer reads semicolon-delimited CSV files into the record
// store. Problem rows are skipped and reported, never fatal; the store
// is persisted once after the whole batch.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"jobtrack/internal/store"
)

// Columns expected per data row, in order. The date column may be
// absent or blank; the store then defaults it to today.
// company;title;docs;location;date
const (
	minColumns = 4
	maxColumns = 5
)

// SourceError indicates the import file could not be opened or read at
// all. Row-level problems never produce a SourceError.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("import source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Reason classifies a skipped row.
type Reason string

const (
	ReasonInvalid   Reason = "invalid"
	ReasonDuplicate Reason = "duplicate"
)

// SkippedRow records one row that was not imported. Row is the 1-based
// data row number (the header is not counted).
type SkippedRow struct {
	Row    int
	Reason Reason
}

// Summary reports the outcome of one import batch.
type Summary struct {
	Total      int
	Imported   int
	Duplicates int
	Invalid    int
	Skipped    []SkippedRow
}

// Import reads the file at path and appends every valid, non-duplicate
// row to s. The first row is treated as a header and skipped. A row is
// a duplicate when a record with exactly the same company and title
// already exists, whether it was in the store before or added earlier
// in the same batch. The store is saved once, after all rows.
func Import(s *store.Store, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, &SourceError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	// Header row. An empty file imports nothing.
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Summary{}, nil
		}
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			return Summary{}, &SourceError{Path: path, Err: err}
		}
		// A malformed header is still a header; data rows follow.
	}

	var sum Summary
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return sum, &SourceError{Path: path, Err: err}
			}
			sum.skip(ReasonInvalid)
			continue
		}

		if len(row) < minColumns || len(row) > maxColumns {
			sum.skip(ReasonInvalid)
			continue
		}

		company := strings.TrimSpace(row[0])
		title := strings.TrimSpace(row[1])
		if company == "" || title == "" {
			sum.skip(ReasonInvalid)
			continue
		}

		if s.Has(company, title) {
			sum.skip(ReasonDuplicate)
			continue
		}

		fields := store.Fields{
			Company:  company,
			Title:    title,
			Docs:     row[2],
			Location: row[3],
		}
		if len(row) == maxColumns {
			fields.DateApplied = row[4]
		}

		if _, err := s.Append(fields); err != nil {
			sum.skip(ReasonInvalid)
			continue
		}
		sum.Total++
		sum.Imported++
	}

	if err := s.Save(); err != nil {
		return sum, fmt.Errorf("saving imported records: %w", err)
	}
	return sum, nil
}

func (s *Summary) skip(reason Reason) {
	s.Total++
	switch reason {
	case ReasonDuplicate:
		s.Duplicates++
	case ReasonInvalid:
		s.Invalid++
	}
	s.Skipped = append(s.Skipped, SkippedRow{Row: s.Total, Reason: reason})
}
