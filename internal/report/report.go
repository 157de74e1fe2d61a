// Package report renders the record collection into a paginated PDF
// document. Export is read-only with respect to the store; the output
// file is fully regenerated on every run.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"jobtrack/internal/store"
)

// DefaultPageSize is the record capacity of one page.
const DefaultPageSize = 25

// WriteError indicates the output document could not be written. The
// store and its state file are unaffected.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Generator lays out records onto landscape A4 pages.
type Generator struct {
	// PageSize is the number of record rows per page. Zero means
	// DefaultPageSize.
	PageSize int

	// Title is the document banner on the first page.
	Title string
}

type column struct {
	name  string
	width float64 // mm
	max   int     // truncation limit in runes, 0 = no limit
}

// Landscape A4 is 297mm wide; 10mm margins leave 277mm.
var columns = []column{
	{"ID", 12, 0},
	{"Company", 50, 30},
	{"Title", 55, 32},
	{"Docs", 55, 32},
	{"Location", 40, 24},
	{"Date", 28, 0},
	{"Answer", 37, 22},
}

const (
	headerRowHeight = 8.0
	recordRowHeight = 6.0
)

// Write renders all records to a PDF at path, overwriting any previous
// document. Records fill pages of PageSize rows each; the column
// header repeats on every page and an empty collection still produces
// one page with an explicit "no records" line.
func (g *Generator) Write(records []store.Record, path string) error {
	pageSize := g.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pages := (len(records) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle(g.title(), false)
	doc.SetAutoPageBreak(false, 0)

	for page := 0; page < pages; page++ {
		doc.AddPage()

		if page == 0 {
			doc.SetFont("Helvetica", "B", 16)
			doc.CellFormat(0, 10, g.title(), "", 1, "L", false, 0, "")
			doc.Ln(2)
		}

		writeColumnHeader(doc)

		lo := page * pageSize
		hi := min(lo+pageSize, len(records))
		doc.SetFont("Helvetica", "", 10)
		for _, rec := range records[lo:hi] {
			writeRecordRow(doc, rec)
		}

		if len(records) == 0 {
			doc.SetFont("Helvetica", "I", 10)
			doc.CellFormat(0, recordRowHeight, "No records tracked yet.", "", 1, "L", false, 0, "")
		}
	}

	// Compact statistics footer on the last page. A single line never
	// spills onto an extra page.
	doc.SetFont("Helvetica", "", 9)
	doc.SetY(-15)
	doc.CellFormat(0, 5, summaryLine(records), "", 0, "L", false, 0, "")

	if err := doc.OutputFileAndClose(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func (g *Generator) title() string {
	if g.Title == "" {
		return "Job Applications"
	}
	return g.Title
}

func writeColumnHeader(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 12)
	for _, col := range columns {
		doc.CellFormat(col.width, headerRowHeight, col.name, "B", 0, "L", false, 0, "")
	}
	doc.Ln(headerRowHeight)
}

func writeRecordRow(doc *fpdf.Fpdf, rec store.Record) {
	answer := rec.Answer
	if answer == "" {
		answer = "Pending"
	}
	cells := []string{
		fmt.Sprintf("%d", rec.ID),
		rec.Company,
		rec.Title,
		rec.Docs,
		rec.Location,
		rec.DateApplied,
		answer,
	}
	for i, col := range columns {
		doc.CellFormat(col.width, recordRowHeight, truncate(cells[i], col.max), "", 0, "L", false, 0, "")
	}
	doc.Ln(recordRowHeight)
}

// summaryLine condenses the original statistics table: total, pending
// and per-answer counts.
func summaryLine(records []store.Record) string {
	pending := 0
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Answer == "" {
			pending++
			continue
		}
		counts[rec.Answer]++
	}

	parts := []string{
		fmt.Sprintf("Total: %d", len(records)),
		fmt.Sprintf("Pending: %d", pending),
	}

	answers := make([]string, 0, len(counts))
	for answer := range counts {
		answers = append(answers, answer)
	}
	sort.Strings(answers)
	for _, answer := range answers {
		parts = append(parts, fmt.Sprintf("%s: %d", truncate(answer, 22), counts[answer]))
	}

	return truncate(strings.Join(parts, "  |  "), 180)
}

// truncate cuts s to max runes, marking the cut with an ellipsis.
// Cells are truncated rather than wrapped to keep row height constant.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
