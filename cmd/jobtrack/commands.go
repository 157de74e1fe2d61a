package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jobtrack/internal/config"
	"jobtrack/internal/history"
	"jobtrack/internal/importer"
	"jobtrack/internal/report"
	"jobtrack/internal/store"
)

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add <company> <title> <docs> <location> [date]",
	Short: "Add a new job application",
	Long: `Add a new job application.

The date is optional and defaults to today (format: 2006-01-02).

Example:
  jobtrack add "Acme GmbH" "Backend Engineer" "CV, cover letter" Berlin 2026-08-20`,
	Args: cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}

		fields := store.Fields{
			Company:  args[0],
			Title:    args[1],
			Docs:     args[2],
			Location: args[3],
		}
		if len(args) == 5 {
			fields.DateApplied = args[4]
		}

		rec, err := s.Add(fields)
		if err != nil {
			return err
		}

		recordHistory(cfg, history.Event{
			Action:   history.ActionAdd,
			RecordID: rec.ID,
			Detail:   fmt.Sprintf("%s at %s", rec.Title, rec.Company),
		})

		printSuccess("Added %s at %s (id %d)", rec.Title, rec.Company, rec.ID)
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}

		records := s.List()
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No records tracked yet.")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			answer := rec.Answer
			if answer == "" {
				answer = "Pending"
			}
			rows = append(rows, []string{
				strconv.Itoa(rec.ID),
				clip(rec.Company, 24),
				clip(rec.Title, 24),
				rec.DateApplied,
				clip(rec.Location, 16),
				clip(rec.Docs, 24),
				clip(answer, 16),
			})
		}

		headers := []string{"ID", "Company", "Title", "Date", "Location", "Docs", "Answer"}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, true))
		return nil
	},
}

// clip shortens s for terminal display; the full value stays in the
// store and in PDF exports.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update --id <id> --answer <text>",
	Short: "Record the outcome of an application",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("id")
		answer, _ := cmd.Flags().GetString("answer")

		s, cfg, err := openStore()
		if err != nil {
			return err
		}

		rec, err := s.Update(id, answer)
		if err != nil {
			return err
		}

		recordHistory(cfg, history.Event{
			Action:   history.ActionUpdate,
			RecordID: rec.ID,
			Detail:   fmt.Sprintf("answer: %s", rec.Answer),
		})

		printSuccess("Updated record %d: %s", rec.ID, rec.Answer)
		return nil
	},
}

func init() {
	updateCmd.Flags().Int("id", 0, "record id")
	updateCmd.Flags().StringP("answer", "a", "", "final answer, e.g. offer or rejected")
	updateCmd.MarkFlagRequired("id")
	updateCmd.MarkFlagRequired("answer")
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete --id <id>",
	Short: "Delete an application permanently",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("id")

		s, cfg, err := openStore()
		if err != nil {
			return err
		}

		if err := s.Delete(id); err != nil {
			return err
		}

		recordHistory(cfg, history.Event{
			Action:   history.ActionDelete,
			RecordID: id,
		})

		printSuccess("Deleted record %d", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Int("id", 0, "record id")
	deleteCmd.MarkFlagRequired("id")
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import applications from a semicolon-delimited CSV file",
	Long: `Import applications from a semicolon-delimited CSV file.

The first row is treated as a header and skipped. Expected columns:

  company;title;docs;location;date

The date column may be blank; it defaults to today. Rows that match an
existing record on company and title are skipped as duplicates, rows
with missing required fields are skipped as invalid; the import itself
always runs to completion.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}

		batchID := uuid.NewString()
		sum, err := importer.Import(s, args[0])
		if err != nil {
			return err
		}

		for _, skipped := range sum.Skipped {
			printWarning("row %d skipped (%s)", skipped.Row, skipped.Reason)
		}

		printSuccess("Import finished")
		printStatus("imported", "%d", sum.Imported)
		printStatus("duplicates", "%d", sum.Duplicates)
		printStatus("invalid", "%d", sum.Invalid)
		printStatus("total rows", "%d", sum.Total)

		recordHistory(cfg, history.Event{
			Action:  history.ActionImport,
			BatchID: batchID,
			Detail: fmt.Sprintf("imported %d, duplicate %d, invalid %d, total %d",
				sum.Imported, sum.Duplicates, sum.Invalid, sum.Total),
		})
		return nil
	},
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all applications to a paginated PDF report",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		if output == "" {
			output = cfg.Export.OutputFile
		}

		gen := report.Generator{PageSize: cfg.Export.PageSize}
		if err := gen.Write(s.List(), output); err != nil {
			return err
		}

		recordHistory(cfg, history.Event{
			Action: history.ActionExport,
			Detail: fmt.Sprintf("%d records to %s", s.Len(), output),
		})

		printSuccess("Exported %d records to %s", s.Len(), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default from config)")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent commands from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if !cfg.History.Enabled {
			printWarning("history is disabled in config")
			return nil
		}

		journal, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history journal: %w", err)
		}
		defer journal.Close()

		events, err := journal.Recent(limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			recordID := ""
			if e.RecordID != 0 {
				recordID = strconv.Itoa(e.RecordID)
			}
			rows = append(rows, []string{
				e.OccurredAt.Local().Format("2006-01-02 15:04"),
				e.Action,
				recordID,
				clip(e.Detail, 48),
			})
		}

		headers := []string{"When", "Action", "Record", "Detail"}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, false))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of events to show")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, "data_file"), cfg.DataFile)
		fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, "export.output_file"), cfg.Export.OutputFile)
		fmt.Fprintf(out, "  %s = %d\n", colorize(colorBold, "export.page_size"), cfg.Export.PageSize)
		fmt.Fprintf(out, "  %s = %t\n", colorize(colorBold, "history.enabled"), cfg.History.Enabled)
		fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, "history.path"), cfg.History.Path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
