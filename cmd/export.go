package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log",
	Long:  "Export per-day focus totals in markdown, CSV or JSON format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv or json")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: week, month, or all")
}

func runExport(ctx context.Context, w io.Writer) error {
	now := app.clock.Now()
	var since string
	switch exportPeriod {
	case "week":
		since = domain.DateKey(now.AddDate(0, 0, -6))
	case "month":
		since = domain.DateKey(now.AddDate(0, -1, 0))
	case "all":
	default:
		return fmt.Errorf("invalid period %q (valid: week, month, all)", exportPeriod)
	}

	all, err := app.storage.Sessions().ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session log: %w", err)
	}

	records := make([]domain.DaySessionRecord, 0, len(all))
	for date, rec := range all {
		// Date keys sort lexically in calendar order.
		if date >= since {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	switch exportFormat {
	case "csv":
		return exportCSV(w, records)
	case "json":
		return writeJSON(w, records)
	case "md":
		return exportMarkdown(w, records, now)
	default:
		return fmt.Errorf("invalid format %q (valid: md, csv, json)", exportFormat)
	}
}

func exportMarkdown(w io.Writer, records []domain.DaySessionRecord, now time.Time) error {
	fmt.Fprintf(w, "# Focus Session Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	if len(records) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}

	fmt.Fprintln(w, "| Date | Sessions | Focus time |")
	fmt.Fprintln(w, "|------|----------|------------|")
	totalSessions, totalMinutes := 0, 0
	for _, r := range records {
		totalSessions += r.Sessions
		totalMinutes += r.TotalFocusMinutes()
		fmt.Fprintf(w, "| %s | %d | %s |\n", r.Date, r.Sessions, formatMinutes(time.Duration(r.TotalFocusMinutes())*time.Minute))
	}
	fmt.Fprintf(w, "\n**Total:** %d sessions, %s\n", totalSessions, formatMinutes(time.Duration(totalMinutes)*time.Minute))
	return nil
}

func exportCSV(w io.Writer, records []domain.DaySessionRecord) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"date", "sessions", "hours", "minutes", "focus_minutes"})
	for _, r := range records {
		_ = cw.Write([]string{
			r.Date,
			strconv.Itoa(r.Sessions),
			strconv.Itoa(r.Hours),
			strconv.Itoa(r.Minutes),
			strconv.Itoa(r.TotalFocusMinutes()),
		})
	}
	cw.Flush()
	return cw.Error()
}
