package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
)

var calendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar of focus sessions",
	Long: `Print a month grid with the number of completed focus sessions on each
day. Defaults to the current month.`,
	Example: `  focus calendar
  focus calendar --month 2026-03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseCalendarMonth(calendarMonth, app.clock.Now())
		if err != nil {
			return err
		}

		records, err := app.storage.Sessions().ReadAll(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), monthRecords(records, month))
		}
		renderCalendar(cmd.OutOrStdout(), month, records, app.config.WeekStart(), app.clock.Now())
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "Month to show as YYYY-MM (default: current month)")
	rootCmd.AddCommand(calendarCmd)
}

// parseCalendarMonth returns the first day of the requested month in local time.
func parseCalendarMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return t, nil
}

func monthRecords(records map[string]domain.DaySessionRecord, month time.Time) []domain.DaySessionRecord {
	out := []domain.DaySessionRecord{}
	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		if rec, ok := records[domain.DateKey(d)]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func renderCalendar(w io.Writer, month time.Time, records map[string]domain.DaySessionRecord, weekStart time.Weekday, now time.Time) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	todayStyle := lipgloss.NewStyle().Bold(true).Underline(true)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n\n", titleStyle.Render(month.Format("January 2006")))

	var header []string
	for i := 0; i < 7; i++ {
		header = append(header, fmt.Sprintf("%-5s", time.Weekday((int(weekStart)+i)%7).String()[:2]))
	}
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(strings.Join(header, "")))

	lead := (int(month.Weekday()) - int(weekStart) + 7) % 7
	var line strings.Builder
	line.WriteString(strings.Repeat("     ", lead))

	col := lead
	totalSessions, totalMinutes := 0, 0
	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		key := domain.DateKey(d)
		cell := fmt.Sprintf("%2d", d.Day())
		if key == domain.DateKey(now) {
			cell = todayStyle.Render(cell)
		}

		if rec, ok := records[key]; ok && rec.Sessions > 0 {
			totalSessions += rec.Sessions
			totalMinutes += rec.TotalFocusMinutes()
			line.WriteString(cell + activeStyle.Render(fmt.Sprintf("%-3s", fmt.Sprintf("·%d", min(rec.Sessions, 99)))))
		} else {
			line.WriteString(cell + "   ")
		}

		col++
		if col == 7 {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if col > 0 {
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line.String(), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %d sessions, %s focused\n\n",
		dimStyle.Render("Month total:"), totalSessions, formatMinutes(time.Duration(totalMinutes)*time.Minute))
}
