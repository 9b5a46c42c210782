package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's focus summary",
	Long:  `Display today's completed sessions and focus time, plus progress towards the weekly goal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		today, err := todayRecord(ctx)
		if err != nil {
			return err
		}
		week := app.statistics.Compute(ctx, domain.PeriodWeekly)

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), today, week)
		}
		printStatusText(cmd.OutOrStdout(), today, week)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func todayRecord(ctx context.Context) (domain.DaySessionRecord, error) {
	key := domain.DateKey(app.clock.Now())
	rec, err := app.storage.Sessions().ReadOne(ctx, key)
	if err != nil {
		return domain.DaySessionRecord{}, fmt.Errorf("failed to read today's sessions: %w", err)
	}
	if rec == nil {
		return domain.NewDaySessionRecord(key), nil
	}
	return *rec, nil
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, today domain.DaySessionRecord, week domain.StatisticsSnapshot) error {
	return writeJSON(w, map[string]interface{}{
		"today": map[string]interface{}{
			"date":          today.Date,
			"sessions":      today.Sessions,
			"focus_minutes": today.TotalFocusMinutes(),
		},
		"weekly_goal": map[string]interface{}{
			"target":    week.GoalTarget,
			"completed": week.GoalCompleted,
			"progress":  week.GoalProgress(),
		},
	})
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, today domain.DaySessionRecord, week domain.StatisticsSnapshot) {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	goalStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	if week.GoalProgress() >= 1 {
		goalStyle = goalStyle.Foreground(lipgloss.Color("#2ECC71"))
	}

	fmt.Fprintf(w, "📊 Today's Stats:\n")
	fmt.Fprintf(w, "   Focus Sessions: %d\n", today.Sessions)
	fmt.Fprintf(w, "   Focus Time: %s\n", formatMinutes(time.Duration(today.TotalFocusMinutes())*time.Minute))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render("🎯 Weekly goal:"),
		goalStyle.Render(fmt.Sprintf("%d / %d sessions", week.GoalCompleted, week.GoalTarget)))
}
