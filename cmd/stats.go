package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of session statistics",
	Long: `Display totals, daily average, a per-day/month/year chart, the activity
distribution and goal progress for the current week, month or year.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := domain.ParsePeriod(statsPeriod)
		if err != nil {
			return err
		}

		snap := app.statistics.Compute(cmd.Context(), period)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), snap)
		}
		renderDashboard(cmd.OutOrStdout(), snap)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: week, month or year")
	rootCmd.AddCommand(statsCmd)
}

func renderDashboard(w io.Writer, snap domain.StatisticsSnapshot) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6FE0"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(snap.Period.Label()))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s sessions, %s focused, %s per day\n\n",
		valueStyle.Render(fmt.Sprintf("%d", snap.TotalSessions)),
		valueStyle.Render(formatHours(float64(snap.TotalMinutes)/60)),
		valueStyle.Render(fmt.Sprintf("%dm", snap.AverageDailyMinutes)),
	)

	goalLine := fmt.Sprintf("%d / %d sessions (%.0f%%)", snap.GoalCompleted, snap.GoalTarget, snap.GoalProgress()*100)
	fmt.Fprintf(w, "  %s  %s\n", dimStyle.Render("Goal:"), valueStyle.Render(goalLine))
	goalWidth := int(math.Round(snap.ClampedProgress() * 30))
	fmt.Fprintf(w, "  %s%s\n\n", barColor.Render(buildBar(goalWidth)), dimStyle.Render(strings.Repeat("░", 30-goalWidth)))

	if snap.TotalSessions == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed sessions in this period."))
		return
	}

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Focus minutes"))
	renderSeries(w, snap.Series(), dimStyle, barColor)
	fmt.Fprintln(w)

	d := snap.Distribution
	fmt.Fprintf(w, "  %s  work %s  breaks %s  other %s\n\n",
		dimStyle.Render("Distribution:"),
		valueStyle.Render(fmt.Sprintf("%d%%", d.Work)),
		valueStyle.Render(fmt.Sprintf("%d%%", d.Break)),
		valueStyle.Render(fmt.Sprintf("%d%%", d.Other)),
	)
}

func renderSeries(w io.Writer, points []domain.SeriesPoint, dimStyle, barColor lipgloss.Style) {
	maxMinutes := 0
	for _, p := range points {
		maxMinutes = max(maxMinutes, p.Minutes)
	}

	maxBarWidth := 30
	for _, p := range points {
		barWidth := 0
		if maxMinutes > 0 {
			barWidth = int(math.Round(float64(p.Minutes) / float64(maxMinutes) * float64(maxBarWidth)))
		}
		if barWidth < 1 && p.Minutes > 0 {
			barWidth = 1
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%-5s", p.Label)),
			barColor.Render(buildBar(barWidth)),
			formatHours(float64(p.Minutes)/60),
		)
	}
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
