package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/services"
)

var (
	historyAll     bool
	historyRefresh bool
	historySearch  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show what happened on this day in history",
	Long: `Print notable events, births and deaths for today's date from Wikipedia.
Results are cached locally; --refresh fetches them again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			events []domain.HistoricalEvent
			err    error
		)
		switch {
		case historySearch != "":
			events, err = app.history.Search(ctx, historySearch)
		case historyRefresh:
			events, err = app.history.Refresh(ctx)
		case historyAll:
			events, err = app.history.All(ctx)
		default:
			events, err = app.history.Today(ctx)
		}
		if err != nil {
			return err
		}
		if historyRefresh && !historyAll && historySearch == "" && len(events) > services.TodayLimit {
			events = events[:services.TodayLimit]
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), events)
		}
		printHistory(cmd.OutOrStdout(), events)
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVarP(&historyAll, "all", "a", false, "Show every event instead of the first five")
	historyCmd.Flags().BoolVar(&historyRefresh, "refresh", false, "Ignore the cache and fetch again")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Fuzzy-search today's events")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(w io.Writer, events []domain.HistoricalEvent) {
	yearStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if len(events) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("No events found for today."))
		return
	}

	fmt.Fprintln(w)
	for _, e := range events {
		fmt.Fprintf(w, "  %s  %s\n", yearStyle.Render(fmt.Sprintf("%5d", e.Year)), e.Description)
	}
	fmt.Fprintln(w)
}
