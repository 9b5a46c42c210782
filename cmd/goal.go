package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/domain"
)

var goalCmd = &cobra.Command{
	Use:   "goal <week|month|year> [sessions]",
	Short: "Show or set the session goal for a period",
	Long: `With one argument, print the goal and progress for the period.
With two, store a new session target.`,
	Example: `  focus goal week
  focus goal month 100`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := domain.ParsePeriod(args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid session count %q", args[1])
			}
			if err := app.statistics.UpdateGoal(cmd.Context(), period, target); err != nil {
				return err
			}
		}

		snap := app.statistics.Compute(cmd.Context(), period)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"period":    snap.Period,
				"target":    snap.GoalTarget,
				"completed": snap.GoalCompleted,
				"progress":  snap.GoalProgress(),
			})
		}

		status := ""
		if snap.GoalProgress() >= 1 {
			status = "  🎉 goal reached"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s goal: %d / %d sessions (%.0f%%)%s\n",
			snap.Period.Label(), snap.GoalCompleted, snap.GoalTarget, snap.GoalProgress()*100, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
}
