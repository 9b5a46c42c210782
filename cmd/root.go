// Package cmd provides the CLI commands for the focus application.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/adapters/tui"
	"github.com/xvierd/focus/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "focus - A Pomodoro timer with statistics and goals",
	Long: `focus is a Pomodoro timer for the terminal. It alternates focus
sessions with short and long breaks, records every completed session and
shows weekly, monthly and yearly statistics against your goals.

Run "focus" with no arguments to open the interactive timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = cleanupServices()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.focus/focus.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("focus\nVersion: {{.Version}}\n")
}

// runTimer opens the interactive timer, or prints the timer state when
// stdout is not a terminal.
func runTimer(cmd *cobra.Command, args []string) error {
	if jsonOutput || !term.IsTerminal(os.Stdout.Fd()) {
		return printTimerState(cmd.OutOrStdout(), app.timer.State())
	}

	ctx, stop := setupSignalHandler()
	defer stop()

	deps := tui.Deps{
		Timer:       app.timer,
		Statistics:  app.statistics,
		Shake:       app.shake,
		Orientation: app.orientation,
		History:     app.history,
		ShakeSensor: app.shakeSensor,
		FaceDown:    app.orientationSensor,
	}
	return tui.Run(ctx, deps, app.statistics)
}

func printTimerState(w io.Writer, state domain.TimerState) error {
	if jsonOutput {
		return writeJSON(w, map[string]interface{}{
			"phase":          state.Phase.Label(),
			"time_remaining": state.TimeRemaining,
			"total_time":     state.TotalTime,
			"paused":         state.Paused,
			"current_cycle":  state.CurrentCycle,
			"total_cycles":   state.TotalCycles,
		})
	}
	fmt.Fprintf(w, "🍅 %s  %s  (cycle %d of %d)\n",
		state.Phase.Label(), formatMinutes(state.Remaining()), state.CurrentCycle, state.TotalCycles)
	fmt.Fprintln(w, "Run focus in a terminal to start the interactive timer.")
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 && m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
