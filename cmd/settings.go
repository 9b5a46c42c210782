package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xvierd/focus/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "View timer durations and notification settings",
	Long: `Show the stored timer settings. Use "focus settings set" to change them.

The running timer picks up new settings the next time it sits paused at the
start of a cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := app.settings.Get(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), settings)
		}
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change timer durations and notification settings",
	Example: `  focus settings set --work 50 --short 10
  focus settings set --cycle 3 --notifications=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !anyChanged(flags, "work", "short", "long", "cycle", "notifications") {
			return fmt.Errorf("nothing to change; pass at least one of --work, --short, --long, --cycle, --notifications")
		}

		var applyErr error
		settings, err := app.settings.Modify(cmd.Context(), func(s *domain.Settings) {
			applyErr = applySettingsFlags(flags, s)
		})
		if applyErr != nil {
			return applyErr
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), settings)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  Saved.")
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.Int("work", 0, "Focus session length in minutes (1-60)")
	f.Int("short", 0, "Short break length in minutes (1-30)")
	f.Int("long", 0, "Long break length in minutes (5-60)")
	f.Int("cycle", 0, "Focus sessions per cycle (1-10)")
	f.Bool("notifications", true, "Show a desktop notification when a phase ends")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

// applySettingsFlags copies every flag the user set onto s.
func applySettingsFlags(flags *pflag.FlagSet, s *domain.Settings) error {
	ints := []struct {
		name   string
		target *int
	}{
		{"work", &s.WorkMinutes},
		{"short", &s.ShortBreakMinutes},
		{"long", &s.LongBreakMinutes},
		{"cycle", &s.CycleLength},
	}
	for _, f := range ints {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetInt(f.name)
		if err != nil {
			return err
		}
		*f.target = v
	}

	if flags.Changed("notifications") {
		v, err := flags.GetBool("notifications")
		if err != nil {
			return err
		}
		s.NotificationsEnabled = v
	}
	return nil
}

func printSettings(w io.Writer, s domain.Settings) {
	notif := "off"
	if s.NotificationsEnabled {
		notif = "on"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Timer settings:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Focus:                 %dm\n", s.WorkMinutes)
	fmt.Fprintf(w, "    Short break:           %dm\n", s.ShortBreakMinutes)
	fmt.Fprintf(w, "    Long break:            %dm\n", s.LongBreakMinutes)
	fmt.Fprintf(w, "    Sessions before long:  %d\n", s.CycleLength)
	fmt.Fprintf(w, "    Notifications:         %s\n", notif)
	fmt.Fprintln(w)
}
