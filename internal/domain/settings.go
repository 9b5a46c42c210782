package domain

import (
	"fmt"
	"time"
)

// Bounds for user-editable settings, in minutes (cycle length in work phases).
const (
	MinWorkMinutes       = 1
	MaxWorkMinutes       = 60
	MinShortBreakMinutes = 1
	MaxShortBreakMinutes = 30
	MinLongBreakMinutes  = 5
	MaxLongBreakMinutes  = 60
	MinCycleLength       = 1
	MaxCycleLength       = 10
)

// Settings holds the user's timer durations.
type Settings struct {
	WorkMinutes          int  `json:"work_minutes"`
	ShortBreakMinutes    int  `json:"short_break_minutes"`
	LongBreakMinutes     int  `json:"long_break_minutes"`
	CycleLength          int  `json:"cycle_length"`
	NotificationsEnabled bool `json:"notifications_enabled"`
}

// DefaultSettings returns the standard pomodoro settings (25/5/15, 4 cycles).
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		CycleLength:       4,
	}
}

// Validate checks every field against its bounds and returns the first
// violation as a *ValidationError.
func (s Settings) Validate() error {
	checks := []struct {
		field    string
		value    int
		min, max int
	}{
		{"work_minutes", s.WorkMinutes, MinWorkMinutes, MaxWorkMinutes},
		{"short_break_minutes", s.ShortBreakMinutes, MinShortBreakMinutes, MaxShortBreakMinutes},
		{"long_break_minutes", s.LongBreakMinutes, MinLongBreakMinutes, MaxLongBreakMinutes},
		{"cycle_length", s.CycleLength, MinCycleLength, MaxCycleLength},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return &ValidationError{
				Field:   c.field,
				Message: boundsMessage(c.min, c.max),
			}
		}
	}
	return nil
}

// PhaseSeconds returns the configured length of a phase in seconds.
func (s Settings) PhaseSeconds(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreakMinutes * 60
	case PhaseLongBreak:
		return s.LongBreakMinutes * 60
	default:
		return s.WorkMinutes * 60
	}
}

// PhaseDuration is PhaseSeconds as a time.Duration.
func (s Settings) PhaseDuration(p Phase) time.Duration {
	return time.Duration(s.PhaseSeconds(p)) * time.Second
}

func boundsMessage(min, max int) string {
	return fmt.Sprintf("must be between %d and %d", min, max)
}
