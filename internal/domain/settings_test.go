package domain

import (
	"errors"
	"testing"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Settings)
		wantField string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"upper bounds", func(s *Settings) { s.WorkMinutes, s.ShortBreakMinutes, s.LongBreakMinutes, s.CycleLength = 60, 30, 60, 10 }, ""},
		{"lower bounds", func(s *Settings) { s.WorkMinutes, s.ShortBreakMinutes, s.LongBreakMinutes, s.CycleLength = 1, 1, 5, 1 }, ""},
		{"work zero", func(s *Settings) { s.WorkMinutes = 0 }, "work_minutes"},
		{"work too long", func(s *Settings) { s.WorkMinutes = 61 }, "work_minutes"},
		{"short break too long", func(s *Settings) { s.ShortBreakMinutes = 31 }, "short_break_minutes"},
		{"long break too short", func(s *Settings) { s.LongBreakMinutes = 4 }, "long_break_minutes"},
		{"cycle too long", func(s *Settings) { s.CycleLength = 11 }, "cycle_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("error should match ErrValidation")
			}
		})
	}
}

func TestSettings_PhaseSeconds(t *testing.T) {
	s := DefaultSettings()
	if got := s.PhaseSeconds(PhaseWork); got != 1500 {
		t.Errorf("work = %d, want 1500", got)
	}
	if got := s.PhaseSeconds(PhaseShortBreak); got != 300 {
		t.Errorf("short = %d, want 300", got)
	}
	if got := s.PhaseSeconds(PhaseLongBreak); got != 900 {
		t.Errorf("long = %d, want 900", got)
	}
}
