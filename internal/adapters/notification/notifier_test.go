package notification

import (
	"strings"
	"testing"

	"github.com/xvierd/focus/internal/config"
	"github.com/xvierd/focus/internal/domain"
)

type sent struct {
	title   string
	message string
}

func newRecordingNotifier(enabled bool) (*Notifier, *[]sent) {
	var got []sent
	n := New(&config.NotificationConfig{Enabled: enabled})
	n.notify = func(title, message string) error {
		got = append(got, sent{title, message})
		return nil
	}
	return n, &got
}

func TestPhaseComplete_Gating(t *testing.T) {
	tests := []struct {
		name       string
		cfgEnabled bool
		userOptIn  bool
		want       int
	}{
		{"both on", true, true, 1},
		{"config off", false, true, 0},
		{"user off", true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, got := newRecordingNotifier(tt.cfgEnabled)
			settings := domain.DefaultSettings()
			settings.NotificationsEnabled = tt.userOptIn

			if err := n.PhaseComplete(domain.PhaseWork, domain.PhaseShortBreak, settings); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(*got) != tt.want {
				t.Errorf("expected %d notifications, got %d", tt.want, len(*got))
			}
		})
	}
}

func TestPhaseComplete_Messages(t *testing.T) {
	n, got := newRecordingNotifier(true)
	settings := domain.DefaultSettings()
	settings.NotificationsEnabled = true

	_ = n.PhaseComplete(domain.PhaseWork, domain.PhaseLongBreak, settings)
	_ = n.PhaseComplete(domain.PhaseShortBreak, domain.PhaseWork, settings)

	if len(*got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(*got))
	}
	if !strings.Contains((*got)[0].message, "15 minute long break") {
		t.Errorf("unexpected work message: %q", (*got)[0].message)
	}
	if !strings.Contains((*got)[1].message, "short break") || !strings.Contains((*got)[1].message, "25 minutes") {
		t.Errorf("unexpected break message: %q", (*got)[1].message)
	}
}

func TestNilConfigIsDisabled(t *testing.T) {
	n := New(nil)
	if n.IsEnabled() {
		t.Error("nil config should be disabled")
	}
}
