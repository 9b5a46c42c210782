// Package notification provides desktop notifications for phase changes.
package notification

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/focus/internal/config"
	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// Notifier sends a desktop notification when a phase completes.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string) error
}

var _ ports.PhaseNotifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration. With sound
// enabled the notification is sent as an alert.
func New(cfg *config.NotificationConfig) *Notifier {
	send := beeep.Notify
	if cfg != nil && cfg.Sound {
		send = beeep.Alert
	}
	return &Notifier{cfg: cfg, notify: func(title, message string) error {
		return send(title, message, "")
	}}
}

// IsEnabled returns true if notifications are enabled in the config.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// PhaseComplete implements ports.PhaseNotifier. Both the config switch and
// the user's stored preference must be on.
func (n *Notifier) PhaseComplete(completed, next domain.Phase, settings domain.Settings) error {
	if !n.IsEnabled() || !settings.NotificationsEnabled {
		return nil
	}
	title, message := phaseMessage(completed, next, settings)
	return n.notify(title, message)
}

func phaseMessage(completed, next domain.Phase, settings domain.Settings) (string, string) {
	if completed == domain.PhaseWork {
		title := "🍅 Focus session complete!"
		return title, fmt.Sprintf("Great job! Time for a %d minute %s.",
			settings.PhaseSeconds(next)/60, strings.ToLower(next.Label()))
	}
	return "☕ Break over!", fmt.Sprintf("Your %s is complete. Ready to focus for %d minutes?",
		strings.ToLower(completed.Label()), settings.WorkMinutes)
}
