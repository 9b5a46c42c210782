package ports

import (
	"github.com/xvierd/focus/internal/domain"
)

// TimerListener receives the timer state after every displayed change,
// together with the last persistence error (nil when the last command succeeded).
type TimerListener func(state domain.TimerState, err error)

// TimerController is the command surface of the pomodoro state machine.
// This is a driving port (called by the TUI, the MCP server and sensor policies).
//
// Commands that do not apply to the current state are no-ops.
type TimerController interface {
	// State returns a copy of the current timer state.
	State() domain.TimerState

	// Err returns the last persistence error, if any.
	Err() error

	// Play starts the countdown when paused.
	Play()

	// Pause stops the countdown when running.
	Pause()

	// Toggle plays when paused and pauses when running.
	Toggle()

	// Skip completes the current phase without recording a session.
	Skip()

	// Restart returns to a paused first work phase using fresh settings.
	Restart() error

	// PauseIf pauses the running timer only if cond still holds under the
	// timer lock. It reports whether a pause happened.
	PauseIf(cond func() bool) bool

	// Subscribe registers a listener and returns its unsubscribe func.
	Subscribe(listener TimerListener) func()
}

// PhaseNotifier announces finished phases to the user.
// This is a driven port (implemented by the notification adapter).
type PhaseNotifier interface {
	// PhaseComplete is called after a phase finished naturally.
	PhaseComplete(completed, next domain.Phase, settings domain.Settings) error
}
