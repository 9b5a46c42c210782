package domain

import "time"

// TimerState is the pomodoro phase state machine. Times are in seconds.
//
// CurrentCycle counts work phases within the current long-break cycle and
// always stays within [1, TotalCycles].
type TimerState struct {
	TimeRemaining int   `json:"time_remaining"`
	TotalTime     int   `json:"total_time"`
	Paused        bool  `json:"paused"`
	CurrentCycle  int   `json:"current_cycle"`
	TotalCycles   int   `json:"total_cycles"`
	Phase         Phase `json:"phase"`
}

// NewTimerState returns a paused work phase at cycle 1.
func NewTimerState(s Settings) TimerState {
	total := s.PhaseSeconds(PhaseWork)
	return TimerState{
		TimeRemaining: total,
		TotalTime:     total,
		Paused:        true,
		CurrentCycle:  1,
		TotalCycles:   max(s.CycleLength, 1),
		Phase:         PhaseWork,
	}
}

// IsRunning returns true when the countdown is active.
func (t *TimerState) IsRunning() bool {
	return !t.Paused
}

// Tick decrements the countdown by one second while running. It returns
// true when the phase has just reached zero.
func (t *TimerState) Tick() bool {
	if t.Paused || t.TimeRemaining <= 0 {
		return false
	}
	t.TimeRemaining--
	return t.TimeRemaining == 0
}

// NextPhase returns the phase that follows the current one.
func (t *TimerState) NextPhase() Phase {
	if t.Phase != PhaseWork {
		return PhaseWork
	}
	if t.CurrentCycle >= t.TotalCycles {
		return PhaseLongBreak
	}
	return PhaseShortBreak
}

// Advance moves to the next phase using the given settings for its length.
// The new phase is always paused. It returns the phase that was completed.
func (t *TimerState) Advance(s Settings) Phase {
	completed := t.Phase
	next := t.NextPhase()

	switch completed {
	case PhaseLongBreak:
		t.CurrentCycle = 1
	case PhaseShortBreak:
		t.CurrentCycle = min(t.CurrentCycle+1, t.TotalCycles)
	}

	t.Phase = next
	t.TotalTime = s.PhaseSeconds(next)
	t.TimeRemaining = t.TotalTime
	t.Paused = true
	return completed
}

// SetTotalCycles updates the cycle length, keeping CurrentCycle in range.
func (t *TimerState) SetTotalCycles(n int) {
	t.TotalCycles = max(n, 1)
	if t.CurrentCycle > t.TotalCycles {
		t.CurrentCycle = t.TotalCycles
	}
}

// Remaining returns the time left in the current phase.
func (t TimerState) Remaining() time.Duration {
	return time.Duration(t.TimeRemaining) * time.Second
}

// Progress returns the fraction of the phase already elapsed (0.0 to 1.0).
func (t TimerState) Progress() float64 {
	if t.TotalTime <= 0 {
		return 0
	}
	elapsed := float64(t.TotalTime-t.TimeRemaining) / float64(t.TotalTime)
	if elapsed > 1.0 {
		return 1.0
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
