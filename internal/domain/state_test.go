package domain

import "testing"

func TestNewTimerState(t *testing.T) {
	state := NewTimerState(DefaultSettings())

	if state.Phase != PhaseWork {
		t.Errorf("Phase = %v, want %v", state.Phase, PhaseWork)
	}
	if !state.Paused {
		t.Error("new timer should be paused")
	}
	if state.TimeRemaining != 1500 || state.TotalTime != 1500 {
		t.Errorf("TimeRemaining/TotalTime = %d/%d, want 1500/1500", state.TimeRemaining, state.TotalTime)
	}
	if state.CurrentCycle != 1 || state.TotalCycles != 4 {
		t.Errorf("cycle = %d/%d, want 1/4", state.CurrentCycle, state.TotalCycles)
	}
}

func TestTimerState_Tick(t *testing.T) {
	tests := []struct {
		name          string
		state         TimerState
		wantRemaining int
		wantDone      bool
	}{
		{"paused does nothing", TimerState{TimeRemaining: 10, Paused: true}, 10, false},
		{"running decrements", TimerState{TimeRemaining: 10}, 9, false},
		{"reaches zero", TimerState{TimeRemaining: 1}, 0, true},
		{"zero stays zero", TimerState{TimeRemaining: 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := tt.state.Tick()
			if done != tt.wantDone {
				t.Errorf("Tick() = %v, want %v", done, tt.wantDone)
			}
			if tt.state.TimeRemaining != tt.wantRemaining {
				t.Errorf("TimeRemaining = %d, want %d", tt.state.TimeRemaining, tt.wantRemaining)
			}
		})
	}
}

func TestTimerState_Advance(t *testing.T) {
	settings := Settings{WorkMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, CycleLength: 2}

	tests := []struct {
		name      string
		phase     Phase
		cycle     int
		wantPhase Phase
		wantCycle int
		wantTotal int
	}{
		{"work before last cycle", PhaseWork, 1, PhaseShortBreak, 1, 300},
		{"work on last cycle", PhaseWork, 2, PhaseLongBreak, 2, 900},
		{"short break increments cycle", PhaseShortBreak, 1, PhaseWork, 2, 1500},
		{"long break resets cycle", PhaseLongBreak, 2, PhaseWork, 1, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := TimerState{Phase: tt.phase, CurrentCycle: tt.cycle, TotalCycles: 2, TimeRemaining: 42}
			completed := state.Advance(settings)

			if completed != tt.phase {
				t.Errorf("Advance() = %v, want %v", completed, tt.phase)
			}
			if state.Phase != tt.wantPhase {
				t.Errorf("Phase = %v, want %v", state.Phase, tt.wantPhase)
			}
			if state.CurrentCycle != tt.wantCycle {
				t.Errorf("CurrentCycle = %d, want %d", state.CurrentCycle, tt.wantCycle)
			}
			if state.TotalTime != tt.wantTotal || state.TimeRemaining != tt.wantTotal {
				t.Errorf("TotalTime/TimeRemaining = %d/%d, want %d", state.TotalTime, state.TimeRemaining, tt.wantTotal)
			}
			if !state.Paused {
				t.Error("new phase should be paused")
			}
		})
	}
}

func TestTimerState_LongBreakOnlyAtCycleEnd(t *testing.T) {
	for cycles := 1; cycles <= MaxCycleLength; cycles++ {
		settings := DefaultSettings()
		settings.CycleLength = cycles
		state := NewTimerState(settings)

		for i := 1; i <= cycles; i++ {
			state.Advance(settings)
			wantLong := i == cycles
			if (state.Phase == PhaseLongBreak) != wantLong {
				t.Fatalf("cycles=%d work #%d: phase = %v", cycles, i, state.Phase)
			}
			state.Advance(settings)
		}
		if state.CurrentCycle != 1 || state.Phase != PhaseWork {
			t.Errorf("cycles=%d: after full cycle got %v cycle %d", cycles, state.Phase, state.CurrentCycle)
		}
	}
}

func TestTimerState_SetTotalCycles(t *testing.T) {
	state := TimerState{CurrentCycle: 4, TotalCycles: 4}
	state.SetTotalCycles(2)
	if state.TotalCycles != 2 || state.CurrentCycle != 2 {
		t.Errorf("cycle = %d/%d, want 2/2", state.CurrentCycle, state.TotalCycles)
	}

	state.SetTotalCycles(0)
	if state.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want 1", state.TotalCycles)
	}
}

func TestTimerState_Progress(t *testing.T) {
	tests := []struct {
		remaining, total int
		want             float64
	}{
		{1500, 1500, 0},
		{750, 1500, 0.5},
		{0, 1500, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		got := TimerState{TimeRemaining: tt.remaining, TotalTime: tt.total}.Progress()
		if got != tt.want {
			t.Errorf("Progress(%d/%d) = %v, want %v", tt.remaining, tt.total, got, tt.want)
		}
	}
}

func TestPhase_Label(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseWork, "Focus"},
		{PhaseShortBreak, "Short Break"},
		{PhaseLongBreak, "Long Break"},
		{Phase("nap"), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.Label(); got != tt.want {
			t.Errorf("%v.Label() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
