package services

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

const sessionWriteTimeout = 5 * time.Second

// TimerService owns the pomodoro state machine and its tick loop.
// All state changes go through its commands; listeners are notified
// after the lock is released.
type TimerService struct {
	settings ports.SettingsStore
	sessions ports.SessionLog
	notifier ports.PhaseNotifier
	clock    clockwork.Clock
	logger   *zap.Logger

	mu        sync.Mutex
	state     domain.TimerState
	current   domain.Settings
	lastErr   error
	loopGen   uint64
	cancel    context.CancelFunc
	listeners map[int]ports.TimerListener
	nextID    int
}

var _ ports.TimerController = (*TimerService)(nil)

// NewTimerService creates a paused timer at the first work phase using the
// stored settings. A nil clock uses the real clock.
func NewTimerService(ctx context.Context, settings ports.SettingsStore, sessions ports.SessionLog, clock clockwork.Clock, log *zap.Logger) *TimerService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &TimerService{
		settings:  settings,
		sessions:  sessions,
		clock:     clock,
		logger:    log,
		listeners: make(map[int]ports.TimerListener),
	}
	s.current = s.readSettings(ctx)
	s.state = domain.NewTimerState(s.current)
	return s
}

// SetNotifier sets the sink for phase-completion notifications.
func (s *TimerService) SetNotifier(n ports.PhaseNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// State returns a copy of the current state.
func (s *TimerService) State() domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error left by the last command, if any.
func (s *TimerService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers a listener and returns its unsubscribe func.
func (s *TimerService) Subscribe(listener ports.TimerListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Play starts the countdown. It is a no-op while running or at zero.
func (s *TimerService) Play() {
	s.mu.Lock()
	if !s.state.Paused || s.state.TimeRemaining <= 0 {
		s.mu.Unlock()
		return
	}
	s.state.Paused = false
	s.lastErr = nil
	s.startLoopLocked()
	s.unlockAndNotify()
}

// Pause stops the countdown. It is a no-op while paused.
func (s *TimerService) Pause() {
	s.mu.Lock()
	if s.state.Paused {
		s.mu.Unlock()
		return
	}
	s.pauseLocked()
	s.lastErr = nil
	s.unlockAndNotify()
}

// PauseIf pauses the running timer only if cond holds under the timer lock.
// cond must not call back into the timer.
func (s *TimerService) PauseIf(cond func() bool) bool {
	s.mu.Lock()
	if s.state.Paused || !cond() {
		s.mu.Unlock()
		return false
	}
	s.pauseLocked()
	s.lastErr = nil
	s.unlockAndNotify()
	return true
}

// Toggle plays when paused and pauses when running.
func (s *TimerService) Toggle() {
	s.mu.Lock()
	paused := s.state.Paused
	s.mu.Unlock()

	if paused {
		s.Play()
	} else {
		s.Pause()
	}
}

// Skip completes the current phase immediately without recording a session.
func (s *TimerService) Skip() {
	s.mu.Lock()
	s.stopLoopLocked()
	completed := s.state.Advance(s.current)
	s.lastErr = nil
	s.logger.Debug("phase skipped",
		zap.String("phase", string(completed)),
		zap.String("next", string(s.state.Phase)))
	s.unlockAndNotify()
}

// Restart returns to a paused first work phase with freshly read settings.
func (s *TimerService) Restart() error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionWriteTimeout)
	defer cancel()

	settings, err := s.settings.Read(ctx)
	if err != nil {
		s.logger.Warn("failed to read settings on restart, keeping current", zap.Error(err))
	}

	s.mu.Lock()
	s.stopLoopLocked()
	if err == nil {
		s.current = settings
	}
	s.state = domain.NewTimerState(s.current)
	s.lastErr = err
	s.unlockAndNotify()
	return err
}

// Tick advances the countdown by one second if running. Reaching zero
// completes the phase.
func (s *TimerService) Tick() {
	s.mu.Lock()
	s.tickLocked()
}

// ApplySettings updates the live settings. A paused first work phase is
// re-derived from the new work length; otherwise only the cycle length
// changes.
func (s *TimerService) ApplySettings(settings domain.Settings) {
	s.mu.Lock()
	s.current = settings
	if s.state.Paused && s.state.Phase == domain.PhaseWork && s.state.CurrentCycle == 1 {
		s.state.TotalTime = settings.PhaseSeconds(domain.PhaseWork)
		s.state.TimeRemaining = s.state.TotalTime
	}
	s.state.SetTotalCycles(settings.CycleLength)
	s.unlockAndNotify()
}

// WatchSettings applies settings.updated events from bus until the
// returned subscription is cancelled.
func (s *TimerService) WatchSettings(bus ports.EventBus) (ports.Subscription, error) {
	return bus.Subscribe(ports.SubjectSettingsUpdated, func(ctx context.Context, _ *ports.Event) error {
		settings, err := s.settings.Read(ctx)
		if err != nil {
			return err
		}
		s.ApplySettings(settings)
		return nil
	})
}

// Close stops the tick loop.
func (s *TimerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoopLocked()
}

func (s *TimerService) readSettings(ctx context.Context) domain.Settings {
	settings, err := s.settings.Read(ctx)
	if err != nil {
		s.logger.Warn("failed to read settings, using defaults", zap.Error(err))
		return domain.DefaultSettings()
	}
	return settings
}

func (s *TimerService) startLoopLocked() {
	s.stopLoopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.loopGen
	go s.run(ctx, gen)
}

func (s *TimerService) stopLoopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loopGen++
}

func (s *TimerService) pauseLocked() {
	s.stopLoopLocked()
	s.state.Paused = true
}

// run waits one interval per tick until cancelled or superseded.
func (s *TimerService) run(ctx context.Context, gen uint64) {
	for {
		timer := s.clock.NewTimer(TickInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}

		s.mu.Lock()
		if gen != s.loopGen {
			s.mu.Unlock()
			return
		}
		if !s.tickLocked() {
			return
		}
	}
}

// tickLocked performs one tick and releases the lock. It reports whether
// the timer is still running afterwards.
func (s *TimerService) tickLocked() bool {
	if s.state.Paused || s.state.TimeRemaining <= 0 {
		s.mu.Unlock()
		return false
	}

	var done func()
	if s.state.Tick() {
		done = s.completeLocked()
	}
	running := !s.state.Paused
	s.unlockAndNotify()

	if done != nil {
		done()
	}
	return running
}

// completeLocked finishes a phase that ran to zero. The session write for a
// work phase happens before the transition. It returns a func to run after
// the lock is released.
func (s *TimerService) completeLocked() func() {
	completed := s.state.Phase
	var writeErr error

	if completed == domain.PhaseWork {
		ctx, cancel := context.WithTimeout(context.Background(), sessionWriteTimeout)
		writeErr = s.sessions.AppendSession(ctx, domain.DateKey(s.clock.Now()), s.current.WorkMinutes)
		cancel()
		if writeErr != nil {
			s.logger.Warn("failed to record completed session",
				zap.Int("cycle", s.state.CurrentCycle),
				zap.Error(writeErr))
		}
	}

	s.stopLoopLocked()
	s.state.Advance(s.current)
	s.lastErr = writeErr

	s.logger.Info("phase completed",
		zap.String("phase", string(completed)),
		zap.String("next", string(s.state.Phase)),
		zap.Int("cycle", s.state.CurrentCycle))

	notifier := s.notifier
	settings := s.current
	next := s.state.Phase
	if notifier == nil {
		return nil
	}
	return func() {
		if err := notifier.PhaseComplete(completed, next, settings); err != nil {
			s.logger.Debug("notification failed", zap.Error(err))
		}
	}
}

// unlockAndNotify snapshots state, releases the lock and calls listeners.
func (s *TimerService) unlockAndNotify() {
	state := s.state
	err := s.lastErr
	listeners := make([]ports.TimerListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state, err)
	}
}
