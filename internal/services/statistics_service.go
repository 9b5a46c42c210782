package services

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
	"github.com/xvierd/focus/internal/stats"
)

// StatisticsService recomputes period snapshots from the session log and
// pushes a fresh one to subscribers on every relevant change.
type StatisticsService struct {
	sessions  ports.SessionLog
	goals     ports.GoalStore
	clock     clockwork.Clock
	weekStart time.Weekday
	logger    *zap.Logger

	refreshMu sync.Mutex

	mu      sync.Mutex
	period  domain.Period
	subs    map[int]chan domain.StatisticsSnapshot
	nextID  int
	busSubs []ports.Subscription
}

// NewStatisticsService creates a statistics service showing the weekly period.
func NewStatisticsService(sessions ports.SessionLog, goals ports.GoalStore, clock clockwork.Clock, weekStart time.Weekday, log *zap.Logger) *StatisticsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatisticsService{
		sessions:  sessions,
		goals:     goals,
		clock:     clock,
		weekStart: weekStart,
		logger:    log,
		period:    domain.PeriodWeekly,
		subs:      make(map[int]chan domain.StatisticsSnapshot),
	}
}

// Compute builds the snapshot for period. Read failures yield an empty
// snapshot with the default goal.
func (s *StatisticsService) Compute(ctx context.Context, period domain.Period) domain.StatisticsSnapshot {
	records, err := s.sessions.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("failed to read session log, showing empty statistics",
			zap.String("period", string(period)),
			zap.Error(err))
		return domain.EmptySnapshot(period)
	}

	goal, err := s.goals.Read(ctx, period)
	if err != nil || goal <= 0 {
		if err != nil {
			s.logger.Warn("failed to read goal, using default",
				zap.String("period", string(period)),
				zap.Error(err))
		}
		goal = period.DefaultGoal()
	}

	return stats.Compute(records, period, goal, s.clock.Now(), s.weekStart)
}

// Period returns the active period.
func (s *StatisticsService) Period() domain.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Current computes the snapshot for the active period.
func (s *StatisticsService) Current(ctx context.Context) domain.StatisticsSnapshot {
	return s.Compute(ctx, s.Period())
}

// SetPeriod switches the active period and emits a new snapshot.
func (s *StatisticsService) SetPeriod(ctx context.Context, period domain.Period) {
	s.mu.Lock()
	changed := s.period != period
	s.period = period
	s.mu.Unlock()

	if changed {
		s.refresh(ctx)
	}
}

// UpdateGoal validates and stores a goal. Subscribers see the change
// through the store's goals.updated event.
func (s *StatisticsService) UpdateGoal(ctx context.Context, period domain.Period, target int) error {
	if err := domain.ValidateGoal(target); err != nil {
		return err
	}
	return s.goals.Write(ctx, period, target)
}

// Subscribe returns a channel that first receives the current snapshot and
// then one snapshot per change. Slow readers only see the latest value.
// The channel is closed when ctx is done.
func (s *StatisticsService) Subscribe(ctx context.Context) <-chan domain.StatisticsSnapshot {
	ch := make(chan domain.StatisticsSnapshot, 1)

	s.refreshMu.Lock()
	snap := s.Current(ctx)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	offer(ch, snap)
	s.mu.Unlock()
	s.refreshMu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Watch subscribes to session log and goal changes on bus.
func (s *StatisticsService) Watch(bus ports.EventBus) error {
	appended, err := bus.Subscribe(ports.SubjectSessionsAppended, func(ctx context.Context, _ *ports.Event) error {
		s.refresh(ctx)
		return nil
	})
	if err != nil {
		return err
	}

	goals, err := bus.Subscribe(ports.SubjectGoalsUpdated, func(ctx context.Context, e *ports.Event) error {
		if p, _ := e.Data["period"].(string); domain.Period(p) != s.Period() {
			return nil
		}
		s.refresh(ctx)
		return nil
	})
	if err != nil {
		_ = appended.Unsubscribe()
		return err
	}

	s.mu.Lock()
	s.busSubs = append(s.busSubs, appended, goals)
	s.mu.Unlock()
	return nil
}

// Close drops the bus subscriptions.
func (s *StatisticsService) Close() {
	s.mu.Lock()
	subs := s.busSubs
	s.busSubs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
}

func (s *StatisticsService) refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap := s.Current(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Period != s.period {
		return
	}
	for _, ch := range s.subs {
		offer(ch, snap)
	}
}

// offer replaces any unread value in a one-slot channel.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
