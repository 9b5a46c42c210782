package services

import (
	"context"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// StateService implements the MCPStateProvider interface on top of the
// individual services.
type StateService struct {
	timer      *TimerService
	statistics *StatisticsService
	settings   *SettingsService
	history    *HistoryService
}

var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service.
func NewStateService(timer *TimerService, statistics *StatisticsService, settings *SettingsService) *StateService {
	return &StateService{timer: timer, statistics: statistics, settings: settings}
}

// SetHistoryService sets the history service used for TodayInHistory.
func (s *StateService) SetHistoryService(history *HistoryService) {
	s.history = history
}

// Timer implements ports.MCPStateProvider.
func (s *StateService) Timer() ports.TimerController {
	return s.timer
}

// Statistics implements ports.MCPStateProvider.
func (s *StateService) Statistics(ctx context.Context, period domain.Period) domain.StatisticsSnapshot {
	return s.statistics.Compute(ctx, period)
}

// SetGoal implements ports.MCPStateProvider.
func (s *StateService) SetGoal(ctx context.Context, period domain.Period, target int) error {
	return s.statistics.UpdateGoal(ctx, period, target)
}

// Settings implements ports.MCPStateProvider.
func (s *StateService) Settings(ctx context.Context) (domain.Settings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings implements ports.MCPStateProvider.
func (s *StateService) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	return s.settings.Update(ctx, settings)
}

// TodayInHistory implements ports.MCPStateProvider.
func (s *StateService) TodayInHistory(ctx context.Context, all bool) ([]domain.HistoricalEvent, error) {
	if s.history == nil {
		return nil, nil
	}
	if all {
		return s.history.All(ctx)
	}
	return s.history.Today(ctx)
}
