package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// SettingsService handles reading and updating timer settings.
type SettingsService struct {
	store  ports.SettingsStore
	logger *zap.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store ports.SettingsStore, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{store: store, logger: log}
}

// Get returns the stored settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.store.Read(ctx)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	return settings, nil
}

// Update validates and stores settings. Invalid settings leave the store
// untouched and return a *domain.ValidationError.
func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Write(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("settings updated",
		zap.Int("work_minutes", settings.WorkMinutes),
		zap.Int("short_break_minutes", settings.ShortBreakMinutes),
		zap.Int("long_break_minutes", settings.LongBreakMinutes),
		zap.Int("cycle_length", settings.CycleLength))
	return nil
}

// Modify reads the current settings, applies fn and stores the result.
func (s *SettingsService) Modify(ctx context.Context, fn func(*domain.Settings)) (domain.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return settings, err
	}
	fn(&settings)
	if err := s.Update(ctx, settings); err != nil {
		return settings, err
	}
	return settings, nil
}
