package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// settingsRepository implements ports.SettingsStore using a single-row table.
type settingsRepository struct {
	db       *sql.DB
	pub      *publisher
	defaults domain.Settings
	logger   *zap.Logger
}

func newSettingsRepository(db *sql.DB, pub *publisher, defaults domain.Settings, log *zap.Logger) ports.SettingsStore {
	return &settingsRepository{db: db, pub: pub, defaults: defaults, logger: log}
}

// Read returns the stored settings, or the defaults when none were saved
// or the stored row is out of bounds.
func (r *settingsRepository) Read(ctx context.Context) (domain.Settings, error) {
	query := `
		SELECT work_minutes, short_break_minutes, long_break_minutes, cycle_length, notifications_enabled
		FROM settings
		WHERE id = 1
	`

	var s domain.Settings
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.WorkMinutes,
		&s.ShortBreakMinutes,
		&s.LongBreakMinutes,
		&s.CycleLength,
		&s.NotificationsEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaults, nil
	}
	if err != nil {
		return r.defaults, &domain.PersistenceError{Op: "read settings", Err: err}
	}

	if err := s.Validate(); err != nil {
		r.logger.Warn("stored settings out of bounds, using defaults", zap.Error(err))
		return r.defaults, nil
	}
	return s, nil
}

// Write validates and stores the settings.
func (r *settingsRepository) Write(ctx context.Context, s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO settings (
			id, work_minutes, short_break_minutes, long_break_minutes, cycle_length,
			notifications_enabled, updated_at
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_minutes = excluded.work_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			cycle_length = excluded.cycle_length,
			notifications_enabled = excluded.notifications_enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.WorkMinutes,
		s.ShortBreakMinutes,
		s.LongBreakMinutes,
		s.CycleLength,
		s.NotificationsEnabled,
		time.Now(),
	)
	if err != nil {
		return &domain.PersistenceError{Op: "write settings", Err: err}
	}

	r.pub.publish(ctx, ports.SubjectSettingsUpdated, map[string]any{"settings": s})
	return nil
}
