// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db           *sql.DB
	settingsRepo ports.SettingsStore
	sessionRepo  ports.SessionLog
	goalRepo     ports.GoalStore
	historyRepo  ports.HistoryCache
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// Option configures the storage.
type Option func(*options)

type options struct {
	bus      ports.EventBus
	logger   *zap.Logger
	defaults domain.Settings
}

// WithEventBus publishes change events on bus after each successful write.
func WithEventBus(bus ports.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithLogger sets the logger used for skipped rows and publish failures.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithDefaultSettings sets the settings returned before any were saved.
func WithDefaultSettings(s domain.Settings) Option {
	return func(o *options) { o.defaults = s }
}

// New creates a new SQLite storage instance.
func New(dbPath string, opts ...Option) (ports.Storage, error) {
	o := options{
		logger:   zap.NewNop(),
		defaults: domain.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	pub := &publisher{bus: o.bus, logger: o.logger}
	storage := &sqliteStorage{
		db:           db,
		settingsRepo: newSettingsRepository(db, pub, o.defaults, o.logger),
		sessionRepo:  newSessionRepository(db, pub, o.logger),
		goalRepo:     newGoalRepository(db, pub),
		historyRepo:  newHistoryRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory(opts ...Option) (ports.Storage, error) {
	return New(":memory:", opts...)
}

// Settings returns the settings store.
func (s *sqliteStorage) Settings() ports.SettingsStore {
	return s.settingsRepo
}

// Sessions returns the per-day session log.
func (s *sqliteStorage) Sessions() ports.SessionLog {
	return s.sessionRepo
}

// Goals returns the goal store.
func (s *sqliteStorage) Goals() ports.GoalStore {
	return s.goalRepo
}

// History returns the historical events cache.
func (s *sqliteStorage) History() ports.HistoryCache {
	return s.historyRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		work_minutes INTEGER NOT NULL,
		short_break_minutes INTEGER NOT NULL,
		long_break_minutes INTEGER NOT NULL,
		cycle_length INTEGER NOT NULL,
		notifications_enabled INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_sessions (
		date TEXT PRIMARY KEY,
		hours INTEGER NOT NULL DEFAULT 0,
		minutes INTEGER NOT NULL DEFAULT 0,
		sessions INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS goals (
		period TEXT PRIMARY KEY,
		target INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history_cache (
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		events TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		PRIMARY KEY (month, day)
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// publisher sends change events after commits. A nil bus disables it.
type publisher struct {
	bus    ports.EventBus
	logger *zap.Logger
}

func (p *publisher) publish(ctx context.Context, subject string, data map[string]any) {
	if p.bus == nil {
		return
	}
	event := ports.NewEvent(subject, "storage", data)
	if err := p.bus.Publish(ctx, subject, event); err != nil {
		p.logger.Warn("failed to publish change event",
			zap.String("subject", subject),
			zap.Error(err))
	}
}
