// Package ports defines the interfaces (driven and driving ports)
// for the focus application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus/internal/domain"
)

// SettingsStore persists the user's timer settings.
// This is a driven port (implemented by adapters).
type SettingsStore interface {
	// Read returns the stored settings, or the defaults if none were saved.
	Read(ctx context.Context) (domain.Settings, error)

	// Write validates and persists settings. Invalid settings are rejected
	// without touching stored state.
	Write(ctx context.Context, settings domain.Settings) error
}

// SessionLog persists per-day focus totals keyed by "2006-01-02".
// This is a driven port (implemented by adapters).
type SessionLog interface {
	// ReadAll returns every day record keyed by date.
	ReadAll(ctx context.Context) (map[string]domain.DaySessionRecord, error)

	// ReadOne returns the record for a date, or nil when none exists.
	ReadOne(ctx context.Context, date string) (*domain.DaySessionRecord, error)

	// AppendSession atomically adds one completed session of the given
	// length to the date's record, creating it if needed.
	AppendSession(ctx context.Context, date string, minutes int) error
}

// GoalStore persists per-period session targets.
// This is a driven port (implemented by adapters).
type GoalStore interface {
	// Read returns the period's target, or its default when unset.
	Read(ctx context.Context, period domain.Period) (int, error)

	// Write stores a positive target for the period.
	Write(ctx context.Context, period domain.Period, target int) error
}

// HistoryCache stores fetched historical events per calendar day.
// This is a driven port (implemented by adapters).
type HistoryCache interface {
	// Get returns cached events and when they were fetched. ok is false on a miss.
	Get(ctx context.Context, day domain.HistoryDay) (events []domain.HistoricalEvent, fetchedAt time.Time, ok bool, err error)

	// Put replaces the cached events for a day.
	Put(ctx context.Context, day domain.HistoryDay, events []domain.HistoricalEvent, fetchedAt time.Time) error

	// Delete drops the cached entry for a day.
	Delete(ctx context.Context, day domain.HistoryDay) error
}

// Storage combines all stores with lifecycle management.
type Storage interface {
	Settings() SettingsStore
	Sessions() SessionLog
	Goals() GoalStore
	History() HistoryCache

	// Close releases any resources held by the storage.
	Close() error

	// Migrate runs any necessary database migrations.
	Migrate() error
}
