package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// historyRepository implements ports.HistoryCache using SQLite.
type historyRepository struct {
	db *sql.DB
}

func newHistoryRepository(db *sql.DB) ports.HistoryCache {
	return &historyRepository{db: db}
}

// Get returns the cached events for a day.
func (r *historyRepository) Get(ctx context.Context, day domain.HistoryDay) ([]domain.HistoricalEvent, time.Time, bool, error) {
	query := `SELECT events, fetched_at FROM history_cache WHERE month = ? AND day = ?`

	var raw string
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx, query, int(day.Month), day.Day).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read history cache: %w", err)
	}

	var events []domain.HistoricalEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to decode history cache: %w", err)
	}
	return events, fetchedAt, true, nil
}

// Put replaces the cached events for a day.
func (r *historyRepository) Put(ctx context.Context, day domain.HistoryDay, events []domain.HistoricalEvent, fetchedAt time.Time) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode history cache: %w", err)
	}

	query := `
		INSERT INTO history_cache (month, day, events, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(month, day) DO UPDATE SET
			events = excluded.events,
			fetched_at = excluded.fetched_at
	`
	if _, err := r.db.ExecContext(ctx, query, int(day.Month), day.Day, string(raw), fetchedAt); err != nil {
		return fmt.Errorf("failed to write history cache: %w", err)
	}
	return nil
}

// Delete drops the cached entry for a day.
func (r *historyRepository) Delete(ctx context.Context, day domain.HistoryDay) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history_cache WHERE month = ? AND day = ?`, int(day.Month), day.Day); err != nil {
		return fmt.Errorf("failed to delete history cache: %w", err)
	}
	return nil
}
