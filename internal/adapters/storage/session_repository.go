package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// sessionRepository implements ports.SessionLog using SQLite.
type sessionRepository struct {
	db     *sql.DB
	pub    *publisher
	logger *zap.Logger

	// mu serializes read-merge-write appends.
	mu sync.Mutex
}

// newSessionRepository creates a new session log repository.
func newSessionRepository(db *sql.DB, pub *publisher, log *zap.Logger) ports.SessionLog {
	return &sessionRepository{db: db, pub: pub, logger: log}
}

// ReadAll returns every day record keyed by date. Rows with an unparsable
// date are skipped.
func (r *sessionRepository) ReadAll(ctx context.Context) (map[string]domain.DaySessionRecord, error) {
	query := `SELECT date, hours, minutes, sessions FROM day_sessions ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read session log", Err: err}
	}
	defer func() { _ = rows.Close() }()

	records := make(map[string]domain.DaySessionRecord)
	for rows.Next() {
		var rec domain.DaySessionRecord
		if err := rows.Scan(&rec.Date, &rec.Hours, &rec.Minutes, &rec.Sessions); err != nil {
			return nil, &domain.PersistenceError{Op: "scan session log", Err: err}
		}
		if _, err := domain.ParseDateKey(rec.Date); err != nil {
			r.logger.Warn("skipping session log row", zap.String("date", rec.Date), zap.Error(err))
			continue
		}
		rec.Normalize()
		records[rec.Date] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "read session log", Err: err}
	}

	return records, nil
}

// ReadOne returns the record for date, or nil when there is none.
func (r *sessionRepository) ReadOne(ctx context.Context, date string) (*domain.DaySessionRecord, error) {
	rec, err := readDay(ctx, r.db, date)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read session log", Err: err}
	}
	return rec, nil
}

// AppendSession merges one completed session into the date's record inside
// a transaction and publishes sessions.appended after commit.
func (r *sessionRepository) AppendSession(ctx context.Context, date string, minutes int) error {
	if _, err := domain.ParseDateKey(date); err != nil {
		return &domain.ValidationError{Field: "date", Message: fmt.Sprintf("must use layout %s", domain.DateLayout)}
	}
	if minutes < 0 {
		return &domain.ValidationError{Field: "minutes", Message: "must not be negative"}
	}

	r.mu.Lock()
	rec, err := r.appendLocked(ctx, date, minutes)
	r.mu.Unlock()
	if err != nil {
		return &domain.PersistenceError{Op: "append session", Err: err}
	}

	r.pub.publish(ctx, ports.SubjectSessionsAppended, map[string]any{
		"date":     date,
		"minutes":  minutes,
		"sessions": rec.Sessions,
	})
	return nil
}

func (r *sessionRepository) appendLocked(ctx context.Context, date string, minutes int) (domain.DaySessionRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.DaySessionRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := readDay(ctx, tx, date)
	if err != nil {
		return domain.DaySessionRecord{}, err
	}

	rec := domain.NewDaySessionRecord(date)
	if existing != nil {
		rec = *existing
	}
	rec.AddSession(minutes)

	query := `
		INSERT INTO day_sessions (date, hours, minutes, sessions)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			hours = excluded.hours,
			minutes = excluded.minutes,
			sessions = excluded.sessions
	`
	if _, err := tx.ExecContext(ctx, query, rec.Date, rec.Hours, rec.Minutes, rec.Sessions); err != nil {
		return domain.DaySessionRecord{}, fmt.Errorf("failed to write day record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.DaySessionRecord{}, fmt.Errorf("failed to commit: %w", err)
	}
	return rec, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readDay(ctx context.Context, q queryer, date string) (*domain.DaySessionRecord, error) {
	query := `SELECT date, hours, minutes, sessions FROM day_sessions WHERE date = ?`

	var rec domain.DaySessionRecord
	err := q.QueryRowContext(ctx, query, date).Scan(&rec.Date, &rec.Hours, &rec.Minutes, &rec.Sessions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read day record: %w", err)
	}
	rec.Normalize()
	return &rec, nil
}
