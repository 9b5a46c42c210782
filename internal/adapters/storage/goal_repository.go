package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// goalRepository implements ports.GoalStore using SQLite.
type goalRepository struct {
	db  *sql.DB
	pub *publisher
}

func newGoalRepository(db *sql.DB, pub *publisher) ports.GoalStore {
	return &goalRepository{db: db, pub: pub}
}

// Read returns the stored target, or the period default.
func (r *goalRepository) Read(ctx context.Context, period domain.Period) (int, error) {
	var target int
	err := r.db.QueryRowContext(ctx, `SELECT target FROM goals WHERE period = ?`, string(period)).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return period.DefaultGoal(), nil
	}
	if err != nil {
		return period.DefaultGoal(), &domain.PersistenceError{Op: "read goal", Err: err}
	}
	if target <= 0 {
		return period.DefaultGoal(), nil
	}
	return target, nil
}

// Write stores a positive target and publishes goals.updated.
func (r *goalRepository) Write(ctx context.Context, period domain.Period, target int) error {
	if _, err := domain.ParsePeriod(string(period)); err != nil {
		return &domain.ValidationError{Field: "period", Message: "must be weekly, monthly or yearly"}
	}
	if err := domain.ValidateGoal(target); err != nil {
		return err
	}

	query := `
		INSERT INTO goals (period, target, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(period) DO UPDATE SET
			target = excluded.target,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, string(period), target, time.Now()); err != nil {
		return &domain.PersistenceError{Op: "write goal", Err: err}
	}

	r.pub.publish(ctx, ports.SubjectGoalsUpdated, map[string]any{
		"period": string(period),
		"target": target,
	})
	return nil
}
