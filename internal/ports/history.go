package ports

import (
	"context"

	"github.com/xvierd/focus/internal/domain"
)

// HistoryProvider fetches "on this day" events from a remote source.
// This is a driven port (implemented by adapters).
type HistoryProvider interface {
	// Fetch returns every event for the given calendar day, oldest first.
	Fetch(ctx context.Context, day domain.HistoryDay) ([]domain.HistoricalEvent, error)
}
