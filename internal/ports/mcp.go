package ports

import (
	"context"

	"github.com/xvierd/focus/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides read and write access to the application for
// the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// Timer returns the timer command surface.
	Timer() TimerController

	// Statistics computes a snapshot for the given period.
	Statistics(ctx context.Context, period domain.Period) domain.StatisticsSnapshot

	// SetGoal stores a positive session target for a period.
	SetGoal(ctx context.Context, period domain.Period, target int) error

	// Settings returns the stored settings.
	Settings(ctx context.Context) (domain.Settings, error)

	// UpdateSettings validates and stores new settings.
	UpdateSettings(ctx context.Context, settings domain.Settings) error

	// TodayInHistory returns today's historical events.
	TodayInHistory(ctx context.Context, all bool) ([]domain.HistoricalEvent, error)
}
