// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"focus-pomodoro",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the current pomodoro timer state: phase, remaining time, cycle and whether it is paused"),
		),
		s.handleGetTimerState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"play_pause",
			mcp.WithDescription("Start the timer if paused, pause it if running"),
		),
		s.handlePlayPause,
	)

	s.server.AddTool(
		mcp.NewTool(
			"skip_phase",
			mcp.WithDescription("Skip to the next phase without recording a session"),
		),
		s.handleSkipPhase,
	)

	s.server.AddTool(
		mcp.NewTool(
			"restart_timer",
			mcp.WithDescription("Reset the timer to the first focus phase using the stored settings"),
		),
		s.handleRestartTimer,
	)

	statsTool := mcp.NewTool(
		"get_statistics",
		mcp.WithDescription("Get focus statistics for a period: totals, daily average, series, distribution and goal progress"),
		mcp.WithString(
			"period",
			mcp.Description("Statistics window (default: weekly)"),
			mcp.Enum("weekly", "monthly", "yearly"),
		),
	)
	s.server.AddTool(statsTool, s.handleGetStatistics)

	goalTool := mcp.NewTool(
		"set_goal",
		mcp.WithDescription("Set the session goal for a period"),
		mcp.WithString(
			"period",
			mcp.Required(),
			mcp.Description("Period the goal applies to"),
			mcp.Enum("weekly", "monthly", "yearly"),
		),
		mcp.WithNumber(
			"target",
			mcp.Required(),
			mcp.Description("Number of focus sessions to complete in the period (must be positive)"),
		),
	)
	s.server.AddTool(goalTool, s.handleSetGoal)

	s.server.AddTool(
		mcp.NewTool(
			"get_settings",
			mcp.WithDescription("Get the timer settings"),
		),
		s.handleGetSettings,
	)

	updateSettingsTool := mcp.NewTool(
		"update_settings",
		mcp.WithDescription("Update timer settings. Omitted fields keep their current value."),
		mcp.WithNumber("work_minutes", mcp.Description("Focus phase length, 1-60")),
		mcp.WithNumber("short_break_minutes", mcp.Description("Short break length, 1-30")),
		mcp.WithNumber("long_break_minutes", mcp.Description("Long break length, 5-60")),
		mcp.WithNumber("cycle_length", mcp.Description("Focus sessions before a long break, 1-10")),
		mcp.WithBoolean("notifications_enabled", mcp.Description("Send a desktop notification when a phase ends")),
	)
	s.server.AddTool(updateSettingsTool, s.handleUpdateSettings)

	historyTool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("Get historical events that happened on today's date"),
		mcp.WithBoolean("all", mcp.Description("Return every event instead of the first five")),
	)
	s.server.AddTool(historyTool, s.handleGetHistory)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer := s.stateProvider.Timer()
	result := timerStateJSON(timer.State())
	if err := timer.Err(); err != nil {
		result["last_error"] = err.Error()
	}
	return jsonResult(result)
}

func (s *Server) handlePlayPause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer := s.stateProvider.Timer()
	timer.Toggle()
	return jsonResult(timerStateJSON(timer.State()))
}

func (s *Server) handleSkipPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer := s.stateProvider.Timer()
	timer.Skip()
	return jsonResult(timerStateJSON(timer.State()))
}

func (s *Server) handleRestartTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer := s.stateProvider.Timer()
	if err := timer.Restart(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to restart timer: %v", err)), nil
	}
	return jsonResult(timerStateJSON(timer.State()))
}

func (s *Server) handleGetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period, err := domain.ParsePeriod(request.GetString("period", string(domain.PeriodWeekly)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snapshot := s.stateProvider.Statistics(ctx, period)
	return jsonResult(snapshot)
}

func (s *Server) handleSetGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("period")
	if err != nil {
		return mcp.NewToolResultError("period is required: " + err.Error()), nil
	}
	period, err := domain.ParsePeriod(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := request.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target is required: " + err.Error()), nil
	}

	if err := s.stateProvider.SetGoal(ctx, period, int(target)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set goal: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"period": string(period),
		"target": int(target),
	})
}

func (s *Server) handleGetSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.stateProvider.Settings(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read settings: %v", err)), nil
	}
	return jsonResult(settings)
}

func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.stateProvider.Settings(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read settings: %v", err)), nil
	}

	args := request.GetArguments()
	for key, field := range map[string]*int{
		"work_minutes":        &settings.WorkMinutes,
		"short_break_minutes": &settings.ShortBreakMinutes,
		"long_break_minutes":  &settings.LongBreakMinutes,
		"cycle_length":        &settings.CycleLength,
	} {
		if _, ok := args[key]; !ok {
			continue
		}
		v := request.GetFloat(key, float64(*field))
		if v != math.Trunc(v) {
			return mcp.NewToolResultError(fmt.Sprintf("%s must be a whole number", key)), nil
		}
		*field = int(v)
	}
	if _, ok := args["notifications_enabled"]; ok {
		settings.NotificationsEnabled = request.GetBool("notifications_enabled", settings.NotificationsEnabled)
	}

	if err := s.stateProvider.UpdateSettings(ctx, settings); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update settings: %v", err)), nil
	}

	return jsonResult(settings)
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.stateProvider.TodayInHistory(ctx, request.GetBool("all", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch history: %v", err)), nil
	}
	if events == nil {
		events = []domain.HistoricalEvent{}
	}
	return jsonResult(events)
}

func timerStateJSON(state domain.TimerState) map[string]interface{} {
	return map[string]interface{}{
		"phase":          state.Phase.Label(),
		"time_remaining": state.Remaining().String(),
		"seconds_left":   state.TimeRemaining,
		"total_seconds":  state.TotalTime,
		"paused":         state.Paused,
		"current_cycle":  state.CurrentCycle,
		"total_cycles":   state.TotalCycles,
		"progress":       state.Progress(),
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
