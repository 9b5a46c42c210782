package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// mockTimer is a minimal ports.TimerController for testing.
type mockTimer struct {
	state      domain.TimerState
	err        error
	restartErr error
	skips      int
}

func (m *mockTimer) State() domain.TimerState { return m.state }
func (m *mockTimer) Err() error               { return m.err }
func (m *mockTimer) Play()                    { m.state.Paused = false }
func (m *mockTimer) Pause()                   { m.state.Paused = true }
func (m *mockTimer) Toggle()                  { m.state.Paused = !m.state.Paused }
func (m *mockTimer) Skip() {
	m.skips++
	m.state.Advance(domain.DefaultSettings())
}
func (m *mockTimer) Restart() error {
	if m.restartErr != nil {
		return m.restartErr
	}
	m.state = domain.NewTimerState(domain.DefaultSettings())
	return nil
}
func (m *mockTimer) PauseIf(cond func() bool) bool {
	if cond() {
		m.state.Paused = true
		return true
	}
	return false
}
func (m *mockTimer) Subscribe(ports.TimerListener) func() { return func() {} }

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	timer    *mockTimer
	settings domain.Settings
	goals    map[domain.Period]int
	events   []domain.HistoricalEvent
	allAsked bool
}

func newMockStateProvider() *mockStateProvider {
	return &mockStateProvider{
		timer:    &mockTimer{state: domain.NewTimerState(domain.DefaultSettings())},
		settings: domain.DefaultSettings(),
		goals:    map[domain.Period]int{},
	}
}

func (m *mockStateProvider) Timer() ports.TimerController { return m.timer }

func (m *mockStateProvider) Statistics(ctx context.Context, period domain.Period) domain.StatisticsSnapshot {
	snap := domain.EmptySnapshot(period)
	snap.TotalSessions = 3
	return snap
}

func (m *mockStateProvider) SetGoal(ctx context.Context, period domain.Period, target int) error {
	if err := domain.ValidateGoal(target); err != nil {
		return err
	}
	m.goals[period] = target
	return nil
}

func (m *mockStateProvider) Settings(ctx context.Context) (domain.Settings, error) {
	return m.settings, nil
}

func (m *mockStateProvider) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = settings
	return nil
}

func (m *mockStateProvider) TodayInHistory(ctx context.Context, all bool) ([]domain.HistoricalEvent, error) {
	m.allAsked = all
	return m.events, nil
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewServer(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(newMockStateProvider())

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_handleGetTimerState(t *testing.T) {
	mock := newMockStateProvider()
	mock.timer.err = errors.New("disk full")
	server := NewServer(mock)

	result, err := server.handleGetTimerState(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handleGetTimerState() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["phase"] != "Focus" {
		t.Errorf("expected phase Focus, got %v", got["phase"])
	}
	if got["paused"] != true {
		t.Errorf("expected paused timer, got %v", got["paused"])
	}
	if got["last_error"] != "disk full" {
		t.Errorf("expected last_error to be reported, got %v", got["last_error"])
	}
}

func TestServer_handlePlayPause(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	if _, err := server.handlePlayPause(context.Background(), callTool(nil)); err != nil {
		t.Fatalf("handlePlayPause() error = %v", err)
	}
	if mock.timer.state.Paused {
		t.Error("timer should be running after play_pause")
	}

	_, _ = server.handlePlayPause(context.Background(), callTool(nil))
	if !mock.timer.state.Paused {
		t.Error("timer should be paused after second play_pause")
	}
}

func TestServer_handleSkipPhase(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	result, err := server.handleSkipPhase(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handleSkipPhase() error = %v", err)
	}
	if mock.timer.skips != 1 {
		t.Errorf("expected one skip, got %d", mock.timer.skips)
	}
	if !strings.Contains(resultText(t, result), "Short Break") {
		t.Errorf("expected short break in result: %s", resultText(t, result))
	}
}

func TestServer_handleRestartTimer_Error(t *testing.T) {
	mock := newMockStateProvider()
	mock.timer.restartErr = errors.New("settings unreadable")
	server := NewServer(mock)

	result, err := server.handleRestartTimer(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handleRestartTimer() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error result")
	}
}

func TestServer_handleGetStatistics(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    domain.Period
		wantErr bool
	}{
		{"default weekly", nil, domain.PeriodWeekly, false},
		{"monthly", map[string]interface{}{"period": "monthly"}, domain.PeriodMonthly, false},
		{"invalid", map[string]interface{}{"period": "daily"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(newMockStateProvider())
			result, err := server.handleGetStatistics(context.Background(), callTool(tt.args))
			if err != nil {
				t.Fatalf("handleGetStatistics() error = %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v", result.IsError, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var snap domain.StatisticsSnapshot
			if err := json.Unmarshal([]byte(resultText(t, result)), &snap); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if snap.Period != tt.want {
				t.Errorf("period = %s, want %s", snap.Period, tt.want)
			}
			if snap.TotalSessions != 3 {
				t.Errorf("total sessions = %d, want 3", snap.TotalSessions)
			}
		})
	}
}

func TestServer_handleSetGoal(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	result, err := server.handleSetGoal(context.Background(), callTool(map[string]interface{}{
		"period": "yearly",
		"target": float64(500),
	}))
	if err != nil {
		t.Fatalf("handleSetGoal() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if mock.goals[domain.PeriodYearly] != 500 {
		t.Errorf("expected yearly goal 500, got %d", mock.goals[domain.PeriodYearly])
	}

	result, _ = server.handleSetGoal(context.Background(), callTool(map[string]interface{}{
		"period": "weekly",
		"target": float64(0),
	}))
	if !result.IsError {
		t.Error("non-positive goal should be rejected")
	}
	if _, ok := mock.goals[domain.PeriodWeekly]; ok {
		t.Error("rejected goal must not be stored")
	}

	result, _ = server.handleSetGoal(context.Background(), callTool(map[string]interface{}{
		"target": float64(10),
	}))
	if !result.IsError {
		t.Error("missing period should be rejected")
	}
}

func TestServer_handleUpdateSettings(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	result, err := server.handleUpdateSettings(context.Background(), callTool(map[string]interface{}{
		"work_minutes":          float64(50),
		"notifications_enabled": true,
	}))
	if err != nil {
		t.Fatalf("handleUpdateSettings() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	want := domain.DefaultSettings()
	want.WorkMinutes = 50
	want.NotificationsEnabled = true
	if mock.settings != want {
		t.Errorf("settings = %+v, want %+v", mock.settings, want)
	}
}

func TestServer_handleUpdateSettings_Invalid(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	result, _ := server.handleUpdateSettings(context.Background(), callTool(map[string]interface{}{
		"cycle_length": float64(0),
	}))
	if !result.IsError {
		t.Fatal("cycle_length 0 should be rejected")
	}
	if !strings.Contains(resultText(t, result), "cycle_length") {
		t.Errorf("error should name the field: %s", resultText(t, result))
	}
	if mock.settings != domain.DefaultSettings() {
		t.Error("settings must be unchanged after a rejected update")
	}
}

func TestServer_handleUpdateSettings_Fractional(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock)

	result, err := server.handleUpdateSettings(context.Background(), callTool(map[string]interface{}{
		"work_minutes": 25.7,
	}))
	if err != nil {
		t.Fatalf("handleUpdateSettings() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("work_minutes 25.7 should be rejected, not truncated")
	}
	if !strings.Contains(resultText(t, result), "work_minutes must be a whole number") {
		t.Errorf("unexpected error text: %s", resultText(t, result))
	}
	if mock.settings != domain.DefaultSettings() {
		t.Error("settings must be unchanged after a rejected update")
	}
}

func TestServer_handleGetHistory(t *testing.T) {
	mock := newMockStateProvider()
	mock.events = []domain.HistoricalEvent{{Year: 1969, Description: "Apollo 11 lands on the Moon."}}
	server := NewServer(mock)

	result, err := server.handleGetHistory(context.Background(), callTool(map[string]interface{}{"all": true}))
	if err != nil {
		t.Fatalf("handleGetHistory() error = %v", err)
	}
	if !mock.allAsked {
		t.Error("all flag was not forwarded")
	}
	if !strings.Contains(resultText(t, result), "Apollo 11") {
		t.Errorf("unexpected result: %s", resultText(t, result))
	}
}
