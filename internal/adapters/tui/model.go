// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
	"github.com/xvierd/focus/internal/services"
)

const (
	historyPageSize = 5
	historyTimeout  = 20 * time.Second
	maxBarWidth     = 60
)

// StatisticsController switches the period shown on the stats view.
type StatisticsController interface {
	Period() domain.Period
	SetPeriod(ctx context.Context, period domain.Period)
}

// ShakeControl is the shake-to-toggle policy.
type ShakeControl interface {
	Enabled() bool
	Enable() error
	Disable()
}

// OrientationControl is the face-down auto-pause policy.
type OrientationControl interface {
	State() services.OrientationState
	Enable() error
	Disable()
}

// HistorySource loads today's historical events.
type HistorySource interface {
	All(ctx context.Context) ([]domain.HistoricalEvent, error)
}

// Deps wires the model to the application. Only Timer is required.
type Deps struct {
	Timer       ports.TimerController
	Statistics  StatisticsController
	Shake       ShakeControl
	Orientation OrientationControl
	History     HistorySource

	// Simulated sensors driven from the keyboard.
	ShakeSensor interface{ Emit() }
	FaceDown    interface{ Flip() bool }
}

type screen int

const (
	screenTimer screen = iota
	screenStats
	screenHistory
	screenCount
)

// timerMsg carries a state change from the timer service.
type timerMsg struct {
	state domain.TimerState
	err   error
}

// statsMsg carries a fresh statistics snapshot.
type statsMsg domain.StatisticsSnapshot

type historyMsg struct {
	events []domain.HistoricalEvent
	err    error
}

// Model represents the TUI state.
type Model struct {
	deps     Deps
	keys     keyMap
	help     help.Model
	progress progress.Model
	goalBar  progress.Model
	width    int
	height   int
	screen   screen

	state    domain.TimerState
	timerErr error
	snapshot domain.StatisticsSnapshot
	hasStats bool

	history        []domain.HistoricalEvent
	historyErr     error
	historyLoaded  bool
	historyLoading bool
	historyPage    int

	faceDown bool
	notice   string
}

// NewModel creates a new TUI model showing the timer's current state.
func NewModel(deps Deps) Model {
	m := Model{
		deps:     deps,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithGradient(string(colorWork), colorWorkEnd), progress.WithoutPercentage()),
		goalBar:  progress.New(progress.WithGradient(string(colorBreak), colorBreakEnd)),
	}
	if deps.Timer != nil {
		m.state = deps.Timer.State()
		m.timerErr = deps.Timer.Err()
	}
	period := domain.PeriodWeekly
	if deps.Statistics != nil {
		period = deps.Statistics.Period()
	}
	m.snapshot = domain.EmptySnapshot(period)
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := min(msg.Width-4, maxBarWidth)
		m.progress.Width = barWidth
		m.goalBar.Width = barWidth
		m.help.Width = msg.Width

	case timerMsg:
		m.state = msg.state
		m.timerErr = msg.err

	case statsMsg:
		m.snapshot = domain.StatisticsSnapshot(msg)
		m.hasStats = true

	case historyMsg:
		m.historyLoading = false
		m.historyLoaded = true
		m.history = msg.events
		m.historyErr = msg.err
		m.historyPage = 0

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.PlayPause):
		m.deps.Timer.Toggle()
		m.state = m.deps.Timer.State()

	case key.Matches(msg, m.keys.Skip):
		m.deps.Timer.Skip()
		m.state = m.deps.Timer.State()

	case key.Matches(msg, m.keys.Restart):
		if err := m.deps.Timer.Restart(); err != nil {
			m.notice = "restart failed: " + err.Error()
		}
		m.state = m.deps.Timer.State()

	case key.Matches(msg, m.keys.Shake):
		if m.deps.ShakeSensor == nil {
			m.notice = "no shake sensor"
		} else {
			m.deps.ShakeSensor.Emit()
		}

	case key.Matches(msg, m.keys.Flip):
		if m.deps.FaceDown == nil {
			m.notice = "no orientation sensor"
		} else {
			m.faceDown = m.deps.FaceDown.Flip()
		}

	case key.Matches(msg, m.keys.ShakePolicy):
		m.notice = toggleShake(m.deps.Shake)

	case key.Matches(msg, m.keys.FacePolicy):
		m.notice = toggleOrientation(m.deps.Orientation)
		if m.deps.Timer != nil {
			m.state = m.deps.Timer.State()
		}

	case key.Matches(msg, m.keys.NextView):
		m.screen = (m.screen + 1) % screenCount
		if m.screen == screenHistory && !m.historyLoaded && !m.historyLoading {
			return m.loadHistory()
		}

	case key.Matches(msg, m.keys.Weekly):
		return m, m.setPeriod(domain.PeriodWeekly)
	case key.Matches(msg, m.keys.Monthly):
		return m, m.setPeriod(domain.PeriodMonthly)
	case key.Matches(msg, m.keys.Yearly):
		return m, m.setPeriod(domain.PeriodYearly)

	case key.Matches(msg, m.keys.PrevPage):
		if m.screen == screenHistory && m.historyPage > 0 {
			m.historyPage--
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.screen == screenHistory && m.historyPage+1 < domain.PageCount(m.history, historyPageSize) {
			m.historyPage++
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.screen == screenHistory && !m.historyLoading {
			return m.loadHistory()
		}
	}
	return m, nil
}

func toggleShake(p ShakeControl) string {
	if p == nil {
		return "shake control unavailable"
	}
	if p.Enabled() {
		p.Disable()
		return "shake control off"
	}
	if err := p.Enable(); err != nil {
		return sensorError(err)
	}
	return "shake control on: shake to play/pause"
}

func toggleOrientation(p OrientationControl) string {
	if p == nil {
		return "face-down control unavailable"
	}
	if p.State() != services.OrientationDisabled {
		p.Disable()
		return "face-down control off"
	}
	if err := p.Enable(); err != nil {
		return sensorError(err)
	}
	return "face-down control on: keep the device face-down while focusing"
}

func sensorError(err error) string {
	if errors.Is(err, domain.ErrSensorUnavailable) {
		return "this device has no such sensor"
	}
	return "sensor error: " + err.Error()
}

// setPeriod only matters on the stats screen. The new snapshot arrives
// through the statistics subscription.
func (m Model) setPeriod(period domain.Period) tea.Cmd {
	if m.screen != screenStats || m.deps.Statistics == nil {
		return nil
	}
	stats := m.deps.Statistics
	return func() tea.Msg {
		stats.SetPeriod(context.Background(), period)
		return nil
	}
}

func (m Model) loadHistory() (tea.Model, tea.Cmd) {
	if m.deps.History == nil {
		m.historyLoaded = true
		m.historyErr = errors.New("history is not configured")
		return m, nil
	}
	m.historyLoading = true
	source := m.deps.History
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		events, err := source.All(ctx)
		return historyMsg{events: events, err: err}
	}
}

// View renders the active screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	switch m.screen {
	case screenStats:
		sections = m.viewStats()
	case screenHistory:
		sections = m.viewHistory()
	default:
		sections = m.viewTimer()
	}

	if m.notice != "" {
		sections = append(sections, "", helpStyle.Render(m.notice))
	}
	sections = append(sections, "", m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer() []string {
	state := m.state
	color := phaseColor(state)
	phaseStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	sections := []string{titleStyle.Render("🍅 focus")}

	label := state.Phase.Label()
	if state.Paused {
		label = "⏸ " + label
	}
	sections = append(sections, phaseStyle.Render(label), "")
	sections = append(sections, renderBigTime(state.Remaining(), color, m.width), "")
	sections = append(sections, m.progress.ViewAs(state.Progress()))
	sections = append(sections, dimStyle.Render(fmt.Sprintf("Cycle %d of %d", state.CurrentCycle, state.TotalCycles)))

	if line := m.sensorLine(); line != "" {
		sections = append(sections, "", helpStyle.Render(line))
	}
	if m.timerErr != nil {
		sections = append(sections, "", errorStyle.Render("Could not save session: "+m.timerErr.Error()))
	}
	return sections
}

func (m Model) sensorLine() string {
	var parts []string
	if m.deps.Shake != nil && m.deps.Shake.Enabled() {
		parts = append(parts, "shake: on")
	}
	if m.deps.Orientation != nil {
		if st := m.deps.Orientation.State(); st != services.OrientationDisabled {
			parts = append(parts, "face-down: "+st.String())
		}
	}
	if m.faceDown {
		parts = append(parts, "device face-down")
	}
	return strings.Join(parts, "  ·  ")
}

func (m Model) viewStats() []string {
	snap := m.snapshot
	sections := []string{titleStyle.Render("📊 Statistics · " + snap.Period.Label())}

	if !m.hasStats {
		sections = append(sections, dimStyle.Render("Loading statistics..."))
	}

	statStyle := lipgloss.NewStyle().Foreground(colorWork)
	sections = append(sections,
		statStyle.Render(fmt.Sprintf("%d sessions  ·  %dh %dm focused  ·  %dm per day",
			snap.TotalSessions, snap.TotalMinutes/60, snap.TotalMinutes%60, snap.AverageDailyMinutes)),
		"",
	)

	goalStyle := helpStyle
	if snap.GoalProgress() >= 1 {
		goalStyle = lipgloss.NewStyle().Foreground(colorGoalReached)
	}
	sections = append(sections,
		goalStyle.Render(fmt.Sprintf("Goal: %d / %d sessions", snap.GoalCompleted, snap.GoalTarget)),
		m.goalBar.ViewAs(snap.ClampedProgress()),
		"",
	)

	sections = append(sections, renderSeries(snap.Series(), m.progress.Width))
	sections = append(sections, "",
		dimStyle.Render(fmt.Sprintf("work %d%%  ·  breaks %d%%  ·  other %d%%",
			snap.Distribution.Work, snap.Distribution.Break, snap.Distribution.Other)))
	return sections
}

// renderSeries draws one horizontal bar per point, scaled to the largest value.
func renderSeries(points []domain.SeriesPoint, width int) string {
	labelWidth := 0
	maxMinutes := 0
	for _, p := range points {
		labelWidth = max(labelWidth, len(p.Label))
		maxMinutes = max(maxMinutes, p.Minutes)
	}
	barWidth := max(width-labelWidth-10, 10)

	barStyle := lipgloss.NewStyle().Foreground(colorWork)
	lines := make([]string, 0, len(points))
	for _, p := range points {
		n := 0
		if maxMinutes > 0 {
			n = p.Minutes * barWidth / maxMinutes
		}
		bar := barStyle.Render(strings.Repeat("█", n)) + dimStyle.Render(strings.Repeat("░", barWidth-n))
		lines = append(lines, fmt.Sprintf("%-*s %s %4dm", labelWidth, p.Label, bar, p.Minutes))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewHistory() []string {
	sections := []string{titleStyle.Render("📜 On this day")}

	switch {
	case m.historyLoading:
		return append(sections, dimStyle.Render("Loading..."))
	case m.historyErr != nil:
		return append(sections, errorStyle.Render(m.historyErr.Error()))
	case len(m.history) == 0:
		return append(sections, dimStyle.Render("No events found for today."))
	}

	yearStyle := lipgloss.NewStyle().Bold(true).Foreground(colorWork)
	textWidth := max(min(m.width-12, 80), 20)
	textStyle := lipgloss.NewStyle().Width(textWidth)
	for _, ev := range domain.PageEvents(m.history, m.historyPage, historyPageSize) {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			yearStyle.Render(fmt.Sprintf("%5d  ", ev.Year)),
			textStyle.Render(ev.Description))
		sections = append(sections, row)
	}

	pages := domain.PageCount(m.history, historyPageSize)
	sections = append(sections, "", dimStyle.Render(fmt.Sprintf("page %d of %d", m.historyPage+1, pages)))
	return sections
}
