package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/focus/internal/domain"
)

const (
	colorWork        = lipgloss.Color("#7C6FE0")
	colorWorkEnd     = "#A78BFA"
	colorBreak       = lipgloss.Color("#4ECDC4")
	colorBreakEnd    = "#2ECC71"
	colorPaused      = lipgloss.Color("#6B7280")
	colorTitle       = lipgloss.Color("#6B7280")
	colorHelp        = lipgloss.Color("#95A5A6")
	colorError       = lipgloss.Color("#E05A5A")
	colorGoalReached = lipgloss.Color("#2ECC71")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle).MarginBottom(1)
	helpStyle  = lipgloss.NewStyle().Foreground(colorHelp)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	dimStyle   = lipgloss.NewStyle().Foreground(colorPaused)
)

// phaseColor returns the accent color for a phase, grey while paused.
func phaseColor(state domain.TimerState) lipgloss.Color {
	if state.Paused {
		return colorPaused
	}
	if state.Phase.IsBreak() {
		return colorBreak
	}
	return colorWork
}
