package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/nowpublish/internal/domain"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorDim   = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleBar     = lipgloss.NewStyle().Foreground(colorCyan)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func statusIcon(s domain.JobState) string {
	switch s {
	case domain.StateSuccessful:
		return "✓"
	case domain.StateFailed:
		return "✗"
	case domain.StateRunning:
		return "●"
	case domain.StatePending:
		return "↷"
	case domain.StateCanceled:
		return "○"
	default:
		return "?"
	}
}

// progressBar renders percent as a fixed-width bar.
func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return styleBar.Render(strings.Repeat("█", filled)) + styleDim.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
