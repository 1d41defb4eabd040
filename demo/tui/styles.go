package tui

import "github.com/charmbracelet/lipgloss"

// Palette: teal accents over muted grays, red reserved for failures.
const (
	colorAccent  = "#00A6A6"
	colorOK      = "#2BB673"
	colorFail    = "#E5484D"
	colorMuted   = "#8A8A8A"
	colorForeTxt = "#F2F2F2"
)

var (
	// TitleStyle heads the screen.
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)).
		MarginTop(1).
		MarginBottom(1)

	// StatusStyle renders the connected/running/done line.
	StatusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorOK))

	// ErrorStyle renders failed runs and unreachable-server notices.
	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorFail))

	// InfoStyle renders stats and the activity log.
	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted))

	// BoxStyle frames the record listing after a completed run.
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorAccent)).
		Padding(0, 2)

	// HighlightStyle is the inverted help line shown once results are in.
	HighlightStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorForeTxt)).
		Background(lipgloss.Color(colorAccent)).
		Padding(0, 1)
)
