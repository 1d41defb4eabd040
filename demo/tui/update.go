package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthMsg:
		return m.handleHealth(msg)
	case RunCompleteMsg:
		return m.handleRunComplete(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		if m.State != StateRunning {
			m.State = StateRunning
			m.Err = nil
			m = m.AddLog("Running extraction pipeline...")
			return m, runPipeline(m.Client)
		}
	}
	return m, nil
}

// handleHealth processes the startup health check
func (m Model) handleHealth(msg HealthMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m = m.AddLog(fmt.Sprintf("Server unreachable: %v", msg.Err))
		return m, nil
	}
	m.Connected = true
	m = m.AddLog("Connected to server")
	return m, nil
}

// handleRunComplete processes pipeline completion
func (m Model) handleRunComplete(msg RunCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Records = msg.Records
	m.State = StateComplete
	m = m.AddLog(fmt.Sprintf("Run complete: %d record(s)", len(msg.Records)))
	return m, nil
}
