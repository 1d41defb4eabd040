package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"policyminer/types"
)

// State represents the demo state machine
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// RunCompleteMsg carries the result of one pipeline run
type RunCompleteMsg struct {
	Records []types.ExtractionRecord
	Err     error
}

// HealthMsg carries the result of the startup health check
type HealthMsg struct {
	Err error
}

// Model represents the TUI client state (thin client)
type Model struct {
	// API client
	Client *APIClient

	// Local UI state
	State   State
	Records []types.ExtractionRecord
	Logs    []string
	Err     error

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model
func NewModel(serverURL string) Model {
	return Model{
		Client: NewAPIClient(serverURL),
		State:  StateIdle,
		Logs:   make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return checkHealth(m.Client)
}

// AddLog appends a timestamped log line
func (m Model) AddLog(message string) Model {
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	m.Logs = append(m.Logs, entry)
	if len(m.Logs) > 8 {
		m.Logs = m.Logs[len(m.Logs)-8:]
	}
	return m
}

// checkHealth creates a command to verify the server is reachable
func checkHealth(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Err: client.Health()}
	}
}

// runPipeline creates a command that triggers one extraction run
func runPipeline(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		records, err := client.ExtractEmails()
		return RunCompleteMsg{Records: records, Err: err}
	}
}
