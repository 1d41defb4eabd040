package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("📬 PolicyMiner Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Statistics
	if len(m.Records) > 0 {
		extracted := 0
		for _, rec := range m.Records {
			if rec.Extracted != nil {
				extracted++
			}
		}
		stats := fmt.Sprintf("📊 Records: %d | With fields: %d", len(m.Records), extracted)
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Results
	if m.State == StateComplete && len(m.Records) > 0 {
		b.WriteString(BoxStyle.Render(m.formatRecords()))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateIdle:
		b.WriteString(InfoStyle.Render("Press 'r' to run extraction | Press 'q' or Ctrl+C to quit"))
	case StateRunning:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(HighlightStyle.Render("Press 'r' to run again | 'q' or Ctrl+C to exit"))
	}

	return b.String()
}

// getStateText returns a styled status line for the current state
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		if m.Connected {
			return StatusStyle.Render("✓ Connected — ready to run")
		}
		return InfoStyle.Render("○ Waiting for server...")
	case StateRunning:
		return StatusStyle.Render("⏳ Running extraction pipeline...")
	case StateComplete:
		return StatusStyle.Render("✓ Extraction complete")
	case StateError:
		return ErrorStyle.Render(fmt.Sprintf("✗ Error: %v", m.Err))
	}
	return ""
}

// formatRecords renders the extraction results for display
func (m Model) formatRecords() string {
	var b strings.Builder
	for i, rec := range m.Records {
		if i > 0 {
			b.WriteString("\n")
		}
		label := rec.Filename
		if label == "" {
			label = "(body)"
		}
		b.WriteString(fmt.Sprintf("%s [%s]\n", label, rec.MediaKind))
		if rec.Extracted == nil {
			b.WriteString("   no structured fields\n")
			continue
		}
		f := rec.Extracted
		if f.PolicyNumber != "" {
			b.WriteString(fmt.Sprintf("   Policy: %s", f.PolicyNumber))
			if f.PolicyCategory != "" {
				b.WriteString(fmt.Sprintf(" (%s)", f.PolicyCategory))
			}
			b.WriteString("\n")
		}
		if f.IssuerName != "" {
			b.WriteString(fmt.Sprintf("   Issuer: %s\n", f.IssuerName))
		}
		if f.PremiumAmount != "" || f.CoverageAmount != "" {
			b.WriteString(fmt.Sprintf("   Premium: %s | Coverage: %s\n", f.PremiumAmount, f.CoverageAmount))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
