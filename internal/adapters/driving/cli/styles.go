package cli

import "github.com/charmbracelet/lipgloss"

// Shared styles for command output. Lipgloss degrades to plain text when
// stdout is not a terminal, so piped output stays clean.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
)
