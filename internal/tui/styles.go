package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9b59b6"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
)
