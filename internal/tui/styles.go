package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	appliedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	workingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	summaryStyle   = lipgloss.NewStyle().MarginTop(1)
)
