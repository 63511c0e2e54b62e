package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/tui/components"
)

// View renders the current state of the run.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("jamfsync • %s", m.title())))

	progress := components.NewProgress(m.total).View(m.completed, m.failedObjects())
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	entries := components.NewObjectList(m.order, m.statuses, m.results).Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Objects"))
		sections = append(sections, renderObjectEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Finished:  m.finished,
		Cancelled: m.cancelled,
		Report:    m.report,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderObjectEntries(entries []components.ObjectEntry) string {
	var lines []string
	for _, entry := range entries {
		line := fmt.Sprintf(" %s %s", StatusIcon(entry.Status), entry.ID)
		if res := entry.Result; res != nil {
			if strings.TrimSpace(res.Message) != "" {
				line = fmt.Sprintf("%s: %s", line, res.Message)
			}
			for _, warning := range res.Warnings {
				line = fmt.Sprintf("%s\n   %s %s", line, warnStyle.Render("!"), warning)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) title() string {
	if strings.TrimSpace(m.name) != "" {
		return m.name
	}
	return "Run"
}

// StatusIcon returns the glyph for a reconciliation status.
func StatusIcon(status model.Status) string {
	switch status {
	case model.StatusApplied:
		return appliedStyle.Render("✓")
	case model.StatusResolving, model.StatusDiffed, model.StatusApplying:
		return workingStyle.Render("⏳")
	case model.StatusFailed:
		return failedStyle.Render("✗")
	case model.StatusCancelled:
		return cancelledStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
