package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and advances model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil

	case EventMsg:
		id := msg.Event.ID
		if id == "" {
			return m, nil
		}
		m.ensureObject(id)

		previous := m.statuses[id]
		m.statuses[id] = msg.Event.Status
		if msg.Event.Result != nil {
			m.results[id] = msg.Event.Result
		}
		if terminal(msg.Event.Status) && !terminal(previous) {
			m.completed++
		}
		return m, nil

	case DoneMsg:
		m.report = msg.Report
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}

	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}
