// Package tui renders run progress as a Bubbletea program: one line per
// object advancing through the reconciliation states, a completion bar,
// and a closing summary.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
	"github.com/mosen/jamfsync/internal/reconcile"
)

// EventMsg carries one reconciliation progress event into the program.
type EventMsg struct {
	Event reconcile.Event
}

// DoneMsg reports that the run has finished and carries the final report.
type DoneMsg struct {
	Report *model.RunReport
}

type tickMsg struct{}

// Model holds the Bubbletea state for one run.
type Model struct {
	name string

	order    []string
	statuses map[string]model.Status
	results  map[string]*model.ObjectResult

	total     int
	completed int
	finished  bool
	cancelled bool

	cancel func()

	report *model.RunReport
}

// NewModel seeds the display with every object in input order, all pending.
func NewModel(name string, objects []*object.ManagedObject) Model {
	m := Model{
		name:     name,
		statuses: make(map[string]model.Status),
		results:  make(map[string]*model.ObjectResult),
	}

	for _, obj := range objects {
		id := obj.ID()
		if _, exists := m.statuses[id]; exists {
			continue
		}
		m.statuses[id] = model.StatusPending
		m.order = append(m.order, id)
		m.total++
	}

	return m
}

// WithCancel registers the function invoked when the user interrupts the
// run. Bubbletea consumes ctrl+c as a key event, so the run context is
// cancelled through this hook rather than a signal handler.
func (m Model) WithCancel(cancel func()) Model {
	m.cancel = cancel
	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalObjects returns the number of objects tracked by the model.
func (m Model) TotalObjects() int {
	return m.total
}

// CompletedObjects returns the number of objects in a terminal state.
func (m Model) CompletedObjects() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

// Report returns the final run report once a DoneMsg has arrived.
func (m Model) Report() *model.RunReport {
	return m.report
}

func (m Model) failedObjects() int {
	n := 0
	for _, status := range m.statuses {
		if status == model.StatusFailed {
			n++
		}
	}
	return n
}

func (m *Model) ensureObject(id string) {
	if id == "" {
		return
	}
	if _, exists := m.statuses[id]; !exists {
		m.statuses[id] = model.StatusPending
		m.order = append(m.order, id)
		m.total++
	}
}

func terminal(status model.Status) bool {
	switch status {
	case model.StatusApplied, model.StatusFailed, model.StatusCancelled:
		return true
	}
	return false
}
