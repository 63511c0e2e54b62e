package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
	"github.com/mosen/jamfsync/internal/reconcile"
)

func testObjects(t *testing.T) []*object.ManagedObject {
	t.Helper()

	category, err := object.New(object.KindCategory, "Maintenance")
	require.NoError(t, err)
	script, err := object.New(object.KindScript, "fix-perms")
	require.NoError(t, err)

	return []*object.ManagedObject{category, script}
}

func applyMsg(t *testing.T, m Model, msg interface{}) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestNewModel_SeedsAllPending(t *testing.T) {
	m := NewModel("baseline", testObjects(t))
	require.Equal(t, 2, m.TotalObjects())
	require.Zero(t, m.CompletedObjects())
	require.False(t, m.IsFinished())
}

func TestUpdate_TerminalEventAdvancesCompletion(t *testing.T) {
	m := NewModel("baseline", testObjects(t))

	m = applyMsg(t, m, EventMsg{Event: reconcile.Event{
		ID: "category/Maintenance", Kind: "category", Name: "Maintenance",
		Status: model.StatusApplying,
	}})
	require.Zero(t, m.CompletedObjects())

	m = applyMsg(t, m, EventMsg{Event: reconcile.Event{
		ID: "category/Maintenance", Kind: "category", Name: "Maintenance",
		Status: model.StatusApplied,
		Result: &model.ObjectResult{Kind: "category", Name: "Maintenance", Status: model.StatusApplied, Message: "created"},
	}})
	require.Equal(t, 1, m.CompletedObjects())

	// A repeated terminal event must not double count.
	m = applyMsg(t, m, EventMsg{Event: reconcile.Event{
		ID: "category/Maintenance", Status: model.StatusApplied,
	}})
	require.Equal(t, 1, m.CompletedObjects())
}

func TestUpdate_DoneMsgFinishes(t *testing.T) {
	m := NewModel("baseline", testObjects(t))

	report := &model.RunReport{}
	m = applyMsg(t, m, DoneMsg{Report: report})
	require.True(t, m.IsFinished())
	require.Equal(t, report, m.Report())
}

func TestUpdate_CtrlCInvokesCancel(t *testing.T) {
	cancelled := false
	m := NewModel("baseline", testObjects(t)).WithCancel(func() { cancelled = true })

	m = applyMsg(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.Cancelled())
	require.True(t, cancelled)
}

func TestView_ShowsObjectsAndMessages(t *testing.T) {
	m := NewModel("baseline", testObjects(t))

	m = applyMsg(t, m, EventMsg{Event: reconcile.Event{
		ID: "script/fix-perms", Kind: "script", Name: "fix-perms",
		Status: model.StatusFailed,
		Result: &model.ObjectResult{Kind: "script", Name: "fix-perms", Status: model.StatusFailed, Message: "server returned status 409"},
	}})

	out := m.View()
	require.Contains(t, out, "baseline")
	require.Contains(t, out, "category/Maintenance")
	require.Contains(t, out, "script/fix-perms")
	require.Contains(t, out, "server returned status 409")
	require.Contains(t, out, "1 failed")
}

func TestRenderReport_PlainOutput(t *testing.T) {
	report := &model.RunReport{}
	report.Add(model.ObjectResult{
		Kind: "script", Name: "fix-perms",
		Operation: model.OpUpdate, Status: model.StatusApplied,
		Message: "updated",
		FieldDiffs: []model.FieldDiff{
			{Field: "contents", Old: "#!/bin/sh\nexit 0\n", New: "#!/bin/sh\nexit 1\n"},
		},
		Warnings: []string{"package/firefox.pkg not present on server"},
	})
	report.Add(model.ObjectResult{
		Kind: "category", Name: "Maintenance",
		Operation: model.OpNoOp, Status: model.StatusApplied,
		Message: "already in desired state",
	})

	out := RenderReport(report, true)
	require.Contains(t, out, "script/fix-perms: updated")
	require.Contains(t, out, "package/firefox.pkg not present on server")
	require.Contains(t, out, "contents:")
	require.Contains(t, out, "-exit 0")
	require.Contains(t, out, "+exit 1")
	require.Contains(t, out, "Updated: 1")
}

func TestRenderReport_ScalarDiff(t *testing.T) {
	report := &model.RunReport{}
	report.Add(model.ObjectResult{
		Kind: "category", Name: "Maintenance",
		Operation: model.OpUpdate, Status: model.StatusApplied,
		FieldDiffs: []model.FieldDiff{{Field: "priority", Old: 9, New: 5}},
	})

	out := RenderReport(report, true)
	require.Contains(t, out, "priority: 9 -> 5")
}
