package diffengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
)

func mustObject(t *testing.T, kind object.Kind, name string) *object.ManagedObject {
	t.Helper()
	obj, err := object.New(kind, name)
	require.NoError(t, err)
	return obj
}

func setValue(t *testing.T, obj *object.ManagedObject, field string, v any) {
	t.Helper()
	require.NoError(t, obj.SetField(field, object.Value(v)))
}

func TestDiff_MissingObjectCreates(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, desired, "category", "Maintenance")
	setValue(t, desired, "contents", "#!/bin/sh\nexit 0\n")

	changes := Diff(desired, nil)
	require.Equal(t, model.OpCreate, changes.Operation)
	require.Equal(t, []model.FieldDiff{
		{Field: "category", Old: nil, New: "Maintenance"},
		{Field: "contents", Old: nil, New: "#!/bin/sh\nexit 0\n"},
	}, changes.FieldDiffs)
}

func TestDiff_CreateOmitsUnmanagedAndCleared(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, desired, "contents", "#!/bin/sh\n")
	require.NoError(t, desired.SetField("notes", object.Unmanaged()))
	require.NoError(t, desired.SetField("parameters", object.Clear()))

	changes := Diff(desired, nil)
	require.Equal(t, model.OpCreate, changes.Operation)
	require.Len(t, changes.FieldDiffs, 1)
	require.Equal(t, "contents", changes.FieldDiffs[0].Field)
}

func TestDiff_AbsentAndMissingIsNoOp(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	desired.Absent = true

	changes := Diff(desired, nil)
	require.Equal(t, model.OpNoOp, changes.Operation)
	require.True(t, changes.Empty())
}

func TestDiff_AbsentAndPresentDeletes(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	desired.Absent = true

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "contents", "#!/bin/sh\n")

	changes := Diff(desired, actual)
	require.Equal(t, model.OpDelete, changes.Operation)
}

func TestDiff_SingletonAbsentReadConvergesViaUpdate(t *testing.T) {
	desired := mustObject(t, object.KindSsoSettings, "sso")
	setValue(t, desired, "provider", "Okta")

	changes := Diff(desired, nil)
	require.Equal(t, model.OpUpdate, changes.Operation)
}

func TestDiff_EqualStateIsNoOp(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, desired, "category", "Maintenance")
	setValue(t, desired, "contents", "#!/bin/sh\n")

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "category", "Maintenance")
	setValue(t, actual, "contents", "#!/bin/sh\n")

	changes := Diff(desired, actual)
	require.Equal(t, model.OpNoOp, changes.Operation)
	require.Empty(t, changes.FieldDiffs)
}

func TestDiff_UpdateListsOnlyChangedFields(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, desired, "category", "Maintenance")
	setValue(t, desired, "contents", "#!/bin/sh\nexit 1\n")

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "category", "Maintenance")
	setValue(t, actual, "contents", "#!/bin/sh\nexit 0\n")

	changes := Diff(desired, actual)
	require.Equal(t, model.OpUpdate, changes.Operation)
	require.Equal(t, []model.FieldDiff{
		{Field: "contents", Old: "#!/bin/sh\nexit 0\n", New: "#!/bin/sh\nexit 1\n"},
	}, changes.FieldDiffs)
}

func TestDiff_UnmanagedFieldNeverDiffs(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	require.NoError(t, desired.SetField("notes", object.Unmanaged()))

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "notes", "hand-edited on the server")

	changes := Diff(desired, actual)
	require.Equal(t, model.OpNoOp, changes.Operation)
}

func TestDiff_ClearRemovesServerContent(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	require.NoError(t, desired.SetField("parameters", object.Clear()))

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "parameters", []any{"-v"})

	changes := Diff(desired, actual)
	require.Equal(t, model.OpUpdate, changes.Operation)
	require.Equal(t, []model.FieldDiff{
		{Field: "parameters", Old: []string{"-v"}, New: nil},
	}, changes.FieldDiffs)
}

func TestDiff_ClearAgainstEmptyServerStateIsNoOp(t *testing.T) {
	desired := mustObject(t, object.KindScript, "fix-perms")
	require.NoError(t, desired.SetField("parameters", object.Clear()))

	actual := mustObject(t, object.KindScript, "fix-perms")
	setValue(t, actual, "parameters", []any{})

	require.Equal(t, model.OpNoOp, Diff(desired, actual).Operation)

	// Field absent on the server entirely.
	bare := mustObject(t, object.KindScript, "fix-perms")
	require.Equal(t, model.OpNoOp, Diff(desired, bare).Operation)
}

func TestDiff_EmptyDesiredCollectionEqualsAbsentActual(t *testing.T) {
	desired := mustObject(t, object.KindPolicy, "P")
	setValue(t, desired, "frequency", "Ongoing")
	setValue(t, desired, "scope.computer_groups", []any{})

	actual := mustObject(t, object.KindPolicy, "P")
	setValue(t, actual, "frequency", "Ongoing")

	require.Equal(t, model.OpNoOp, Diff(desired, actual).Operation)
}

func TestDiff_SetComparisonIgnoresInputOrder(t *testing.T) {
	desired := mustObject(t, object.KindPolicy, "P")
	setValue(t, desired, "frequency", "Ongoing")
	setValue(t, desired, "scope.computer_groups", []any{"b", "a"})

	actual := mustObject(t, object.KindPolicy, "P")
	setValue(t, actual, "frequency", "Ongoing")
	setValue(t, actual, "scope.computer_groups", []any{"a", "b"})

	require.Equal(t, model.OpNoOp, Diff(desired, actual).Operation)
}

func TestDiff_WriteOnlyFieldExcludedFromUpdate(t *testing.T) {
	desired := mustObject(t, object.KindAccount, "deploy")
	setValue(t, desired, "password", "hunter2")
	setValue(t, desired, "full_name", "Deploy Bot")

	actual := mustObject(t, object.KindAccount, "deploy")
	setValue(t, actual, "full_name", "Deploy Bot")

	require.Equal(t, model.OpNoOp, Diff(desired, actual).Operation)
}

func TestDiff_WriteOnlyFieldSentOnCreate(t *testing.T) {
	desired := mustObject(t, object.KindAccount, "deploy")
	setValue(t, desired, "password", "hunter2")

	changes := Diff(desired, nil)
	require.Equal(t, model.OpCreate, changes.Operation)
	require.Len(t, changes.FieldDiffs, 1)
	require.Equal(t, "password", changes.FieldDiffs[0].Field)
}

func TestDiff_Idempotent(t *testing.T) {
	desired := mustObject(t, object.KindSmartComputerGroup, "Engineering Macs")
	setValue(t, desired, "criteria", []any{
		map[string]any{"name": "Department", "is": "Engineering"},
	})

	// Simulate the post-apply state: the server holds exactly what was
	// desired. Diffing again must be a no-op.
	actual := mustObject(t, object.KindSmartComputerGroup, "Engineering Macs")
	setValue(t, actual, "criteria", []any{
		map[string]any{"name": "Department", "search_type": "is", "value": "Engineering"},
	})

	require.Equal(t, model.OpNoOp, Diff(desired, actual).Operation)
}
