package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferences_PolicyCollectsAllEdges(t *testing.T) {
	obj := mustObject(t, KindPolicy, "Install Tools")

	require.NoError(t, obj.SetField("frequency", Value("Ongoing")))
	require.NoError(t, obj.SetField("category", Value("Maintenance")))
	require.NoError(t, obj.SetField("scope.computer_groups", Value([]any{"Engineering Macs"})))
	require.NoError(t, obj.SetField("scripts.before", Value([]any{"fix-perms"})))
	require.NoError(t, obj.SetField("packages.install", Value([]any{"firefox.pkg"})))

	refs := obj.References()
	require.Equal(t, []Ref{
		{Kind: KindCategory, Name: "Maintenance", Required: true},
		{Kind: KindSmartComputerGroup, Name: "Engineering Macs", Required: true},
		{Kind: KindScript, Name: "fix-perms", Required: true},
		{Kind: KindPackage, Name: "firefox.pkg", Required: false},
	}, refs)
}

func TestReferences_Deduplicated(t *testing.T) {
	obj := mustObject(t, KindPolicy, "Install Tools")

	require.NoError(t, obj.SetField("scripts.before", Value([]any{"fix-perms"})))
	require.NoError(t, obj.SetField("scripts.after", Value([]any{"fix-perms"})))

	refs := obj.References()
	require.Len(t, refs, 1)
	require.Equal(t, "script/fix-perms", refs[0].ID())
}

func TestReferences_UnmanagedFieldsIgnored(t *testing.T) {
	obj := mustObject(t, KindScript, "fix-perms")
	require.NoError(t, obj.SetField("category", Unmanaged()))

	require.Empty(t, obj.References())
}

func TestReferences_AbsentObjectHasNone(t *testing.T) {
	obj := mustObject(t, KindScript, "fix-perms")
	require.NoError(t, obj.SetField("category", Value("Maintenance")))
	obj.Absent = true

	require.Nil(t, obj.References())
}
