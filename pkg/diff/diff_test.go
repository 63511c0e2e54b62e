package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnified_IdenticalContentIsEmpty(t *testing.T) {
	require.Empty(t, Unified("#!/bin/sh\n", "#!/bin/sh\n", "desired", "actual"))
}

func TestUnified_ShowsAddedAndRemovedLines(t *testing.T) {
	actual := "line one\nline two\n"
	desired := "line one\nline three\n"

	out := Unified(desired, actual, "desired", "actual")
	require.Contains(t, out, "--- actual")
	require.Contains(t, out, "+++ desired")
	require.Contains(t, out, "-")
	require.Contains(t, out, "+")
	require.Contains(t, out, "two")
	require.Contains(t, out, "three")
}

func TestUnified_NewContentAgainstEmpty(t *testing.T) {
	out := Unified("#!/bin/sh\nexit 0\n", "", "desired", "actual")
	require.Contains(t, out, "+#!/bin/sh")
	require.Contains(t, out, "+exit 0")
}

func TestUnified_TruncatesHugeDiffs(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 3000; i++ {
		b.WriteString("added line\n")
	}

	out := Unified(b.String(), "", "desired", "actual")
	require.Contains(t, out, truncateMessage)
	require.LessOrEqual(t, len(strings.Split(out, "\n")), maxDiffLines+3)
}
