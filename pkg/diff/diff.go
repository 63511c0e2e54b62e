// Package diff renders unified diffs for large text fields such as script
// contents, where a raw old/new value pair is unreadable in a report.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 2000
	truncateMessage = "... (diff truncated, exceeds 2,000 lines) ..."
)

// Unified compares desired and actual content and returns a unified-diff
// style rendering. Returns the empty string when the contents are identical.
// Output beyond 2,000 lines is truncated with a marker line.
func Unified(desired, actual string, desiredLabel, actualLabel string) string {
	if desired == actual {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(actual, desired, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", actualLabel)
	fmt.Fprintf(&buf, "+++ %s\n", desiredLabel)

	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			writeLines(&buf, " ", lines)
		case diffmatchpatch.DiffDelete:
			writeLines(&buf, "-", lines)
		case diffmatchpatch.DiffInsert:
			writeLines(&buf, "+", lines)
		}
	}

	result := buf.String()
	if all := strings.Split(result, "\n"); len(all) > maxDiffLines {
		return strings.Join(all[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}

	return result
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(buf *bytes.Buffer, prefix string, lines []string) {
	for _, line := range lines {
		buf.WriteString(prefix)
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}
