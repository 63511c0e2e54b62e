package tui

import (
	"fmt"
	"strings"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/pkg/diff"
)

// RenderReport renders a finished run report for plain terminal output.
// When showDiffs is set, field-level changes are listed per object, with
// multi-line string fields (script contents) expanded as a unified diff.
func RenderReport(report *model.RunReport, showDiffs bool) string {
	var b strings.Builder

	for _, res := range report.Results {
		id := res.Kind + "/" + res.Name
		line := fmt.Sprintf("%s %s", StatusIcon(res.Status), id)
		if res.Message != "" {
			line += ": " + res.Message
		}
		b.WriteString(line + "\n")

		for _, warning := range res.Warnings {
			b.WriteString("  " + warnStyle.Render("!") + " " + warning + "\n")
		}

		if showDiffs {
			for _, fd := range res.FieldDiffs {
				b.WriteString(renderFieldDiff(fd))
			}
		}
	}

	t := report.Totals()
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"\nCreated: %d  Updated: %d  Deleted: %d  Unchanged: %d  Failed: %d  Cancelled: %d",
		t.Created, t.Updated, t.Deleted, t.NoOp, t.Failed, t.Cancelled,
	)) + "\n")

	switch report.Outcome() {
	case model.OutcomeSuccess:
		b.WriteString(appliedStyle.Render("Run finished successfully") + "\n")
	case model.OutcomePartial:
		b.WriteString(failedStyle.Render("Run finished with failures") + "\n")
	case model.OutcomeAborted:
		b.WriteString(failedStyle.Render("Run aborted before any change") + "\n")
	}

	return b.String()
}

func renderFieldDiff(fd model.FieldDiff) string {
	oldText, oldIsString := fd.Old.(string)
	newText, newIsString := fd.New.(string)

	multiline := (oldIsString && strings.Contains(oldText, "\n")) ||
		(newIsString && strings.Contains(newText, "\n"))

	if multiline && (oldIsString || fd.Old == nil) && (newIsString || fd.New == nil) {
		unified := diff.Unified(newText, oldText, "desired", "actual")
		indented := "    " + strings.ReplaceAll(strings.TrimRight(unified, "\n"), "\n", "\n    ")
		return fmt.Sprintf("  %s:\n%s\n", fd.Field, indented)
	}

	return fmt.Sprintf("  %s: %s -> %s\n", fd.Field, formatValue(fd.Old), formatValue(fd.New))
}

func formatValue(v any) string {
	if v == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%v", v)
}
