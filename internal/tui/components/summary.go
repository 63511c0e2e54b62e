package components

import (
	"fmt"
	"strings"

	"github.com/mosen/jamfsync/internal/model"
)

// SummaryData aggregates run counters for summary rendering.
type SummaryData struct {
	Total     int
	Completed int
	Finished  bool
	Cancelled bool
	Report    *model.RunReport
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Objects: %d/%d completed", s.data.Completed, s.data.Total))
	}

	if s.data.Report != nil {
		t := s.data.Report.Totals()
		lines = append(lines, fmt.Sprintf(
			"Created: %d  Updated: %d  Deleted: %d  Unchanged: %d  Failed: %d  Cancelled: %d",
			t.Created, t.Updated, t.Deleted, t.NoOp, t.Failed, t.Cancelled,
		))
	}

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case s.data.Finished && s.data.Report != nil:
		switch s.data.Report.Outcome() {
		case model.OutcomeSuccess:
			lines = append(lines, "Run finished successfully")
		case model.OutcomePartial:
			lines = append(lines, "Run finished with failures")
		case model.OutcomeAborted:
			lines = append(lines, "Run aborted before any change")
		}
	}

	return strings.Join(lines, "\n")
}
