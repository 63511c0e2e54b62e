package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	countStyle       = lipgloss.NewStyle().Bold(true)
	failedCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Progress renders overall run completion, flagging failed objects in the
// label so a run that is "done" but broken never reads as healthy.
type Progress struct {
	bar   progress.Model
	total int
}

// NewProgress creates a progress component for the given total.
func NewProgress(total int) Progress {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return Progress{bar: bar, total: total}
}

// View renders the bar for the given completion and failure counts. Failed
// objects count as completed; the label calls them out separately.
func (p Progress) View(completed, failed int) string {
	ratio := 0.0
	if p.total > 0 {
		ratio = math.Min(1.0, float64(completed)/float64(p.total))
	}

	label := countStyle.Render(fmt.Sprintf("%d/%d", completed, p.total))
	if failed > 0 {
		label = lipgloss.JoinHorizontal(lipgloss.Left,
			label, " ", failedCountStyle.Render(fmt.Sprintf("(%d failed)", failed)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", p.bar.ViewAs(ratio))
}
