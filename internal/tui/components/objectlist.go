package components

import (
	"github.com/mosen/jamfsync/internal/model"
)

// ObjectEntry is one object row for rendering.
type ObjectEntry struct {
	ID     string
	Status model.Status
	Result *model.ObjectResult
}

// ObjectList renders the tracked objects with their current status.
type ObjectList struct {
	entries []ObjectEntry
}

// NewObjectList constructs an object list in the given display order.
func NewObjectList(order []string, statuses map[string]model.Status, results map[string]*model.ObjectResult) ObjectList {
	entries := make([]ObjectEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, ObjectEntry{ID: id, Status: statuses[id], Result: results[id]})
	}
	return ObjectList{entries: entries}
}

// Entries returns the ordered entries.
func (l ObjectList) Entries() []ObjectEntry {
	clone := make([]ObjectEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
