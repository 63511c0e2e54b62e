package reconcile

import (
	"github.com/mosen/jamfsync/internal/model"
)

// Event reports one object's progress through the run for presentation
// layers. Result is set only on terminal states.
type Event struct {
	ID     string
	Kind   string
	Name   string
	Status model.Status
	Result *model.ObjectResult
}
