package reconcile

import (
	"sync"
	"time"

	"github.com/mosen/jamfsync/internal/graph"
	"github.com/mosen/jamfsync/internal/model"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// runState owns the frontier bookkeeping for one run. The ready channel
// carries objects whose required dependencies have all reached Applied;
// completions re-evaluate the frontier under a single lock. No other
// concurrent writer exists at this layer.
type runState struct {
	mu sync.Mutex

	g         *graph.Graph
	remaining map[string]int
	status    map[string]model.Status
	results   map[string]*model.ObjectResult
	open      int
	notify    func(Event)

	ready chan string
}

func newRunState(g *graph.Graph, notify func(Event)) *runState {
	objects := g.Objects()
	st := &runState{
		g:         g,
		remaining: make(map[string]int, len(objects)),
		status:    make(map[string]model.Status, len(objects)),
		results:   make(map[string]*model.ObjectResult, len(objects)),
		open:      len(objects),
		notify:    notify,
		ready:     make(chan string, len(objects)),
	}
	for _, obj := range objects {
		id := obj.ID()
		st.remaining[id] = len(g.Requires(id))
		st.status[id] = model.StatusPending
	}
	return st
}

// seed enqueues every object with no required dependencies, in stable
// topological order. A run with zero objects closes immediately.
func (st *runState) seed() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.open == 0 {
		close(st.ready)
		return
	}
	for _, obj := range st.g.Order() {
		if st.remaining[obj.ID()] == 0 {
			st.ready <- obj.ID()
		}
	}
}

// complete records a terminal result and advances the frontier: dependents
// of an applied object may become ready, while dependents of a failed or
// cancelled object are settled without any API call.
func (st *runState) complete(result *model.ObjectResult) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settle(result)
	if st.open == 0 {
		close(st.ready)
	}
}

func (st *runState) settle(result *model.ObjectResult) {
	id := result.Kind + "/" + result.Name
	if terminal(st.status[id]) {
		return
	}
	st.status[id] = result.Status
	st.results[id] = result
	st.open--
	if st.notify != nil {
		st.notify(Event{ID: id, Kind: result.Kind, Name: result.Name, Status: result.Status, Result: result})
	}

	switch result.Status {
	case model.StatusApplied:
		for _, dep := range st.g.Dependents(id) {
			st.remaining[dep]--
			if st.remaining[dep] == 0 && st.status[dep] == model.StatusPending {
				st.ready <- dep
			}
		}
	case model.StatusFailed:
		st.settleDependents(id, id, model.StatusFailed)
	case model.StatusCancelled:
		st.settleDependents(id, id, model.StatusCancelled)
	}
}

// settleDependents marks every pending transitive dependent of id as
// failed (with an unsatisfied-dependency error) or cancelled.
func (st *runState) settleDependents(id, cause string, status model.Status) {
	for _, dep := range st.g.Dependents(id) {
		if terminal(st.status[dep]) {
			continue
		}
		obj, _ := st.g.Lookup(dep)
		now := time.Now()
		res := &model.ObjectResult{
			Kind:       string(obj.Kind),
			Name:       obj.Name,
			Status:     status,
			StartedAt:  now,
			FinishedAt: now,
		}
		if status == model.StatusFailed {
			res.Error = jamferrors.NewDependencyError(dep, []string{cause})
			res.Message = res.Error.Error()
		} else {
			res.Message = "run cancelled"
		}
		st.settle(res)
	}
}

// resultFor returns the recorded result for id.
func (st *runState) resultFor(id string) (*model.ObjectResult, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	res, ok := st.results[id]
	return res, ok
}

func terminal(s model.Status) bool {
	switch s {
	case model.StatusApplied, model.StatusFailed, model.StatusCancelled:
		return true
	}
	return false
}
