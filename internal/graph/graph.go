// Package graph builds the directed acyclic dependency graph over one
// run's desired objects and yields a stable application order.
package graph

import (
	"fmt"

	"github.com/mosen/jamfsync/internal/object"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// Graph holds the dependency relationships for a single reconciliation run.
// Required references and explicit apply-after hints form edges; soft
// references are recorded separately and never constrain ordering.
type Graph struct {
	objects []*object.ManagedObject
	index   map[string]int

	requires   map[string][]string
	dependents map[string][]string
	soft       map[string][]object.Ref
}

// Build constructs the graph and verifies it is acyclic. Duplicate
// identities are a validation error; a cycle fails the whole run.
func Build(objects []*object.ManagedObject) (*Graph, error) {
	g := &Graph{
		objects:    objects,
		index:      make(map[string]int, len(objects)),
		requires:   make(map[string][]string, len(objects)),
		dependents: make(map[string][]string, len(objects)),
		soft:       make(map[string][]object.Ref),
	}

	for i, obj := range objects {
		id := obj.ID()
		if _, exists := g.index[id]; exists {
			return nil, jamferrors.NewValidationError(id, "", "duplicate object", nil)
		}
		g.index[id] = i
	}

	for _, obj := range objects {
		id := obj.ID()

		for _, ref := range obj.References() {
			if !ref.Required {
				g.soft[id] = append(g.soft[id], ref)
				continue
			}
			// Required references to objects outside this run must
			// already exist on the server; they cannot be ordered here.
			if _, inRun := g.index[ref.ID()]; !inRun {
				continue
			}
			g.addEdge(ref.ID(), id)
		}

		for _, hint := range obj.ApplyAfter {
			if _, inRun := g.index[hint.ID()]; !inRun {
				return nil, jamferrors.NewValidationError(id, "apply_after",
					fmt.Sprintf("unknown object %s", hint.ID()), nil)
			}
			g.addEdge(hint.ID(), id)
		}
	}

	if cycle := g.findCycle(); len(cycle) > 0 {
		return nil, jamferrors.NewCycleError(cycle)
	}

	return g, nil
}

func (g *Graph) addEdge(from, to string) {
	for _, existing := range g.requires[to] {
		if existing == from {
			return
		}
	}
	g.requires[to] = append(g.requires[to], from)
	g.dependents[from] = append(g.dependents[from], to)
}

// Objects returns the run's objects in original input order.
func (g *Graph) Objects() []*object.ManagedObject {
	return g.objects
}

// Lookup returns the object with the given kind/name identity.
func (g *Graph) Lookup(id string) (*object.ManagedObject, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.objects[i], true
}

// Requires returns the identities the given object must wait for.
func (g *Graph) Requires(id string) []string {
	return g.requires[id]
}

// Dependents returns the identities that wait for the given object,
// directly.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}

// TransitiveDependents returns every identity that directly or indirectly
// requires the given object.
func (g *Graph) TransitiveDependents(id string) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(current string) {
		for _, dep := range g.dependents[current] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			walk(dep)
		}
	}
	walk(id)
	return out
}

// SoftRefs returns the soft references declared by the given object.
func (g *Graph) SoftRefs(id string) []object.Ref {
	return g.soft[id]
}

// Order returns the objects in a stable topological order: every object
// appears after all of its required dependencies, and ties are broken by
// original input position.
func (g *Graph) Order() []*object.ManagedObject {
	indegree := make(map[string]int, len(g.objects))
	for _, obj := range g.objects {
		indegree[obj.ID()] = len(g.requires[obj.ID()])
	}

	ready := make([]int, 0, len(g.objects))
	for i, obj := range g.objects {
		if indegree[obj.ID()] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]*object.ManagedObject, 0, len(g.objects))
	for len(ready) > 0 {
		// Lowest input position first keeps the order deterministic.
		minAt := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minAt] {
				minAt = i
			}
		}
		next := ready[minAt]
		ready = append(ready[:minAt], ready[minAt+1:]...)

		obj := g.objects[next]
		ordered = append(ordered, obj)

		for _, dep := range g.dependents[obj.ID()] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, g.index[dep])
			}
		}
	}

	return ordered
}
