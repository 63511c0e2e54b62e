// Package reconcile drives one run: fetch actual state, diff, and apply
// create/update/delete operations in dependency order, aggregating a
// structured run report.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mosen/jamfsync/internal/api"
	"github.com/mosen/jamfsync/internal/diffengine"
	"github.com/mosen/jamfsync/internal/graph"
	"github.com/mosen/jamfsync/internal/logger"
	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
)

const (
	defaultWorkers     = 4
	defaultMaxAttempts = 3
	defaultRetryBase   = 500 * time.Millisecond
	defaultRetryMax    = 8 * time.Second
)

// Options configures a reconciliation run.
type Options struct {
	// Workers bounds how many objects may be in flight concurrently.
	Workers int
	// MaxAttempts bounds retries of transient adapter failures.
	MaxAttempts int
	// RetryBase is the first backoff delay; it doubles per attempt up to
	// RetryMax.
	RetryBase time.Duration
	RetryMax  time.Duration
	// DryRun computes and reports change sets without any mutation.
	DryRun bool

	Logger *logger.Logger
	// Notify, when set, receives progress events for presentation.
	Notify func(Event)
}

// Reconciler converges server state toward a desired object set.
type Reconciler struct {
	client api.Client
	opts   Options
}

// New constructs a Reconciler around the given adapter.
func New(client api.Client, opts Options) *Reconciler {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = defaultRetryMax
	}
	return &Reconciler{client: client, opts: opts}
}

// Run reconciles the desired objects against the server. Validation and
// cycle errors abort before any mutation and are returned alongside an
// aborted report; per-object failures are conveyed only through the report.
func (r *Reconciler) Run(ctx context.Context, objects []*object.ManagedObject) (*model.RunReport, error) {
	report := &model.RunReport{StartedAt: time.Now()}

	for _, obj := range objects {
		if err := obj.Validate(); err != nil {
			report.Aborted = true
			report.FinishedAt = time.Now()
			return report, err
		}
	}

	g, err := graph.Build(objects)
	if err != nil {
		report.Aborted = true
		report.FinishedAt = time.Now()
		return report, err
	}

	st := newRunState(g, r.opts.Notify)

	workers := r.opts.Workers
	if workers > len(objects) {
		workers = len(objects)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range st.ready {
				obj, _ := g.Lookup(id)
				if ctx.Err() != nil {
					st.complete(cancelledResult(obj))
					continue
				}
				st.complete(r.process(ctx, g, obj))
			}
		}()
	}

	st.seed()
	wg.Wait()

	for _, obj := range g.Objects() {
		if res, ok := st.resultFor(obj.ID()); ok {
			report.Add(*res)
		}
	}
	report.FinishedAt = time.Now()
	return report, nil
}

// process walks one object through Resolving -> Diffed -> Applying. Its
// required dependencies are already Applied by the time it is scheduled.
func (r *Reconciler) process(ctx context.Context, g *graph.Graph, obj *object.ManagedObject) *model.ObjectResult {
	log := r.opts.Logger.WithObject(string(obj.Kind), obj.Name)
	started := time.Now()

	result := &model.ObjectResult{
		Kind:      string(obj.Kind),
		Name:      obj.Name,
		StartedAt: started,
	}
	finish := func(status model.Status, success bool) *model.ObjectResult {
		result.Status = status
		result.Success = success
		result.FinishedAt = time.Now()
		return result
	}

	r.notify(Event{ID: obj.ID(), Kind: string(obj.Kind), Name: obj.Name, Status: model.StatusResolving})
	log.Debug("fetching actual state")

	// Adapter calls run on a context detached from run cancellation: once
	// an object has left Pending, its API calls finish rather than abort
	// mid-flight. The run context gates scheduling and retry backoff only.
	callCtx := context.WithoutCancel(ctx)

	var actual *object.ManagedObject
	attempts, err := r.withRetry(ctx, func() error {
		fetched, found, getErr := r.client.Get(callCtx, obj.Kind, obj.Name)
		if getErr != nil {
			return getErr
		}
		if found {
			actual = fetched
		} else {
			actual = nil
		}
		return nil
	})
	result.Attempts = attempts
	if err != nil {
		log.Error(err, "failed to fetch actual state")
		result.Error = err
		result.Message = err.Error()
		return finish(model.StatusFailed, false)
	}

	changes := diffengine.Diff(obj, actual)
	result.Operation = changes.Operation
	result.FieldDiffs = changes.FieldDiffs
	result.Warnings = r.softWarnings(callCtx, g, obj)
	r.notify(Event{ID: obj.ID(), Kind: string(obj.Kind), Name: obj.Name, Status: model.StatusDiffed})

	if changes.Empty() {
		log.Debug("already in desired state")
		result.Message = "already in desired state"
		return finish(model.StatusApplied, true)
	}

	if r.opts.DryRun {
		result.Message = fmt.Sprintf("dry-run: would %s", changes.Operation)
		return finish(model.StatusApplied, true)
	}

	r.notify(Event{ID: obj.ID(), Kind: string(obj.Kind), Name: obj.Name, Status: model.StatusApplying})
	log.WithFields(map[string]any{"operation": changes.Operation, "fields": len(changes.FieldDiffs)}).Info("applying change")

	attempts, err = r.withRetry(ctx, func() error {
		return r.apply(callCtx, obj, changes)
	})
	result.Attempts += attempts
	if err != nil {
		log.Error(err, "apply failed")
		result.Error = err
		result.Message = err.Error()
		return finish(model.StatusFailed, false)
	}

	result.Message = fmt.Sprintf("%sd", changes.Operation)
	return finish(model.StatusApplied, true)
}

func (r *Reconciler) apply(ctx context.Context, obj *object.ManagedObject, changes model.ChangeSet) error {
	switch changes.Operation {
	case model.OpCreate:
		return r.client.Create(ctx, obj)
	case model.OpUpdate:
		return r.client.Update(ctx, obj.Kind, obj.Name, changes.FieldDiffs)
	case model.OpDelete:
		return r.client.Delete(ctx, obj.Kind, obj.Name)
	}
	return nil
}

// softWarnings checks soft-reference targets on the server and reports the
// missing ones; soft targets never block application.
func (r *Reconciler) softWarnings(ctx context.Context, g *graph.Graph, obj *object.ManagedObject) []string {
	var warnings []string
	for _, ref := range g.SoftRefs(obj.ID()) {
		exists, err := r.client.Exists(ctx, ref.Kind, ref.Name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not verify %s: %v", ref.ID(), err))
			continue
		}
		if !exists {
			warnings = append(warnings, fmt.Sprintf("%s not present on server", ref.ID()))
		}
	}
	return warnings
}

func (r *Reconciler) notify(event Event) {
	if r.opts.Notify != nil {
		r.opts.Notify(event)
	}
}

func cancelledResult(obj *object.ManagedObject) *model.ObjectResult {
	now := time.Now()
	return &model.ObjectResult{
		Kind:       string(obj.Kind),
		Name:       obj.Name,
		Status:     model.StatusCancelled,
		Message:    "run cancelled",
		StartedAt:  now,
		FinishedAt: now,
	}
}
