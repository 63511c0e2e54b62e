package model

import (
	"time"
)

// Status tracks an object's progress through the reconciliation state
// machine: Pending -> Resolving -> Diffed -> Applying -> terminal.
type Status string

const (
	// StatusPending indicates the object has not been picked up yet.
	StatusPending Status = "pending"
	// StatusResolving indicates the actual state is being fetched.
	StatusResolving Status = "resolving"
	// StatusDiffed indicates the change set has been computed.
	StatusDiffed Status = "diffed"
	// StatusApplying indicates a remote call is in flight.
	StatusApplying Status = "applying"
	// StatusApplied is the successful terminal state (including NoOp).
	StatusApplied Status = "applied"
	// StatusFailed is the terminal state for direct or dependency failures.
	StatusFailed Status = "failed"
	// StatusCancelled marks objects never started before cancellation.
	StatusCancelled Status = "cancelled"
)

// Outcome summarises a whole run.
type Outcome string

const (
	// OutcomeSuccess means every object reached Applied.
	OutcomeSuccess Outcome = "success"
	// OutcomePartial means at least one object failed or was cancelled
	// while others were applied.
	OutcomePartial Outcome = "partial_failure"
	// OutcomeAborted means the run stopped before any mutation
	// (validation or cycle error).
	OutcomeAborted Outcome = "aborted"
)

// ObjectResult captures the final outcome for a single object.
type ObjectResult struct {
	Kind       string
	Name       string
	Operation  Operation
	Status     Status
	Success    bool
	Message    string
	Error      error
	FieldDiffs []FieldDiff
	Warnings   []string
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Totals aggregates per-operation counts for a run.
type Totals struct {
	Created   int
	Updated   int
	Deleted   int
	NoOp      int
	Failed    int
	Cancelled int
}

// RunReport is the sole surface through which partial failure is reported.
type RunReport struct {
	Results    []ObjectResult
	StartedAt  time.Time
	FinishedAt time.Time
	Aborted    bool
}

// Add appends a result to the report.
func (r *RunReport) Add(result ObjectResult) {
	r.Results = append(r.Results, result)
}

// Totals tallies results by their final operation and status.
func (r *RunReport) Totals() Totals {
	var t Totals
	for _, res := range r.Results {
		switch {
		case res.Status == StatusCancelled:
			t.Cancelled++
		case res.Status == StatusFailed:
			t.Failed++
		case res.Operation == OpCreate:
			t.Created++
		case res.Operation == OpUpdate:
			t.Updated++
		case res.Operation == OpDelete:
			t.Deleted++
		default:
			t.NoOp++
		}
	}
	return t
}

// Outcome derives the run-level verdict from the recorded results.
func (r *RunReport) Outcome() Outcome {
	if r.Aborted {
		return OutcomeAborted
	}
	for _, res := range r.Results {
		if res.Status != StatusApplied {
			return OutcomePartial
		}
	}
	return OutcomeSuccess
}

// Find returns the result for kind/name, or nil when absent.
func (r *RunReport) Find(kind, name string) *ObjectResult {
	for i := range r.Results {
		if r.Results[i].Kind == kind && r.Results[i].Name == name {
			return &r.Results[i]
		}
	}
	return nil
}
