// Package api declares the narrow capability contract the reconciler
// requires from the management-server client. Transport, authentication,
// and wire serialization live behind this boundary; implementations must
// classify failures as transient or permanent via pkg/errors.AdapterError
// so the reconciler can decide what to retry.
package api

import (
	"context"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
)

// Client is the per-kind capability set used during a reconciliation run.
type Client interface {
	// Get fetches the observed state for kind/name. A server-side
	// not-found is reported as found == false with a nil error: absence
	// is a legitimate observation, not a failure.
	Get(ctx context.Context, kind object.Kind, name string) (obj *object.ManagedObject, found bool, err error)

	// Create materializes a desired object that is absent on the server.
	Create(ctx context.Context, desired *object.ManagedObject) error

	// Update applies the given field diffs to an existing object.
	Update(ctx context.Context, kind object.Kind, name string, diffs []model.FieldDiff) error

	// Delete removes the named object.
	Delete(ctx context.Context, kind object.Kind, name string) error

	// Exists reports whether a soft-reference target (for example a
	// package named by a policy) is present on the server.
	Exists(ctx context.Context, kind object.Kind, name string) (bool, error)
}
