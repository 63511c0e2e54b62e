package reconcile

import (
	"context"
	"time"

	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// withRetry invokes call, retrying transient adapter failures with bounded
// exponential backoff. Permanent failures return immediately; cancellation
// during a backoff wait stops further attempts but never interrupts a call
// already in flight.
func (r *Reconciler) withRetry(ctx context.Context, call func() error) (int, error) {
	delay := r.opts.RetryBase

	var err error
	for attempt := 1; ; attempt++ {
		err = call()
		if err == nil || !jamferrors.IsTransient(err) {
			return attempt, err
		}
		if attempt >= r.opts.MaxAttempts {
			return attempt, err
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return attempt, err
		}

		delay *= 2
		if delay > r.opts.RetryMax {
			delay = r.opts.RetryMax
		}
	}
}
