// Package retry implements the recovery policy shared by every upstream
// call: one retry after a fixed 200ms backoff on transient failure,
// everything else propagates (spec error-handling design, "Recovery
// policy").
package retry

import (
	"context"
	"errors"
	"net"
	"time"
)

// Transient classifies an error as retryable: connection resets and
// similar network-level failures. Callers wrap provider-specific
// retryable conditions (e.g. HTTP 5xx) into this check before calling Do.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// Do runs fn, and if it fails with a transient error retries exactly
// once after a fixed 200ms backoff. shouldRetry lets the caller
// extend the transient check (e.g. to treat HTTP 5xx as retryable).
func Do(ctx context.Context, shouldRetry func(error) bool, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if shouldRetry == nil {
		shouldRetry = Transient
	}
	if !shouldRetry(err) {
		return err
	}

	select {
	case <-time.After(200 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn(ctx)
}
