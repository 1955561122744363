package app

import (
	"context"
	"errors"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

const (
	maxBookingAttempts = 3
	retryBackoffStep   = 25 * time.Millisecond
)

// withConflictRetry re-runs fn while it reports a concurrency conflict
// (serialization failure or deadlock between bookings touching the same
// items). Conflicts are never surfaced; exhausted retries become
// ErrUnavailable.
func withConflictRetry(ctx context.Context, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if attempt >= maxBookingAttempts {
			return domain.ErrUnavailable
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoffStep):
		}
	}
}
