package resilience

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
)

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Retry returns the wrapped error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a Permanent error or the policy runs out of
// attempts. Waiting between attempts is cut short by ctx.
func Retry(ctx context.Context, clock clockwork.Clock, policy RetryPolicy, fn func(attempt int) error) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	maxRetries := max(policy.MaxRetries, 0)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		var permanent permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		timer := clock.NewTimer(policy.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.Chan():
		}
	}
	return lastErr
}
