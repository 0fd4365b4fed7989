// Package retry provides the single retry-with-backoff policy shared by the
// provider HTTP fetcher and the oracle client.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes how an operation is retried: a total attempt budget and a
// backoff function mapping the zero-based attempt index to a sleep duration.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// Linear returns a backoff function that sleeps base, 2*base, 3*base, ...
func Linear(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt+1) * base
	}
}

// Exponential returns a backoff function that doubles the delay per attempt:
// base, 2*base, 4*base, ...
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << attempt
	}
}

// permanentError wraps an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable. Do returns it immediately without
// consuming the remaining attempt budget.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn up to p.MaxAttempts times, sleeping between attempts according
// to the backoff function and honoring context cancellation. The final
// attempt's error is the one returned. An error marked Permanent stops the
// loop at once and stays marked through the returned chain.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := time.Duration(0)
			if p.Backoff != nil {
				delay = p.Backoff(i - 1)
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err = fn(); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			// Keep the marker in the chain so a policy layered over this
			// one does not retry the error either.
			return err
		}

		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
