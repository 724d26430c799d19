package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Only transient failure classes — transport errors, timeouts, 5xx
// responses — get wrapped; everything else fails immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with capped exponential
// backoff: the delay before retry n is base * 2^n, never exceeding cap.
// Delays are therefore monotonically non-decreasing.
//
// Only errors wrapped with [RetryableError] are retried; other errors
// return immediately. Returns the last error if all attempts fail, or
// ctx.Err() if the context is cancelled while backing off.
func Retry(ctx context.Context, attempts int, base, cap time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(base, cap, i)):
			}
		}
	}
	return lastErr
}

// backoff computes base * 2^attempt capped at cap.
func backoff(base, cap time.Duration, attempt int) time.Duration {
	d := base
	for range attempt {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return min(d, cap)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
