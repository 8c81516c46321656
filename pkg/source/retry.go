package source

import (
	"context"
	"errors"
	"time"
)

// transientError marks a load failure worth retrying, such as a database
// locked by a concurrent writer.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so that [Backoff.Do] retries it. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or an error it wraps, came from Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	// Attempts is the total number of tries.
	Attempts int
	// Delay is the wait before the first retry.
	Delay time.Duration
}

// DefaultBackoff tries three times, waiting 250ms then 500ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 250 * time.Millisecond}

// Do calls fn until it succeeds, fails with a non-transient error, or the
// attempts run out. The last error is returned unwrapped.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	var te *transientError
	if errors.As(err, &te) {
		return te.err
	}
	return err
}
