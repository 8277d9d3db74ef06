package recurring

import (
	"errors"
)

// RetryableError marks a failure the broker should redeliver for — database
// unavailable, the Task Store's own downstream transient failure. Only
// errors wrapped with Transient are retried; everything else is permanent
// and is marked processed without generating anything.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string { return e.Err.Error() }
func (e RetryableError) Unwrap() error { return e.Err }

// Transient wraps err to signal the event should be redelivered rather than
// marked processed.
func Transient(err error) error {
	return RetryableError{Err: err}
}

// IsRetryable reports whether err should cause the consumer to leave the
// event unmarked and let the broker redeliver it.
func IsRetryable(err error) bool {
	var retryable RetryableError
	return errors.As(err, &retryable)
}
