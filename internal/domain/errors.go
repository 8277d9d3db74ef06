package domain

import "errors"

// Error kinds map 1:1 to the taxonomy the API edge uses to pick an HTTP status.
// Sentinel errors are wrapped with fmt.Errorf("...: %w", err) at each layer
// boundary and unwrapped with errors.Is/errors.As at the edge.
var (
	// ErrValidation indicates malformed input or a violated invariant.
	// Never retried; surfaced as a 400-class response.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller does not own the referenced row.
	// Returned in preference to ErrNotFound so existence is never leaked
	// to a caller who isn't the owner.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates a missing, invalid, or expired credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflict indicates a uniqueness violation (duplicate series instance,
	// duplicate signup email).
	ErrConflict = errors.New("conflict")

	// ErrTransient indicates a failure in a downstream dependency that is
	// expected to succeed on retry (database unavailable, event publish
	// refused, agent timeout, rate limited).
	ErrTransient = errors.New("transient failure")

	// ErrFatalConfig indicates missing required configuration, detected at
	// boot. The process should refuse to start.
	ErrFatalConfig = errors.New("fatal configuration error")
)

// NotFoundError wraps ErrNotFound with the entity and id for logging/debugging
// while still satisfying errors.Is(err, ErrNotFound).
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found: " + e.ID
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ForbiddenError wraps ErrForbidden with the entity and id whose ownership
// check failed. Its message is deliberately as uninformative as
// NotFoundError's — the two are chosen by ownership, not by how much detail
// callers see.
type ForbiddenError struct {
	Entity string
	ID     string
}

func (e *ForbiddenError) Error() string {
	return e.Entity + " forbidden: " + e.ID
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// ConflictError wraps ErrConflict with the entity and the value that
// collided (e.g. an already-registered email).
type ConflictError struct {
	Entity string
	Value  string
}

func (e *ConflictError) Error() string {
	return e.Entity + " conflict: " + e.Value
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError wraps ErrValidation with a human-readable message and,
// where applicable, the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
