package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasktrack/platform/internal/domain"
)

// FromDomainError maps a service-layer error to its taxonomy code and HTTP
// status, writing the envelope. Unrecognized errors are logged server-side
// and returned to the client as a generic TRANSIENT failure — no internal
// detail crosses the boundary.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var forbiddenErr *domain.ForbiddenError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &valErr):
		if valErr.Field != "" {
			FailValidation(w, valErr.Field, valErr.Message)
			return
		}
		Fail(w, http.StatusBadRequest, "VALIDATION", valErr.Message)

	case errors.As(err, &notFoundErr):
		Fail(w, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error())

	case errors.As(err, &forbiddenErr):
		Fail(w, http.StatusForbidden, "FORBIDDEN", "you do not have access to this resource")

	case errors.As(err, &conflictErr):
		Fail(w, http.StatusConflict, "CONFLICT", conflictErr.Error())

	case errors.Is(err, domain.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid credential")

	case errors.Is(err, domain.ErrTransient):
		slog.ErrorContext(r.Context(), "transient failure reached the request boundary", "error", err)
		Fail(w, http.StatusServiceUnavailable, "TRANSIENT", "try again")

	default:
		slog.ErrorContext(r.Context(), "unhandled internal error", "error", err, "path", r.URL.Path, "method", r.Method)
		Fail(w, http.StatusInternalServerError, "TRANSIENT", "try again")
	}
}
