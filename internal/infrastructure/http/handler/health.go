package handler

import (
	"context"
	"net/http"

	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// Pinger is the subset of the connection pool health checks depend on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers GET /health with a static liveness check: if the process
// can run this handler, it's alive.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"}, nil)
}

// Ready answers GET /ready with a dependency check: the database must be
// reachable for the process to accept traffic.
func (h *Handler) Ready(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "TRANSIENT", "dependency unavailable")
			return
		}
		response.OK(w, map[string]string{"status": "ready"}, nil)
	}
}
