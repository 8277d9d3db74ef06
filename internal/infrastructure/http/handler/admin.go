package handler

import (
	"net/http"

	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// CleanupMessages handles POST /admin/cleanup/messages, the manually
// triggerable counterpart to the daily expired-message reclaim job.
func (h *Handler) CleanupMessages(w http.ResponseWriter, r *http.Request) {
	result, err := h.Conversations.RunCleanup(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, result, nil)
}
