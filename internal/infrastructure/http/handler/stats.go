package handler

import (
	"net/http"

	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// WeeklyStats handles GET /stats/weekly.
func (h *Handler) WeeklyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Tasks.WeeklyStats(r.Context(), userID(r))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, stats, nil)
}
