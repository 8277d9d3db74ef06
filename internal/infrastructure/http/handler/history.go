package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// ListHistory handles GET /history?page&limit&task_id&action_type.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.HistoryFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", h.Pagination.DefaultPageSize),
	}
	if filter.Limit > h.Pagination.MaxPageSize {
		filter.Limit = h.Pagination.MaxPageSize
	}
	if taskID := q.Get("task_id"); taskID != "" {
		filter.TaskID = &taskID
	}
	if actionType := q.Get("action_type"); actionType != "" {
		a := domain.ActionType(actionType)
		filter.Action = &a
	}
	if offset := q.Get("offset"); offset != "" {
		n := queryInt(r, "offset", 0)
		filter.Offset = &n
	}

	page, err := h.Tasks.ListHistory(r.Context(), userID(r), filter)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, page, nil)
}

// DeleteHistory handles DELETE /history/{id}.
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.DeleteHistory(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nil, nil)
}
