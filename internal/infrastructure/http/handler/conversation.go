package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// ownerPathUser resolves {user_id} and writes a FORBIDDEN envelope if it
// doesn't match the authenticated caller. Returns "" (already responded) on
// mismatch.
func (h *Handler) ownerPathUser(w http.ResponseWriter, r *http.Request) string {
	caller := userID(r)
	pathUser := chi.URLParam(r, "user_id")
	if pathUser != caller {
		response.FromDomainError(w, r, &domain.ForbiddenError{Entity: "user", ID: pathUser})
		return ""
	}
	return caller
}

// ListConversations handles GET /{user_id}/conversations?limit&offset.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	owner := h.ownerPathUser(w, r)
	if owner == "" {
		return
	}
	limit := queryInt(r, "limit", h.Pagination.DefaultPageSize)
	if limit > h.Pagination.MaxPageSize {
		limit = h.Pagination.MaxPageSize
	}
	offset := queryInt(r, "offset", 0)

	conversations, err := h.Conversations.ListConversations(r.Context(), owner, limit, offset)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, conversations, nil)
}

// ListConversationMessages handles GET /{user_id}/conversations/{id}/messages.
func (h *Handler) ListConversationMessages(w http.ResponseWriter, r *http.Request) {
	if h.ownerPathUser(w, r) == "" {
		return
	}
	limit := queryInt(r, "limit", h.Pagination.DefaultPageSize)
	if limit > h.Pagination.MaxPageSize {
		limit = h.Pagination.MaxPageSize
	}
	messages, err := h.Conversations.LoadHistory(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, messages, nil)
}
