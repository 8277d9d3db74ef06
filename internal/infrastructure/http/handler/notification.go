package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// ListNotifications handles GET /notifications?unread=bool.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.Notifications.List(r.Context(), userID(r), unreadOnly)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, notifications, nil)
}

// MarkNotificationRead handles PATCH /notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkRead(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nil, nil)
}

// MarkAllNotificationsRead handles PATCH /notifications/mark-all-read.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllRead(r.Context(), userID(r)); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nil, nil)
}

// UnreadNotificationCount handles GET /notifications/unread/count.
func (h *Handler) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Notifications.UnreadCount(r.Context(), userID(r))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string]int{"count": count}, nil)
}
