// Package handler implements the Task API orchestrator's HTTP surface
// (§4.I/§6): one handler method per route, each doing exactly the three
// steps the orchestrator's contract names — extract the authenticated
// user, call the application-layer service, and write the
// {success, data, popup?, error?} envelope.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tasktrack/platform/internal/application/auth"
	"github.com/tasktrack/platform/internal/application/chat"
	"github.com/tasktrack/platform/internal/application/conversation"
	"github.com/tasktrack/platform/internal/application/notification"
	"github.com/tasktrack/platform/internal/application/series"
	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/config"
	"github.com/tasktrack/platform/internal/infrastructure/http/middleware"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// Handler holds every application service the HTTP surface dispatches to.
type Handler struct {
	Auth          *auth.Service
	Tasks         *task.Service
	Series        *series.Service
	Conversations *conversation.Service
	Notifications *notification.Service
	Chat          *chat.Service
	Pagination    config.PaginationConfig
}

// New wires a Handler against its application services.
func New(authSvc *auth.Service, tasks *task.Service, seriesSvc *series.Service, conversations *conversation.Service, notifications *notification.Service, chatSvc *chat.Service, pagination config.PaginationConfig) *Handler {
	return &Handler{
		Auth:          authSvc,
		Tasks:         tasks,
		Series:        seriesSvc,
		Conversations: conversations,
		Notifications: notifications,
		Chat:          chatSvc,
		Pagination:    pagination,
	}
}

// userID reads the authenticated caller set by middleware.Auth. Every
// route this package registers behind the auth middleware may call this
// unconditionally.
func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// decodeJSON decodes the request body into v, writing a VALIDATION error
// and returning false on a malformed body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.FailValidation(w, "body", "malformed JSON request body")
		return false
	}
	return true
}

// queryInt parses a query parameter as an int, returning def when absent or
// malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
