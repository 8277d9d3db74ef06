package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.Tasks.Create(r.Context(), userID(r), req.Title, req.Description, req.DueDate, req.Tags)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, t, response.Popup("TASK_CREATED"))
}

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.ListAll(r.Context(), userID(r))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, tasks, nil)
}

// GetTask handles GET /tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, t, nil)
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	HasDueDate  bool       `json:"has_due_date"`
	Tags        []string   `json:"tags"`
	HasTags     bool       `json:"has_tags"`
	Status      *string    `json:"status"`
}

// UpdateTask handles PUT /tasks/{id}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	mask := map[domain.TaskPatchField]bool{}
	patch := domain.TaskPatch{Mask: mask}
	if req.Title != nil {
		mask[domain.PatchTitle] = true
		patch.Title = *req.Title
	}
	if req.Description != nil {
		mask[domain.PatchDescription] = true
		patch.Description = *req.Description
	}
	if req.HasDueDate {
		mask[domain.PatchDueDate] = true
		patch.DueDate = req.DueDate
	}
	if req.HasTags {
		mask[domain.PatchTags] = true
		patch.Tags = req.Tags
	}
	if req.Status != nil {
		mask[domain.PatchStatus] = true
		patch.Status = domain.TaskStatus(*req.Status)
	}

	t, err := h.Tasks.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, t, response.Popup("TASK_UPDATED"))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nil, response.Popup("TASK_DELETED"))
}

// CompleteTask handles PATCH /tasks/{id}/complete.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.MarkComplete(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, t, response.Popup("TASK_COMPLETED"))
}

// IncompleteTask handles PATCH /tasks/{id}/incomplete.
func (h *Handler) IncompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.MarkIncomplete(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, t, response.Popup("TASK_INCOMPLETE"))
}
