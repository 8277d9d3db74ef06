package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/platform/internal/application/series"
	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

type createSeriesRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	RecurrencePattern string   `json:"recurrence_pattern"`
}

type seriesWithFirstInstance struct {
	Series       domain.RecurringTaskSeries `json:"series"`
	FirstInstance domain.Task               `json:"first_instance"`
}

// CreateSeries handles POST /recurring-tasks.
func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var req createSeriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	template := domain.TaskTemplate{Title: req.Title, Description: req.Description, Tags: req.Tags}
	series, first, err := h.Series.Create(r.Context(), userID(r), template, req.RecurrencePattern)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, seriesWithFirstInstance{Series: series, FirstInstance: first}, response.Popup("SERIES_CREATED"))
}

// ListSeries handles GET /recurring-tasks?include_inactive=bool.
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	series, err := h.Series.List(r.Context(), userID(r), includeInactive)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, series, nil)
}

// GetSeries handles GET /recurring-tasks/{id}.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.Series.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, series, nil)
}

type updateSeriesRequest struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Tags              []string `json:"tags"`
	HasTags           bool     `json:"has_tags"`
	RecurrencePattern *string  `json:"recurrence_pattern"`
}

// UpdateSeries handles PUT /recurring-tasks/{id}.
func (h *Handler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	var req updateSeriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := series.SeriesPatch{
		Title:             req.Title,
		Description:       req.Description,
		Tags:              req.Tags,
		HasTags:           req.HasTags,
		RecurrencePattern: req.RecurrencePattern,
	}
	updated, err := h.Series.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, updated, response.Popup("SERIES_UPDATED"))
}

// DeleteSeries handles DELETE /recurring-tasks/{id}.
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	if err := h.Series.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nil, response.Popup("SERIES_DELETED"))
}

// ListSeriesTasks handles GET /recurring-tasks/{id}/tasks.
func (h *Handler) ListSeriesTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Series.ListTasksInSeries(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, tasks, nil)
}
