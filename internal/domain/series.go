package domain

import "time"

// TaskTemplate is the structured template a RecurringTaskSeries generates
// instances from. Title is required; the rest inherit onto each instance.
type TaskTemplate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RecurringTaskSeries is a template + recurrence rule from which task
// instances are generated on completion (component F). Deactivation
// (IsActive=false) is a soft delete: already-generated instances survive.
type RecurringTaskSeries struct {
	SeriesID          string
	UserID            string
	BaseTaskTemplate  TaskTemplate
	RecurrencePattern string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
