// Package series implements the recurring-series half of the Task Store
// (component D): series_create/list/get/update/delete/list_tasks_in_series.
package series

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/recurrence"
)

// Service is the recurring-series CRUD surface. Ownership is enforced the
// same way task.Service enforces it: FORBIDDEN in preference to a
// existence-leaking NOT_FOUND.
type Service struct {
	repo  Repository
	tasks TaskCreator
	now   func() time.Time
}

func NewService(repo Repository, tasks TaskCreator) *Service {
	return &Service{repo: repo, tasks: tasks, now: func() time.Time { return time.Now().UTC() }}
}

func validateTemplate(template domain.TaskTemplate) (domain.TaskTemplate, error) {
	title, err := domain.NewTitle(template.Title)
	if err != nil {
		return domain.TaskTemplate{}, err
	}
	description, err := domain.NewDescription(template.Description)
	if err != nil {
		return domain.TaskTemplate{}, err
	}
	if err := domain.ValidateTags(template.Tags); err != nil {
		return domain.TaskTemplate{}, err
	}
	return domain.TaskTemplate{Title: title, Description: description, Tags: template.Tags}, nil
}

func validatePattern(pattern string) error {
	if !recurrence.Validate(pattern) {
		return &domain.ValidationError{Field: "recurrence_pattern", Message: "unrecognized recurrence rule: " + pattern}
	}
	return nil
}

// Create validates the template and recurrence rule, persists the series,
// and generates its first instance with due_date = now — the one place
// outside the Recurring Generator that calls CreateFromSeries.
func (s *Service) Create(ctx context.Context, userID string, template domain.TaskTemplate, pattern string) (domain.RecurringTaskSeries, domain.Task, error) {
	template, err := validateTemplate(template)
	if err != nil {
		return domain.RecurringTaskSeries{}, domain.Task{}, err
	}
	if err := validatePattern(pattern); err != nil {
		return domain.RecurringTaskSeries{}, domain.Task{}, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, domain.RecurringTaskSeries{
		SeriesID: uuid.NewString(), UserID: userID, BaseTaskTemplate: template,
		RecurrencePattern: pattern, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return domain.RecurringTaskSeries{}, domain.Task{}, err
	}

	firstInstance, err := s.tasks.CreateFromSeries(ctx, userID, created.BaseTaskTemplate, now, created.SeriesID, created.RecurrencePattern)
	if err != nil {
		return domain.RecurringTaskSeries{}, domain.Task{}, err
	}
	return created, firstInstance, nil
}

func (s *Service) Get(ctx context.Context, userID, seriesID string) (domain.RecurringTaskSeries, error) {
	series, err := s.repo.Get(ctx, seriesID)
	if err != nil {
		return domain.RecurringTaskSeries{}, err
	}
	if series.UserID != userID {
		return domain.RecurringTaskSeries{}, &domain.ForbiddenError{Entity: "recurring_task_series", ID: seriesID}
	}
	return series, nil
}

func (s *Service) List(ctx context.Context, userID string, includeInactive bool) ([]domain.RecurringTaskSeries, error) {
	return s.repo.ListByUser(ctx, userID, includeInactive)
}

// SeriesPatch carries update's optional fields; a nil field leaves the
// current value in place, matching task.Service's patch semantics.
type SeriesPatch struct {
	Title             *string
	Description       *string
	Tags              []string
	HasTags           bool
	RecurrencePattern *string
}

func (s *Service) Update(ctx context.Context, userID, seriesID string, patch SeriesPatch) (domain.RecurringTaskSeries, error) {
	current, err := s.Get(ctx, userID, seriesID)
	if err != nil {
		return domain.RecurringTaskSeries{}, err
	}

	template := current.BaseTaskTemplate
	if patch.Title != nil {
		template.Title = *patch.Title
	}
	if patch.Description != nil {
		template.Description = *patch.Description
	}
	if patch.HasTags {
		template.Tags = patch.Tags
	}
	template, err = validateTemplate(template)
	if err != nil {
		return domain.RecurringTaskSeries{}, err
	}

	pattern := current.RecurrencePattern
	if patch.RecurrencePattern != nil {
		pattern = *patch.RecurrencePattern
	}
	if err := validatePattern(pattern); err != nil {
		return domain.RecurringTaskSeries{}, err
	}

	current.BaseTaskTemplate = template
	current.RecurrencePattern = pattern
	current.UpdatedAt = s.now()
	return s.repo.Update(ctx, current)
}

// Delete soft-deletes the series (is_active=false); already-generated
// instances are untouched.
func (s *Service) Delete(ctx context.Context, userID, seriesID string) error {
	if _, err := s.Get(ctx, userID, seriesID); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, seriesID, s.now())
}

func (s *Service) ListTasksInSeries(ctx context.Context, userID, seriesID string) ([]domain.Task, error) {
	if _, err := s.Get(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return s.repo.ListTasksInSeries(ctx, seriesID)
}
