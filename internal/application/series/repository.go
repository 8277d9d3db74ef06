package series

import (
	"context"
	"time"

	"github.com/tasktrack/platform/internal/domain"
)

// Repository is the durable store behind Service.
type Repository interface {
	Create(ctx context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error)
	Get(ctx context.Context, seriesID string) (domain.RecurringTaskSeries, error)
	ListByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.RecurringTaskSeries, error)
	Update(ctx context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error)
	Deactivate(ctx context.Context, seriesID string, at time.Time) error
	ListTasksInSeries(ctx context.Context, seriesID string) ([]domain.Task, error)
}

// TaskCreator is the Task Store's generation entry point — the same one the
// Recurring Generator calls on every completion, reused here so the series'
// first instance is created through the identical validation/event path.
type TaskCreator interface {
	CreateFromSeries(ctx context.Context, userID string, template domain.TaskTemplate, dueDate time.Time, seriesID, recurrencePattern string) (domain.Task, error)
}
