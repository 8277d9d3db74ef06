package recurring

import (
	"context"
	"time"

	"github.com/tasktrack/platform/internal/domain"
)

// SeriesStore is the durable surface the Recurring Generator needs to read
// a series' template and liveness; creation of generated instances goes
// through TaskCreator instead, never a Repository.Create directly, so the
// Task Store's own event emission and history recording stay in one place.
type SeriesStore interface {
	GetSeries(ctx context.Context, seriesID string) (domain.RecurringTaskSeries, error)
}

// TaskCreator is the subset of the Task Store the generator depends on.
type TaskCreator interface {
	CreateFromSeries(ctx context.Context, userID string, template domain.TaskTemplate, dueDate time.Time, seriesID, recurrencePattern string) (domain.Task, error)
}

// Dedup is the idempotency store: a processed event_id is never handled
// twice, even across consumer restarts or redelivery.
type Dedup interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, event domain.ProcessedEvent) error
}
