package task

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// Repository is the durable store behind Service. Every method is scoped to
// the caller-supplied user_id except where the id already implies an owner
// (e.g. GetByID, which the service then checks for ownership).
type Repository interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	ListAll(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error

	InsertHistory(ctx context.Context, h domain.TaskHistory) error
	ListHistory(ctx context.Context, userID string, filter domain.HistoryFilter) (domain.HistoryPage, error)
	DeleteHistory(ctx context.Context, userID, historyID string) error

	DeleteNotificationsForTask(ctx context.Context, taskID string) error

	WeeklyStats(ctx context.Context, userID string) (Stats, error)
}

// Atomic is satisfied by a Repository whose implementation can run a
// callback inside a single database transaction, matching the pattern the
// rest of the persistence layer uses for multi-statement operations (e.g.
// update() which touches both the task row and a history row together).
type Atomic interface {
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}
