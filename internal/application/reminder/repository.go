package reminder

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// DueTaskLister is the read surface the scheduler needs each tick: every
// non-completed, VERY_IMPORTANT task with a due date, across all users.
type DueTaskLister interface {
	ListVeryImportantWithDueDate(ctx context.Context) ([]domain.Task, error)
}

// NotificationStore is the write surface for candidate reminders, including
// the duplicate-suppression check and the per-user pruning rule.
type NotificationStore interface {
	ExistsForTaskAndMessage(ctx context.Context, taskID, message string) (bool, error)
	Insert(ctx context.Context, n domain.Notification) error
	PruneOldestRead(ctx context.Context, userID string, max int) error
}

// EventPublisher is the optional best-effort side-publish onto the alerts
// topic; a nil EventPublisher disables it entirely.
type EventPublisher interface {
	PublishAlertScheduled(ctx context.Context, n domain.Notification) error
}
