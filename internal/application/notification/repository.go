// Package notification implements the user-facing read surface over the
// Reminder Scheduler's write-only notifications table: listing, read-state
// mutation, and the unread badge count (§6 notification routes).
package notification

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// Repository is the durable store's read/write surface for this package.
// It shares the notifications table with reminder.NotificationStore but
// never the interface, since the two packages own disjoint operations on
// it.
type Repository interface {
	ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}
