package notification

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// Service answers the notification routes the Task API orchestrator
// exposes. It is stateless, same as conversation.Service: every call
// round-trips the durable store.
type Service struct {
	repo Repository
}

// NewService wires a Service against its repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns userID's notifications, optionally filtered to unread only.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly)
}

// MarkRead marks a single notification read. id must belong to userID;
// the repository enforces that scoping in its WHERE clause so a mismatched
// id behaves as NOT_FOUND rather than leaking another user's row.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks every one of userID's unread notifications read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the badge count the client polls.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
