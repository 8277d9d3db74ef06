package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/application/notification"
	"github.com/tasktrack/platform/internal/domain"
)

type fakeRepo struct {
	byUser map[string][]domain.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUser: make(map[string][]domain.Notification)}
}

func (f *fakeRepo) ListForUser(_ context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.byUser[userID] {
		if unreadOnly && n.IsRead() {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, userID, id string) error {
	for i, n := range f.byUser[userID] {
		if n.ID == id {
			now := time.Now().UTC()
			f.byUser[userID][i].ReadAt = &now
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "notification", ID: id}
}

func (f *fakeRepo) MarkAllRead(_ context.Context, userID string) error {
	now := time.Now().UTC()
	for i := range f.byUser[userID] {
		f.byUser[userID][i].ReadAt = &now
	}
	return nil
}

func (f *fakeRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.byUser[userID] {
		if !n.IsRead() {
			count++
		}
	}
	return count, nil
}

func TestService_ListUnreadOnly(t *testing.T) {
	repo := newFakeRepo()
	readAt := time.Now().UTC()
	repo.byUser["u1"] = []domain.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u1", ReadAt: &readAt},
	}
	svc := notification.NewService(repo)

	all, err := svc.List(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := svc.List(context.Background(), "u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n1", unread[0].ID)
}

func TestService_MarkReadThenCountUnread(t *testing.T) {
	repo := newFakeRepo()
	repo.byUser["u1"] = []domain.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u1"},
	}
	svc := notification.NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.MarkRead(ctx, "u1", "n1"))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_MarkAllRead(t *testing.T) {
	repo := newFakeRepo()
	repo.byUser["u1"] = []domain.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u1"},
	}
	svc := notification.NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_MarkReadUnknownID(t *testing.T) {
	repo := newFakeRepo()
	repo.byUser["u1"] = []domain.Notification{{ID: "n1", UserID: "u1"}}
	svc := notification.NewService(repo)

	err := svc.MarkRead(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
