package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
)

type fakeLister struct {
	tasks []domain.Task
}

func (f *fakeLister) ListVeryImportantWithDueDate(_ context.Context) ([]domain.Task, error) {
	return f.tasks, nil
}

type fakeNotifStore struct {
	inserted []domain.Notification
	existing map[string]bool
	pruned   []string
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{existing: make(map[string]bool)}
}

func (f *fakeNotifStore) ExistsForTaskAndMessage(_ context.Context, taskID, message string) (bool, error) {
	return f.existing[taskID+"|"+message], nil
}

func (f *fakeNotifStore) Insert(_ context.Context, n domain.Notification) error {
	f.inserted = append(f.inserted, n)
	f.existing[n.TaskID+"|"+n.Message] = true
	return nil
}

func (f *fakeNotifStore) PruneOldestRead(_ context.Context, userID string, max int) error {
	f.pruned = append(f.pruned, userID)
	return nil
}

type fakeAlertPublisher struct {
	published []domain.Notification
}

func (f *fakeAlertPublisher) PublishAlertScheduled(_ context.Context, n domain.Notification) error {
	f.published = append(f.published, n)
	return nil
}

func TestTick_FiresThresholdAndPublishesAlert(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(55 * time.Minute)
	lister := &fakeLister{tasks: []domain.Task{
		{ID: "t1", UserID: "u1", Title: "Submit report", Priority: domain.PriorityVeryImportant, DueDate: &due},
	}}
	notifs := newFakeNotifStore()
	alerts := &fakeAlertPublisher{}
	s := NewScheduler(lister, notifs, alerts, Config{})
	s.now = func() time.Time { return now }

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, notifs.inserted, 1)
	assert.Equal(t, "🚨 URGENT Task 'Submit report' due in 1 hour", notifs.inserted[0].Message)
	require.Len(t, alerts.published, 1)
	assert.Contains(t, notifs.pruned, "u1")
}

func TestTick_DuplicateSuppressed(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(55 * time.Minute)
	lister := &fakeLister{tasks: []domain.Task{
		{ID: "t1", UserID: "u1", Title: "Submit report", Priority: domain.PriorityVeryImportant, DueDate: &due},
	}}
	notifs := newFakeNotifStore()
	notifs.existing["t1|🚨 URGENT Task 'Submit report' due in 1 hour"] = true
	s := NewScheduler(lister, notifs, nil, Config{})
	s.now = func() time.Time { return now }

	require.NoError(t, s.Tick(context.Background()))
	assert.Empty(t, notifs.inserted)
}

func TestTick_OverdueSkippedWhenDisabled(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-1 * time.Hour)
	lister := &fakeLister{tasks: []domain.Task{
		{ID: "t1", UserID: "u1", Title: "Stale task", Priority: domain.PriorityVeryImportant, DueDate: &due},
	}}
	notifs := newFakeNotifStore()
	s := NewScheduler(lister, notifs, nil, Config{OverdueAlertsEnabled: false})
	s.now = func() time.Time { return now }

	require.NoError(t, s.Tick(context.Background()))
	assert.Empty(t, notifs.inserted)
}
