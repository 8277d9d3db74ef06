// Package reminder implements the Reminder Scheduler (component G): a
// periodic sweep over VERY_IMPORTANT tasks that surfaces due-date threshold
// and overdue notifications, with duplicate suppression and per-user
// pruning.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/platform/internal/domain"
)

// Config tunes the scheduler's behavior. NewScheduler applies no defaults:
// the zero Config leaves overdue alerts off.
type Config struct {
	OverdueAlertsEnabled bool
}

// Scheduler runs one tick of the threshold/overdue sweep. It holds no
// cadence of its own — see Worker for the cron-driven loop that calls Tick.
type Scheduler struct {
	tasks   DueTaskLister
	notifs  NotificationStore
	alerts  EventPublisher // may be nil: the alerts side-publish is best-effort
	cfg     Config
	now     func() time.Time
	newID   func() string
}

// NewScheduler wires a Scheduler. alerts may be nil to disable the
// alert.scheduled side-publish entirely.
func NewScheduler(tasks DueTaskLister, notifs NotificationStore, alerts EventPublisher, cfg Config) *Scheduler {
	return &Scheduler{
		tasks: tasks, notifs: notifs, alerts: alerts, cfg: cfg,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Tick runs the five-step per-tick algorithm over every VERY_IMPORTANT,
// non-completed, due-dated task.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()
	tasks, err := s.tasks.ListVeryImportantWithDueDate(ctx)
	if err != nil {
		return err
	}

	usersTouched := make(map[string]bool)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue // defensive: the lister contract guarantees this, but a tick shouldn't panic on it
		}
		hoursRemaining := t.DueDate.Sub(now).Hours()
		message := candidateMessage(t.Title, hoursRemaining, s.cfg.OverdueAlertsEnabled)
		if message == "" {
			continue
		}

		exists, err := s.notifs.ExistsForTaskAndMessage(ctx, t.ID, message)
		if err != nil {
			slog.ErrorContext(ctx, "reminder scheduler: duplicate check failed", "task_id", t.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		n := domain.Notification{
			ID:        s.newID(),
			TaskID:    t.ID,
			UserID:    t.UserID,
			Message:   message,
			Priority:  t.Priority,
			CreatedAt: now,
		}
		if err := s.notifs.Insert(ctx, n); err != nil {
			slog.ErrorContext(ctx, "reminder scheduler: insert failed", "task_id", t.ID, "error", err)
			continue
		}
		usersTouched[t.UserID] = true

		if s.alerts != nil {
			if err := s.alerts.PublishAlertScheduled(ctx, n); err != nil {
				slog.ErrorContext(ctx, "reminder scheduler: alert.scheduled publish failed", "notification_id", n.ID, "error", err)
			}
		}
	}

	for userID := range usersTouched {
		if err := s.notifs.PruneOldestRead(ctx, userID, domain.MaxNotificationsPerUser); err != nil {
			slog.ErrorContext(ctx, "reminder scheduler: prune failed", "user_id", userID, "error", err)
		}
	}
	return nil
}
