package postgres

import (
	"context"
	"fmt"

	"github.com/tasktrack/platform/internal/domain"
)

// ListVeryImportantWithDueDate returns every non-completed, VERY_IMPORTANT
// task with a due date, across all users — the scheduler's per-tick read.
func (s *ReminderStore) ListVeryImportantWithDueDate(ctx context.Context) ([]domain.Task, error) {
	const q = `
		SELECT id, user_id, title, description, is_completed, completed_at,
			created_at, updated_at, due_date, tags, priority, status, series_id, recurrence_pattern
		FROM tasks
		WHERE is_completed = FALSE AND priority = $1 AND due_date IS NOT NULL`
	rows, err := s.db.Query(ctx, q, domain.PriorityVeryImportant)
	if err != nil {
		return nil, fmt.Errorf("postgres: list very important tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *ReminderStore) ExistsForTaskAndMessage(ctx context.Context, taskID, message string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notifications WHERE task_id = $1 AND message = $2)`
	var exists bool
	if err := s.db.QueryRow(ctx, q, taskID, message).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: check notification existence: %w", err)
	}
	return exists, nil
}

func (s *ReminderStore) Insert(ctx context.Context, n domain.Notification) error {
	const q = `
		INSERT INTO notifications (id, task_id, user_id, message, priority, created_at, read_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := s.db.Exec(ctx, q, n.ID, n.TaskID, n.UserID, n.Message, n.Priority, n.CreatedAt, n.ReadAt)
	if err != nil {
		return fmt.Errorf("postgres: insert notification: %w", err)
	}
	return nil
}

// ListForUser returns userID's notifications newest first, optionally
// restricted to unread rows.
func (s *ReminderStore) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	q := `
		SELECT id, task_id, user_id, message, priority, created_at, read_at
		FROM notifications WHERE user_id = $1`
	if unreadOnly {
		q += ` AND read_at IS NULL`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.TaskID, &n.UserID, &n.Message, &n.Priority, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, fmt.Errorf("postgres: scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead sets read_at on one of userID's notifications. The user_id
// clause in the WHERE means a mismatched owner behaves as NOT_FOUND rather
// than leaking another user's row.
func (s *ReminderStore) MarkRead(ctx context.Context, userID, id string) error {
	const q = `UPDATE notifications SET read_at = $3 WHERE id = $1 AND user_id = $2 AND read_at IS NULL`
	tag, err := s.db.Exec(ctx, q, id, userID, timeNowUTC())
	if err != nil {
		return fmt.Errorf("postgres: mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "notification", ID: id}
	}
	return nil
}

// MarkAllRead sets read_at on every one of userID's unread notifications.
func (s *ReminderStore) MarkAllRead(ctx context.Context, userID string) error {
	const q = `UPDATE notifications SET read_at = $2 WHERE user_id = $1 AND read_at IS NULL`
	_, err := s.db.Exec(ctx, q, userID, timeNowUTC())
	if err != nil {
		return fmt.Errorf("postgres: mark all notifications read: %w", err)
	}
	return nil
}

// CountUnread returns the badge count the client polls.
func (s *ReminderStore) CountUnread(ctx context.Context, userID string) (int, error) {
	const q = `SELECT count(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	var count int
	if err := s.db.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count unread notifications: %w", err)
	}
	return count, nil
}

// PruneOldestRead deletes the oldest already-read notifications for userID
// once the user's total exceeds max, at most total-max of them. Unread rows
// are never deleted, so more than max rows can remain.
func (s *ReminderStore) PruneOldestRead(ctx context.Context, userID string, max int) error {
	const q = `
		DELETE FROM notifications
		WHERE id IN (
			SELECT id FROM notifications
			WHERE user_id = $1 AND read_at IS NOT NULL
			ORDER BY created_at ASC
			LIMIT GREATEST((SELECT count(*) FROM notifications WHERE user_id = $1) - $2, 0)
		)`
	_, err := s.db.Exec(ctx, q, userID, max)
	if err != nil {
		return fmt.Errorf("postgres: prune oldest read notifications: %w", err)
	}
	return nil
}
