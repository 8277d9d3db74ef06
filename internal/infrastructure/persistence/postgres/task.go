package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/domain"
)

func (s *TaskStore) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	const q = `
		INSERT INTO tasks (id, user_id, title, description, is_completed, completed_at,
			created_at, updated_at, due_date, tags, priority, status, series_id, recurrence_pattern)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := s.db.Exec(ctx, q,
		t.ID, t.UserID, t.Title, t.Description, t.IsCompleted, t.CompletedAt,
		t.CreatedAt, t.UpdatedAt, t.DueDate, t.Tags, t.Priority, t.Status, t.SeriesID, t.RecurrencePattern)
	if err != nil {
		return domain.Task{}, fmt.Errorf("postgres: create task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	const q = `
		SELECT id, user_id, title, description, is_completed, completed_at,
			created_at, updated_at, due_date, tags, priority, status, series_id, recurrence_pattern
		FROM tasks WHERE id = $1`
	return scanTask(s.db.QueryRow(ctx, q, id), id)
}

func (s *TaskStore) ListAll(ctx context.Context, userID string) ([]domain.Task, error) {
	const q = `
		SELECT id, user_id, title, description, is_completed, completed_at,
			created_at, updated_at, due_date, tags, priority, status, series_id, recurrence_pattern
		FROM tasks WHERE user_id = $1`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tasks: %w", err)
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

func (s *TaskStore) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	const q = `
		UPDATE tasks SET title=$2, description=$3, is_completed=$4, completed_at=$5,
			updated_at=$6, due_date=$7, tags=$8, priority=$9, status=$10,
			series_id=$11, recurrence_pattern=$12
		WHERE id=$1`
	tag, err := s.db.Exec(ctx, q,
		t.ID, t.Title, t.Description, t.IsCompleted, t.CompletedAt,
		t.UpdatedAt, t.DueDate, t.Tags, t.Priority, t.Status, t.SeriesID, t.RecurrencePattern)
	if err != nil {
		return domain.Task{}, fmt.Errorf("postgres: update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Task{}, &domain.NotFoundError{Entity: "task", ID: t.ID}
	}
	return t, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "task", ID: id}
	}
	return nil
}

func (s *TaskStore) InsertHistory(ctx context.Context, h domain.TaskHistory) error {
	const q = `
		INSERT INTO task_history (history_id, task_id, task_title, action_type, description, timestamp, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := s.db.Exec(ctx, q, h.HistoryID, h.TaskID, h.TaskTitle, h.ActionType, h.Description, h.Timestamp, h.UserID)
	if err != nil {
		return fmt.Errorf("postgres: insert task history: %w", err)
	}
	return nil
}

func (s *TaskStore) ListHistory(ctx context.Context, userID string, filter domain.HistoryFilter) (domain.HistoryPage, error) {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit
	if filter.Offset != nil {
		offset = *filter.Offset
	}

	where := `WHERE user_id = $1`
	args := []any{userID}
	if filter.TaskID != nil {
		args = append(args, *filter.TaskID)
		where += fmt.Sprintf(" AND task_id = $%d", len(args))
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		where += fmt.Sprintf(" AND action_type = $%d", len(args))
	}

	var total int
	countQ := `SELECT count(*) FROM task_history ` + where
	if err := s.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return domain.HistoryPage{}, fmt.Errorf("postgres: count task history: %w", err)
	}

	args = append(args, limit, offset)
	listQ := fmt.Sprintf(`
		SELECT history_id, task_id, task_title, action_type, description, timestamp, user_id
		FROM task_history %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := s.db.Query(ctx, listQ, args...)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("postgres: list task history: %w", err)
	}
	defer rows.Close()

	var items []domain.TaskHistory
	for rows.Next() {
		var h domain.TaskHistory
		if err := rows.Scan(&h.HistoryID, &h.TaskID, &h.TaskTitle, &h.ActionType, &h.Description, &h.Timestamp, &h.UserID); err != nil {
			return domain.HistoryPage{}, fmt.Errorf("postgres: scan task history: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryPage{}, err
	}

	totalPages := (total + limit - 1) / limit
	return domain.HistoryPage{
		Items: items, TotalCount: total, TotalPages: totalPages, CurrentPage: page, PageSize: limit,
		HasNext: page < totalPages, HasPrev: page > 1,
	}, nil
}

func (s *TaskStore) DeleteHistory(ctx context.Context, userID, historyID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM task_history WHERE history_id = $1 AND user_id = $2`, historyID, userID)
	if err != nil {
		return fmt.Errorf("postgres: delete task history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "task_history", ID: historyID}
	}
	return nil
}

func (s *TaskStore) DeleteNotificationsForTask(ctx context.Context, taskID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("postgres: delete notifications for task: %w", err)
	}
	return nil
}

func (s *TaskStore) WeeklyStats(ctx context.Context, userID string) (task.Stats, error) {
	now := timeNowUTC()
	start, end := task.CurrentWeekRange(now)

	const q = `
		SELECT
			count(*) FILTER (WHERE created_at BETWEEN $2 AND $3) AS created_this_week,
			count(*) FILTER (WHERE is_completed AND completed_at BETWEEN $2 AND $3) AS completed_this_week,
			count(*) FILTER (WHERE is_completed) AS total_completed,
			count(*) FILTER (WHERE NOT is_completed) AS total_incomplete,
			count(*) AS total_tasks
		FROM tasks WHERE user_id = $1`

	var stats task.Stats
	err := s.db.QueryRow(ctx, q, userID, start, end).Scan(
		&stats.TasksCreatedThisWeek, &stats.TasksCompletedThisWeek,
		&stats.TotalCompleted, &stats.TotalIncomplete, &stats.TotalTasks)
	if err != nil {
		return task.Stats{}, fmt.Errorf("postgres: weekly stats: %w", err)
	}
	stats.WeekStart, stats.WeekEnd = start, end
	return stats, nil
}

func scanTask(row pgx.Row, id string) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.Tags, &t.Priority, &t.Status, &t.SeriesID, &t.RecurrencePattern)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, &domain.NotFoundError{Entity: "task", ID: id}
		}
		return domain.Task{}, fmt.Errorf("postgres: scan task: %w", err)
	}
	return t, nil
}

func scanTaskRows(rows pgx.Rows) (domain.Task, error) {
	var t domain.Task
	err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.Tags, &t.Priority, &t.Status, &t.SeriesID, &t.RecurrencePattern)
	return t, err
}
