package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tasktrack/platform/internal/domain"
)

func (s *SeriesStore) Create(ctx context.Context, series domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	template, err := json.Marshal(series.BaseTaskTemplate)
	if err != nil {
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: marshal series template: %w", err)
	}

	const q = `
		INSERT INTO recurring_task_series (series_id, user_id, base_task_template, recurrence_pattern, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = s.db.Exec(ctx, q, series.SeriesID, series.UserID, template, series.RecurrencePattern, series.IsActive, series.CreatedAt, series.UpdatedAt)
	if err != nil {
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: create series: %w", err)
	}
	return series, nil
}

func (s *SeriesStore) Get(ctx context.Context, seriesID string) (domain.RecurringTaskSeries, error) {
	const q = `
		SELECT series_id, user_id, base_task_template, recurrence_pattern, is_active, created_at, updated_at
		FROM recurring_task_series WHERE series_id = $1`
	return scanSeries(s.db.QueryRow(ctx, q, seriesID), seriesID)
}

// GetSeries is Get under the name the Recurring Generator's consumer
// expects of its SeriesStore dependency.
func (s *SeriesStore) GetSeries(ctx context.Context, seriesID string) (domain.RecurringTaskSeries, error) {
	return s.Get(ctx, seriesID)
}

func (s *SeriesStore) ListByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.RecurringTaskSeries, error) {
	q := `
		SELECT series_id, user_id, base_task_template, recurrence_pattern, is_active, created_at, updated_at
		FROM recurring_task_series WHERE user_id = $1`
	if !includeInactive {
		q += ` AND is_active = TRUE`
	}
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list series: %w", err)
	}
	defer rows.Close()

	var out []domain.RecurringTaskSeries
	for rows.Next() {
		var (
			series   domain.RecurringTaskSeries
			template []byte
		)
		if err := rows.Scan(&series.SeriesID, &series.UserID, &template, &series.RecurrencePattern,
			&series.IsActive, &series.CreatedAt, &series.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan series: %w", err)
		}
		if err := json.Unmarshal(template, &series.BaseTaskTemplate); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal series template: %w", err)
		}
		out = append(out, series)
	}
	return out, rows.Err()
}

func (s *SeriesStore) Update(ctx context.Context, series domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	template, err := json.Marshal(series.BaseTaskTemplate)
	if err != nil {
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: marshal series template: %w", err)
	}

	const q = `
		UPDATE recurring_task_series SET base_task_template=$2, recurrence_pattern=$3, updated_at=$4
		WHERE series_id = $1`
	tag, err := s.db.Exec(ctx, q, series.SeriesID, template, series.RecurrencePattern, series.UpdatedAt)
	if err != nil {
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: update series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.RecurringTaskSeries{}, &domain.NotFoundError{Entity: "recurring_task_series", ID: series.SeriesID}
	}
	return series, nil
}

func (s *SeriesStore) Deactivate(ctx context.Context, seriesID string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE recurring_task_series SET is_active = FALSE, updated_at = $2 WHERE series_id = $1`, seriesID, at)
	if err != nil {
		return fmt.Errorf("postgres: deactivate series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "recurring_task_series", ID: seriesID}
	}
	return nil
}

func (s *SeriesStore) ListTasksInSeries(ctx context.Context, seriesID string) ([]domain.Task, error) {
	const q = `
		SELECT id, user_id, title, description, is_completed, completed_at,
			created_at, updated_at, due_date, tags, priority, status, series_id, recurrence_pattern
		FROM tasks WHERE series_id = $1 ORDER BY created_at`
	rows, err := s.db.Query(ctx, q, seriesID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tasks in series: %w", err)
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

func scanSeries(row pgx.Row, seriesID string) (domain.RecurringTaskSeries, error) {
	var (
		series   domain.RecurringTaskSeries
		template []byte
	)
	err := row.Scan(&series.SeriesID, &series.UserID, &template, &series.RecurrencePattern,
		&series.IsActive, &series.CreatedAt, &series.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RecurringTaskSeries{}, &domain.NotFoundError{Entity: "recurring_task_series", ID: seriesID}
		}
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: scan series: %w", err)
	}
	if err := json.Unmarshal(template, &series.BaseTaskTemplate); err != nil {
		return domain.RecurringTaskSeries{}, fmt.Errorf("postgres: unmarshal series template: %w", err)
	}
	return series, nil
}
