package postgres

import (
	"context"
	"fmt"

	"github.com/tasktrack/platform/internal/domain"
)

// InsertTaskEvent persists the audit row for a TaskEvent the publisher has
// already had acknowledged by the broker.
func (s *EventStore) InsertTaskEvent(ctx context.Context, e domain.TaskEvent) error {
	const q = `
		INSERT INTO task_events (event_id, event_type, user_id, task_id, payload, published_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := s.db.Exec(ctx, q, e.EventID, e.EventType, e.UserID, e.TaskID, e.Payload, e.PublishedAt, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert task event: %w", err)
	}
	return nil
}
