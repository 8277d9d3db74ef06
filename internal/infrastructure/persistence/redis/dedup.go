package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/platform/internal/domain"
)

// dedupKeyPrefix matches the original service's "event:dedup:" namespace.
const dedupKeyPrefix = "event:dedup:"

// Dedup implements recurring.Dedup: a processed event_id is never handled
// twice, even across consumer restarts or redelivery, for
// domain.ProcessedEventTTL after it was marked.
type Dedup struct {
	rdb *redis.Client
}

// NewDedup wires a Dedup store against an existing client's connection.
func NewDedup(c *Client) *Dedup {
	return &Dedup{rdb: c.rdb}
}

func dedupKey(eventID string) string {
	return dedupKeyPrefix + eventID
}

func (d *Dedup) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	err := d.rdb.Get(ctx, dedupKey(eventID)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, fmt.Errorf("redis: check processed event: %w", err)
}

func (d *Dedup) MarkProcessed(ctx context.Context, event domain.ProcessedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal processed event: %w", err)
	}

	ttl := domain.ProcessedEventTTL
	if remaining := time.Until(event.ExpiresAt); remaining > 0 {
		ttl = remaining
	}

	if err := d.rdb.Set(ctx, dedupKey(event.EventID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: mark event processed: %w", err)
	}
	return nil
}
