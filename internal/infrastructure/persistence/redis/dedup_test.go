package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/persistence/redis"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClientFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return c, mr
}

func TestDedup_MarkThenIsProcessed(t *testing.T) {
	client, _ := newTestClient(t)
	dedup := redis.NewDedup(client)
	ctx := context.Background()

	processed, err := dedup.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	require.False(t, processed)

	now := time.Now().UTC()
	require.NoError(t, dedup.MarkProcessed(ctx, domain.ProcessedEvent{
		EventID: "evt-1", ProcessedAt: now, ExpiresAt: now.Add(domain.ProcessedEventTTL),
	}))

	processed, err = dedup.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	require.True(t, processed)
}

func TestDedup_ExpiresAfterTTL(t *testing.T) {
	client, mr := newTestClient(t)
	dedup := redis.NewDedup(client)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, dedup.MarkProcessed(ctx, domain.ProcessedEvent{
		EventID: "evt-2", ProcessedAt: now, ExpiresAt: now.Add(time.Second),
	}))

	mr.FastForward(2 * time.Second)

	processed, err := dedup.IsProcessed(ctx, "evt-2")
	require.NoError(t, err)
	require.False(t, processed)
}
