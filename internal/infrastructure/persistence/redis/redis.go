// Package redis implements the two short-TTL keyed surfaces that don't
// belong in the relational store: the Recurring Generator's event
// deduplication record and the JWT decode cache in front of signature
// verification.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/platform/internal/application/auth"
	"github.com/tasktrack/platform/internal/application/recurring"
)

var (
	_ recurring.Dedup  = (*Dedup)(nil)
	_ auth.DecodeCache = (*DecodeCache)(nil)
)

// Client wraps a go-redis client with the key namespace this module uses.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis at addr (host:port). password may be empty;
// db selects the logical database index.
func NewClient(addr, password string, db int) *Client {
	return NewClientFromRaw(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewClientFromRaw wraps an already-configured go-redis client, letting
// tests point this package at a miniredis instance instead of dialing out.
func NewClientFromRaw(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Ping verifies connectivity, used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
