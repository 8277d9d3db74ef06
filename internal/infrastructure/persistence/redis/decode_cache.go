package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/platform/internal/domain"
)

const (
	decodeCacheKeyPrefix = "jwt:decoded:"
	decodeCacheTTL       = 5 * time.Minute
)

// DecodeCache implements auth.DecodeCache: a 5-minute-TTL cache of
// already-verified JWT claims in front of signature verification. Each key
// expires on its TTL; the number of keys is not capped. Keyed on
// a digest of the token rather than the raw bearer string, so a Redis
// MONITOR session or slow-query log never surfaces a live credential.
type DecodeCache struct {
	rdb *redis.Client
}

// NewDecodeCache wires a DecodeCache against an existing client's connection.
func NewDecodeCache(c *Client) *DecodeCache {
	return &DecodeCache{rdb: c.rdb}
}

func decodeCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return decodeCacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *DecodeCache) Get(ctx context.Context, token string) (domain.JWTClaims, bool, error) {
	raw, err := c.rdb.Get(ctx, decodeCacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.JWTClaims{}, false, nil
	}
	if err != nil {
		return domain.JWTClaims{}, false, fmt.Errorf("redis: get decoded token: %w", err)
	}

	var claims domain.JWTClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return domain.JWTClaims{}, false, fmt.Errorf("redis: unmarshal decoded token: %w", err)
	}
	return claims, true, nil
}

func (c *DecodeCache) Set(ctx context.Context, token string, claims domain.JWTClaims) error {
	payload, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("redis: marshal decoded token: %w", err)
	}
	if err := c.rdb.Set(ctx, decodeCacheKey(token), payload, decodeCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis: set decoded token: %w", err)
	}
	return nil
}
