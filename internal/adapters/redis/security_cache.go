package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

// CacheKeyPrefix is the security-context cache namespace. It must stay
// distinct from SessionKeyPrefix so both can share the backing store.
const CacheKeyPrefix = "cache:"

// SecurityCache caches serialized security-context blobs per session across
// requests, so the request path can usually skip a session-store round trip.
type SecurityCache struct {
	client redis.UniversalClient
	prefix string
}

// NewSecurityCache creates a Redis-backed security cache.
func NewSecurityCache(client redis.UniversalClient) *SecurityCache {
	return &SecurityCache{client: client, prefix: CacheKeyPrefix}
}

// Put stores a blob under the namespaced key with the given TTL.
func (c *SecurityCache) Put(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	if key == "" {
		return apperrors.Validation("cache key cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := c.client.Set(ctx, c.prefix+key, blob, ttl).Err(); err != nil {
		return storeErr("cache set", err)
	}
	return nil
}

// Get retrieves a blob; a miss is (nil, nil).
func (c *SecurityCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, apperrors.Validation("cache key cannot be empty")
	}
	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("cache get", err)
	}
	return []byte(data), nil
}

// Delete removes a cached blob. Idempotent.
func (c *SecurityCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return storeErr("cache delete", err)
	}
	return nil
}
