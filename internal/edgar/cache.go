// internal/edgar/cache.go
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edgar-content-service/internal/common/database"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/metrics"

	"github.com/cespare/xxhash/v2"
)

// Cache wraps Redis for upstream payloads. A nil Redis client turns the
// cache into a no-op so the service keeps serving when Redis is down or
// not deployed.
type Cache struct {
	redis  *database.RedisClient
	logger logger.Logger
}

func NewCache(redis *database.RedisClient, log logger.Logger) *Cache {
	return &Cache{
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"component": "edgar-cache"}),
	}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.redis != nil
}

// Get loads a cached JSON value into v. False means miss, disabled cache
// or decode failure; failures never propagate to callers.
func (c *Cache) Get(ctx context.Context, key string, v interface{}) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		metrics.CacheMissesTotal.WithLabelValues(cacheName(key)).Inc()
		return false
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		_ = c.redis.Del(ctx, key)
		metrics.CacheMissesTotal.WithLabelValues(cacheName(key)).Inc()
		return false
	}

	metrics.CacheHitsTotal.WithLabelValues(cacheName(key)).Inc()
	return true
}

// Set stores v as JSON under key. Errors are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache marshal failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.redis.Set(ctx, key, raw, ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// GetBytes loads a cached raw payload, for blobs like company facts that
// are stored as-is.
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		metrics.CacheMissesTotal.WithLabelValues(cacheName(key)).Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.WithLabelValues(cacheName(key)).Inc()
	return []byte(raw), true
}

// SetBytes stores a raw payload under key.
func (c *Cache) SetBytes(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Key builds a namespaced cache key from identifier parts.
func Key(parts ...string) string {
	return "edgar:" + strings.Join(parts, ":")
}

// HashedKey builds a cache key for free-form payloads like search
// queries, hashing the payload so keys stay short and safe.
func HashedKey(prefix, payload string) string {
	return fmt.Sprintf("edgar:%s:%016x", prefix, xxhash.Sum64String(payload))
}

// cacheName extracts the second key segment for metric labels, so
// edgar:submissions:320193 counts under "submissions".
func cacheName(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return key
}
