package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// ErrCacheMiss reports an absent key.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is the JSON value cache used for analysis and comparison results.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// GetOrSet returns the cached value or invokes loader once per key
	// across concurrent callers, caching its result.
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

type cache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// Option configures the cache.
type Option func(*cache)

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) Option {
	return func(c *cache) { c.prefix = prefix }
}

// WithDefaultTTL overrides the TTL applied when a call passes ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *cache) { c.defaultTTL = ttl }
}

// NewCache returns a Redis-backed Cache.
func NewCache(client *Client, log logging.Logger, opts ...Option) Cache {
	c := &cache{
		client:     client,
		logger:     log,
		prefix:     "lexatlas:",
		defaultTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *cache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by +/-10% so hot keys do not expire in
// lockstep.
func (c *cache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Raw().Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached value")
	}
	return nil
}

func (c *cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode value for cache")
	}
	if err := c.client.Raw().Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set cache value")
	}
	return nil
}

func (c *cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.Raw().Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache keys")
	}
	return nil
}

func (c *cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		c.logger.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, v, ttl); err != nil {
			c.logger.Warn("failed to populate cache", logging.String("key", key), logging.Err(err))
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON so dest gets filled regardless of the
	// loader's concrete type.
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode loaded value")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode loaded value")
	}
	return nil
}

func (c *cache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	iter := c.client.Raw().Scan(ctx, 0, c.fullKey(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Raw().Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache key")
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache scan failed")
	}
	return deleted, nil
}
