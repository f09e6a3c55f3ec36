package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/request-service/internal/domain"
)

const cacheKeyPrefix = "recipients"

// Cache stores resolved recipient lists.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedResolver memoizes another resolver. Cache failures are logged and
// the inner resolver answers instead.
type CachedResolver struct {
	inner  RecipientResolver
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps inner. A non-positive ttl disables caching.
func NewCachedResolver(inner RecipientResolver, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedResolver) ResolveRecipients(ctx context.Context, messageType domain.MessageType, groupID *string, originator string) ([]string, error) {
	if r.cache == nil || r.ttl <= 0 || (!messageType.IsBroadcast() && !messageType.HasGroupContext()) {
		return r.inner.ResolveRecipients(ctx, messageType, groupID, originator)
	}

	key := cacheKey(messageType, groupID, originator)
	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("recipient cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var ids []string
		if err := gojson.Unmarshal([]byte(raw), &ids); err == nil {
			return ids, nil
		}
		r.logger.Warn("recipient cache entry corrupt", zap.String("key", key))
	}

	ids, err := r.inner.ResolveRecipients(ctx, messageType, groupID, originator)
	if err != nil {
		return nil, err
	}
	data, err := gojson.Marshal(ids)
	if err != nil {
		return ids, nil
	}
	if err := r.cache.Set(ctx, key, string(data), r.ttl); err != nil {
		r.logger.Warn("recipient cache write failed", zap.String("key", key), zap.Error(err))
	}
	return ids, nil
}

func cacheKey(messageType domain.MessageType, groupID *string, originator string) string {
	scope := "all"
	if messageType.HasGroupContext() && groupID != nil {
		scope = "group:" + *groupID
	}
	return strings.Join([]string{cacheKeyPrefix, scope, originator}, ":")
}
