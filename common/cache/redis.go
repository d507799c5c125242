package cache

import (
	"context"
	"time"

	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/redis"
)

// RedisCache stores entries in Redis under a namespace prefix so several
// services can share one database.
type RedisCache struct {
	client    *redis.Client
	namespace string
	log       *logger.Logger
}

// NewRedisCache wraps client; keys are stored as namespace + ":" + key
func NewRedisCache(client *redis.Client, namespace string, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, namespace: namespace, log: log}
}

func (c *RedisCache) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.client.Get(ctx, c.key(key))
}

// Set stores a value with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.SetWithExpiry(ctx, c.key(key), value, ttl)
}

// Delete removes a value
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.key(key))
}

// Flush removes every key in the namespace
func (c *RedisCache) Flush(ctx context.Context) error {
	n, err := c.client.DeleteByPrefix(ctx, c.key(""))
	if err != nil {
		return err
	}
	c.log.Info("redis cache flushed", "namespace", c.namespace, "keys", n)
	return nil
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	c.log.Info("redis cache closed")
	return c.client.Close()
}
