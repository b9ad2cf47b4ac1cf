package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisCache is a Cache backed by a Redis server. Redis errors are
// logged and degraded to misses so a cache outage never fails a
// translation.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at redisURL
// (redis://host:port/db form).
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Get returns the cached value for key.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Redis GET failed")
		return "", false
	}
	return value, true
}

// Set stores value under key. A zero ttl means no expiry.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("Redis SET failed")
	}
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("Redis DEL failed")
	}
}

// Exists reports whether key is cached.
func (c *RedisCache) Exists(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Redis EXISTS failed")
		return false
	}
	return n > 0
}

// Clear flushes the selected Redis database.
func (c *RedisCache) Clear(ctx context.Context) {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis FLUSHDB failed")
	}
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
