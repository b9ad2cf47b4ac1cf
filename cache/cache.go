// Package cache provides the key/value cache used by the translation
// layer, with in-memory and Redis backends.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL'd string key/value store. Get returns ok=false on a
// miss; backends treat infrastructure errors as misses so a flaky cache
// never breaks the pipeline.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Exists(ctx context.Context, key string) bool
	Clear(ctx context.Context)
	Close() error
}
