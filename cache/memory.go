package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// MemoryCache is an LRU cache with per-entry TTLs. Safe for concurrent
// use.
type MemoryCache struct {
	mutex      sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
}

// NewMemoryCache makes a MemoryCache holding at most maxEntries values.
// Non-positive maxEntries means DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns the cached value for key, expiring it lazily.
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		return "", false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key. A zero ttl means no expiry.
func (c *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}
	elem := c.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem
	for c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
}

// Exists reports whether key is cached and unexpired.
func (c *MemoryCache) Exists(ctx context.Context, key string) bool {
	_, ok := c.Get(ctx, key)
	return ok
}

// Clear drops every entry.
func (c *MemoryCache) Clear(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Close is a no-op for the in-memory backend.
func (c *MemoryCache) Close() error { return nil }

// Len returns the number of cached entries, counting expired ones not
// yet evicted.
func (c *MemoryCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.key)
}
