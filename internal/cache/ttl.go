package cache

import (
	"sync"
	"time"

	"github.com/zyedidia/generic/cache"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type entry[V any] struct {
	value    V
	storedAt time.Time
	gen      uint64
}

// TTL is a bounded LRU whose entries are fresh for a fixed duration.
// Invalidate makes every entry stale at once but keeps it readable through Peek,
// so callers can fall back to the last known value.
type TTL[K comparable, V any] struct {
	mu  sync.Mutex
	lru *cache.Cache[K, entry[V]]
	ttl time.Duration
	now Clock
	gen uint64
}

// New creates a cache holding at most capacity keys.
func New[K comparable, V any](capacity int, ttl time.Duration, now Clock) *TTL[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[K, V]{
		lru: cache.New[K, entry[V]](capacity),
		ttl: ttl,
		now: now,
	}
}

// Get returns the value only if it is younger than the TTL and not invalidated.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok || e.gen != c.gen || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Peek returns the last stored value regardless of age.
func (c *TTL[K, V]) Peek(key K) (V, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	return e.value, e.storedAt, ok
}

// Set stores value as fresh.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Put(key, entry[V]{value: value, storedAt: c.now(), gen: c.gen})
}

// SetIf stores value only if no Invalidate happened since gen was read.
// It reports whether the value was stored.
func (c *TTL[K, V]) SetIf(key K, value V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}
	c.lru.Put(key, entry[V]{value: value, storedAt: c.now(), gen: c.gen})
	return true
}

// Generation is the current invalidation counter.
func (c *TTL[K, V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Invalidate marks every entry stale.
func (c *TTL[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}

func (c *TTL[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}
