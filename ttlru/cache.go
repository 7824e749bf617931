// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ttlru implements the bounded TTL+LRU cache behind
// datacache.Cache.
package ttlru

import (
	"container/list"
	"sync"
	"time"

	"github.com/bookline/datacache"
)

var _ datacache.Cache[struct{}] = (*Cache[struct{}])(nil)

// entry is a cache entry. The key is kept here because eviction walks
// the recency list, not the map.
type entry[V any] struct {
	key            string
	value          V
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    uint64
}

// Cache is a thread-safe cache bounded by entry count and by an
// approximate memory ceiling, with TTL expiry and optional LRU
// eviction.
//
// Lookups without LRU enabled share the read lock; everything that
// mutates the store or its metadata, including lookups when LRU is
// enabled, takes the write lock.
type Cache[V any] struct {
	mu    sync.RWMutex
	cfg   datacache.Config
	items map[string]*list.Element
	order *list.List // front = most recently used

	stats counters

	now func() time.Time
}

// New creates a cache with the given policy. The policy is fixed for
// the cache's lifetime.
func New[V any](cfg datacache.Config) *Cache[V] {
	return &Cache[V]{
		cfg:   cfg.Normalize(),
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   time.Now,
	}
}

// Get returns the entry with the key, if it exists and has not
// expired. An expired entry is removed and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	now := c.now()

	if c.cfg.LRUEnabled {
		// LRU turns every lookup into a write-class operation.
		c.mu.Lock()
		defer c.mu.Unlock()

		el, ok := c.items[key]
		if !ok {
			c.stats.miss(c.cfg.StatisticsEnabled)
			return zero, false
		}
		e := el.Value.(*entry[V])
		if c.expired(e, now) {
			c.removeLocked(key)
			c.stats.miss(c.cfg.StatisticsEnabled)
			return zero, false
		}
		e.lastAccessedAt = now
		e.accessCount++
		c.order.MoveToFront(el)
		c.stats.hit(c.cfg.StatisticsEnabled)
		return e.value, true
	}

	c.mu.RLock()
	el, ok := c.items[key]
	if !ok {
		c.mu.RUnlock()
		c.stats.miss(c.cfg.StatisticsEnabled)
		return zero, false
	}
	e := el.Value.(*entry[V])
	if c.expired(e, now) {
		c.mu.RUnlock()
		// Deleting needs the write lock; re-check because another
		// writer may have replaced the entry in between.
		c.mu.Lock()
		if el2, ok := c.items[key]; ok && c.expired(el2.Value.(*entry[V]), now) {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		c.stats.miss(c.cfg.StatisticsEnabled)
		return zero, false
	}
	v := e.value
	c.mu.RUnlock()
	c.stats.hit(c.cfg.StatisticsEnabled)
	return v, true
}

// Set inserts or replaces an entry. Replacing resets the entry's
// timestamps and access count.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, c.now())
}

func (c *Cache[V]) setLocked(key string, value V, now time.Time) {
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.createdAt = now
		e.lastAccessedAt = now
		e.accessCount = 0
		c.order.MoveToFront(el)
		return
	}

	c.evictForInsertLocked(now)

	e := &entry[V]{
		key:            key,
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
	}
	c.items[key] = c.order.PushFront(e)
}

// Remove deletes the entry if present. Removing an absent key is not
// an error and counts as nothing.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes all entries and resets every statistics counter.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.stats.reset()
}

// Warmup inserts each item whose key does not already hold a live
// entry. An expired entry under the same key counts as absent and is
// replaced. Warmed items take the same eviction pass as Set.
func (c *Cache[V]) Warmup(items []datacache.KeyValue[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, item := range items {
		if el, ok := c.items[item.Key]; ok {
			if !c.expired(el.Value.(*entry[V]), now) {
				continue
			}
			c.removeLocked(item.Key)
		}
		c.setLocked(item.Key, item.Value, now)
	}
}

// Len returns the number of physically present entries, including any
// that have expired but not yet been purged.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) expired(e *entry[V], now time.Time) bool {
	return now.Sub(e.createdAt) > c.cfg.TTL
}

func (c *Cache[V]) removeLocked(key string) {
	el, ok := c.items[key]
	if !ok {
		return
	}
	delete(c.items, key)
	c.order.Remove(el)
}
