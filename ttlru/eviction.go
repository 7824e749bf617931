// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ttlru

import "time"

// evictForInsertLocked makes room for one incoming entry. It runs only
// when the insert would exceed a configured bound, and then in two
// phases: expired entries go first, then least-recently-accessed (or
// random, when LRU is off) entries until both bounds hold. Every entry
// removed here counts as an eviction.
func (c *Cache[V]) evictForInsertLocked(now time.Time) {
	if !c.overAfterInsert() {
		return
	}

	c.purgeExpiredLocked(now)

	for c.overAfterInsert() {
		if !c.evictOneLocked() {
			// Nothing left to evict: a single oversized insert may
			// transiently exceed the memory ceiling.
			return
		}
	}
}

func (c *Cache[V]) overAfterInsert() bool {
	incoming := len(c.items) + 1
	if c.cfg.MaxEntries > 0 && incoming > c.cfg.MaxEntries {
		return true
	}
	if c.cfg.MaxMemoryBytes > 0 && incoming*averageEntrySizeBytes > c.cfg.MaxMemoryBytes {
		return true
	}
	return false
}

// purgeExpiredLocked removes every expired entry. O(n) full scan,
// acceptable at this cache's scale.
func (c *Cache[V]) purgeExpiredLocked(now time.Time) {
	for key, el := range c.items {
		if c.expired(el.Value.(*entry[V]), now) {
			c.removeLocked(key)
			c.stats.evict(c.cfg.StatisticsEnabled)
		}
	}
}

// evictOneLocked removes a single victim and reports whether one was
// found.
//
// With LRU enabled the recency list already orders entries by
// lastAccessedAt with insertion order breaking ties, so the victim is
// the back of the list. With LRU disabled the victim is an arbitrary
// entry; map iteration order gives each key a chance, so repeated
// evictions do not starve any single key.
func (c *Cache[V]) evictOneLocked() bool {
	if len(c.items) == 0 {
		return false
	}

	if c.cfg.LRUEnabled {
		back := c.order.Back()
		if back == nil {
			return false
		}
		c.removeLocked(back.Value.(*entry[V]).key)
	} else {
		for key := range c.items {
			c.removeLocked(key)
			break
		}
	}

	c.stats.evict(c.cfg.StatisticsEnabled)
	return true
}
