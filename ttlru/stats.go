// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ttlru

import (
	"sync/atomic"

	"github.com/bookline/datacache"
)

// averageEntrySizeBytes is the fixed per-entry cost used for the
// memory estimate. It is a deliberate approximation: eviction behavior
// depends on entry count, not on the real size of cached values.
const averageEntrySizeBytes = 1024

// counters holds the hit/miss/eviction totals. Hits and misses are
// recorded on the read path, which may only hold the read lock, so all
// three are atomics.
type counters struct {
	hits      uint64
	misses    uint64
	evictions uint64
}

func (s *counters) hit(enabled bool) {
	if enabled {
		atomic.AddUint64(&s.hits, 1)
	}
}

func (s *counters) miss(enabled bool) {
	if enabled {
		atomic.AddUint64(&s.misses, 1)
	}
}

func (s *counters) evict(enabled bool) {
	if enabled {
		atomic.AddUint64(&s.evictions, 1)
	}
}

func (s *counters) reset() {
	atomic.StoreUint64(&s.hits, 0)
	atomic.StoreUint64(&s.misses, 0)
	atomic.StoreUint64(&s.evictions, 0)
}

// Statistics returns a snapshot of the counters. The hit rate and the
// memory estimate are computed here, at snapshot time.
func (c *Cache[V]) Statistics() datacache.Statistics {
	c.mu.RLock()
	total := len(c.items)
	c.mu.RUnlock()

	hits := atomic.LoadUint64(&c.stats.hits)
	misses := atomic.LoadUint64(&c.stats.misses)

	var rate float64
	if lookups := hits + misses; lookups > 0 {
		rate = float64(hits) / float64(lookups)
	}

	return datacache.Statistics{
		TotalEntries:        total,
		HitCount:            hits,
		MissCount:           misses,
		EvictionCount:       atomic.LoadUint64(&c.stats.evictions),
		MemoryEstimateBytes: total * averageEntrySizeBytes,
		HitRate:             rate,
	}
}
