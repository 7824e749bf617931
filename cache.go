// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package datacache defines the contracts for the booking app's
// in-process data-caching layer.
package datacache

// KeyValue is a single warmup item.
type KeyValue[V any] struct {
	Key   string
	Value V
}

// Cache acts as a best effort, bounded key value store.
type Cache[V any] interface {
	// Get returns the live entry with the key, if it exists.
	// An expired or absent key is a miss, never an error.
	Get(key string) (V, bool)

	// Set inserts or replaces an entry, evicting first if the
	// insert would exceed a configured bound.
	Set(key string, value V)

	// Remove deletes the entry if present; no-op otherwise.
	Remove(key string)

	// Clear removes all entries and resets the statistics counters.
	Clear()

	// Warmup bulk-inserts items, skipping keys that already hold a
	// live entry. Warmed items go through the same eviction pass as
	// Set.
	Warmup(items []KeyValue[V])

	// Statistics returns a point-in-time snapshot of the counters.
	Statistics() Statistics

	// Len returns the number of physically present entries.
	Len() int
}

// Statistics is a snapshot of cache counters, not a live view.
type Statistics struct {
	TotalEntries        int
	HitCount            uint64
	MissCount           uint64
	EvictionCount       uint64
	MemoryEstimateBytes int
	// HitRate is HitCount/(HitCount+MissCount), 0 when no lookups
	// have happened.
	HitRate float64
}
