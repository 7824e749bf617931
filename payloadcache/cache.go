// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payloadcache holds fetched-but-unparsed JSON payloads,
// keyed by source identifier. It is sharded to keep lock contention
// away from the booking fetch path and bounded by a total byte budget
// split evenly across shards.
package payloadcache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"
)

const numShards = 64

// Stats contains payload cache counters.
type Stats struct {
	Entries uint64
	Bytes   uint64
	Gets    uint64
	Sets    uint64
	Misses  uint64
}

// Cache is a sharded, byte-budgeted LRU cache for raw payloads.
// Values are copied on the way in and on the way out, so callers may
// reuse their buffers.
type Cache struct {
	shards [numShards]*shard

	gets   uint64
	sets   uint64
	misses uint64
}

type shard struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	bytes    int64
	maxBytes int64
}

type payload struct {
	key  string
	data []byte
}

// New creates a payload cache with the given total byte budget.
func New(maxBytes int) *Cache {
	if maxBytes <= 0 {
		maxBytes = 1
	}
	perShard := int64(maxBytes) / numShards
	if perShard < 1 {
		perShard = 1
	}
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = &shard{
			items:    make(map[string]*list.Element),
			order:    list.New(),
			maxBytes: perShard,
		}
	}
	return c
}

func (c *Cache) shard(key string) *shard {
	return c.shards[murmur3.Sum32([]byte(key))%numShards]
}

// Set stores a copy of data under key. A payload larger than its
// shard's budget is not stored.
func (c *Cache) Set(key string, data []byte) {
	atomic.AddUint64(&c.sets, 1)
	s := c.shard(key)
	size := int64(len(key) + len(data))

	s.mu.Lock()
	defer s.mu.Unlock()

	if size > s.maxBytes {
		s.remove(key)
		return
	}

	stored := append([]byte(nil), data...)
	if el, ok := s.items[key]; ok {
		p := el.Value.(*payload)
		s.bytes += int64(len(stored)) - int64(len(p.data))
		p.data = stored
		s.order.MoveToFront(el)
	} else {
		el := s.order.PushFront(&payload{key: key, data: stored})
		s.items[key] = el
		s.bytes += size
	}

	for s.bytes > s.maxBytes {
		back := s.order.Back()
		if back == nil {
			break
		}
		s.remove(back.Value.(*payload).key)
	}
}

// Get returns a copy of the payload stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	atomic.AddUint64(&c.gets, 1)
	s := c.shard(key)

	s.mu.Lock()
	el, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}
	s.order.MoveToFront(el)
	data := append([]byte(nil), el.Value.(*payload).data...)
	s.mu.Unlock()

	return data, true
}

// Del removes a key from the cache.
func (c *Cache) Del(key string) {
	s := c.shard(key)
	s.mu.Lock()
	s.remove(key)
	s.mu.Unlock()
}

// Reset clears all cached payloads. The operation counters survive.
func (c *Cache) Reset() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.items = make(map[string]*list.Element)
		s.order.Init()
		s.bytes = 0
		s.mu.Unlock()
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	var entries, bytes uint64
	for _, s := range c.shards {
		s.mu.Lock()
		entries += uint64(len(s.items))
		bytes += uint64(s.bytes)
		s.mu.Unlock()
	}
	return Stats{
		Entries: entries,
		Bytes:   bytes,
		Gets:    atomic.LoadUint64(&c.gets),
		Sets:    atomic.LoadUint64(&c.sets),
		Misses:  atomic.LoadUint64(&c.misses),
	}
}

func (s *shard) remove(key string) {
	el, ok := s.items[key]
	if !ok {
		return
	}
	p := el.Value.(*payload)
	s.bytes -= int64(len(p.key) + len(p.data))
	delete(s.items, key)
	s.order.Remove(el)
}
