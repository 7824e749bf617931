// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercache provides Prometheus-instrumented cache wrappers.
package metercache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bookline/datacache"
)

var _ datacache.Cache[struct{}] = (*Cache[struct{}])(nil)

// Cache wraps a datacache.Cache with metrics.
type Cache[V any] struct {
	datacache.Cache[V]
	metrics *cacheMetrics
}

// New creates a new metered cache wrapper.
func New[V any](
	namespace string,
	registerer prometheus.Registerer,
	c datacache.Cache[V],
) (*Cache[V], error) {
	metrics, err := newMetrics(namespace, registerer)
	return &Cache[V]{
		Cache:   c,
		metrics: metrics,
	}, err
}

func (c *Cache[V]) Get(key string) (V, bool) {
	start := time.Now()
	value, found := c.Cache.Get(key)
	getDuration := time.Since(start)

	if found {
		c.metrics.getCount.With(hitLabels).Inc()
		c.metrics.getTime.With(hitLabels).Add(getDuration.Seconds())
	} else {
		c.metrics.getCount.With(missLabels).Inc()
		c.metrics.getTime.With(missLabels).Add(getDuration.Seconds())
	}

	return value, found
}

func (c *Cache[V]) Set(key string, value V) {
	start := time.Now()
	c.Cache.Set(key, value)
	setDuration := time.Since(start)

	c.metrics.setCount.Inc()
	c.metrics.setTime.Add(setDuration.Seconds())
	c.updateSizes()
}

func (c *Cache[V]) Remove(key string) {
	c.Cache.Remove(key)
	c.updateSizes()
}

func (c *Cache[V]) Clear() {
	c.Cache.Clear()
	c.updateSizes()
}

func (c *Cache[V]) Warmup(items []datacache.KeyValue[V]) {
	c.Cache.Warmup(items)
	c.metrics.warmupCount.Add(float64(len(items)))
	c.updateSizes()
}

func (c *Cache[V]) updateSizes() {
	stats := c.Cache.Statistics()
	c.metrics.entries.Set(float64(stats.TotalEntries))
	c.metrics.memoryEstimate.Set(float64(stats.MemoryEstimateBytes))
}
