// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bookline/datacache"
)

var _ prometheus.Collector = (*StatsCollector)(nil)

// StatsCollector exports a cache's Statistics snapshot on every
// scrape. Unlike the per-operation metrics in Cache, these values come
// straight from the cache's own counters, so they also work for caches
// that are not wrapped.
type StatsCollector struct {
	stats func() datacache.Statistics

	entries   *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	memory    *prometheus.Desc
	hitRate   *prometheus.Desc
}

// NewStatsCollector builds a collector over the given snapshot
// function, typically cache.Statistics.
func NewStatsCollector(namespace string, stats func() datacache.Statistics) *StatsCollector {
	name := func(s string) string {
		return prometheus.BuildFQName(namespace, "cache_stats", s)
	}
	return &StatsCollector{
		stats:     stats,
		entries:   prometheus.NewDesc(name("entries"), "current number of cached entries", nil, nil),
		hits:      prometheus.NewDesc(name("hits_total"), "lookups answered from the cache", nil, nil),
		misses:    prometheus.NewDesc(name("misses_total"), "lookups not answered from the cache", nil, nil),
		evictions: prometheus.NewDesc(name("evictions_total"), "entries removed to satisfy a bound", nil, nil),
		memory:    prometheus.NewDesc(name("memory_estimate_bytes"), "approximate memory held by cached entries", nil, nil),
		hitRate:   prometheus.NewDesc(name("hit_ratio"), "fraction of lookups answered from the cache", nil, nil),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.memory
	ch <- c.hitRate
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(stats.TotalEntries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.HitCount))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.MissCount))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(stats.EvictionCount))
	ch <- prometheus.MustNewConstMetric(c.memory, prometheus.GaugeValue, float64(stats.MemoryEstimateBytes))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, stats.HitRate)
}
