// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const resultLabel = "result"

var (
	hitLabels  = prometheus.Labels{resultLabel: "hit"}
	missLabels = prometheus.Labels{resultLabel: "miss"}
)

type cacheMetrics struct {
	getCount *prometheus.CounterVec
	getTime  *prometheus.CounterVec
	setCount prometheus.Counter
	setTime  prometheus.Counter

	warmupCount prometheus.Counter

	entries        prometheus.Gauge
	memoryEstimate prometheus.Gauge
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*cacheMetrics, error) {
	m := &cacheMetrics{
		getCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_get_count",
			Help:      "number of get calls by result",
		}, []string{resultLabel}),
		getTime: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_get_time_seconds",
			Help:      "time spent in get calls by result",
		}, []string{resultLabel}),
		setCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_set_count",
			Help:      "number of set calls",
		}),
		setTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_set_time_seconds",
			Help:      "time spent in set calls",
		}),
		warmupCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_warmup_items_count",
			Help:      "number of items offered to warmup",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "current number of cached entries",
		}),
		memoryEstimate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_memory_estimate_bytes",
			Help:      "approximate memory held by cached entries",
		}),
	}

	err := errors.Join(
		registerer.Register(m.getCount),
		registerer.Register(m.getTime),
		registerer.Register(m.setCount),
		registerer.Register(m.setTime),
		registerer.Register(m.warmupCount),
		registerer.Register(m.entries),
		registerer.Register(m.memoryEstimate),
	)
	return m, err
}
