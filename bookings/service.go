// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bookings

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bookline/datacache"
	"github.com/bookline/datacache/metercache"
	"github.com/bookline/datacache/payloadcache"
	"github.com/bookline/datacache/snapshot"
	"github.com/bookline/datacache/ttlru"
)

// Service serves parsed booking records through the caching stack:
// parsed-record cache first, then the raw-payload cache, then the
// fetcher, with the legacy persisted snapshot as a last resort when
// the fetcher fails.
type Service struct {
	cache    datacache.Cache[*Booking]
	payloads *payloadcache.Cache
	legacy   *snapshot.Store
	fetcher  Fetcher
	logger   *zap.Logger
}

// NewService builds the stack from cfg. The registerer may be nil to
// skip cache instrumentation.
func NewService(cfg Config, fetcher Fetcher, registerer prometheus.Registerer, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache datacache.Cache[*Booking] = ttlru.New[*Booking](cfg.Cache)
	if registerer != nil {
		metered, err := metercache.New(cfg.MetricsNamespace, registerer, cache)
		if err != nil {
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
		if err := registerer.Register(metercache.NewStatsCollector(cfg.MetricsNamespace, metered.Statistics)); err != nil {
			return nil, fmt.Errorf("register stats collector: %w", err)
		}
		cache = metered
	}

	s := &Service{
		cache:   cache,
		fetcher: fetcher,
		logger:  logger,
	}

	if cfg.PayloadCacheBytes > 0 {
		s.payloads = payloadcache.New(cfg.PayloadCacheBytes)
	}
	if cfg.Snapshot.Enabled {
		storage, err := snapshot.NewFileStorage(cfg.Snapshot.Dir)
		if err != nil {
			return nil, err
		}
		s.legacy = snapshot.NewStore(cfg.Snapshot.Name, cfg.Snapshot.TTL, storage)
	}

	return s, nil
}

// Booking returns the record for the given file identifier.
func (s *Service) Booking(ctx context.Context, id string) (*Booking, error) {
	if b, ok := s.cache.Get(id); ok {
		return b, nil
	}

	raw, fromPayloads := s.rawPayload(id)
	if !fromPayloads {
		var err error
		raw, err = s.fetcher.Fetch(ctx, id)
		if err != nil {
			s.logger.Warn("booking fetch failed",
				zap.String("id", id),
				zap.Error(err))
			if b, ok := s.legacyBooking(id); ok {
				return b, nil
			}
			return nil, err
		}
		if s.payloads != nil {
			s.payloads.Set(id, raw)
		}
	}

	b, err := s.parse(id, raw)
	if err != nil {
		// Never keep a payload that cannot be parsed.
		if s.payloads != nil {
			s.payloads.Del(id)
		}
		return nil, err
	}

	s.cache.Set(id, b)
	if s.legacy != nil {
		// Best effort: the snapshot is a fallback, not a source of
		// truth.
		if err := s.legacy.Save(b); err != nil {
			s.logger.Warn("snapshot save failed", zap.String("id", id), zap.Error(err))
		}
	}
	s.logger.Debug("booking loaded",
		zap.String("id", id),
		zap.Bool("from_payload_cache", fromPayloads))
	return b, nil
}

// Preload fetches and parses the given identifiers and warms the
// record cache without overwriting records already cached.
func (s *Service) Preload(ctx context.Context, ids ...string) error {
	items := make([]datacache.KeyValue[*Booking], 0, len(ids))
	for _, id := range ids {
		raw, err := s.fetcher.Fetch(ctx, id)
		if err != nil {
			return err
		}
		b, err := s.parse(id, raw)
		if err != nil {
			return err
		}
		items = append(items, datacache.KeyValue[*Booking]{Key: id, Value: b})
	}
	s.cache.Warmup(items)
	s.logger.Info("cache warmed", zap.Int("items", len(items)))
	return nil
}

// Invalidate drops the record and its raw payload.
func (s *Service) Invalidate(id string) {
	s.cache.Remove(id)
	if s.payloads != nil {
		s.payloads.Del(id)
	}
}

// Reset clears both caches and their counters.
func (s *Service) Reset() {
	s.cache.Clear()
	if s.payloads != nil {
		s.payloads.Reset()
	}
}

// Statistics reports the record cache's counters.
func (s *Service) Statistics() datacache.Statistics {
	return s.cache.Statistics()
}

// PayloadStats reports the raw-payload cache's counters; zero when
// that cache is disabled.
func (s *Service) PayloadStats() payloadcache.Stats {
	if s.payloads == nil {
		return payloadcache.Stats{}
	}
	return s.payloads.Stats()
}

func (s *Service) rawPayload(id string) ([]byte, bool) {
	if s.payloads == nil {
		return nil, false
	}
	return s.payloads.Get(id)
}

func (s *Service) legacyBooking(id string) (*Booking, bool) {
	if s.legacy == nil {
		return nil, false
	}
	var b Booking
	ok, err := s.legacy.Load(&b)
	if err != nil {
		s.logger.Warn("snapshot load failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	if !ok || b.ID != id {
		return nil, false
	}
	s.logger.Info("served booking from legacy snapshot", zap.String("id", id))
	return &b, true
}

func (s *Service) parse(id string, raw []byte) (*Booking, error) {
	var b Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse booking %q: %w", id, err)
	}
	if b.ID == "" {
		b.ID = id
	}
	return &b, nil
}
