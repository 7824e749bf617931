// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bookings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookline/datacache"
)

const bookingJSON = `{
	"id": "booking-1",
	"reference": "AB1234",
	"passenger": {"first_name": "Maya", "last_name": "Lindqvist", "email": "maya@example.com"},
	"segments": [
		{"carrier": "BL", "number": "204", "origin": "ARN", "dest": "LHR",
		 "departure": "2026-09-01T08:30:00Z", "arrival": "2026-09-01T10:05:00Z"}
	],
	"status": "confirmed",
	"updated_at": "2026-08-20T12:00:00Z"
}`

type countingFetcher struct {
	mu      sync.Mutex
	calls   int
	byID    map[string][]byte
	failAll bool
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{byID: map[string][]byte{"booking-1": []byte(bookingJSON)}}
}

func (f *countingFetcher) Fetch(_ context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll {
		return nil, errors.New("source unavailable")
	}
	data, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no such booking")
	}
	return data, nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testServiceConfig() Config {
	cfg := DefaultServiceConfig()
	cfg.Cache = datacache.Config{
		MaxEntries:        10,
		TTL:               time.Hour,
		LRUEnabled:        true,
		StatisticsEnabled: true,
	}
	return cfg
}

func TestBookingIsFetchedOnce(t *testing.T) {
	require := require.New(t)

	fetcher := newCountingFetcher()
	svc, err := NewService(testServiceConfig(), fetcher, nil, nil)
	require.NoError(err)

	for i := 0; i < 3; i++ {
		b, err := svc.Booking(context.Background(), "booking-1")
		require.NoError(err)
		require.Equal("AB1234", b.Reference)
		require.Equal("Maya", b.Passenger.FirstName)
		require.Len(b.Segments, 1)
	}

	require.Equal(1, fetcher.callCount())

	stats := svc.Statistics()
	require.Equal(uint64(2), stats.HitCount)
	require.Equal(uint64(1), stats.MissCount)
}

func TestExpiredRecordServedFromPayloadCache(t *testing.T) {
	require := require.New(t)

	cfg := testServiceConfig()
	// TTL zero: every parsed record expires immediately, so each call
	// falls through to the raw-payload tier.
	cfg.Cache.TTL = 0

	fetcher := newCountingFetcher()
	svc, err := NewService(cfg, fetcher, nil, nil)
	require.NoError(err)

	for i := 0; i < 3; i++ {
		_, err := svc.Booking(context.Background(), "booking-1")
		require.NoError(err)
	}

	require.Equal(1, fetcher.callCount())
	require.Equal(uint64(1), svc.PayloadStats().Entries)
}

func TestLegacySnapshotFallback(t *testing.T) {
	require := require.New(t)

	cfg := testServiceConfig()
	cfg.Snapshot = SnapshotConfig{
		Enabled: true,
		Dir:     t.TempDir(),
		Name:    "latest_booking",
		TTL:     time.Hour,
	}
	cfg.PayloadCacheBytes = 0

	fetcher := newCountingFetcher()
	svc, err := NewService(cfg, fetcher, nil, nil)
	require.NoError(err)

	// First call persists the snapshot.
	_, err = svc.Booking(context.Background(), "booking-1")
	require.NoError(err)

	// Evict the record and break the source: the snapshot takes over.
	svc.Invalidate("booking-1")
	fetcher.failAll = true

	b, err := svc.Booking(context.Background(), "booking-1")
	require.NoError(err)
	require.Equal("AB1234", b.Reference)
}

func TestFetchErrorWithoutSnapshot(t *testing.T) {
	require := require.New(t)

	fetcher := newCountingFetcher()
	fetcher.failAll = true
	svc, err := NewService(testServiceConfig(), fetcher, nil, nil)
	require.NoError(err)

	_, err = svc.Booking(context.Background(), "booking-1")
	require.Error(err)
}

func TestParseFailure(t *testing.T) {
	require := require.New(t)

	fetcher := newCountingFetcher()
	fetcher.byID["broken"] = []byte("{not json")
	svc, err := NewService(testServiceConfig(), fetcher, nil, nil)
	require.NoError(err)

	_, err = svc.Booking(context.Background(), "broken")
	require.Error(err)

	// The unparseable payload must not stick around.
	require.Zero(svc.PayloadStats().Entries)
}

func TestPreloadDoesNotOverwrite(t *testing.T) {
	require := require.New(t)

	fetcher := newCountingFetcher()
	svc, err := NewService(testServiceConfig(), fetcher, nil, nil)
	require.NoError(err)

	b, err := svc.Booking(context.Background(), "booking-1")
	require.NoError(err)

	require.NoError(svc.Preload(context.Background(), "booking-1"))

	again, err := svc.Booking(context.Background(), "booking-1")
	require.NoError(err)
	// Warmup must not replace the record already cached.
	require.Same(b, again)
}

func TestFileFetcher(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "booking-1.json"), []byte(bookingJSON), 0o644))

	svc, err := NewService(testServiceConfig(), NewFileFetcher(dir), nil, nil)
	require.NoError(err)

	b, err := svc.Booking(context.Background(), "booking-1")
	require.NoError(err)
	require.Equal("confirmed", b.Status)

	_, err = svc.Booking(context.Background(), "missing")
	require.Error(err)
}

func TestResetClearsCounters(t *testing.T) {
	require := require.New(t)

	fetcher := newCountingFetcher()
	svc, err := NewService(testServiceConfig(), fetcher, nil, nil)
	require.NoError(err)

	_, err = svc.Booking(context.Background(), "booking-1")
	require.NoError(err)
	svc.Reset()

	stats := svc.Statistics()
	require.Zero(stats.TotalEntries)
	require.Zero(stats.HitCount)
	require.Zero(stats.MissCount)
}
