// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type record struct {
	Reference string `json:"reference"`
	Seats     int    `json:"seats"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	require := require.New(t)

	store := NewStore("latest_booking", time.Hour, NewMemoryStorage())

	var out record
	ok, err := store.Load(&out)
	require.NoError(err)
	require.False(ok)

	require.NoError(store.Save(record{Reference: "AB1234", Seats: 2}))

	ok, err = store.Load(&out)
	require.NoError(err)
	require.True(ok)
	require.Equal(record{Reference: "AB1234", Seats: 2}, out)
}

func TestExpiredSnapshotIsMissAndDeleted(t *testing.T) {
	require := require.New(t)

	storage := NewMemoryStorage()
	store := NewStore("latest_booking", time.Minute, storage)

	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }

	require.NoError(store.Save(record{Reference: "AB1234"}))

	now = now.Add(2 * time.Minute)
	var out record
	ok, err := store.Load(&out)
	require.NoError(err)
	require.False(ok)

	// The expired blob is gone from storage too.
	_, err = storage.Read("latest_booking")
	require.ErrorIs(err, ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	require := require.New(t)

	store := NewStore("latest_booking", time.Hour, NewMemoryStorage())
	require.NoError(store.Save(record{Reference: "OLD"}))
	require.NoError(store.Save(record{Reference: "NEW"}))

	var out record
	ok, err := store.Load(&out)
	require.NoError(err)
	require.True(ok)
	require.Equal("NEW", out.Reference)
}

func TestInvalidate(t *testing.T) {
	require := require.New(t)

	store := NewStore("latest_booking", time.Hour, NewMemoryStorage())
	require.NoError(store.Save(record{Reference: "AB1234"}))
	require.NoError(store.Invalidate())

	var out record
	ok, err := store.Load(&out)
	require.NoError(err)
	require.False(ok)
}

func TestCorruptBlobIsAnError(t *testing.T) {
	require := require.New(t)

	storage := NewMemoryStorage()
	require.NoError(storage.Write("latest_booking", []byte("not json")))

	store := NewStore("latest_booking", time.Hour, storage)
	var out record
	_, err := store.Load(&out)
	require.Error(err)
}

func TestFileStorageRoundTrip(t *testing.T) {
	require := require.New(t)

	storage, err := NewFileStorage(t.TempDir())
	require.NoError(err)

	_, err = storage.Read("latest_booking")
	require.ErrorIs(err, ErrNotFound)

	store := NewStore("latest_booking", time.Hour, storage)
	require.NoError(store.Save(record{Reference: "AB1234", Seats: 4}))

	var out record
	ok, err := store.Load(&out)
	require.NoError(err)
	require.True(ok)
	require.Equal(4, out.Seats)

	require.NoError(storage.Delete("latest_booking"))
	require.NoError(storage.Delete("latest_booking"))
}
