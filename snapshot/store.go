// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// envelope is the on-disk shape: the payload plus its expiry instant.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Store is a single-slot cache: one payload under one fixed name.
type Store struct {
	name    string
	ttl     time.Duration
	storage Storage

	now func() time.Time
}

// NewStore creates a store writing under the given fixed name. A zero
// or negative ttl makes every saved payload already expired, which
// effectively disables the store.
func NewStore(name string, ttl time.Duration, storage Storage) *Store {
	return &Store{
		name:    name,
		ttl:     ttl,
		storage: storage,
		now:     time.Now,
	}
}

// Save marshals payload into the envelope and persists it,
// overwriting any previous snapshot.
func (s *Store) Save(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot payload: %w", err)
	}
	blob, err := json.Marshal(envelope{
		Payload:   raw,
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot envelope: %w", err)
	}
	if err := s.storage.Write(s.name, blob); err != nil {
		return fmt.Errorf("write snapshot %q: %w", s.name, err)
	}
	return nil
}

// Load unmarshals the stored payload into dst. An absent or expired
// snapshot is a miss (false, nil); an expired blob is deleted on the
// way out. Errors are reserved for storage and decode failures.
func (s *Store) Load(dst any) (bool, error) {
	blob, err := s.storage.Read(s.name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot %q: %w", s.name, err)
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return false, fmt.Errorf("decode snapshot %q: %w", s.name, err)
	}
	if !env.ExpiresAt.After(s.now()) {
		_ = s.storage.Delete(s.name)
		return false, nil
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return false, fmt.Errorf("decode snapshot payload %q: %w", s.name, err)
	}
	return true, nil
}

// Invalidate removes the snapshot, if any.
func (s *Store) Invalidate() error {
	return s.storage.Delete(s.name)
}
