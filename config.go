// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datacache

import (
	"fmt"
	"time"
)

// Config is the immutable cache policy. A zero limit disables that
// bound; negative limits are treated as zero. TTL of zero means
// entries expire as soon as they are older than the instant they were
// written.
type Config struct {
	MaxEntries        int
	MaxMemoryBytes    int
	TTL               time.Duration
	LRUEnabled        bool
	StatisticsEnabled bool
}

// DefaultConfig is the policy used when no configuration file is
// present.
func DefaultConfig() Config {
	return Config{
		MaxEntries:        100,
		MaxMemoryBytes:    1 << 20, // 1 MiB of the fixed-size estimate
		TTL:               5 * time.Minute,
		LRUEnabled:        true,
		StatisticsEnabled: true,
	}
}

// ProductionConfig sizes the cache for a device-resident booking set.
func ProductionConfig() Config {
	return Config{
		MaxEntries:        500,
		MaxMemoryBytes:    8 << 20,
		TTL:               30 * time.Minute,
		LRUEnabled:        true,
		StatisticsEnabled: true,
	}
}

// TestConfig keeps the cache small and immediately expiring so tests
// can exercise eviction and expiry without waiting.
func TestConfig() Config {
	return Config{
		MaxEntries:        5,
		MaxMemoryBytes:    8 << 10,
		TTL:               0,
		LRUEnabled:        true,
		StatisticsEnabled: true,
	}
}

// Normalize clamps negative limits to zero.
func (c Config) Normalize() Config {
	if c.MaxEntries < 0 {
		c.MaxEntries = 0
	}
	if c.MaxMemoryBytes < 0 {
		c.MaxMemoryBytes = 0
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
	return c
}

// configYAML is the wire shape of Config; TTL travels as a duration
// string such as "30m".
type configYAML struct {
	MaxEntries        int    `yaml:"max_entries"`
	MaxMemoryBytes    int    `yaml:"max_memory_bytes"`
	TTL               string `yaml:"ttl"`
	LRUEnabled        bool   `yaml:"lru_enabled"`
	StatisticsEnabled bool   `yaml:"statistics_enabled"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	var raw configYAML
	if err := unmarshal(&raw); err != nil {
		return err
	}
	var ttl time.Duration
	if raw.TTL != "" {
		var err error
		ttl, err = time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("parse cache ttl %q: %w", raw.TTL, err)
		}
	}
	*c = Config{
		MaxEntries:        raw.MaxEntries,
		MaxMemoryBytes:    raw.MaxMemoryBytes,
		TTL:               ttl,
		LRUEnabled:        raw.LRUEnabled,
		StatisticsEnabled: raw.StatisticsEnabled,
	}.Normalize()
	return nil
}
