// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bookings

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/bookline/datacache"
)

// Config wires the service and its caches. Unset fields fall back to
// the defaults below.
type Config struct {
	// SourceDir is where the file fetcher looks for booking JSON.
	SourceDir string `yaml:"source_dir"`

	Cache datacache.Config `yaml:"cache"`

	// PayloadCacheBytes is the raw-payload cache budget; zero
	// disables that cache.
	PayloadCacheBytes int `yaml:"payload_cache_bytes"`

	Snapshot SnapshotConfig `yaml:"snapshot"`

	MetricsNamespace string `yaml:"metrics_namespace"`
}

// SnapshotConfig controls the legacy persisted snapshot fallback.
type SnapshotConfig struct {
	Enabled bool
	Dir     string
	Name    string
	TTL     time.Duration
}

type snapshotYAML struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Name    string `yaml:"name"`
	TTL     string `yaml:"ttl"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *SnapshotConfig) UnmarshalYAML(unmarshal func(any) error) error {
	var raw snapshotYAML
	if err := unmarshal(&raw); err != nil {
		return err
	}
	var ttl time.Duration
	if raw.TTL != "" {
		var err error
		ttl, err = time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("parse snapshot ttl %q: %w", raw.TTL, err)
		}
	}
	*c = SnapshotConfig{
		Enabled: raw.Enabled,
		Dir:     raw.Dir,
		Name:    raw.Name,
		TTL:     ttl,
	}
	return nil
}

// DefaultServiceConfig serves bookings from ./data with the default
// cache policy and no persisted snapshot.
func DefaultServiceConfig() Config {
	return Config{
		SourceDir:         "data",
		Cache:             datacache.DefaultConfig(),
		PayloadCacheBytes: 1 << 20,
		Snapshot: SnapshotConfig{
			Name: "latest_booking",
			TTL:  24 * time.Hour,
		},
		MetricsNamespace: "bookline",
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultServiceConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	if cfg.Snapshot.Name == "" {
		cfg.Snapshot.Name = "latest_booking"
	}
	cfg.Cache = cfg.Cache.Normalize()
	return cfg, nil
}
