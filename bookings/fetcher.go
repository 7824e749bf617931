// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bookings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Fetcher retrieves the raw booking JSON for a file identifier.
// Retry and backoff are the fetcher's business, not the cache layer's.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FileFetcher reads booking JSON from <dir>/<id>.json.
type FileFetcher struct {
	dir string
}

var _ Fetcher = (*FileFetcher)(nil)

func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

func (f *FileFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(f.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("fetch booking %q: %w", id, err)
	}
	return data, nil
}
