// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package services

import (
	"context"
	"time"

	"github.com/nmoralejo/vigia/internal/logging"
)

// Cleaner is satisfied by *cache.Cache.
type Cleaner interface {
	Cleanup() int
}

// JanitorService periodically evicts expired entries from the response
// cache. The cache itself removes entries lazily on Get; the janitor bounds
// memory for tuples that are never queried again.
type JanitorService struct {
	cache    Cleaner
	interval time.Duration
}

// NewJanitorService creates a janitor sweeping cache every interval.
func NewJanitorService(cache Cleaner, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &JanitorService{cache: cache, interval: interval}
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if evicted := j.cache.Cleanup(); evicted > 0 {
				logging.Debug().
					Int("evicted", evicted).
					Msg("cache janitor swept expired entries")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (j *JanitorService) String() string {
	return "cache-janitor"
}
