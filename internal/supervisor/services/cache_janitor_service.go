// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/herbfinder/internal/logging"
)

// Purger removes expired identification cache entries.
// Satisfied by identcache.Cache.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
	Backend() string
}

// CacheJanitorService purges the identification cache on a fixed interval.
type CacheJanitorService struct {
	cache    Purger
	interval time.Duration
	name     string
}

// NewCacheJanitorService creates the janitor. interval must be positive.
func NewCacheJanitorService(cache Purger, interval time.Duration) *CacheJanitorService {
	return &CacheJanitorService{
		cache:    cache,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve purges once per interval until ctx is canceled.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.purge(ctx, &logger)
		}
	}
}

func (s *CacheJanitorService) purge(ctx context.Context, logger *zerolog.Logger) {
	start := time.Now()
	n, err := s.cache.Purge(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn().Err(err).Str("backend", s.cache.Backend()).Msg("Identification cache purge failed")
		}
		return
	}
	logger.Debug().
		Int64("purged", n).
		Str("backend", s.cache.Backend()).
		Dur("duration", time.Since(start)).
		Msg("Identification cache purged")
}

func (s *CacheJanitorService) String() string {
	return s.name
}
