// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package identcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
)

// Backend names accepted by New.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBadger   = "badger"
)

var (
	// ErrMiss is returned by Get when no live entry exists.
	ErrMiss = errors.New("identification cache miss")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("identification cache unavailable")
)

// Cache stores the last-known species result per image URL.
//
// Put is an unconditional overwrite. Implementations assign ComputedAt.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Identification, error)
	Put(ctx context.Context, ident *models.Identification) error
	// Purge removes expired entries the backend does not expire on its own.
	Purge(ctx context.Context) (int64, error)
	// Clear removes every entry.
	Clear(ctx context.Context) (int64, error)
	Backend() string
	Close() error
}

// Key returns the cache key for an image URL: the SHA-256 hex digest of the
// exact string, with no normalization.
func Key(imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return hex.EncodeToString(sum[:])
}

// New opens the backend named by cfg.Backend. db is required for the
// postgres backend and ignored otherwise.
func New(ctx context.Context, cfg config.CacheConfig, db *database.DB) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case BackendPostgres, "":
		if db == nil {
			return nil, fmt.Errorf("postgres identification cache requires a database")
		}
		c = NewPostgres(db, cfg.TTL)
	case BackendRedis:
		c, err = NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
	case BackendBadger:
		c, err = NewBadger(cfg.BadgerPath, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown identification cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return &observed{Cache: c}, nil
}

// observed records hit and miss metrics around a backend.
type observed struct {
	Cache
}

func (o *observed) Get(ctx context.Context, key string) (*models.Identification, error) {
	ident, err := o.Cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordIdentificationLookup(o.Backend(), true)
	case errors.Is(err, ErrMiss):
		metrics.RecordIdentificationLookup(o.Backend(), false)
	}
	return ident, err
}

func (o *observed) Purge(ctx context.Context) (int64, error) {
	n, err := o.Cache.Purge(ctx)
	if n > 0 {
		metrics.IdentificationCachePurged.WithLabelValues(o.Backend()).Add(float64(n))
	}
	return n, err
}

// stamp sets ComputedAt for backends without a server clock.
func stamp(ident *models.Identification) {
	ident.ComputedAt = time.Now().UTC()
	if ident.Species.CommonNames == nil {
		ident.Species.CommonNames = []string{}
	}
}
