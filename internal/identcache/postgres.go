// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package identcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/models"
)

// Postgres keeps entries in the identifications table of the document store.
type Postgres struct {
	db  *database.DB
	ttl time.Duration
}

// NewPostgres creates a table-backed cache. ttl 0 never expires.
func NewPostgres(db *database.DB, ttl time.Duration) *Postgres {
	return &Postgres{db: db, ttl: ttl}
}

func (p *Postgres) Get(ctx context.Context, key string) (*models.Identification, error) {
	ident, err := p.db.GetIdentification(ctx, key)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ident, nil
}

func (p *Postgres) Put(ctx context.Context, ident *models.Identification) error {
	return mapStoreError(p.db.PutIdentification(ctx, ident, p.ttl))
}

func (p *Postgres) Purge(ctx context.Context) (int64, error) {
	n, err := p.db.PurgeExpiredIdentifications(ctx)
	return n, mapStoreError(err)
}

func (p *Postgres) Clear(ctx context.Context) (int64, error) {
	n, err := p.db.DeleteAllIdentifications(ctx)
	return n, mapStoreError(err)
}

func (p *Postgres) Backend() string { return BackendPostgres }

// Close is a no-op; the pool belongs to the caller.
func (p *Postgres) Close() error { return nil }

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrMiss
	case errors.Is(err, database.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}
