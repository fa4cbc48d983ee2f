// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package database

import (
	"context"
	"time"

	"github.com/tomtom215/herbfinder/internal/models"
)

// GetIdentification returns the live cache entry for key, or ErrNotFound when
// it is absent or expired.
func (db *DB) GetIdentification(ctx context.Context, key string) (*models.Identification, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	var ident models.Identification
	err := db.pool.QueryRow(ctx, `
		SELECT key, image_url, scientific_name, common_names, family, computed_at
		FROM identifications
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`, key,
	).Scan(&ident.Key, &ident.ImageURL, &ident.Species.ScientificName,
		&ident.Species.CommonNames, &ident.Species.Family, &ident.ComputedAt)
	if err = observe("select", "identifications", start, err); err != nil {
		return nil, err
	}
	return &ident, nil
}

// PutIdentification overwrites the entry for ident.Key. ttl 0 never expires.
// ComputedAt is assigned by the store.
func (db *DB) PutIdentification(ctx context.Context, ident *models.Identification, ttl time.Duration) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	names := ident.Species.CommonNames
	if names == nil {
		names = []string{}
	}
	var ttlSeconds *float64
	if ttl > 0 {
		s := ttl.Seconds()
		ttlSeconds = &s
	}

	err := db.pool.QueryRow(ctx, `
		INSERT INTO identifications (key, image_url, scientific_name, common_names, family, computed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, now(), now() + make_interval(secs => $6::float8))
		ON CONFLICT (key) DO UPDATE SET
			image_url       = EXCLUDED.image_url,
			scientific_name = EXCLUDED.scientific_name,
			common_names    = EXCLUDED.common_names,
			family          = EXCLUDED.family,
			computed_at     = EXCLUDED.computed_at,
			expires_at      = EXCLUDED.expires_at
		RETURNING computed_at`,
		ident.Key, ident.ImageURL, ident.Species.ScientificName, names, ident.Species.Family, ttlSeconds,
	).Scan(&ident.ComputedAt)

	return observe("upsert", "identifications", start, err)
}

// PurgeExpiredIdentifications deletes expired entries and returns how many were removed.
func (db *DB) PurgeExpiredIdentifications(ctx context.Context) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	tag, err := db.pool.Exec(ctx,
		`DELETE FROM identifications WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err = observe("purge", "identifications", start, err); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAllIdentifications empties the cache and returns how many entries were removed.
func (db *DB) DeleteAllIdentifications(ctx context.Context) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	tag, err := db.pool.Exec(ctx, `DELETE FROM identifications`)
	if err = observe("truncate", "identifications", start, err); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
