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

// GetKnowledge returns the entry for scientificName or ErrNotFound.
func (db *DB) GetKnowledge(ctx context.Context, scientificName string) (*models.PlantKnowledge, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	var k models.PlantKnowledge
	err := db.pool.QueryRow(ctx, `
		SELECT scientific_name, common_names, family, description, image_url, source_url, updated_at
		FROM plant_knowledge WHERE scientific_name = $1`, scientificName,
	).Scan(&k.ScientificName, &k.CommonNames, &k.Family, &k.Description, &k.ImageURL, &k.SourceURL, &k.UpdatedAt)
	if err = observe("select", "plant_knowledge", start, err); err != nil {
		return nil, err
	}
	if k.CommonNames == nil {
		k.CommonNames = []string{}
	}
	return &k, nil
}

// PutKnowledge upserts k. UpdatedAt is assigned by the store.
func (db *DB) PutKnowledge(ctx context.Context, k *models.PlantKnowledge) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	names := k.CommonNames
	if names == nil {
		names = []string{}
	}

	err := db.pool.QueryRow(ctx, `
		INSERT INTO plant_knowledge (scientific_name, common_names, family, description, image_url, source_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scientific_name) DO UPDATE SET
			common_names = EXCLUDED.common_names,
			family       = EXCLUDED.family,
			description  = EXCLUDED.description,
			image_url    = EXCLUDED.image_url,
			source_url   = EXCLUDED.source_url,
			updated_at   = now()
		RETURNING updated_at`,
		k.ScientificName, names, k.Family, k.Description, k.ImageURL, k.SourceURL,
	).Scan(&k.UpdatedAt)

	return observe("upsert", "plant_knowledge", start, err)
}
