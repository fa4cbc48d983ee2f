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

// CreateUser writes the profile for an identity provider account.
// CreatedAt is assigned by the store and written back to u.
// Returns ErrAlreadyExists when a profile for u.ID exists.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	err := db.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, nickname, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.Email, u.Nickname, u.Avatar,
	).Scan(&u.CreatedAt)

	return observe("insert", "users", start, err)
}

// GetUser returns the profile for id or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	var u models.User
	err := db.pool.QueryRow(ctx, `
		SELECT id, email, nickname, avatar, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Nickname, &u.Avatar, &u.CreatedAt)
	if err = observe("select", "users", start, err); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserExists reports whether a profile exists for id.
func (db *DB) UserExists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	var exists bool
	err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err = observe("exists", "users", start, err); err != nil {
		return false, err
	}
	return exists, nil
}
