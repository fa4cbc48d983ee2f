// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/herbfinder/internal/models"
)

// LikePost records that userID likes postID. The like row and the counter
// increment commit together. Liking twice is a no-op that reports
// created=false. Returns ErrNotFound when the post does not exist.
func (db *DB) LikePost(ctx context.Context, postID, userID string) (created bool, err error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	err = pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		// Row lock serializes concurrent likes on the same post.
		var id string
		if err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, `
			UPDATE posts SET likes_count = likes_count + 1 WHERE id = $1`, postID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err = observe("like", "posts", start, err); err != nil {
		return false, err
	}
	return created, nil
}

// HasLiked reports whether userID has liked postID. Unknown posts report false.
func (db *DB) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID).Scan(&exists)
	if err = observe("exists", "likes", start, err); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateComment inserts c and increments the parent's comments_count in one
// transaction. The counter update doubles as the existence check, so a
// missing post returns ErrNotFound and nothing is written.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`, c.PostID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		return tx.QueryRow(ctx, `
			INSERT INTO comments (id, post_id, user_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			c.ID, c.PostID, c.UserID, c.Content,
		).Scan(&c.CreatedAt)
	})

	return observe("comment", "posts", start, err)
}

// ListComments returns the comments on postID, oldest first.
func (db *DB) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.pool.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at
		FROM comments WHERE post_id = $1
		ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, observe("list", "comments", start, err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Comment, error) {
		var c models.Comment
		err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
		return c, err
	})
	if err = observe("list", "comments", start, err); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
