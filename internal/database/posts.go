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

const postColumns = `
	id, title, content, image_url, user_id, plant_name, common_names, family,
	location, recipe_link, youtube_link, efficacy, precautions,
	likes_count, comments_count, created_at, updated_at`

// CreatePost inserts p with zero counters. ID is generated when empty;
// CreatedAt and UpdatedAt are assigned by the store and written back to p.
func (db *DB) CreatePost(ctx context.Context, p *models.Post) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CommonNames == nil {
		p.CommonNames = []string{}
	}
	p.LikesCount, p.CommentsCount = 0, 0

	err := db.pool.QueryRow(ctx, `
		INSERT INTO posts (
			id, title, content, image_url, user_id, plant_name, common_names, family,
			location, recipe_link, youtube_link, efficacy, precautions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Content, p.ImageURL, p.UserID, p.PlantName, p.CommonNames, p.Family,
		p.Location, p.RecipeLink, p.YoutubeLink, p.Efficacy, p.Precautions,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return observe("insert", "posts", start, err)
}

// GetPost returns the post with id or ErrNotFound.
func (db *DB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err != nil {
		return nil, observe("select", "posts", start, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err = observe("select", "posts", start, err); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns up to limit posts, newest first. When startAfter names an
// existing post the page resumes strictly after it; an unknown cursor yields
// the first page.
func (db *DB) ListPosts(ctx context.Context, limit int, startAfter string) (*models.PostPage, error) {
	return db.listPosts(ctx, "", limit, startAfter)
}

// ListUserPosts is ListPosts restricted to one owner.
func (db *DB) ListUserPosts(ctx context.Context, userID string, limit int, startAfter string) (*models.PostPage, error) {
	return db.listPosts(ctx, userID, limit, startAfter)
}

// The cursor is resolved inside the same statement, so a concurrent insert
// cannot shift the page boundary between lookup and scan. Ties on created_at
// are broken by id.
const listPostsQuery = `
	WITH cursor_row AS (
		SELECT created_at, id FROM posts WHERE id = $2
	)
	SELECT ` + postColumns + `
	FROM posts p
	WHERE ($3 = '' OR p.user_id = $3)
	  AND (
		NOT EXISTS (SELECT 1 FROM cursor_row)
		OR (p.created_at, p.id) < (SELECT created_at, id FROM cursor_row)
	  )
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $1`

func (db *DB) listPosts(ctx context.Context, userID string, limit int, startAfter string) (*models.PostPage, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.pool.Query(ctx, listPostsQuery, limit, startAfter, userID)
	if err != nil {
		return nil, observe("list", "posts", start, err)
	}
	posts, err := pgx.CollectRows(rows, scanPost)
	if err = observe("list", "posts", start, err); err != nil {
		return nil, err
	}

	page := &models.PostPage{Posts: posts}
	if page.Posts == nil {
		page.Posts = []models.Post{}
	}
	if len(posts) == limit && limit > 0 {
		page.NextCursor = posts[len(posts)-1].ID
	}
	return page, nil
}

func scanPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.UserID, &p.PlantName, &p.CommonNames, &p.Family,
		&p.Location, &p.RecipeLink, &p.YoutubeLink, &p.Efficacy, &p.Precautions,
		&p.LikesCount, &p.CommentsCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if p.CommonNames == nil {
		p.CommonNames = []string{}
	}
	return p, err
}
