// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

//go:build integration

package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/testinfra"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	dsn := testinfra.NewPostgres(t)
	db, err := database.New(ctx, &config.DatabaseConfig{
		DSN:          dsn,
		MaxConns:     8,
		QueryTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applied, err := db.Migrate(ctx)
	require.NoError(t, err)
	require.Positive(t, applied)

	// Second run is a no-op.
	applied, err = db.Migrate(ctx)
	require.NoError(t, err)
	require.Zero(t, applied)

	return db
}

func createUser(t *testing.T, db *database.DB, id string) {
	t.Helper()
	require.NoError(t, db.CreateUser(context.Background(), &models.User{
		ID:       id,
		Email:    id + "@example.com",
		Nickname: id,
	}))
}

func createPost(t *testing.T, db *database.DB, userID, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		ImageURL:  "gs://herbs/" + title + ".jpg",
		UserID:    userID,
		PlantName: "Mentha spicata",
	}
	require.NoError(t, db.CreatePost(context.Background(), p))
	return p
}

func TestDatabase_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	db := setupDB(t)
	ctx := context.Background()

	version, err := db.GetCurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	createUser(t, db, "alice")
	createUser(t, db, "bob")

	t.Run("duplicate user", func(t *testing.T) {
		err := db.CreateUser(ctx, &models.User{ID: "alice", Email: "a@example.com", Nickname: "a"})
		require.ErrorIs(t, err, database.ErrAlreadyExists)
	})

	t.Run("post for unknown user", func(t *testing.T) {
		err := db.CreatePost(ctx, &models.Post{Title: "x", ImageURL: "x", UserID: "nobody", PlantName: "x"})
		require.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("create and get post", func(t *testing.T) {
		p := createPost(t, db, "alice", "mint")
		require.NotEmpty(t, p.ID)
		require.False(t, p.CreatedAt.IsZero())

		got, err := db.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "mint", got.Title)
		assert.Equal(t, int64(0), got.LikesCount)
		assert.Equal(t, int64(0), got.CommentsCount)
		assert.Equal(t, []string{}, got.CommonNames)

		_, err = db.GetPost(ctx, "missing")
		require.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("likes are idempotent per user", func(t *testing.T) {
		p := createPost(t, db, "alice", "basil")

		created, err := db.LikePost(ctx, p.ID, "bob")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = db.LikePost(ctx, p.ID, "bob")
		require.NoError(t, err)
		assert.False(t, created)

		liked, err := db.HasLiked(ctx, p.ID, "bob")
		require.NoError(t, err)
		assert.True(t, liked)

		got, err := db.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.LikesCount)

		_, err = db.LikePost(ctx, "missing", "bob")
		require.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("concurrent likes count once each", func(t *testing.T) {
		p := createPost(t, db, "alice", "thyme")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := db.LikePost(ctx, p.ID, fmt.Sprintf("user-%d", i%5))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := db.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.LikesCount)
	})

	t.Run("comments", func(t *testing.T) {
		p := createPost(t, db, "alice", "sage")

		for _, text := range []string{"first", "second"} {
			c := &models.Comment{PostID: p.ID, UserID: "bob", Content: text}
			require.NoError(t, db.CreateComment(ctx, c))
			require.NotEmpty(t, c.ID)
		}

		comments, err := db.ListComments(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)

		got, err := db.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.CommentsCount)

		err = db.CreateComment(ctx, &models.Comment{PostID: "missing", UserID: "bob", Content: "x"})
		require.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("identification ttl", func(t *testing.T) {
		forever := &models.Identification{
			Key:      "k-forever",
			ImageURL: "gs://herbs/a.jpg",
			Species:  models.Species{ScientificName: "Salvia officinalis", CommonNames: []string{"sage"}},
		}
		require.NoError(t, db.PutIdentification(ctx, forever, 0))

		short := &models.Identification{
			Key:      "k-short",
			ImageURL: "gs://herbs/b.jpg",
			Species:  models.Species{ScientificName: "Ocimum basilicum"},
		}
		require.NoError(t, db.PutIdentification(ctx, short, 50*time.Millisecond))

		got, err := db.GetIdentification(ctx, "k-forever")
		require.NoError(t, err)
		assert.Equal(t, "Salvia officinalis", got.Species.ScientificName)
		assert.Equal(t, []string{"sage"}, got.Species.CommonNames)

		time.Sleep(200 * time.Millisecond)

		_, err = db.GetIdentification(ctx, "k-short")
		require.ErrorIs(t, err, database.ErrNotFound)

		purged, err := db.PurgeExpiredIdentifications(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		removed, err := db.DeleteAllIdentifications(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("knowledge upsert", func(t *testing.T) {
		k := &models.PlantKnowledge{ScientificName: "Mentha spicata", Description: "v1"}
		require.NoError(t, db.PutKnowledge(ctx, k))
		k.Description = "v2"
		require.NoError(t, db.PutKnowledge(ctx, k))

		got, err := db.GetKnowledge(ctx, "Mentha spicata")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Description)

		_, err = db.GetKnowledge(ctx, "Unknown")
		require.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestListPosts_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	db := setupDB(t)
	ctx := context.Background()

	createUser(t, db, "carol")
	createUser(t, db, "dave")
	for i := 0; i < 7; i++ {
		createPost(t, db, "carol", fmt.Sprintf("c%d", i))
	}
	for i := 0; i < 3; i++ {
		createPost(t, db, "dave", fmt.Sprintf("d%d", i))
	}

	t.Run("pages do not overlap", func(t *testing.T) {
		seen := map[string]bool{}
		cursor := ""
		var last time.Time
		pages := 0
		for {
			page, err := db.ListPosts(ctx, 4, cursor)
			require.NoError(t, err)
			pages++
			for _, p := range page.Posts {
				require.False(t, seen[p.ID], "post %s returned twice", p.ID)
				seen[p.ID] = true
				if !last.IsZero() {
					require.False(t, p.CreatedAt.After(last), "posts out of order")
				}
				last = p.CreatedAt
			}
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}
		assert.Len(t, seen, 10)
		assert.Equal(t, 3, pages)
	})

	t.Run("unknown cursor starts from the top", func(t *testing.T) {
		first, err := db.ListPosts(ctx, 3, "")
		require.NoError(t, err)
		fallback, err := db.ListPosts(ctx, 3, "no-such-post")
		require.NoError(t, err)
		require.Len(t, fallback.Posts, 3)
		assert.Equal(t, first.Posts[0].ID, fallback.Posts[0].ID)
	})

	t.Run("user feed", func(t *testing.T) {
		page, err := db.ListUserPosts(ctx, "dave", 10, "")
		require.NoError(t, err)
		require.Len(t, page.Posts, 3)
		assert.Empty(t, page.NextCursor)
		for _, p := range page.Posts {
			assert.Equal(t, "dave", p.UserID)
		}
	})
}
