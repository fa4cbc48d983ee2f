// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package database is the Postgres document store behind Herbfinder.

It owns users, posts, likes, comments, the plant knowledge table and the
Postgres-backed identification cache. Access goes through a pgxpool.Pool.

# Consistency

Every timestamp is assigned by the server. Counters change only inside
transactions that also write the row that justifies them:

  - LikePost inserts the (post, user) pair with ON CONFLICT DO NOTHING and
    increments likes_count only when a row was inserted.
  - CreateComment increments comments_count first; zero affected rows means
    the post is missing and the transaction is rolled back.

# Pagination

ListPosts orders by (created_at DESC, id DESC). The cursor is a post id that
is resolved in the same statement as the page scan. An unknown cursor
falls back to the first page.

# Errors

Driver errors are mapped to ErrNotFound, ErrAlreadyExists and ErrUnavailable
so that callers can use errors.Is without importing pgx.

# Migrations

SQL files under migrations/ are embedded and applied in version order by
Migrate while holding a Postgres advisory lock.
*/
package database
