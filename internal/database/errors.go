// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/herbfinder/internal/metrics"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a primary key is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnavailable is returned when the store could not answer in time.
	ErrUnavailable = errors.New("database unavailable")
)

// Postgres SQLSTATE codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// classify maps driver errors onto package sentinels and returns a metrics label.
func classify(err error) (error, string) {
	if err == nil {
		return nil, ""
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return ErrNotFound, "not_found"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName), "conflict"
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName), "not_found"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err), "timeout"
	}
	return err, "other"
}

// observe records the query metric and returns the classified error.
func observe(operation, table string, start time.Time, err error) error {
	mapped, label := classify(err)
	metrics.RecordDBQuery(operation, table, time.Since(start), label)
	if mapped != nil && label == "other" {
		return fmt.Errorf("%s %s: %w", operation, table, mapped)
	}
	return mapped
}
