// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultPostgresImage is the image used by NewPostgres.
const DefaultPostgresImage = "postgres:16-alpine"

// NewPostgres starts a throwaway Postgres and returns its connection string.
// The container is terminated when the test ends. The test is skipped when
// Docker is unavailable.
//
//	dsn := testinfra.NewPostgres(t)
//	db, err := database.New(ctx, &config.DatabaseConfig{DSN: dsn, MaxConns: 4})
func NewPostgres(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		DefaultPostgresImage,
		postgres.WithDatabase("herbfinder"),
		postgres.WithUsername("herb"),
		postgres.WithPassword("herb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	return dsn
}
