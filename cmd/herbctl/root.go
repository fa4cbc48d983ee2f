// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	dsn     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "herbctl",
		Short: "Maintenance commands for the Herbfinder API",
		Long: `herbctl applies database migrations and manages the identification cache.

Configuration is loaded like the server: defaults, config.yaml, .env and
environment variables. --dsn overrides DATABASE_URL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := "warn"
			if flags.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console"})
		},
	}

	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newMigrateCmd(flags),
		newCacheCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads the shared configuration and applies flag overrides.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.dsn != "" {
		cfg.Database.DSN = f.dsn
	}
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
