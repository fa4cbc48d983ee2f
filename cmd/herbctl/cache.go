// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/identcache"
)

func newCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the identification cache",
	}
	cmd.AddCommand(newCachePurgeCmd(flags))
	return cmd
}

func newCachePurgeCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired identification cache entries",
		Long: `Remove expired entries from the configured cache backend.
With --all every entry is removed and the next request for each image
runs recognition again.

Examples:
  herbctl cache purge
  herbctl cache purge --all
  CACHE_BACKEND=redis herbctl cache purge --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			var db *database.DB
			if cfg.Cache.Backend == identcache.BackendPostgres || cfg.Cache.Backend == "" {
				if db, err = openDatabase(ctx, cfg); err != nil {
					return err
				}
				defer db.Close()
			}

			cache, err := identcache.New(ctx, cfg.Cache, db)
			if err != nil {
				return err
			}
			defer cache.Close()

			var n int64
			if all {
				n, err = cache.Clear(ctx)
			} else {
				n, err = cache.Purge(ctx)
			}
			if err != nil {
				return fmt.Errorf("purge %s cache: %w", cache.Backend(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s cache\n", n, cache.Backend())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every entry, not only expired ones")
	return cmd
}
