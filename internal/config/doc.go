// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package config provides centralized configuration management for Herbfinder.

Configuration is layered with Koanf v2. Struct defaults load first, then an
optional YAML file (CONFIG_PATH, ./config.yaml or /etc/herbfinder/config.yaml),
then environment variables. A .env file (DOTENV_PATH or ./.env) is merged into
the process environment before the env layer runs; variables that are already
set win over the file.

# Required Settings

  - DATABASE_URL: Postgres connection string
  - FIREBASE_PROJECT_ID, FIREBASE_API_KEY: identity provider project
  - STORAGE_BUCKET, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY: object store (HMAC keys)
  - PLANTNET_API_KEY: recognition service
  - GOOGLE_TRANSLATE_API_KEY: unless TRANSLATE_ENABLED=false

# Identification Cache

  - CACHE_BACKEND: postgres (default), redis or badger
  - CACHE_TTL: entry lifetime, 0 keeps entries forever
  - CACHE_PURGE_INTERVAL: janitor interval when a TTL is set
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: redis backend
  - BADGER_PATH: badger backend directory

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}

Load validates the result and returns an error for missing or malformed
settings so that the process never starts half-configured. Config is
immutable after Load and safe for concurrent reads.
*/
package config
