// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
// Startup aborts on the first error.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateIdentity,
		c.validateStorage,
		c.validateRecognition,
		c.validateTranslation,
		c.validateKnowledge,
		c.validateCache,
		c.validateFeed,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	for name, d := range map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.Server.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.Server.WriteTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.Server.ShutdownTimeout,
	} {
		if err := requirePositive(name, d); err != nil {
			return err
		}
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateDatabase() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS, got %d", c.Database.MinConns)
	}
	return requirePositive("DATABASE_QUERY_TIMEOUT", c.Database.QueryTimeout)
}

func (c *Config) validateIdentity() error {
	if c.Identity.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if c.Identity.APIKey == "" {
		return fmt.Errorf("FIREBASE_API_KEY is required")
	}
	if err := validateHTTPURL(c.Identity.AccountsURL, "IDENTITY_ACCOUNTS_URL"); err != nil {
		return err
	}
	switch c.Identity.AuthMode {
	case "jwks":
		if err := validateHTTPURL(c.Identity.JWKSURL, "IDENTITY_JWKS_URL"); err != nil {
			return err
		}
	case "oidc":
		if err := validateHTTPURL(c.Identity.Issuer(), "IDENTITY_ISSUER_URL"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("IDENTITY_AUTH_MODE must be jwks or oidc, got %q", c.Identity.AuthMode)
	}
	return requirePositive("IDENTITY_TIMEOUT", c.Identity.Timeout)
}

func (c *Config) validateStorage() error {
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if strings.Contains(c.Storage.Endpoint, "://") {
		return fmt.Errorf("STORAGE_ENDPOINT must be host[:port] without a scheme, got %q", c.Storage.Endpoint)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if c.Storage.SignedURLExpiry < time.Second || c.Storage.SignedURLExpiry > 7*24*time.Hour {
		return fmt.Errorf("STORAGE_SIGNED_URL_EXPIRY must be between 1s and 7d, got %v", c.Storage.SignedURLExpiry)
	}
	return requirePositive("STORAGE_TIMEOUT", c.Storage.Timeout)
}

func (c *Config) validateRecognition() error {
	if c.Recognition.APIKey == "" {
		return fmt.Errorf("PLANTNET_API_KEY is required")
	}
	if err := validateHTTPURL(c.Recognition.BaseURL, "PLANTNET_BASE_URL"); err != nil {
		return err
	}
	if c.Recognition.RatePerSecond < 0 {
		return fmt.Errorf("PLANTNET_RATE must not be negative, got %v", c.Recognition.RatePerSecond)
	}
	if c.Recognition.RatePerSecond > 0 && c.Recognition.Burst < 1 {
		return fmt.Errorf("PLANTNET_RATE_BURST must be at least 1 when PLANTNET_RATE is set")
	}
	return requirePositive("PLANTNET_TIMEOUT", c.Recognition.Timeout)
}

func (c *Config) validateTranslation() error {
	if !c.Translation.Enabled {
		return nil
	}
	if c.Translation.APIKey == "" {
		return fmt.Errorf("GOOGLE_TRANSLATE_API_KEY is required when TRANSLATE_ENABLED=true")
	}
	if c.Translation.TargetLanguage == "" {
		return fmt.Errorf("TRANSLATE_TARGET_LANGUAGE is required when TRANSLATE_ENABLED=true")
	}
	return requirePositive("TRANSLATE_TIMEOUT", c.Translation.Timeout)
}

func (c *Config) validateKnowledge() error {
	if !c.Knowledge.Enabled {
		return nil
	}
	if c.Knowledge.BaseURL == "" && c.Knowledge.Language == "" {
		return fmt.Errorf("KNOWLEDGE_LANGUAGE or KNOWLEDGE_BASE_URL is required when KNOWLEDGE_ENABLED=true")
	}
	return requirePositive("KNOWLEDGE_TIMEOUT", c.Knowledge.Timeout)
}

func (c *Config) validateCache() error {
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %v", c.Cache.TTL)
	}
	switch c.Cache.Backend {
	case "postgres":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	case "badger":
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be postgres, redis or badger, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL > 0 {
		return requirePositive("CACHE_PURGE_INTERVAL", c.Cache.PurgeInterval)
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.DefaultPageSize < 1 {
		return fmt.Errorf("FEED_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.Feed.DefaultPageSize)
	}
	if c.Feed.MaxPageSize < c.Feed.DefaultPageSize {
		return fmt.Errorf("FEED_MAX_PAGE_SIZE (%d) must be >= FEED_DEFAULT_PAGE_SIZE (%d)",
			c.Feed.MaxPageSize, c.Feed.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.AuthRateLimitReqs < 1 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be at least 1, got %d", c.Security.AuthRateLimitReqs)
	}
	return requirePositive("RATE_LIMIT_WINDOW", c.Security.RateLimitWindow)
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// ShouldWarnAboutCORS reports a wildcard origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func requirePositive(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, d)
	}
	return nil
}
