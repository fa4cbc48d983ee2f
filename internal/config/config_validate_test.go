// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.DSN = "postgres://localhost/herbfinder"
	cfg.Identity.ProjectID = "herbfinder-dev"
	cfg.Identity.APIKey = "key"
	cfg.Storage.Bucket = "bucket"
	cfg.Storage.AccessKey = "access"
	cfg.Storage.SecretKey = "secret"
	cfg.Recognition.APIKey = "plantnet"
	cfg.Translation.APIKey = "translate"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "DATABASE_URL"},
		{"missing project", func(c *Config) { c.Identity.ProjectID = "" }, "FIREBASE_PROJECT_ID"},
		{"missing api key", func(c *Config) { c.Identity.APIKey = "" }, "FIREBASE_API_KEY"},
		{"bad auth mode", func(c *Config) { c.Identity.AuthMode = "basic" }, "IDENTITY_AUTH_MODE"},
		{"oidc mode with derived issuer", func(c *Config) { c.Identity.AuthMode = "oidc" }, ""},
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }, "STORAGE_BUCKET"},
		{"endpoint with scheme", func(c *Config) { c.Storage.Endpoint = "https://storage.googleapis.com" }, "STORAGE_ENDPOINT"},
		{"missing storage keys", func(c *Config) { c.Storage.SecretKey = "" }, "STORAGE_SECRET_KEY"},
		{"missing plantnet key", func(c *Config) { c.Recognition.APIKey = "" }, "PLANTNET_API_KEY"},
		{"zero recognition timeout", func(c *Config) { c.Recognition.Timeout = 0 }, "PLANTNET_TIMEOUT"},
		{"missing translate key", func(c *Config) { c.Translation.APIKey = "" }, "GOOGLE_TRANSLATE_API_KEY"},
		{"translation disabled", func(c *Config) {
			c.Translation.Enabled = false
			c.Translation.APIKey = ""
		}, ""},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }, "CACHE_TTL"},
		{"page sizes inverted", func(c *Config) { c.Feed.MaxPageSize = 5 }, "FEED_MAX_PAGE_SIZE"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "prod" }, "ENVIRONMENT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("development should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("production with wildcard origin should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://herbfinder.app"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

func TestKnowledgeEndpoint(t *testing.T) {
	t.Parallel()

	c := KnowledgeConfig{Language: "ko"}
	if got := c.Endpoint(); got != "https://ko.wikipedia.org/api/rest_v1" {
		t.Errorf("Endpoint() = %q", got)
	}
	c.BaseURL = "http://localhost:9000"
	if got := c.Endpoint(); got != "http://localhost:9000" {
		t.Errorf("Endpoint() = %q, want override", got)
	}
}
