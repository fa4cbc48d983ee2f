// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every optional setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting (a .env file is read first when present)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Identity    IdentityConfig    `koanf:"identity"`
	Storage     StorageConfig     `koanf:"storage"`
	Recognition RecognitionConfig `koanf:"recognition"`
	Translation TranslationConfig `koanf:"translation"`
	Knowledge   KnowledgeConfig   `koanf:"knowledge"`
	Cache       CacheConfig       `koanf:"cache"`
	Feed        FeedConfig        `koanf:"feed"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the Postgres document store settings.
//
// Environment Variables:
//   - DATABASE_URL: libpq connection string or URL (required)
//   - DATABASE_MAX_CONNS / DATABASE_MIN_CONNS: pool bounds
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	QueryTimeout    time.Duration `koanf:"query_timeout"`
	// AutoMigrate applies embedded migrations at startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// IdentityConfig holds identity provider settings.
//
// AuthMode selects how bearer tokens are verified:
//   - jwks: golang-jwt against the provider's published JWKS
//   - oidc: zitadel/oidc ID token verifier
type IdentityConfig struct {
	ProjectID string `koanf:"project_id"`
	APIKey    string `koanf:"api_key"`
	// AccountsURL is the Identity Toolkit base, e.g. https://identitytoolkit.googleapis.com/v1
	AccountsURL  string        `koanf:"accounts_url"`
	IssuerURL    string        `koanf:"issuer_url"`
	JWKSURL      string        `koanf:"jwks_url"`
	AuthMode     string        `koanf:"auth_mode"`
	JWKSCacheTTL time.Duration `koanf:"jwks_cache_ttl"`
	Timeout      time.Duration `koanf:"timeout"`
}

// Issuer returns the configured issuer, or the securetoken issuer for the project.
func (c IdentityConfig) Issuer() string {
	if c.IssuerURL != "" {
		return c.IssuerURL
	}
	return "https://securetoken.google.com/" + c.ProjectID
}

// StorageConfig holds object store settings. Any S3-compatible endpoint works,
// including GCS interoperability mode and MinIO.
type StorageConfig struct {
	Endpoint        string        `koanf:"endpoint"`
	Bucket          string        `koanf:"bucket"`
	AccessKey       string        `koanf:"access_key"`
	SecretKey       string        `koanf:"secret_key"`
	Region          string        `koanf:"region"`
	UseSSL          bool          `koanf:"use_ssl"`
	SignedURLExpiry time.Duration `koanf:"signed_url_expiry"`
	Timeout         time.Duration `koanf:"timeout"`
}

// RecognitionConfig holds PlantNet settings
type RecognitionConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Project string        `koanf:"project"`
	Timeout time.Duration `koanf:"timeout"`
	// RatePerSecond and Burst bound outbound calls. 0 disables limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

// TranslationConfig holds Google Translate settings
type TranslationConfig struct {
	Enabled        bool          `koanf:"enabled"`
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	TargetLanguage string        `koanf:"target_language"`
	Timeout        time.Duration `koanf:"timeout"`
}

// KnowledgeConfig holds the secondary encyclopedia lookup settings
type KnowledgeConfig struct {
	Enabled bool `koanf:"enabled"`
	// BaseURL defaults to the Wikipedia REST API for Language.
	BaseURL  string        `koanf:"base_url"`
	Language string        `koanf:"language"`
	Timeout  time.Duration `koanf:"timeout"`
}

// Endpoint returns BaseURL, or the Wikipedia REST root for Language.
func (c KnowledgeConfig) Endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1", c.Language)
}

// CacheConfig holds identification cache settings.
//
// Backend is one of postgres, redis or badger. TTL 0 keeps entries forever.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	PurgeInterval time.Duration `koanf:"purge_interval"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	BadgerPath    string        `koanf:"badger_path"`
}

// FeedConfig holds pagination settings
type FeedConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// AuthRateLimitReqs applies to /create_user and /verify_token.
	AuthRateLimitReqs int `koanf:"auth_rate_limit_reqs"`
	// AnalyzeRequiresAuth guards /analyze_plant_image with the bearer guard.
	AnalyzeRequiresAuth bool `koanf:"analyze_requires_auth"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
