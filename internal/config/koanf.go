// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/herbfinder/config.yaml",
	"/etc/herbfinder/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file path.
const DotEnvPathEnvVar = "DOTENV_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			QueryTimeout:    5 * time.Second,
			AutoMigrate:     true,
		},
		Identity: IdentityConfig{
			AccountsURL:  "https://identitytoolkit.googleapis.com/v1",
			JWKSURL:      "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com",
			AuthMode:     "jwks",
			JWKSCacheTTL: time.Hour,
			Timeout:      5 * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:        "storage.googleapis.com",
			Region:          "auto",
			UseSSL:          true,
			SignedURLExpiry: time.Hour,
			Timeout:         5 * time.Second,
		},
		Recognition: RecognitionConfig{
			BaseURL:       "https://my-api.plantnet.org",
			Project:       "all",
			Timeout:       30 * time.Second,
			RatePerSecond: 2,
			Burst:         4,
		},
		Translation: TranslationConfig{
			Enabled:        true,
			BaseURL:        "https://translation.googleapis.com",
			TargetLanguage: "ko",
			Timeout:        5 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Enabled:  true,
			BaseURL:  "",
			Language: "ko",
			Timeout:  5 * time.Second,
		},
		Cache: CacheConfig{
			Backend:       "postgres",
			TTL:           0,
			PurgeInterval: time.Hour,
			RedisAddr:     "localhost:6379",
			BadgerPath:    "/data/identcache",
		},
		Feed: FeedConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			CORSOrigins:         []string{"*"},
			TrustedProxies:      []string{},
			RateLimitReqs:       100,
			RateLimitWindow:     time.Minute,
			AuthRateLimitReqs:   10,
			AnalyzeRequiresAuth: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config File: optional YAML file
//  3. Environment Variables, after an optional .env file is merged into the process env
//
// Precedence is ENV > File > Defaults. The result is validated before return.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DATABASE_URL -> database.dsn, PLANTNET_API_KEY -> recognition.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv merges a .env file into the process environment. Variables
// already set are not overwritten. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so that unrelated env does not leak into config.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"database_url":               "database.dsn",
	"database_max_conns":         "database.max_conns",
	"database_min_conns":         "database.min_conns",
	"database_max_conn_lifetime": "database.max_conn_lifetime",
	"database_query_timeout":     "database.query_timeout",
	"database_auto_migrate":      "database.auto_migrate",

	// Identity provider
	"firebase_project_id":     "identity.project_id",
	"firebase_api_key":        "identity.api_key",
	"identity_accounts_url":   "identity.accounts_url",
	"identity_issuer_url":     "identity.issuer_url",
	"identity_jwks_url":       "identity.jwks_url",
	"identity_auth_mode":      "identity.auth_mode",
	"identity_jwks_cache_ttl": "identity.jwks_cache_ttl",
	"identity_timeout":        "identity.timeout",

	// Object storage
	"storage_endpoint":          "storage.endpoint",
	"storage_bucket":            "storage.bucket",
	"storage_access_key":        "storage.access_key",
	"storage_secret_key":        "storage.secret_key",
	"storage_region":            "storage.region",
	"storage_use_ssl":           "storage.use_ssl",
	"storage_signed_url_expiry": "storage.signed_url_expiry",
	"storage_timeout":           "storage.timeout",

	// Recognition
	"plantnet_base_url":   "recognition.base_url",
	"plantnet_api_key":    "recognition.api_key",
	"plantnet_project":    "recognition.project",
	"plantnet_timeout":    "recognition.timeout",
	"plantnet_rate":       "recognition.rate_per_second",
	"plantnet_rate_burst": "recognition.burst",

	// Translation
	"translate_enabled":         "translation.enabled",
	"translate_base_url":        "translation.base_url",
	"google_translate_api_key":  "translation.api_key",
	"translate_target_language": "translation.target_language",
	"translate_timeout":         "translation.timeout",

	// Knowledge
	"knowledge_enabled":  "knowledge.enabled",
	"knowledge_base_url": "knowledge.base_url",
	"knowledge_language": "knowledge.language",
	"knowledge_timeout":  "knowledge.timeout",

	// Identification cache
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.ttl",
	"cache_purge_interval": "cache.purge_interval",
	"redis_addr":           "cache.redis_addr",
	"redis_password":       "cache.redis_password",
	"redis_db":             "cache.redis_db",
	"badger_path":          "cache.badger_path",

	// Feed
	"feed_default_page_size": "feed.default_page_size",
	"feed_max_page_size":     "feed.max_page_size",

	// Security
	"cors_origins":          "security.cors_origins",
	"trusted_proxies":       "security.trusted_proxies",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"auth_rate_limit":       "security.auth_rate_limit_reqs",
	"analyze_requires_auth": "security.analyze_requires_auth",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
// Examples:
//   - DATABASE_URL -> database.dsn
//   - FIREBASE_API_KEY -> identity.api_key
//   - PLANTNET_API_KEY -> recognition.api_key
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
