// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package identcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/herbfinder/internal/models"
)

const redisKeyPrefix = "ident:"

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL is applied with SET EX; 0 keeps entries forever.
	TTL time.Duration
}

// Redis stores entries as JSON strings and relies on key expiry for TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis at %s: %w", ErrUnavailable, opts.Addr, err)
	}
	return NewRedisFromClient(client, opts.TTL), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (*models.Identification, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrUnavailable, key, err)
	}

	var ident models.Identification
	if err := json.Unmarshal(data, &ident); err != nil {
		// A corrupt entry is treated as absent and overwritten by the next Put.
		return nil, ErrMiss
	}
	return &ident, nil
}

func (r *Redis) Put(ctx context.Context, ident *models.Identification) error {
	stamp(ident)
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal identification: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+ident.Key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrUnavailable, ident.Key, err)
	}
	return nil
}

// Purge is a no-op; redis expires keys itself.
func (r *Redis) Purge(context.Context) (int64, error) { return 0, nil }

func (r *Redis) Clear(ctx context.Context) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 500).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: scan: %w", ErrUnavailable, err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: del: %w", ErrUnavailable, err)
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (r *Redis) Backend() string { return BackendRedis }

func (r *Redis) Close() error { return r.client.Close() }
