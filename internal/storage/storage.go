// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/metrics"
)

var (
	// ErrImageNotFound is returned when the referenced object does not exist.
	ErrImageNotFound = errors.New("image not found")

	// ErrUnavailable is returned when the object store cannot be reached in time.
	ErrUnavailable = errors.New("object store unavailable")
)

// ObjectInfo describes a stored image.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store reads images from an S3-compatible bucket (GCS interop, S3, MinIO).
type Store struct {
	client  *minio.Client
	bucket  string
	expiry  time.Duration
	timeout time.Duration
}

// New creates a store for cfg.Bucket. No network call is made; credentials
// are checked on first use.
func New(cfg config.StorageConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	expiry := cfg.SignedURLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	logging.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Dur("signed_url_expiry", expiry).
		Msg("Object store configured")

	return &Store{client: client, bucket: cfg.Bucket, expiry: expiry, timeout: timeout}, nil
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string { return s.bucket }

// Stat returns metadata for key, or ErrImageNotFound.
func (s *Store) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	err = mapError(err)
	metrics.RecordUpstreamCall("storage", "stat", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// SignedURL returns a read-only URL for key valid for the configured expiry.
// Signing is local and does not contact the store.
func (s *Store) SignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// ResolvedImage is an image reference that exists in the bucket.
type ResolvedImage struct {
	Key       string
	SignedURL string
}

// Resolve maps ref to an object key, verifies the object exists and signs
// a read URL for it.
func (s *Store) Resolve(ctx context.Context, ref string) (*ResolvedImage, error) {
	key, err := ResolveObjectKey(ref, s.bucket)
	if err != nil {
		return nil, err
	}
	if _, err := s.Stat(ctx, key); err != nil {
		return nil, err
	}
	signed, err := s.SignedURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &ResolvedImage{Key: key, SignedURL: signed}, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return ErrImageNotFound
	case errors.Is(err, context.DeadlineExceeded), resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == 0:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return fmt.Errorf("object store: %w", err)
	}
}
