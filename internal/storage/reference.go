// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidReference is returned when an image reference cannot be
// resolved to an object in the configured bucket.
var ErrInvalidReference = errors.New("invalid image reference")

// storageHosts serve objects as https://<host>/<bucket>/<key>.
var storageHosts = map[string]bool{
	"storage.googleapis.com":   true,
	"storage.cloud.google.com": true,
}

// ResolveObjectKey maps an image reference to an object key in bucket.
//
// Accepted forms:
//
//	gs://<bucket>/<key>
//	https://firebasestorage.googleapis.com/v0/b/<bucket>/o/<escaped key>?alt=media&token=...
//	https://storage.googleapis.com/<bucket>/<key>
//	<key>
//
// References naming a different bucket are rejected.
func ResolveObjectKey(ref, bucket string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidReference)
	}

	if !strings.Contains(ref, "://") {
		return cleanKey(ref)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	switch {
	case u.Scheme == "gs":
		if u.Host != bucket {
			return "", fmt.Errorf("%w: bucket %q is not %q", ErrInvalidReference, u.Host, bucket)
		}
		return cleanKey(strings.TrimPrefix(u.Path, "/"))

	case u.Scheme == "https" || u.Scheme == "http":
		// Firebase download URLs carry the key escaped after /o/.
		if idx := strings.Index(u.EscapedPath(), "/o/"); idx >= 0 && strings.Contains(u.EscapedPath(), "/b/") {
			b := between(u.EscapedPath(), "/b/", "/o/")
			if b != bucket {
				return "", fmt.Errorf("%w: bucket %q is not %q", ErrInvalidReference, b, bucket)
			}
			key, err := url.PathUnescape(u.EscapedPath()[idx+len("/o/"):])
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrInvalidReference, err)
			}
			return cleanKey(key)
		}
		if storageHosts[u.Host] {
			b, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
			if !ok || b != bucket {
				return "", fmt.Errorf("%w: bucket %q is not %q", ErrInvalidReference, b, bucket)
			}
			return cleanKey(key)
		}
		// Virtual-hosted style: https://<bucket>.storage.googleapis.com/<key>
		if strings.HasSuffix(u.Host, ".storage.googleapis.com") &&
			strings.TrimSuffix(u.Host, ".storage.googleapis.com") == bucket {
			return cleanKey(strings.TrimPrefix(u.Path, "/"))
		}
		return "", fmt.Errorf("%w: unsupported host %q", ErrInvalidReference, u.Host)

	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidReference, u.Scheme)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", ErrInvalidReference)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: path traversal", ErrInvalidReference)
		}
	}
	return key, nil
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return ""
	}
	return rest[:j]
}
