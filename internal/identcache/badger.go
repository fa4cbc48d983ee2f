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

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/herbfinder/internal/models"
)

var badgerKeyPrefix = []byte("ident:")

// Badger is an embedded on-disk cache. Entries carry a badger TTL.
type Badger struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadger opens a store at path. An empty path opens an in-memory store.
func NewBadger(path string, ttl time.Duration) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger identification cache: %w", err)
	}
	return &Badger{db: db, ttl: ttl}, nil
}

func badgerKey(key string) []byte {
	return append(append([]byte{}, badgerKeyPrefix...), key...)
}

func (b *Badger) Get(_ context.Context, key string) (*models.Identification, error) {
	var ident models.Identification
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMiss
		}
		if err != nil {
			return fmt.Errorf("get identification: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ident)
		})
	})
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (b *Badger) Put(_ context.Context, ident *models.Identification) error {
	stamp(ident)
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal identification: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(ident.Key), data)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Purge reclaims value log space left by expired entries. Badger hides
// expired keys on read, so the returned count is always 0.
func (b *Badger) Purge(context.Context) (int64, error) {
	if b.db.Opts().InMemory {
		return 0, nil
	}
	err := b.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return 0, fmt.Errorf("value log gc: %w", err)
	}
	return 0, nil
}

func (b *Badger) Clear(context.Context) (int64, error) {
	var n int64
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = badgerKeyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := b.db.DropPrefix(badgerKeyPrefix); err != nil {
		return 0, fmt.Errorf("drop identifications: %w", err)
	}
	return n, nil
}

func (b *Badger) Backend() string { return BackendBadger }

func (b *Badger) Close() error { return b.db.Close() }
