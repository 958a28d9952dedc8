// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache stores translated Python keyed by source content.
//
// Entries live in BadgerDB, either on disk or in memory. A key is the
// SHA-256 of the JavaScript source combined with a fingerprint of the
// translator options, so changing the indent unit or wrapper names never
// returns stale output.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces entries so the format can change without clashing.
const keyPrefix = "js2py/v1/"

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("cache is closed")

// Key identifies a cached translation.
type Key [sha256.Size]byte

// NewKey derives the cache key for source translated under fingerprint.
func NewKey(source []byte, fingerprint string) Key {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(source)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

func (k Key) dbKey() []byte {
	return []byte(keyPrefix + k.String())
}

// Entry is a cached translation.
type Entry struct {
	Output    string    `json:"output"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats reports cache activity since Open.
type Stats struct {
	Hits   int64
	Misses int64
	Writes int64
}

// Store is a BadgerDB-backed translation cache.
//
// Thread Safety:
//
//	Store is safe for concurrent use. Close waits for in-flight GC to stop.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	gc     *gcRunner
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
}

// Open opens a Store with the given configuration.
//
// Description:
//
//	Opens BadgerDB and starts value log GC when cfg.GCInterval is set.
//	The caller must call Close.
//
// Outputs:
//
//	*Store - Ready for use.
//	error  - Non-nil if the database could not be opened.
func Open(cfg Config) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{db: db, ttl: cfg.TTL, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.gc = newGCRunner(db, cfg.GCInterval, cfg.GCDiscardRatio, cfg.Logger)
		s.gc.start()
	}
	logger.Debug("translation cache opened",
		slog.Bool("in_memory", cfg.InMemory),
		slog.String("path", cfg.Path),
		slog.Duration("ttl", cfg.TTL),
	)
	return s, nil
}

// OpenInMemory opens a Store with no disk persistence.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Get returns the cached entry for key.
//
// Outputs:
//
//	Entry - The cached translation when found is true.
//	bool  - Whether the key was present and unexpired.
//	error - ErrClosed, a context error, or a BadgerDB/decoding error.
func (s *Store) Get(ctx context.Context, key Key) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Entry{}, false, ErrClosed
	}

	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.dbKey())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		s.misses.Add(1)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	s.hits.Add(1)
	return entry, true, nil
}

// Put stores entry under key, replacing any earlier value.
func (s *Store) Put(ctx context.Context, key Key, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key.dbKey(), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	s.writes.Add(1)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key.dbKey())
	}); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

// Len counts live entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// Stats returns the activity counters.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Writes: s.writes.Load(),
	}
}

// Close stops GC and closes the database. Later calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.gc != nil {
		s.gc.stop()
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}
