// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package claimstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
)

// maxConflictRetries bounds how often a claim transaction is replayed
// after badger.ErrConflict.
const maxConflictRetries = 5

// Badger is a single-node claim store on BadgerDB. Claims use entry TTLs;
// events live under stream:<name>:<uuid v7> so key order is append order.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a store at path. An empty path keeps
// everything in memory.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("badger claim store opened")
	return &Badger{db: db}, nil
}

// NewBadger wraps an already open database. Close closes it.
func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

// TryClaim creates key with ttl unless a live entry exists. A transaction
// conflict is replayed; the replay then sees the winner's key.
func (b *Badger) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var claimed bool
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			break
		}
		err = b.db.Update(func(txn *badger.Txn) error {
			claimed = false
			_, getErr := txn.Get([]byte(key))
			if getErr == nil {
				return nil
			}
			if !errors.Is(getErr, badger.ErrKeyNotFound) {
				return getErr
			}
			claimed = true
			return txn.SetEntry(badger.NewEntry([]byte(key), []byte("1")).WithTTL(ttl))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}

	metrics.RecordClaimStoreOp(BackendBadger, "claim", err)
	if err != nil {
		return false, fmt.Errorf("badger claim %s: %w", key, err)
	}
	return claimed, nil
}

// AppendEvent stores fields as a JSON event under a time-ordered key.
func (b *Badger) AppendEvent(ctx context.Context, stream string, fields map[string]string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	data, err := json.Marshal(Event{ID: id.String(), Fields: fields})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(stream, id.String()), data)
	})
	metrics.RecordClaimStoreOp(BackendBadger, "append", err)
	if err != nil {
		return fmt.Errorf("badger append %s: %w", stream, err)
	}
	return nil
}

// RecentEvents walks the stream prefix backwards.
func (b *Badger) RecentEvents(ctx context.Context, stream string, n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}
	prefix := streamPrefix(stream)
	var events []Event

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(events) < n; it.Next() {
			var ev Event
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	metrics.RecordClaimStoreOp(BackendBadger, "read", err)
	if err != nil {
		return nil, fmt.Errorf("badger read %s: %w", stream, err)
	}
	return events, nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func streamPrefix(stream string) []byte {
	return []byte("stream:" + stream + ":")
}

func eventKey(stream, id string) []byte {
	return append(streamPrefix(stream), id...)
}
