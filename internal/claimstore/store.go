// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package claimstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

// Backend names accepted by Open.
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Event is one trace stream entry.
type Event struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Store is a refresh.ClaimStore that can also read its trace stream back.
type Store interface {
	refresh.ClaimStore

	// RecentEvents returns up to n events of stream, newest first.
	RecentEvents(ctx context.Context, stream string, n int) ([]Event, error)

	// Close releases resources owned by the store.
	Close() error
}

// Open builds the backend named in cfg. rdb is only used by the redis
// backend and stays owned by the caller.
func Open(cfg config.ClaimStoreConfig, rdb *redis.Client) (Store, error) {
	switch cfg.Backend {
	case BackendRedis, "":
		if rdb == nil {
			return nil, fmt.Errorf("claimstore: redis backend needs a client")
		}
		return NewRedis(rdb), nil
	case BackendBadger:
		return OpenBadger(cfg.BadgerPath)
	case BackendMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("claimstore: unknown backend %q", cfg.Backend)
	}
}

// sortedFieldNames gives trace fields a stable order on the wire.
func sortedFieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
