// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

//go:build integration

package claimstore

import (
	"context"
	"testing"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/testinfra"
)

func TestRedisAgainstRealServer(t *testing.T) {
	rc := testinfra.StartRedis(t)
	ctx := context.Background()

	rdb, err := Connect(ctx, rc.URL)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer rdb.Close()
	store := NewRedis(rdb)

	key := "refresh:42:2026-10-19"
	for i, want := range []bool{true, false} {
		got, err := store.TryClaim(ctx, key, time.Hour)
		if err != nil || got != want {
			t.Fatalf("TryClaim #%d = %v, %v; want %v", i+1, got, err, want)
		}
	}
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, %v", ttl, err)
	}

	const stream = "tvdb:refresh:trace"
	for _, status := range []string{"refreshed", "failed"} {
		if err := store.AppendEvent(ctx, stream, map[string]string{"series_id": "42", "status": status}); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
	}
	events, err := store.RecentEvents(ctx, stream, 10)
	if err != nil {
		t.Fatalf("RecentEvents() error = %v", err)
	}
	if len(events) != 2 || events[0].Fields["status"] != "failed" {
		t.Errorf("events = %+v", events)
	}
}
