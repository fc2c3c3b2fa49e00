// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package claimstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
)

// Memory keeps claims and events in process. Claims expire lazily.
type Memory struct {
	now func() time.Time

	mu      sync.Mutex
	claims  map[string]time.Time
	streams map[string][]Event
	seq     int64
}

// NewMemory returns an empty store. A nil clock means time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now:     now,
		claims:  make(map[string]time.Time),
		streams: make(map[string][]Event),
	}
}

// TryClaim implements refresh.ClaimStore.
func (m *Memory) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.claims[key]; ok && now.Before(exp) {
		metrics.RecordClaimStoreOp(BackendMemory, "claim", nil)
		return false, nil
	}
	m.claims[key] = now.Add(ttl)
	metrics.RecordClaimStoreOp(BackendMemory, "claim", nil)
	return true, nil
}

// AppendEvent implements refresh.ClaimStore.
func (m *Memory) AppendEvent(ctx context.Context, stream string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.streams[stream] = append(m.streams[stream], Event{
		ID:     strconv.FormatInt(m.now().UnixMilli(), 10) + "-" + strconv.FormatInt(m.seq, 10),
		Fields: copyFields(fields),
	})
	metrics.RecordClaimStoreOp(BackendMemory, "append", nil)
	return nil
}

// RecentEvents implements Store.
func (m *Memory) RecentEvents(ctx context.Context, stream string, n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.streams[stream]
	out := make([]Event, 0, min(n, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, Event{ID: all[i].ID, Fields: copyFields(all[i].Fields)})
	}
	return out, nil
}

// Claimed reports whether key holds a live claim.
func (m *Memory) Claimed(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.claims[key]
	return ok && m.now().Before(exp)
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
