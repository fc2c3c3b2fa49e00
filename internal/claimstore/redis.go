// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package claimstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
)

// Redis is the claim store used in production.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client. Close does not close it.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect parses a redis:// URL, builds a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// TryClaim runs SET key "1" NX EX ttl.
func (r *Redis) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	metrics.RecordClaimStoreOp(BackendRedis, "claim", err)
	if err != nil {
		return false, fmt.Errorf("redis claim %s: %w", key, err)
	}
	return ok, nil
}

// AppendEvent runs XADD stream * field value ...
func (r *Redis) AppendEvent(ctx context.Context, stream string, fields map[string]string) error {
	values := make([]interface{}, 0, len(fields)*2)
	for _, k := range sortedFieldNames(fields) {
		values = append(values, k, fields[k])
	}

	err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Err()
	metrics.RecordClaimStoreOp(BackendRedis, "append", err)
	if err != nil {
		return fmt.Errorf("redis xadd %s: %w", stream, err)
	}
	return nil
}

// RecentEvents runs XREVRANGE stream + - COUNT n.
func (r *Redis) RecentEvents(ctx context.Context, stream string, n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}
	msgs, err := r.client.XRevRangeN(ctx, stream, "+", "-", int64(n)).Result()
	metrics.RecordClaimStoreOp(BackendRedis, "read", err)
	if err != nil {
		return nil, fmt.Errorf("redis xrevrange %s: %w", stream, err)
	}

	events := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		fields := make(map[string]string, len(m.Values))
		for k, v := range m.Values {
			fields[k] = fmt.Sprint(v)
		}
		events = append(events, Event{ID: m.ID, Fields: fields})
	}
	return events, nil
}

// Close is a no-op; the client belongs to the caller.
func (r *Redis) Close() error { return nil }
