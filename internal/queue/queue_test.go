// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ""), mr
}

func TestEnqueueDequeueFIFO(t *testing.T) {
	t.Parallel()

	q, _ := newTestQueue(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, models.QueueMessage{JobID: id, JobType: models.JobTypeReportDigest}); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", id, err)
		}
	}

	n, err := q.Len(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Len() = %d, %v; want 3", n, err)
	}

	for _, want := range []string{"a", "b", "c"} {
		msg, err := q.Dequeue(ctx, time.Second)
		if err != nil {
			t.Fatalf("Dequeue() error = %v", err)
		}
		if msg.JobID != want {
			t.Errorf("Dequeue() job = %q, want %q", msg.JobID, want)
		}
	}
}

func TestEnqueueReportDigest(t *testing.T) {
	t.Parallel()

	q, mr := newTestQueue(t)
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	msg, err := q.EnqueueReportDigest(context.Background(), "admin")
	if err != nil {
		t.Fatalf("EnqueueReportDigest() error = %v", err)
	}
	if msg.JobType != models.JobTypeReportDigest || msg.RequestedBy != "admin" || !msg.EnqueuedAt.Equal(fixed) {
		t.Errorf("unexpected message %+v", msg)
	}
	if len(msg.JobID) != 36 {
		t.Errorf("JobID %q is not a UUID", msg.JobID)
	}

	items, err := mr.List(DefaultName)
	if err != nil || len(items) != 1 {
		t.Fatalf("list %s = %v, %v", DefaultName, items, err)
	}
}

func TestDequeueTimeout(t *testing.T) {
	t.Parallel()

	q, _ := newTestQueue(t)
	_, err := q.Dequeue(context.Background(), time.Second)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Dequeue() error = %v, want ErrEmpty", err)
	}
}

func TestDequeueMalformed(t *testing.T) {
	t.Parallel()

	q, mr := newTestQueue(t)
	if _, err := mr.Push(DefaultName, "{not json"); err != nil {
		t.Fatal(err)
	}

	if _, err := q.Dequeue(context.Background(), time.Second); !errors.Is(err, ErrMalformed) {
		t.Errorf("Dequeue() error = %v, want ErrMalformed", err)
	}
	if n, _ := q.Len(context.Background()); n != 0 {
		t.Errorf("malformed message left on the list, Len = %d", n)
	}
}

func TestDequeueCanceled(t *testing.T) {
	t.Parallel()

	q, _ := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Dequeue(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("Dequeue() error = %v, want context.Canceled", err)
	}
}

func TestCustomName(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := New(rdb, "custom:jobs")
	if q.Name() != "custom:jobs" {
		t.Errorf("Name() = %q", q.Name())
	}
	if err := q.Enqueue(context.Background(), models.QueueMessage{JobID: "x", JobType: "other"}); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("custom:jobs") {
		t.Error("expected custom:jobs key")
	}
}
