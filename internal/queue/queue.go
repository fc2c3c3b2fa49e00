// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package queue is the Redis list used to hand background jobs from the
// API to the report worker. Producers RPUSH JSON messages, the worker
// BLPOPs them, so jobs are consumed in FIFO order and each job is
// delivered to exactly one worker (at most once: a worker crash loses the
// job it held).
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

// DefaultName is the list key used when none is configured.
const DefaultName = "tvdb:jobs"

var (
	// ErrEmpty is returned by Dequeue when no job arrived before the timeout.
	ErrEmpty = errors.New("queue empty")

	// ErrMalformed wraps decode failures of a popped message.
	ErrMalformed = errors.New("malformed job")
)

// Queue is a FIFO job queue on one Redis list.
type Queue struct {
	client *redis.Client
	name   string
	now    func() time.Time
}

// New returns a queue on the list name. An empty name selects DefaultName.
func New(client *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultName
	}
	return &Queue{client: client, name: name, now: time.Now}
}

// Name is the Redis key of the list.
func (q *Queue) Name() string {
	return q.name
}

// Enqueue appends msg to the tail of the list.
func (q *Queue) Enqueue(ctx context.Context, msg models.QueueMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", msg.JobID, err)
	}
	if err := q.client.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.name, err)
	}
	metrics.RecordQueueJob(msg.JobType, "enqueued")
	return nil
}

// EnqueueReportDigest builds and enqueues a report_digest job for requestedBy.
func (q *Queue) EnqueueReportDigest(ctx context.Context, requestedBy string) (models.QueueMessage, error) {
	msg := models.QueueMessage{
		JobID:       uuid.NewString(),
		JobType:     models.JobTypeReportDigest,
		EnqueuedAt:  q.now().UTC(),
		RequestedBy: requestedBy,
	}
	if err := q.Enqueue(ctx, msg); err != nil {
		return models.QueueMessage{}, err
	}
	return msg, nil
}

// Dequeue blocks up to timeout for the next job. It returns ErrEmpty when
// the timeout passes, and ctx.Err() when ctx ends first. A message that is
// not valid JSON is removed from the list and reported as ErrMalformed.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (models.QueueMessage, error) {
	res, err := q.client.BLPop(ctx, timeout, q.name).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return models.QueueMessage{}, ErrEmpty
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.QueueMessage{}, ctxErr
		}
		return models.QueueMessage{}, fmt.Errorf("blpop %s: %w", q.name, err)
	}

	// BLPOP returns [key, value].
	if len(res) != 2 {
		return models.QueueMessage{}, fmt.Errorf("blpop %s: unexpected reply %v", q.name, res)
	}
	var msg models.QueueMessage
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		metrics.RecordQueueJob("unknown", "malformed")
		return models.QueueMessage{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return msg, nil
}

// Len returns the number of waiting jobs.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", q.name, err)
	}
	return n, nil
}
