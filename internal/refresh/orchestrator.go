// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
)

// Defaults applied by New when the corresponding Options field is zero.
const (
	DefaultConcurrency = 5
	DefaultRetries     = 2
	DefaultTraceStream = "tvdb:refresh:trace"
	DefaultClaimTTL    = 24 * time.Hour

	// traceWriteTimeout bounds a trace append that outlives a canceled run.
	traceWriteTimeout = 5 * time.Second
)

// Trace event statuses.
const (
	StatusRefreshed = "refreshed"
	StatusFailed    = "failed"
)

// ErrClaimStore is returned (joined with the causes) by Run when at least one
// claim could not be decided because the store failed.
var ErrClaimStore = errors.New("claim store unavailable")

// Item is a refreshable record. Only the identifier matters here.
type Item struct {
	ID string
}

// Target lists items and refreshes one of them.
type Target interface {
	ListItems(ctx context.Context) ([]Item, error)
	RefreshItem(ctx context.Context, id string) error
}

// ClaimStore provides the atomic claim and the append-only trace stream.
type ClaimStore interface {
	// TryClaim creates key with the given ttl and reports whether this call created it.
	TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// AppendEvent appends fields to the named stream.
	AppendEvent(ctx context.Context, stream string, fields map[string]string) error
}

// Observer is told about every finished item. Implementations must not block.
type Observer interface {
	ItemDone(ctx context.Context, res ItemResult)
}

// Options configure an Orchestrator. Zero values select the defaults,
// except Retries, where zero means a single attempt.
type Options struct {
	Concurrency int
	Retries     int
	TraceStream string
	ClaimTTL    time.Duration
	Backoff     Policy
	Observer    Observer

	// Now is the clock; tests pin it to a fixed day.
	Now func() time.Time
}

// RunStats is the outcome of one run.
type RunStats struct {
	Attempted   int64 `json:"attempted"`
	Refreshed   int64 `json:"refreshed"`
	Skipped     int64 `json:"skipped"`
	Failed      int64 `json:"failed"`
	ClaimErrors int64 `json:"claim_errors,omitempty"`
}

// Outcome classifies how an item ended.
type Outcome int

const (
	OutcomeRefreshed Outcome = iota
	OutcomeFailed
	OutcomeSkipped
	OutcomeClaimError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeClaimError:
		return "claim_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ItemResult is what handling one item produced.
type ItemResult struct {
	ItemID   string
	Outcome  Outcome
	Attempts int
	Err      error
}

// ClaimKey returns the dedup key of an item for a UTC day (YYYY-MM-DD).
func ClaimKey(itemID, day string) string {
	return "refresh:" + itemID + ":" + day
}

// Orchestrator drives refresh runs. One Orchestrator may run repeatedly;
// each Run owns its own stats.
type Orchestrator struct {
	claims ClaimStore
	target Target
	opts   Options
}

// New builds an Orchestrator, filling unset options with defaults.
func New(claims ClaimStore, target Target, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.TraceStream == "" {
		opts.TraceStream = DefaultTraceStream
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = DefaultClaimTTL
	}
	if opts.Backoff == nil {
		opts.Backoff = DefaultBackoff()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{claims: claims, target: target, opts: opts}
}

type counters struct {
	attempted, refreshed, skipped, failed, claimErrors atomic.Int64
}

func (c *counters) snapshot() RunStats {
	return RunStats{
		Attempted:   c.attempted.Load(),
		Refreshed:   c.refreshed.Load(),
		Skipped:     c.skipped.Load(),
		Failed:      c.failed.Load(),
		ClaimErrors: c.claimErrors.Load(),
	}
}

// Run performs one refresh run. A listing failure returns immediately with
// zero stats. Per-item failures never abort the run. When claims failed,
// the stats are returned together with an error wrapping ErrClaimStore.
func (o *Orchestrator) Run(ctx context.Context) (RunStats, error) {
	began := time.Now()
	today := o.opts.Now().UTC().Format(time.DateOnly)
	ctx = logging.ContextWithRunID(ctx, logging.NewCorrelationID())
	log := logging.Ctx(ctx).With().Str("component", "refresh").Logger()

	items, err := o.target.ListItems(ctx)
	if err != nil {
		metrics.RecordRefreshRun(time.Since(began), err)
		log.Error().Err(err).Msg("refresh run aborted: listing failed")
		return RunStats{}, fmt.Errorf("list items: %w", err)
	}

	log.Info().Int("items", len(items)).Str("day", today).
		Int("concurrency", o.opts.Concurrency).Int("retries", o.opts.Retries).
		Msg("refresh run started")

	var (
		c        counters
		wg       sync.WaitGroup
		gate     = make(chan struct{}, o.opts.Concurrency)
		errMu    sync.Mutex
		claimErr []error
	)

	for _, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := o.handle(ctx, item, today, gate)
			o.record(ctx, res, &c)
			if res.Outcome == OutcomeClaimError {
				errMu.Lock()
				claimErr = append(claimErr, fmt.Errorf("item %s: %w", item.ID, res.Err))
				errMu.Unlock()
			}
			if o.opts.Observer != nil {
				o.opts.Observer.ItemDone(ctx, res)
			}
		}()
	}
	wg.Wait()

	stats := c.snapshot()
	metrics.RecordRefreshRun(time.Since(began), nil)
	log.Info().
		Int64("attempted", stats.Attempted).
		Int64("refreshed", stats.Refreshed).
		Int64("skipped", stats.Skipped).
		Int64("failed", stats.Failed).
		Int64("claim_errors", stats.ClaimErrors).
		Dur("duration", time.Since(began)).
		Msg("refresh run complete")

	if len(claimErr) > 0 {
		return stats, errors.Join(append([]error{ErrClaimStore}, claimErr...)...)
	}
	return stats, nil
}

// handle claims and refreshes one item. Counters are left to record.
func (o *Orchestrator) handle(ctx context.Context, item Item, day string, gate chan struct{}) ItemResult {
	res := ItemResult{ItemID: item.ID}

	claimed, err := o.claims.TryClaim(ctx, ClaimKey(item.ID, day), o.opts.ClaimTTL)
	switch {
	case err != nil:
		res.Outcome, res.Err = OutcomeClaimError, err
		return res
	case !claimed:
		res.Outcome = OutcomeSkipped
		return res
	}

	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		res.Outcome, res.Err = OutcomeFailed, ctx.Err()
		return res
	}
	metrics.RefreshInflight.Inc()
	err = Do(ctx, o.opts.Backoff, o.opts.Retries, func(ctx context.Context) error {
		res.Attempts++
		callErr := o.target.RefreshItem(ctx, item.ID)
		metrics.RecordRefreshAttempt(callErr)
		return callErr
	})
	metrics.RefreshInflight.Dec()
	<-gate

	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	res.Outcome = OutcomeRefreshed
	return res
}

// record updates the counters and writes the trace event for attempted items.
func (o *Orchestrator) record(ctx context.Context, res ItemResult, c *counters) {
	metrics.RecordRefreshOutcome(res.Outcome.String())
	log := logging.Ctx(ctx).With().Str("component", "refresh").Str("series_id", res.ItemID).Logger()

	switch res.Outcome {
	case OutcomeSkipped:
		c.skipped.Add(1)
		log.Debug().Msg("already claimed today, skipping")
		return
	case OutcomeClaimError:
		c.claimErrors.Add(1)
		log.Error().Err(res.Err).Msg("claim store error, item not processed")
		return
	case OutcomeRefreshed:
		c.attempted.Add(1)
		c.refreshed.Add(1)
		log.Debug().Int("attempts", res.Attempts).Msg("refreshed")
		o.trace(ctx, res.ItemID, StatusRefreshed)
	case OutcomeFailed:
		c.attempted.Add(1)
		c.failed.Add(1)
		log.Warn().Err(res.Err).Int("attempts", res.Attempts).Msg("refresh failed after retries")
		o.trace(ctx, res.ItemID, StatusFailed)
	}
}

// trace appends the event best-effort. A failed append is logged and
// counted but never changes the item's outcome.
func (o *Orchestrator) trace(ctx context.Context, itemID, status string) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), traceWriteTimeout)
	defer cancel()

	fields := map[string]string{
		"series_id": itemID,
		"status":    status,
		"timestamp": o.opts.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := o.claims.AppendEvent(wctx, o.opts.TraceStream, fields); err != nil {
		metrics.RefreshTraceAppendFailures.Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Str("component", "refresh").
			Str("series_id", itemID).
			Str("status", status).
			Str("stream", o.opts.TraceStream).
			Msg("trace append failed")
	}
}
