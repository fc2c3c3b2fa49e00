// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package refresh

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultInitialBackoff is the wait after the first failed attempt.
const DefaultInitialBackoff = 400 * time.Millisecond

// Policy decides how long to wait after the attempt-th failure (0-based).
type Policy interface {
	NextDelay(attempt int) time.Duration
}

// Backoff is pure exponential backoff without jitter:
// Initial, Initial*Factor, Initial*Factor^2, ...
//
// A zero Factor means 2. A zero Max leaves the delay uncapped.
type Backoff struct {
	Initial time.Duration
	Factor  float64
	Max     time.Duration
}

// DefaultBackoff returns 0.4s doubling, uncapped.
func DefaultBackoff() Backoff {
	return Backoff{Initial: DefaultInitialBackoff, Factor: 2}
}

// NextDelay implements Policy.
func (b Backoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	factor := b.Factor
	if factor == 0 {
		factor = 2
	}

	d := float64(b.Initial) * math.Pow(factor, float64(attempt))
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Retry calls op up to retries+1 times, waiting policy.NextDelay(i) after
// the i-th failure. The last error is returned unchanged. If ctx ends while
// waiting, the returned error wraps both the last error and ctx.Err().
func Retry[T any](ctx context.Context, policy Policy, retries int, op func(context.Context) (T, error)) (T, error) {
	if retries < 0 {
		retries = 0
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == retries {
			break
		}

		timer := time.NewTimer(policy.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("retry aborted after %d attempts: %w: %w", attempt+1, lastErr, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// Do is Retry for operations without a result.
func Do(ctx context.Context, policy Policy, retries int, op func(context.Context) error) error {
	_, err := Retry(ctx, policy, retries, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
