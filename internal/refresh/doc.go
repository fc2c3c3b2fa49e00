// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package refresh runs idempotent batch refreshes of catalog items.
//
// A run lists every item from a Target, claims a per-item per-day key in a
// ClaimStore, and refreshes only the items it managed to claim. A second run
// on the same UTC day therefore skips everything the first run claimed,
// whether the first run refreshed the item or gave up on it.
//
// # Flow per item
//
//	TryClaim("refresh:<id>:<YYYY-MM-DD>", 24h)
//	    false -> skipped (no trace event, no target call)
//	    error -> claim error (logged, counted apart, run continues)
//	    true  -> attempted
//	            acquire admission slot
//	            Retry(RefreshItem) with exponential backoff
//	            release slot
//	            append {series_id, status, timestamp} to the trace stream
//
// Claims are not gated; only refresh calls hold one of the Concurrency
// slots. RunStats is updated from many goroutines through atomic counters.
//
// # Invariants
//
// For a completed run:
//
//	attempted == refreshed + failed
//	attempted + skipped + claim_errors == len(items)
//
// # Usage
//
//	orch := refresh.New(claimstore.NewRedis(rdb), catalogclient.New(cfg), refresh.Options{
//	    Concurrency: 5,
//	    Retries:     2,
//	})
//	stats, err := orch.Run(ctx)
package refresh
