// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRefreshOutcome(t *testing.T) {
	before := testutil.ToFloat64(RefreshItemsTotal.WithLabelValues("skipped"))
	RecordRefreshOutcome("skipped")
	RecordRefreshOutcome("skipped")
	after := testutil.ToFloat64(RefreshItemsTotal.WithLabelValues("skipped"))

	if after-before != 2 {
		t.Errorf("skipped counter moved by %v, want 2", after-before)
	}
}

func TestRecordRefreshAttempt(t *testing.T) {
	okBefore := testutil.ToFloat64(RefreshAttemptsTotal.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(RefreshAttemptsTotal.WithLabelValues("error"))

	RecordRefreshAttempt(nil)
	RecordRefreshAttempt(errors.New("503"))

	if d := testutil.ToFloat64(RefreshAttemptsTotal.WithLabelValues("success")) - okBefore; d != 1 {
		t.Errorf("success moved by %v", d)
	}
	if d := testutil.ToFloat64(RefreshAttemptsTotal.WithLabelValues("error")) - errBefore; d != 1 {
		t.Errorf("error moved by %v", d)
	}
}

func TestRecordRefreshRun(t *testing.T) {
	completed := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues("completed"))
	failed := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues("list_failed"))

	RecordRefreshRun(time.Second, nil)
	RecordRefreshRun(time.Second, errors.New("list"))

	if d := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues("completed")) - completed; d != 1 {
		t.Errorf("completed moved by %v", d)
	}
	if d := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues("list_failed")) - failed; d != 1 {
		t.Errorf("list_failed moved by %v", d)
	}
}

func TestRecordClaimStoreOp(t *testing.T) {
	tests := []struct {
		err    error
		result string
	}{
		{nil, "success"},
		{errors.New("conn refused"), "error"},
	}
	for _, tt := range tests {
		c := ClaimStoreOperations.WithLabelValues("redis", "claim", tt.result)
		before := testutil.ToFloat64(c)
		RecordClaimStoreOp("redis", "claim", tt.err)
		if d := testutil.ToFloat64(c) - before; d != 1 {
			t.Errorf("%s moved by %v", tt.result, d)
		}
	}
}

func TestRecordDBQuery(t *testing.T) {
	c := DBQueryErrors.WithLabelValues("select", "series")
	before := testutil.ToFloat64(c)

	RecordDBQuery("select", "series", time.Millisecond, nil)
	RecordDBQuery("select", "series", time.Millisecond, errors.New("boom"))

	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("error counter moved by %v, want 1", d)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/series", "200")
	before := testutil.ToFloat64(c)
	RecordAPIRequest("GET", "/series", "200", 5*time.Millisecond)
	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("request counter moved by %v", d)
	}
}

func TestRecordAuthzDecision(t *testing.T) {
	c := AuthzDecisionsTotal.WithLabelValues("viewer", "deny")
	before := testutil.ToFloat64(c)
	RecordAuthzDecision("viewer", "deny")
	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("authz counter moved by %v", d)
	}
}
