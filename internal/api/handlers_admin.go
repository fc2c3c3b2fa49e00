// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

const (
	defaultTraceEvents = 50
	maxTraceEvents     = 500
)

// AdminMetrics handles GET /admin/metrics.
func (h *Handler) AdminMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Store.AdminMetrics(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, m)
}

// AdminRefresh handles POST /admin/refresh by running one batch refresh
// and returning its stats. A listing failure is a 502. Claim store
// failures are a 503 that still carries the stats.
func (h *Handler) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	if h.deps.Refresher == nil {
		writeUnavailable(w, "Refresh")
		return
	}

	began := time.Now()
	stats, err := h.deps.Refresher.Run(r.Context())
	if h.deps.Hub != nil {
		h.deps.Hub.BroadcastRefreshCompleted(stats, time.Since(began), err)
	}

	switch {
	case err == nil:
		logging.Ctx(r.Context()).Info().Str("requested_by", subject(r)).Msg("manual refresh run finished")
		middleware.WriteSuccess(w, http.StatusOK, stats)
	case errors.Is(err, refresh.ErrClaimStore):
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    middleware.CodeUnavailable,
			Message: "Claim store unavailable for some items",
			Details: map[string]interface{}{"stats": stats},
		})
	default:
		middleware.WriteError(w, http.StatusBadGateway, middleware.CodeUnavailable, "Refresh run failed", err)
	}
}

// AdminRefreshEvents handles GET /admin/refresh/events?limit, the newest
// trace events first.
func (h *Handler) AdminRefreshEvents(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trace == nil {
		writeUnavailable(w, "Trace stream")
		return
	}
	limit, ok := queryInt(r, "limit", defaultTraceEvents, 1, maxTraceEvents)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CodeValidation, "limit must be between 1 and 500", nil)
		return
	}

	events, err := h.deps.Trace.RecentEvents(r.Context(), h.deps.TraceStream, limit)
	if err != nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, middleware.CodeUnavailable, "Trace stream unavailable", err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, events)
}
