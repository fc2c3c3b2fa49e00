// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// Health reports "ok" when the database answers, "degraded" when only
// Redis is down, and 503 when the database is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := models.HealthStatus{Status: "ok", Database: true}
	if err := h.deps.Store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("database health check failed")
		status.Status, status.Database = "unavailable", false
	}

	if h.deps.RedisPing != nil {
		up := h.deps.RedisPing(ctx) == nil
		status.Redis = &up
		if !up && status.Database {
			status.Status = "degraded"
		}
	}

	code := http.StatusOK
	if !status.Database {
		code = http.StatusServiceUnavailable
	}
	middleware.WriteSuccess(w, code, status)
}
