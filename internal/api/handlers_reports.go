// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"net/http"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

// CreateReport handles POST /reports. The author is the token subject.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var in models.ReportCreate
	if !decodeAndValidate(w, r, &in) {
		return
	}

	report, err := h.deps.Store.CreateReport(r.Context(), in, subject(r))
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("report_id", report.ID).Str("created_by", report.CreatedBy).Msg("report created")
	middleware.WriteSuccess(w, http.StatusCreated, report)
}

// ListReports handles GET /reports, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Store.ListReports(r.Context(), database.DefaultReportLimit)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, list)
}

// QueueReport handles POST /reports/queue by enqueueing a digest job for
// the worker. It answers 202 with the queued message.
func (h *Handler) QueueReport(w http.ResponseWriter, r *http.Request) {
	if h.deps.Queue == nil {
		writeUnavailable(w, "Job queue")
		return
	}
	msg, err := h.deps.Queue.EnqueueReportDigest(r.Context(), subject(r))
	if err != nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, middleware.CodeUnavailable, "Job queue unavailable", err)
		return
	}
	middleware.WriteSuccess(w, http.StatusAccepted, msg)
}
