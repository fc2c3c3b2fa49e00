// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"errors"
	"net/http"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/summary"
)

// AISummary handles POST /ai/summary. An empty body summarizes the first
// summary.MaxSeries series; series_id narrows it to one.
func (h *Handler) AISummary(w http.ResponseWriter, r *http.Request) {
	if h.deps.Summarizer == nil {
		writeUnavailable(w, "AI summary")
		return
	}

	var req models.SummaryRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CodeBadRequest, msgInvalidJSON, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	var series []models.Series
	if req.SeriesID != nil {
		s, err := h.deps.Store.GetSeries(r.Context(), *req.SeriesID)
		if h.seriesError(w, err) {
			return
		}
		series = []models.Series{*s}
	} else {
		list, err := h.deps.Store.ListSeries(r.Context(), 0, summary.MaxSeries)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
			return
		}
		series = list
	}

	middleware.WriteSuccess(w, http.StatusOK, h.deps.Summarizer.Summarize(r.Context(), series))
}
