// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	ws "github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/websocket"
)

// Paging bounds of GET /series.
const (
	defaultSeriesLimit = 100
	maxSeriesLimit     = 1000
)

// ListSeries handles GET /series?offset&limit.
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0, 0, math.MaxInt32)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CodeValidation, "offset must be a non-negative integer", nil)
		return
	}
	limit, ok := queryInt(r, "limit", defaultSeriesLimit, 1, maxSeriesLimit)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CodeValidation, "limit must be between 1 and 1000", nil)
		return
	}

	list, err := h.deps.Store.ListSeries(r.Context(), offset, limit)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	n := len(list)
	middleware.WriteJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     list,
		Metadata: models.Metadata{Timestamp: h.now(), Count: &n},
	})
}

// CreateSeries handles POST /series. Posting a series that already exists
// (same title, creator and year) returns the stored row with 200.
func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var in models.SeriesCreate
	if !decodeAndValidate(w, r, &in) {
		return
	}

	dup, err := h.deps.Store.FindDuplicate(r.Context(), in.Title, in.Creator, in.Year)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	if dup != nil {
		middleware.WriteSuccess(w, http.StatusOK, dup)
		return
	}

	s, err := h.deps.Store.CreateSeries(r.Context(), in)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("series_id", s.ID).Str("title", s.Title).Msg("series created")
	h.broadcastSeries(ws.ActionCreated, s.ID, s)
	middleware.WriteSuccess(w, http.StatusCreated, s)
}

// GetSeries handles GET /series/{id}.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := seriesID(r)
	if !ok {
		writeSeriesNotFound(w)
		return
	}
	s, err := h.deps.Store.GetSeries(r.Context(), id)
	if h.seriesError(w, err) {
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, s)
}

// UpdateSeries handles PUT /series/{id}; every field is required.
func (h *Handler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := seriesID(r)
	if !ok {
		writeSeriesNotFound(w)
		return
	}
	var in models.SeriesCreate
	if !decodeAndValidate(w, r, &in) {
		return
	}

	s, err := h.deps.Store.UpdateSeries(r.Context(), id, in)
	if h.seriesError(w, err) {
		return
	}
	h.broadcastSeries(ws.ActionUpdated, s.ID, s)
	middleware.WriteSuccess(w, http.StatusOK, s)
}

// PatchSeries handles PATCH /series/{id}; absent fields are kept.
func (h *Handler) PatchSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := seriesID(r)
	if !ok {
		writeSeriesNotFound(w)
		return
	}
	var patch models.SeriesUpdate
	if !decodeAndValidate(w, r, &patch) {
		return
	}

	s, err := h.deps.Store.PatchSeries(r.Context(), id, patch)
	if h.seriesError(w, err) {
		return
	}
	h.broadcastSeries(ws.ActionUpdated, s.ID, s)
	middleware.WriteSuccess(w, http.StatusOK, s)
}

// DeleteSeries handles DELETE /series/{id} with 204.
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := seriesID(r)
	if !ok {
		writeSeriesNotFound(w)
		return
	}
	if h.seriesError(w, h.deps.Store.DeleteSeries(r.Context(), id)) {
		return
	}
	h.broadcastSeries(ws.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// RefreshSeries handles POST /series/{id}/refresh, the call the batch
// refresh makes for every claimed item.
func (h *Handler) RefreshSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := seriesID(r)
	if !ok {
		writeSeriesNotFound(w)
		return
	}
	s, err := h.deps.Store.Touch(r.Context(), id)
	if h.seriesError(w, err) {
		return
	}
	h.broadcastSeries(ws.ActionRefreshed, s.ID, s)
	middleware.WriteSuccess(w, http.StatusOK, s)
}

// seriesError writes 404 or 500 for a non-nil err and reports whether it did.
func (h *Handler) seriesError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, database.ErrSeriesNotFound):
		writeSeriesNotFound(w)
	default:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
	}
	return true
}

func writeSeriesNotFound(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusNotFound, middleware.CodeNotFound, msgSeriesNotFound, nil)
}
