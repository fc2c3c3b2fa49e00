// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Messages shared by several handlers.
const (
	msgSeriesNotFound = "Series not found"
	msgInvalidJSON    = "Invalid JSON body"
	msgInternal       = "Internal server error"
)

var errEmptyBody = errors.New("empty body")

// decodeJSON reads one JSON value from the body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return err
	}
	if len(body) > maxBodyBytes {
		return errors.New("body too large")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

// decodeAndValidate decodes the body into v and runs the struct rules.
// It writes the 400 answer itself and reports whether the caller may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(r, v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CodeBadRequest, msgInvalidJSON, nil)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, apiErr)
		return false
	}
	return true
}

// validateRequest converts validator failures into the API error shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// seriesID parses the {id} path parameter. Ids are positive.
func seriesID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInt parses an integer query parameter within [lo, hi]. A missing
// parameter yields def.
func queryInt(r *http.Request, key string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

// subject is the username of the authenticated caller.
func subject(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.Username()
	}
	return ""
}

func writeUnavailable(w http.ResponseWriter, what string) {
	middleware.WriteError(w, http.StatusServiceUnavailable, middleware.CodeUnavailable, what+" is not configured", nil)
}
