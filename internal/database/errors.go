// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
)

var (
	// ErrSeriesNotFound is returned when no series has the requested id.
	ErrSeriesNotFound = errors.New("series not found")

	// ErrUserNotFound is returned when no user has the requested name.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")
)

// isConstraintViolation matches DuckDB's unique and primary key errors.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Constraint Error") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "Duplicate key")
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
