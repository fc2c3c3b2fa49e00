// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences and tables if they are missing.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS series_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS series (
			id BIGINT PRIMARY KEY DEFAULT nextval('series_id_seq'),
			title TEXT NOT NULL,
			creator TEXT NOT NULL,
			release_year INTEGER NOT NULL,
			rating DOUBLE,
			last_refreshed_at TIMESTAMP
		)`,

		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			username TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE SEQUENCE IF NOT EXISTS reports_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS reports (
			id BIGINT PRIMARY KEY DEFAULT nextval('reports_id_seq'),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			created_by TEXT NOT NULL
		)`,
	}
}
