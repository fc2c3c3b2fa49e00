// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package database is the DuckDB data layer of the catalog service.
//
// # Tables
//
//   - series: catalog entries, including the last refresh time
//   - users: login accounts with bcrypt hashes and a role
//   - reports: text reports written by admins and the digest worker
//
// Ids come from DuckDB sequences. Timestamps are stored as UTC TIMESTAMP
// values so no ICU extension is needed.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	s, err := db.CreateSeries(ctx, models.SeriesCreate{Title: "Dark", Creator: "Baran bo Odar", Year: 2017})
//
// Lookups of missing rows return ErrSeriesNotFound or ErrUserNotFound;
// callers check them with errors.Is.
package database
