// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

// DefaultReportLimit is how many reports ListReports returns when asked
// for zero or fewer.
const DefaultReportLimit = 50

// maxCreatedByLen bounds the stored author name.
const maxCreatedByLen = 80

// CreateReport stores a report written by createdBy.
func (db *DB) CreateReport(ctx context.Context, in models.ReportCreate, createdBy string) (r *models.Report, err error) {
	defer observe("insert", "reports", time.Now(), &err)

	if len(createdBy) > maxCreatedByLen {
		createdBy = createdBy[:maxCreatedByLen]
	}
	r = &models.Report{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		CreatedAt: db.now().UTC(),
		CreatedBy: createdBy,
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO reports (title, content, created_at, created_by) VALUES (?, ?, ?, ?) RETURNING id`,
		r.Title, r.Content, r.CreatedAt, r.CreatedBy).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return r, nil
}

// ListReports returns the newest reports first.
func (db *DB) ListReports(ctx context.Context, limit int) (list []models.Report, err error) {
	defer observe("select", "reports", time.Now(), &err)

	if limit <= 0 {
		limit = DefaultReportLimit
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, created_at, created_by FROM reports
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer closeWithLog(rows, "rows")

	list = make([]models.Report, 0)
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.CreatedAt, &r.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return list, nil
}

// CountReports returns the number of reports.
func (db *DB) CountReports(ctx context.Context) (int64, error) {
	return db.count(ctx, "reports")
}

// AdminMetrics collects the catalog totals shown on the admin page.
func (db *DB) AdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	var (
		m   models.AdminMetrics
		err error
	)
	if m.Series, err = db.CountSeries(ctx); err != nil {
		return nil, err
	}
	if m.Reports, err = db.CountReports(ctx); err != nil {
		return nil, err
	}
	if m.Users, err = db.CountUsers(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}
