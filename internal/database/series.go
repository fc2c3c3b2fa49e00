// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

const seriesColumns = `id, title, creator, release_year, rating, last_refreshed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(row rowScanner) (*models.Series, error) {
	var (
		s         models.Series
		rating    sql.NullFloat64
		refreshed sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.Title, &s.Creator, &s.Year, &rating, &refreshed); err != nil {
		return nil, err
	}
	if rating.Valid {
		r := rating.Float64
		s.Rating = &r
	}
	if refreshed.Valid {
		t := refreshed.Time.UTC()
		s.LastRefreshedAt = &t
	}
	return &s, nil
}

func nullRating(r *float64) sql.NullFloat64 {
	if r == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *r, Valid: true}
}

// ListSeries returns series ordered by id.
func (db *DB) ListSeries(ctx context.Context, offset, limit int) (list []models.Series, err error) {
	defer observe("select", "series", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+seriesColumns+` FROM series ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer closeWithLog(rows, "rows")

	list = make([]models.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return list, nil
}

// GetSeries returns one series or ErrSeriesNotFound.
func (db *DB) GetSeries(ctx context.Context, id int64) (s *models.Series, err error) {
	defer observe("select", "series", time.Now(), &err)

	s, err = scanSeries(db.conn.QueryRowContext(ctx,
		`SELECT `+seriesColumns+` FROM series WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, err)
	}
	return s, nil
}

// FindDuplicate returns the series with the same title, creator and year,
// or nil when there is none.
func (db *DB) FindDuplicate(ctx context.Context, title, creator string, year int) (s *models.Series, err error) {
	defer observe("select", "series", time.Now(), &err)

	s, err = scanSeries(db.conn.QueryRowContext(ctx,
		`SELECT `+seriesColumns+` FROM series
		WHERE title = ? AND creator = ? AND release_year = ?
		ORDER BY id LIMIT 1`,
		strings.TrimSpace(title), strings.TrimSpace(creator), year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find duplicate series: %w", err)
	}
	return s, nil
}

// CreateSeries inserts a series and returns it with its id.
func (db *DB) CreateSeries(ctx context.Context, in models.SeriesCreate) (s *models.Series, err error) {
	defer observe("insert", "series", time.Now(), &err)

	s = &models.Series{
		Title:   strings.TrimSpace(in.Title),
		Creator: strings.TrimSpace(in.Creator),
		Year:    in.Year,
		Rating:  in.Rating,
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO series (title, creator, release_year, rating) VALUES (?, ?, ?, ?) RETURNING id`,
		s.Title, s.Creator, s.Year, nullRating(s.Rating)).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return s, nil
}

// UpdateSeries replaces every editable field of a series.
func (db *DB) UpdateSeries(ctx context.Context, id int64, in models.SeriesCreate) (s *models.Series, err error) {
	defer observe("update", "series", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE series SET title = ?, creator = ?, release_year = ?, rating = ? WHERE id = ?`,
		strings.TrimSpace(in.Title), strings.TrimSpace(in.Creator), in.Year, nullRating(in.Rating), id)
	if err != nil {
		return nil, fmt.Errorf("update series %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrSeriesNotFound
	}
	return db.GetSeries(ctx, id)
}

// PatchSeries applies the non-nil fields of patch.
func (db *DB) PatchSeries(ctx context.Context, id int64, patch models.SeriesUpdate) (*models.Series, error) {
	current, err := db.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}
	patch.Apply(current)
	return db.UpdateSeries(ctx, id, models.SeriesCreate{
		Title:   current.Title,
		Creator: current.Creator,
		Year:    current.Year,
		Rating:  current.Rating,
	})
}

// DeleteSeries removes a series.
func (db *DB) DeleteSeries(ctx context.Context, id int64) (err error) {
	defer observe("delete", "series", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete series %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

// MarkRefreshed sets last_refreshed_at and returns the updated series.
func (db *DB) MarkRefreshed(ctx context.Context, id int64, at time.Time) (s *models.Series, err error) {
	defer observe("update", "series", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE series SET last_refreshed_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("mark series %d refreshed: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrSeriesNotFound
	}
	return db.GetSeries(ctx, id)
}

// Touch marks a series refreshed now.
func (db *DB) Touch(ctx context.Context, id int64) (*models.Series, error) {
	return db.MarkRefreshed(ctx, id, db.now())
}

// CountSeries returns the number of series.
func (db *DB) CountSeries(ctx context.Context) (int64, error) {
	return db.count(ctx, "series")
}

// ClearSeries deletes every series.
func (db *DB) ClearSeries(ctx context.Context) (err error) {
	defer observe("delete", "series", time.Now(), &err)

	if _, err = db.conn.ExecContext(ctx, `DELETE FROM series`); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}
	return nil
}

// count runs SELECT COUNT(*) on one of the package's own tables.
func (db *DB) count(ctx context.Context, table string) (n int64, err error) {
	defer observe("count", table, time.Now(), &err)

	switch table {
	case "series", "users", "reports":
	default:
		return 0, fmt.Errorf("count: unknown table %q", table)
	}
	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
