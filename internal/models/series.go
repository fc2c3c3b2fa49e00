// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package models

import (
	"fmt"
	"time"
)

// Series is one catalog entry.
type Series struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Creator         string     `json:"creator"`
	Year            int        `json:"year"`
	Rating          *float64   `json:"rating"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// SeriesCreate is the body of POST /series and PUT /series/{id}.
type SeriesCreate struct {
	Title   string   `json:"title" validate:"trimmed_required,max=200"`
	Creator string   `json:"creator" validate:"trimmed_required,max=200"`
	Year    int      `json:"year" validate:"gte=1900,lte=2100"`
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// SeriesUpdate is the body of PATCH /series/{id}. Nil fields are left alone.
type SeriesUpdate struct {
	Title   *string  `json:"title,omitempty" validate:"omitempty,trimmed_required,max=200"`
	Creator *string  `json:"creator,omitempty" validate:"omitempty,trimmed_required,max=200"`
	Year    *int     `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// Empty reports whether the patch changes nothing.
func (u *SeriesUpdate) Empty() bool {
	return u.Title == nil && u.Creator == nil && u.Year == nil && u.Rating == nil
}

// Apply copies the set fields onto s.
func (u *SeriesUpdate) Apply(s *Series) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Creator != nil {
		s.Creator = *u.Creator
	}
	if u.Year != nil {
		s.Year = *u.Year
	}
	if u.Rating != nil {
		s.Rating = u.Rating
	}
}

// CatalogLine renders s the way the AI prompt lists it:
// "Dark (2017) by Baran bo Odar rating 8.7".
func (s *Series) CatalogLine() string {
	rating := "n/a"
	if s.Rating != nil {
		rating = fmt.Sprintf("%g", *s.Rating)
	}
	return fmt.Sprintf("%s (%d) by %s rating %s", s.Title, s.Year, s.Creator, rating)
}
