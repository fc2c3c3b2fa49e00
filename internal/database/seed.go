// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package database

import (
	"context"
	"fmt"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

func rated(r float64) *float64 { return &r }

// SeedSmall is a compact dataset for smoke tests.
var SeedSmall = []models.SeriesCreate{
	{Title: "Breaking Bad", Creator: "Vince Gilligan", Year: 2008, Rating: rated(9.5)},
	{Title: "The Crown", Creator: "Peter Morgan", Year: 2016, Rating: rated(8.6)},
	{Title: "Stranger Things", Creator: "Duffer Brothers", Year: 2016, Rating: rated(8.7)},
}

// SeedSearch is the dataset for search demos.
var SeedSearch = []models.SeriesCreate{
	{Title: "The Bear", Creator: "Christopher Storer", Year: 2022, Rating: rated(8.6)},
	{Title: "Severance", Creator: "Dan Erickson", Year: 2022, Rating: rated(8.7)},
	{Title: "Succession", Creator: "Jesse Armstrong", Year: 2018, Rating: rated(8.8)},
	{Title: "Andor", Creator: "Tony Gilroy", Year: 2022, Rating: rated(8.4)},
	{Title: "Silo", Creator: "Graham Yost", Year: 2023, Rating: rated(8.2)},
	{Title: "The White Lotus", Creator: "Mike White", Year: 2021, Rating: rated(8.0)},
}

// SeedFull is the larger demo dataset.
var SeedFull = []models.SeriesCreate{
	{Title: "Breaking Bad", Creator: "Vince Gilligan", Year: 2008, Rating: rated(9.5)},
	{Title: "Better Call Saul", Creator: "Vince Gilligan", Year: 2015, Rating: rated(8.9)},
	{Title: "The Sopranos", Creator: "David Chase", Year: 1999, Rating: rated(9.2)},
	{Title: "The Wire", Creator: "David Simon", Year: 2002, Rating: rated(9.3)},
	{Title: "Mad Men", Creator: "Matthew Weiner", Year: 2007, Rating: rated(8.7)},
	{Title: "Succession", Creator: "Jesse Armstrong", Year: 2018, Rating: rated(8.8)},
	{Title: "The Bear", Creator: "Christopher Storer", Year: 2022, Rating: rated(8.6)},
	{Title: "Severance", Creator: "Dan Erickson", Year: 2022, Rating: rated(8.7)},
	{Title: "Andor", Creator: "Tony Gilroy", Year: 2022, Rating: rated(8.4)},
	{Title: "Silo", Creator: "Graham Yost", Year: 2023, Rating: rated(8.2)},
	{Title: "The White Lotus", Creator: "Mike White", Year: 2021, Rating: rated(8.0)},
	{Title: "The Crown", Creator: "Peter Morgan", Year: 2016, Rating: rated(8.6)},
	{Title: "Stranger Things", Creator: "Duffer Brothers", Year: 2016, Rating: rated(8.7)},
	{Title: "Mr. Robot", Creator: "Sam Esmail", Year: 2015, Rating: rated(8.5)},
	{Title: "Chernobyl", Creator: "Craig Mazin", Year: 2019, Rating: rated(9.3)},
	{Title: "The Last of Us", Creator: "Craig Mazin", Year: 2023, Rating: rated(8.8)},
	{Title: "True Detective", Creator: "Nic Pizzolatto", Year: 2014, Rating: rated(8.9)},
	{Title: "Fargo", Creator: "Noah Hawley", Year: 2014, Rating: rated(8.9)},
	{Title: "House of the Dragon", Creator: "Ryan Condal", Year: 2022, Rating: rated(8.4)},
	{Title: "The Americans", Creator: "Joe Weisberg", Year: 2013, Rating: rated(8.4)},
	{Title: "Peaky Blinders", Creator: "Steven Knight", Year: 2013, Rating: rated(8.8)},
	{Title: "Black Mirror", Creator: "Charlie Brooker", Year: 2011, Rating: rated(8.7)},
	{Title: "Dark", Creator: "Baran bo Odar", Year: 2017, Rating: rated(8.8)},
	{Title: "Ozark", Creator: "Bill Dubuque", Year: 2017, Rating: rated(8.5)},
	{Title: "Narcos", Creator: "Carlo Bernard", Year: 2015, Rating: rated(8.8)},
}

// Seed inserts data, skipping entries that already exist, and returns how
// many rows were added. With clear set the series table is emptied first.
func (db *DB) Seed(ctx context.Context, data []models.SeriesCreate, clear bool) (int, error) {
	if clear {
		if err := db.ClearSeries(ctx); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for _, in := range data {
		dup, err := db.FindDuplicate(ctx, in.Title, in.Creator, in.Year)
		if err != nil {
			return inserted, err
		}
		if dup != nil {
			continue
		}
		if _, err := db.CreateSeries(ctx, in); err != nil {
			return inserted, fmt.Errorf("seed %q: %w", in.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
