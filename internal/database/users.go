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

// CreateUser stores a new account. The password must already be hashed.
// An empty role means viewer.
func (db *DB) CreateUser(ctx context.Context, username, hashedPassword, role string) (u *models.User, err error) {
	defer observe("insert", "users", time.Now(), &err)

	if role == "" {
		role = models.RoleViewer
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("create user: invalid role %q", role)
	}

	u = &models.User{
		Username:       strings.TrimSpace(username),
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      db.now().UTC(),
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, hashed_password, role, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		u.Username, u.HashedPassword, u.Role, u.CreatedAt).Scan(&u.ID)
	if isConstraintViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns the account or ErrUserNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (u *models.User, err error) {
	defer observe("select", "users", time.Now(), &err)

	u = &models.User{}
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, username, hashed_password, role, created_at FROM users WHERE username = ?`,
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// CountUsers returns the number of accounts.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	return db.count(ctx, "users")
}
