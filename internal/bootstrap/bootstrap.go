// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package bootstrap holds the wiring shared by the server and tvdbctl:
// service accounts, the refresh orchestrator and the Redis-backed stores.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/claimstore"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

// AccountStore is the user lookup and insert used by EnsureAccount.
type AccountStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, hashedPassword, role string) (*models.User, error)
}

var _ AccountStore = (*database.DB)(nil)

// EnsureAccount creates username with role unless it already exists. An
// existing account is left untouched, password included.
func EnsureAccount(ctx context.Context, store AccountStore, username, password, role string) (bool, error) {
	if !models.IsValidRole(role) {
		return false, fmt.Errorf("unknown role %q", role)
	}
	if username == "" || password == "" {
		return false, errors.New("username and password are required")
	}

	_, err := store.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, database.ErrUserNotFound):
		return false, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := store.CreateUser(ctx, username, hashed, role); err != nil {
		if errors.Is(err, database.ErrUserExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureServiceAccounts makes sure the configured admin and, when the
// worker is enabled, the worker account exist.
func EnsureServiceAccounts(ctx context.Context, store AccountStore, cfg *config.Config) error {
	type account struct{ user, pass, role string }
	accounts := []account{{cfg.Security.AdminUsername, cfg.Security.AdminPassword, models.RoleAdmin}}
	if cfg.Worker.Enabled {
		accounts = append(accounts, account{cfg.Worker.Username, cfg.Worker.Password, models.RoleWorker})
	}

	for _, a := range accounts {
		created, err := EnsureAccount(ctx, store, a.user, a.pass, a.role)
		if err != nil {
			return fmt.Errorf("ensure %s account: %w", a.role, err)
		}
		if created {
			logging.Info().Str("username", a.user).Str("role", a.role).Msg("Created service account")
		}
	}
	return nil
}

// RefreshOptions maps the refresh configuration onto orchestrator options.
func RefreshOptions(cfg config.RefreshConfig) refresh.Options {
	opts := refresh.Options{
		Concurrency: cfg.Concurrency,
		Retries:     cfg.Retries,
		TraceStream: cfg.TraceStream,
		ClaimTTL:    cfg.ClaimTTL,
	}
	if cfg.InitialBackoff > 0 || cfg.MaxBackoff > 0 {
		b := refresh.DefaultBackoff()
		if cfg.InitialBackoff > 0 {
			b.Initial = cfg.InitialBackoff
		}
		b.Max = cfg.MaxBackoff
		opts.Backoff = b
	}
	return opts
}

// NewOrchestrator builds an orchestrator that refreshes through the
// catalog API at cfg.APIBaseURL. observer may be nil.
func NewOrchestrator(cfg config.RefreshConfig, claims refresh.ClaimStore, observer refresh.Observer, clientOpts ...catalogclient.Option) *refresh.Orchestrator {
	opts := RefreshOptions(cfg)
	opts.Observer = observer
	return refresh.New(claims, catalogclient.New(cfg, clientOpts...), opts)
}

// OpenClaimStore connects Redis when the configured backend needs it and
// opens the claim store. The returned client is nil for non-Redis
// backends; callers close both.
func OpenClaimStore(ctx context.Context, cfg *config.Config) (claimstore.Store, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.ClaimStore.Backend == "" || cfg.ClaimStore.Backend == claimstore.BackendRedis {
		var err error
		rdb, err = claimstore.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
	}

	store, err := claimstore.Open(cfg.ClaimStore, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	return store, rdb, nil
}
