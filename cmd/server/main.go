// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/api"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/authz"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/bootstrap"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/claimstore"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/summary"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/supervisor"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/supervisor/services"
	ws "github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/websocket"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup wiring
func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("claimstore", cfg.ClaimStore.Backend).
		Msg("Starting TV-DB")

	if cfg.UsesDefaultSecret() {
		logging.Warn().Msg("JWT_SECRET is the development default; set a real secret in production")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := bootstrap.EnsureServiceAccounts(ctx, db, cfg); err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		return err
	}

	// The client connects lazily so the API can start before Redis does.
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	claims, err := claimstore.Open(cfg.ClaimStore, rdb)
	if err != nil {
		return err
	}
	defer func() {
		if err := claims.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing claim store")
		}
	}()

	jobs := queue.New(rdb, cfg.Redis.Queue)
	hub := ws.NewHub()
	orchestrator := bootstrap.NewOrchestrator(cfg.Refresh, claims, hub)

	handler := api.NewHandler(api.Deps{
		Store:       db,
		JWT:         jwtManager,
		Hub:         hub,
		Queue:       jobs,
		Summarizer:  summary.New(cfg.AI),
		Refresher:   orchestrator,
		Trace:       claims,
		TraceStream: cfg.Refresh.TraceStream,
		RedisPing:   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		WebSocket:   hub.ServeWS(ws.Upgrader(cfg.Security.CORSOrigins)),
	})
	mw := api.NewChiMiddleware(api.MiddlewareConfigFrom(cfg.Security, cfg.RateLimit))
	router := api.NewRouter(handler, mw, enforcer)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	if cfg.Refresh.Interval > 0 {
		tree.AddDataService(services.NewRefreshSchedulerService(orchestrator, hub, cfg.Refresh.Interval))
		logging.Info().Dur("interval", cfg.Refresh.Interval).Msg("Refresh scheduler added to supervisor tree")
	}

	tree.AddMessagingService(services.NewHubService(hub))
	if cfg.Worker.Enabled {
		tree.AddMessagingService(worker.New(catalogclient.New(cfg.Refresh), jobs, cfg.Worker))
		logging.Info().Str("username", cfg.Worker.Username).Msg("Report worker added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}
