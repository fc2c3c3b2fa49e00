// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/claimstore"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/summary"
	ws "github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/websocket"
)

// Store is the catalog persistence the handlers use.
type Store interface {
	Ping(ctx context.Context) error

	ListSeries(ctx context.Context, offset, limit int) ([]models.Series, error)
	GetSeries(ctx context.Context, id int64) (*models.Series, error)
	FindDuplicate(ctx context.Context, title, creator string, year int) (*models.Series, error)
	CreateSeries(ctx context.Context, in models.SeriesCreate) (*models.Series, error)
	UpdateSeries(ctx context.Context, id int64, in models.SeriesCreate) (*models.Series, error)
	PatchSeries(ctx context.Context, id int64, patch models.SeriesUpdate) (*models.Series, error)
	DeleteSeries(ctx context.Context, id int64) error
	Touch(ctx context.Context, id int64) (*models.Series, error)

	CreateUser(ctx context.Context, username, hashedPassword, role string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateReport(ctx context.Context, in models.ReportCreate, createdBy string) (*models.Report, error)
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
	AdminMetrics(ctx context.Context) (*models.AdminMetrics, error)
}

// Broadcaster pushes catalog and refresh events to WebSocket clients.
type Broadcaster interface {
	BroadcastSeriesChanged(action string, id int64, series *models.Series)
	BroadcastRefreshCompleted(stats refresh.RunStats, duration time.Duration, runErr error)
}

// JobQueue accepts background jobs.
type JobQueue interface {
	EnqueueReportDigest(ctx context.Context, requestedBy string) (models.QueueMessage, error)
}

// Summarizer produces the AI catalog summary.
type Summarizer interface {
	Summarize(ctx context.Context, series []models.Series) models.SummaryResponse
}

// Refresher runs one batch refresh.
type Refresher interface {
	Run(ctx context.Context) (refresh.RunStats, error)
}

// TraceReader reads refresh trace events back.
type TraceReader interface {
	RecentEvents(ctx context.Context, stream string, n int) ([]claimstore.Event, error)
}

var (
	_ Store       = (*database.DB)(nil)
	_ Broadcaster = (*ws.Hub)(nil)
	_ JobQueue    = (*queue.Queue)(nil)
	_ Summarizer  = (*summary.Client)(nil)
	_ Refresher   = (*refresh.Orchestrator)(nil)
	_ TraceReader = (claimstore.Store)(nil)
)

// Deps are the collaborators of a Handler. Store and JWT are required;
// a nil optional collaborator turns its endpoints into 503 answers.
type Deps struct {
	Store Store
	JWT   *auth.JWTManager

	Hub         Broadcaster
	Queue       JobQueue
	Summarizer  Summarizer
	Refresher   Refresher
	Trace       TraceReader
	TraceStream string

	// RedisPing reports Redis health on /health when set.
	RedisPing func(ctx context.Context) error

	// WebSocket serves GET /ws when set.
	WebSocket http.Handler

	// SecureCookie marks the login cookie Secure.
	SecureCookie bool
}

// Handler holds the dependencies of every endpoint.
//
// Endpoints are split by resource:
//   - handlers_health.go: health
//   - handlers_series.go: catalog CRUD and per-series refresh
//   - handlers_auth.go: login and registration
//   - handlers_reports.go: reports and the report queue
//   - handlers_admin.go: admin metrics and refresh runs
//   - handlers_ai.go: AI summary
type Handler struct {
	deps      Deps
	startTime time.Time
}

// NewHandler builds a Handler.
func NewHandler(deps Deps) *Handler {
	if deps.TraceStream == "" {
		deps.TraceStream = refresh.DefaultTraceStream
	}
	return &Handler{deps: deps, startTime: time.Now()}
}

// broadcastSeries notifies WebSocket clients when a hub is attached.
func (h *Handler) broadcastSeries(action string, id int64, s *models.Series) {
	if h.deps.Hub != nil {
		h.deps.Hub.BroadcastSeriesChanged(action, id, s)
	}
}

func (h *Handler) now() time.Time {
	return time.Now().UTC()
}
