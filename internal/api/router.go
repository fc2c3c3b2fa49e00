// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/authz"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
)

// compressLevel is the gzip level for JSON responses.
const compressLevel = 5

// Router wires handlers, authentication and middleware together.
type Router struct {
	handler  *Handler
	mw       *ChiMiddleware
	enforcer *authz.Enforcer
}

// NewRouter builds a Router. handler.deps.JWT authenticates the protected
// routes and enforcer authorizes them.
func NewRouter(handler *Handler, mw *ChiMiddleware, enforcer *authz.Enforcer) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, mw: mw, enforcer: enforcer}
}

// Setup returns the complete HTTP handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.mw.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(compressLevel, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, middleware.CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CodeMethodNotAllow, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(rt.routes)
	r.Route(authz.APIPrefix, func(r chi.Router) {
		r.Use(rt.mw.RateLimit())
		rt.routes(r)
	})

	return r
}

// routes registers every endpoint on r. It runs once for the root and
// once for /api/v1.
func (rt *Router) routes(r chi.Router) {
	h := rt.handler

	r.Get("/health", h.Health)

	r.Route("/series", func(r chi.Router) {
		r.Get("/", h.ListSeries)
		r.Post("/", h.CreateSeries)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSeries)
			r.Put("/", h.UpdateSeries)
			r.Patch("/", h.PatchSeries)
			r.Delete("/", h.DeleteSeries)
			r.Post("/refresh", h.RefreshSeries)
		})
	})

	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)

	if h.deps.WebSocket != nil {
		r.Get("/ws", h.deps.WebSocket.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(h.deps.JWT))
		r.Use(authz.Authorize(rt.enforcer))

		r.Post("/reports", h.CreateReport)
		r.Get("/reports", h.ListReports)
		r.Post("/reports/queue", h.QueueReport)

		r.Get("/admin/metrics", h.AdminMetrics)
		r.Post("/admin/refresh", h.AdminRefresh)
		r.Get("/admin/refresh/events", h.AdminRefreshEvents)

		r.Post("/ai/summary", h.AISummary)
	})
}
