// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package metrics holds every Prometheus collector TV-DB exports on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refresh orchestrator

	RefreshItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_items_total",
			Help: "Items processed by refresh runs, by outcome",
		},
		[]string{"outcome"}, // refreshed, failed, skipped, claim_error
	)

	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Refresh runs, by result",
		},
		[]string{"result"}, // completed, list_failed
	)

	RefreshRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_run_duration_seconds",
			Help:    "Wall time of a refresh run",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	RefreshInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refresh_inflight",
			Help: "Refresh calls currently holding an admission slot",
		},
	)

	RefreshAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_attempts_total",
			Help: "Individual refresh calls, including retries",
		},
		[]string{"result"}, // success, error
	)

	RefreshTraceAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_trace_append_failures_total",
			Help: "Trace events that could not be appended to the stream",
		},
	)

	// Claim store

	ClaimStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimstore_operations_total",
			Help: "Claim store operations, by backend, operation and result",
		},
		[]string{"backend", "operation", "result"},
	)

	// HTTP API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "HTTP requests in progress",
		},
	)

	// Database

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "DuckDB query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Outbound clients

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker, by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state changes",
		},
		[]string{"name", "from", "to"},
	)

	// Job queue and worker

	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_jobs_total",
			Help: "Queue jobs, by type and result",
		},
		[]string{"job_type", "result"}, // enqueued, processed, failed, unknown
	)

	// Authorization

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions, by role and decision",
		},
		[]string{"role", "decision"}, // allow, deny, error
	)

	// AI summary

	SummaryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_summary_requests_total",
			Help: "AI summary requests, by result",
		},
		[]string{"result"}, // ok, cached, empty, unavailable
	)

	// WebSocket

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Connected dashboard websocket clients",
		},
	)
)

// RecordRefreshOutcome counts one finished item.
func RecordRefreshOutcome(outcome string) {
	RefreshItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordRefreshAttempt counts one refresh call.
func RecordRefreshAttempt(err error) {
	if err != nil {
		RefreshAttemptsTotal.WithLabelValues("error").Inc()
		return
	}
	RefreshAttemptsTotal.WithLabelValues("success").Inc()
}

// RecordRefreshRun records a finished run.
func RecordRefreshRun(duration time.Duration, err error) {
	RefreshRunDuration.Observe(duration.Seconds())
	if err != nil {
		RefreshRunsTotal.WithLabelValues("list_failed").Inc()
		return
	}
	RefreshRunsTotal.WithLabelValues("completed").Inc()
}

// RecordClaimStoreOp counts a claim store call.
func RecordClaimStoreOp(backend, op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ClaimStoreOperations.WithLabelValues(backend, op, result).Inc()
}

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery records one DuckDB statement.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordQueueJob counts a job state change.
func RecordQueueJob(jobType, result string) {
	QueueJobsTotal.WithLabelValues(jobType, result).Inc()
}

// RecordAuthzDecision counts one authorization check.
func RecordAuthzDecision(role, decision string) {
	AuthzDecisionsTotal.WithLabelValues(role, decision).Inc()
}
