// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package worker consumes background jobs from the Redis queue.
//
// The worker is an API client like any other: it logs in with its own
// account (role worker), reads the catalog over HTTP and files reports
// through POST /reports. When the token expires mid-job the API answers
// 401; the worker logs in again and retries that job once.
//
// Worker implements suture.Service so it can run inside the server's
// supervisor tree or on its own under `tvdbctl worker`.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
)

// DigestTitle is the title of every report_digest report.
const DigestTitle = "Weekly TV Digest"

// DefaultPollTimeout bounds one blocking dequeue.
const DefaultPollTimeout = 5 * time.Second

// API is the part of the catalog API the worker calls.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	ListSeries(ctx context.Context, token string) ([]models.Series, error)
	CreateReport(ctx context.Context, token string, in models.ReportCreate) (models.Report, error)
}

// Jobs is the queue the worker pops from.
type Jobs interface {
	Dequeue(ctx context.Context, timeout time.Duration) (models.QueueMessage, error)
}

var (
	_ API  = (*catalogclient.Client)(nil)
	_ Jobs = (*queue.Queue)(nil)
)

// Worker processes queued jobs one at a time.
type Worker struct {
	api         API
	jobs        Jobs
	username    string
	password    string
	pollTimeout time.Duration
	now         func() time.Time
	logger      zerolog.Logger

	token string
}

// New builds a worker that authenticates with cfg's credentials.
func New(api API, jobs Jobs, cfg config.WorkerConfig) *Worker {
	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = DefaultPollTimeout
	}
	return &Worker{
		api:         api,
		jobs:        jobs,
		username:    cfg.Username,
		password:    cfg.Password,
		pollTimeout: poll,
		now:         time.Now,
		logger:      logging.WithComponent("worker"),
	}
}

// String names the service in supervisor logs.
func (w *Worker) String() string {
	return "report-worker"
}

// Serve logs in and processes jobs until ctx ends. A failed login or a
// queue outage is returned so the supervisor restarts the worker with
// backoff; failed jobs are logged and dropped.
func (w *Worker) Serve(ctx context.Context) error {
	if err := w.login(ctx); err != nil {
		return err
	}
	w.logger.Info().Str("user", w.username).Msg("Report worker started")

	for {
		msg, err := w.jobs.Dequeue(ctx, w.pollTimeout)
		switch {
		case ctx.Err() != nil:
			w.logger.Info().Msg("Report worker stopping")
			return ctx.Err()
		case errors.Is(err, queue.ErrEmpty):
			continue
		case errors.Is(err, queue.ErrMalformed):
			w.logger.Warn().Err(err).Msg("Dropping malformed job")
			continue
		case err != nil:
			return fmt.Errorf("dequeue: %w", err)
		}

		if err := w.HandleJob(ctx, msg); err != nil {
			metrics.RecordQueueJob(msg.JobType, "failed")
			w.logger.Error().Err(err).Str("job_id", msg.JobID).Str("job_type", msg.JobType).Msg("Worker job failed")
		}
	}
}

// HandleJob runs one job. Unknown job types are logged and skipped.
func (w *Worker) HandleJob(ctx context.Context, msg models.QueueMessage) error {
	if msg.JobType != models.JobTypeReportDigest {
		metrics.RecordQueueJob(msg.JobType, "unknown")
		w.logger.Warn().Str("job_id", msg.JobID).Str("job_type", msg.JobType).Msg("Unknown job type")
		return nil
	}

	report, err := w.runDigest(ctx)
	if catalogclient.IsUnauthorized(err) {
		w.logger.Info().Str("job_id", msg.JobID).Msg("Token rejected, logging in again")
		if err := w.login(ctx); err != nil {
			return err
		}
		report, err = w.runDigest(ctx)
	}
	if err != nil {
		return fmt.Errorf("job %s: %w", msg.JobID, err)
	}

	metrics.RecordQueueJob(msg.JobType, "processed")
	w.logger.Info().
		Str("job_id", msg.JobID).
		Str("requested_by", msg.RequestedBy).
		Int64("report_id", report.ID).
		Msg("Report created")
	return nil
}

func (w *Worker) login(ctx context.Context) error {
	token, err := w.api.Login(ctx, w.username, w.password)
	if err != nil {
		return fmt.Errorf("worker login: %w", err)
	}
	w.token = token
	return nil
}

func (w *Worker) runDigest(ctx context.Context) (models.Report, error) {
	series, err := w.api.ListSeries(ctx, w.token)
	if err != nil {
		return models.Report{}, fmt.Errorf("list series: %w", err)
	}
	return w.api.CreateReport(ctx, w.token, BuildDigest(series, w.now()))
}

// BuildDigest renders the digest report for the catalog at time at:
//
//	Generated at: 2025-03-04T05:06:07Z
//	Total series: 3
//	Average rating: 8.40
//
// Series without a rating are left out of the average; "n/a" is shown
// when none is rated.
func BuildDigest(series []models.Series, at time.Time) models.ReportCreate {
	var sum float64
	var rated int
	for _, s := range series {
		if s.Rating != nil {
			sum += *s.Rating
			rated++
		}
	}

	avg := "n/a"
	if rated > 0 {
		avg = fmt.Sprintf("%.2f", sum/float64(rated))
	}

	lines := []string{
		"Generated at: " + at.UTC().Format(time.RFC3339),
		fmt.Sprintf("Total series: %d", len(series)),
		"Average rating: " + avg,
	}
	return models.ReportCreate{Title: DigestTitle, Content: strings.Join(lines, "\n")}
}
