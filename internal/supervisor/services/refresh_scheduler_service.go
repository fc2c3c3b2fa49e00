// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package services

import (
	"context"
	"errors"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

// RefreshRunner is satisfied by *refresh.Orchestrator.
type RefreshRunner interface {
	Run(ctx context.Context) (refresh.RunStats, error)
}

// RunReporter is told about every finished run. *websocket.Hub
// satisfies it by broadcasting refresh_completed.
type RunReporter interface {
	BroadcastRefreshCompleted(stats refresh.RunStats, duration time.Duration, runErr error)
}

// RefreshSchedulerService runs a refresh every interval. The first run
// happens one interval after start. Claims make overlapping or repeated
// runs on the same day cheap: already claimed items are skipped.
type RefreshSchedulerService struct {
	runner   RefreshRunner
	reporter RunReporter
	interval time.Duration
}

// NewRefreshSchedulerService schedules runner. reporter may be nil.
func NewRefreshSchedulerService(runner RefreshRunner, reporter RunReporter, interval time.Duration) *RefreshSchedulerService {
	return &RefreshSchedulerService{runner: runner, reporter: reporter, interval: interval}
}

// Serve implements suture.Service. A failed run is logged and reported;
// it does not stop the schedule.
func (s *RefreshSchedulerService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("refresh scheduler: interval must be positive")
	}
	log := logging.WithComponent("refresh-scheduler")
	log.Info().Dur("interval", s.interval).Msg("refresh scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			began := time.Now()
			stats, err := s.runner.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("scheduled refresh run failed")
			}
			if s.reporter != nil {
				s.reporter.BroadcastRefreshCompleted(stats, time.Since(began), err)
			}
		}
	}
}

func (s *RefreshSchedulerService) String() string {
	return "refresh-scheduler"
}
