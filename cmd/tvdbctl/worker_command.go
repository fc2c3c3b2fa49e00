// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/claimstore"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/supervisor"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/worker"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued report jobs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Worker.Username == "" || cfg.Worker.Password == "" {
				return fmt.Errorf("WORKER_USERNAME and WORKER_PASSWORD are required")
			}

			rdb, err := claimstore.Connect(cmd.Context(), cfg.Redis.URL)
			if err != nil {
				return err
			}
			defer rdb.Close()

			tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
			if err != nil {
				return err
			}
			w := worker.New(catalogclient.New(cfg.Refresh), queue.New(rdb, cfg.Redis.Queue), cfg.Worker)
			tree.AddMessagingService(w)

			logging.Info().
				Str("queue", cfg.Redis.Queue).
				Str("api", cfg.Refresh.APIBaseURL).
				Msg("Report worker started")

			if err := tree.Serve(cmd.Context()); err != nil && !errors.Is(err, cmd.Context().Err()) {
				return err
			}
			return nil
		},
	}
}
