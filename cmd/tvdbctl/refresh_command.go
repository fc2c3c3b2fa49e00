// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/bootstrap"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var (
		concurrency int
		retries     int
		apiBase     string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one idempotent batch refresh of every series",
		Long: "Lists every series from the catalog API, claims each one for today\n" +
			"and refreshes the claimed ones. Series already claimed today are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rc := cfg.Refresh
			if cmd.Flags().Changed("concurrency") {
				rc.Concurrency = concurrency
			}
			if cmd.Flags().Changed("retries") {
				rc.Retries = retries
			}
			if strings.TrimSpace(apiBase) != "" {
				rc.APIBaseURL = apiBase
			}
			if rc.Concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}

			out := cmd.OutOrStdout()
			if dryRun {
				items, err := catalogclient.New(rc).ListItems(cmd.Context())
				if err != nil {
					return fmt.Errorf("list items: %w", err)
				}
				fmt.Fprintf(out, "Dry run: %d series would be considered against %s\n", len(items), rc.APIBaseURL)
				return nil
			}

			store, rdb, err := bootstrap.OpenClaimStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if rdb != nil {
				defer rdb.Close()
			}

			stats, runErr := bootstrap.NewOrchestrator(rc, store, nil).Run(cmd.Context())
			if runErr != nil && !errors.Is(runErr, refresh.ErrClaimStore) {
				return runErr
			}

			payload, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Refresh complete: %s\n", payload)
			return runErr
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", refresh.DefaultConcurrency, "Maximum in-flight refresh calls")
	cmd.Flags().IntVar(&retries, "retries", refresh.DefaultRetries, "Extra attempts after a failed refresh call")
	cmd.Flags().StringVar(&apiBase, "api-base", "", "Catalog API base URL (overrides API_BASE_URL)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the series without claiming or refreshing")
	return cmd
}
