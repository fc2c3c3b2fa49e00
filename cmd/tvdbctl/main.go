// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Command tvdbctl is the operator CLI for TV-DB: batch refresh runs, the
// report worker, database setup and seeding, and account creation.
//
//	tvdbctl refresh --concurrency 5 --retries 2
//	tvdbctl seed-full
//	tvdbctl create-user --username alice --password 'S3cret!pass' --role viewer
//
// Every command reads the same configuration as the server (defaults,
// config.yaml, environment).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
