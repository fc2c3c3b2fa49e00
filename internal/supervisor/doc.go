// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package supervisor runs TV-DB's long-lived services under suture v4.

The tree has three layers so a crash in one does not take the others
down:

	tv-db
	├── data-layer
	│   └── refresh-scheduler (when refresh.interval > 0)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── report-worker (when worker.enabled)
	└── api-layer
	    └── http-server

Services are restarted with suture's exponential backoff. Events are
logged through sutureslog into the slog adapter of the zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
