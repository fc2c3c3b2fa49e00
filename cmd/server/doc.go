// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package main is the TV-DB API server.

The server exposes the series catalog over HTTP, runs batch refreshes on
demand (POST /api/v1/admin/refresh) or on a schedule, queues report jobs
in Redis and streams catalog changes over a WebSocket.

# Supervisor tree

	tv-db
	├── data-layer
	│   └── refresh-scheduler (when REFRESH_INTERVAL > 0)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── report-worker (when WORKER_ENABLED=true)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. DuckDB catalog store and service accounts
 4. JWT manager and Casbin enforcer
 5. Redis client, claim store and job queue
 6. WebSocket hub, AI summary client, refresh orchestrator
 7. HTTP router and supervisor tree

Redis is not required to start. While it is down /health reports
"degraded", queueing answers 503 and refresh claims fail.

# Configuration

	HTTP_PORT=8000
	DATABASE_PATH=/data/tvdb.duckdb
	REDIS_URL=redis://127.0.0.1:6379/0
	CLAIMSTORE_BACKEND=redis      # redis, badger or memory
	API_BASE_URL=http://127.0.0.1:8000
	REFRESH_INTERVAL=0            # e.g. 24h
	JWT_SECRET=<secret>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=admin-pass
	WORKER_ENABLED=false
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signals

SIGINT and SIGTERM cancel the root context. Each service stops in turn
and the HTTP server drains in-flight requests before the process exits.
*/
package main
