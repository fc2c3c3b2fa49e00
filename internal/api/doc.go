// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package api serves the TV-DB HTTP API with the chi router.

Every route is mounted twice: at the root, where the first clients of
the service found it, and under /api/v1. Responses use the
models.APIResponse envelope:

	{"status":"success","data":...,"metadata":{"timestamp":...}}
	{"status":"error","error":{"code":"NOT_FOUND","message":"Series not found"},...}

# Access

	public        GET /health, GET /metrics, /series..., /auth/login,
	              /auth/register, GET /ws
	admin,worker  POST /reports
	admin         GET /reports, POST /reports/queue, /admin/...
	admin,viewer  POST /ai/summary

Protected routes run auth.Authenticate then authz.Authorize, which
checks the token's role against the Casbin policy.

# Middleware

Global: request id, real IP, panic recovery, CORS, Prometheus metrics,
response compression. The /api/v1 group is additionally rate limited
per client IP with httprate.
*/
package api
