// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package authz decides which account roles may call which API routes,
// using Casbin with an embedded RBAC model and policy.
//
// # Architecture
//
//	Request -> auth.Authenticate -> authz.Authorize -> Handler
//	               |                     |
//	          token -> Claims      Enforce(role, path, action)
//
// # RBAC Model
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// The subject is the role from the token. The object is the request path
// with the /api/v1 prefix removed, so both mounts share one policy.
//
// # Policy
//
//	p, admin,  /reports,       write
//	p, worker, /reports,       write
//	p, admin,  /reports,       read
//	p, admin,  /reports/queue, write
//	p, admin,  /admin/*,       read
//	p, admin,  /admin/*,       write
//	p, admin,  /ai/summary,    write
//	p, viewer, /ai/summary,    write
//
// A deployment may replace the policy with a CSV file (EnforcerConfig.PolicyPath).
package authz
