// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package models

import "time"

// APIResponse is the envelope every JSON endpoint returns.
//
// Success:
//
//	{"status":"success","data":[{"id":1,"title":"Dark",...}],"metadata":{"timestamp":"..."}}
//
// Failure:
//
//	{"status":"error","error":{"code":"NOT_FOUND","message":"Series not found"},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes in use: VALIDATION_ERROR, NOT_FOUND, CONFLICT, AUTHENTICATION_ERROR,
// AUTHORIZATION_ERROR, DATABASE_ERROR, QUEUE_ERROR, REFRESH_ERROR,
// RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AdminMetrics are the catalog counts shown on the admin dashboard.
type AdminMetrics struct {
	Series  int64 `json:"series"`
	Reports int64 `json:"reports"`
	Users   int64 `json:"users"`
}

// HealthStatus is returned by /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Redis    *bool  `json:"redis,omitempty"`
}
