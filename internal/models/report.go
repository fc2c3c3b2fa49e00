// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package models

import "time"

// JobTypeReportDigest asks the worker to build the weekly digest report.
const JobTypeReportDigest = "report_digest"

// Report is a stored text report, usually produced by the worker.
type Report struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// ReportCreate is the body of POST /reports. CreatedBy comes from the token.
type ReportCreate struct {
	Title   string `json:"title" validate:"trimmed_required,max=160"`
	Content string `json:"content" validate:"trimmed_required"`
}

// QueueMessage is one job on the Redis work queue.
type QueueMessage struct {
	JobID       string    `json:"job_id"`
	JobType     string    `json:"job_type"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	RequestedBy string    `json:"requested_by"`
}

// SummaryRequest is the body of POST /ai/summary. A nil SeriesID summarizes the catalog.
type SummaryRequest struct {
	SeriesID *int64 `json:"series_id,omitempty" validate:"omitempty,gt=0"`
}

// SummaryResponse is the parsed model answer.
type SummaryResponse struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}
