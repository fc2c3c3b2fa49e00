// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package websocket

import (
	"context"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

// Message types for WebSocket communication
const (
	MessageTypePing             = "ping"
	MessageTypePong             = "pong"
	MessageTypeSeriesChanged    = "series_changed"
	MessageTypeRefreshItem      = "refresh_item"
	MessageTypeRefreshCompleted = "refresh_completed"
)

// Series change actions.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionRefreshed = "refreshed"
)

// SeriesChangedData is sent with series_changed. Series is nil for deletes.
type SeriesChangedData struct {
	Action   string         `json:"action"`
	SeriesID int64          `json:"series_id"`
	Series   *models.Series `json:"series,omitempty"`
}

// RefreshItemData is sent with refresh_item.
type RefreshItemData struct {
	SeriesID string `json:"series_id"`
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
	RunID    string `json:"run_id,omitempty"`
}

// RefreshCompletedData is sent with refresh_completed.
type RefreshCompletedData struct {
	Timestamp  string           `json:"timestamp"`
	Stats      refresh.RunStats `json:"stats"`
	DurationMs int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`
}

var _ refresh.Observer = (*Hub)(nil)

// BroadcastSeriesChanged notifies clients that a series changed.
func (h *Hub) BroadcastSeriesChanged(action string, id int64, series *models.Series) {
	h.BroadcastJSON(MessageTypeSeriesChanged, SeriesChangedData{
		Action:   action,
		SeriesID: id,
		Series:   series,
	})
}

// ItemDone implements refresh.Observer.
func (h *Hub) ItemDone(ctx context.Context, res refresh.ItemResult) {
	data := RefreshItemData{
		SeriesID: res.ItemID,
		Outcome:  res.Outcome.String(),
		Attempts: res.Attempts,
		RunID:    logging.RunIDFromContext(ctx),
	}
	if res.Err != nil {
		data.Error = res.Err.Error()
	}
	h.BroadcastJSON(MessageTypeRefreshItem, data)
}

// BroadcastRefreshCompleted notifies clients that a refresh run finished.
func (h *Hub) BroadcastRefreshCompleted(stats refresh.RunStats, duration time.Duration, runErr error) {
	data := RefreshCompletedData{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Stats:      stats,
		DurationMs: duration.Milliseconds(),
	}
	if runErr != nil {
		data.Error = runErr.Error()
	}
	h.BroadcastJSON(MessageTypeRefreshCompleted, data)
}
