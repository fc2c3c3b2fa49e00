// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/authz"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/claimstore"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

// envelope is the decoded APIResponse with raw data.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type seriesEvent struct {
	action string
	id     int64
}

// fakeHub records broadcasts.
type fakeHub struct {
	mu        sync.Mutex
	series    []seriesEvent
	completed []refresh.RunStats
}

func (f *fakeHub) BroadcastSeriesChanged(action string, id int64, _ *models.Series) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series = append(f.series, seriesEvent{action, id})
}

func (f *fakeHub) BroadcastRefreshCompleted(stats refresh.RunStats, _ time.Duration, _ error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, stats)
}

func (f *fakeHub) seriesEvents() []seriesEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]seriesEvent(nil), f.series...)
}

type fakeSummarizer struct {
	mu   sync.Mutex
	got  []models.Series
	resp models.SummaryResponse
}

func (f *fakeSummarizer) Summarize(_ context.Context, series []models.Series) models.SummaryResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = series
	return f.resp
}

type fakeRefresher struct {
	stats refresh.RunStats
	err   error
}

func (f *fakeRefresher) Run(context.Context) (refresh.RunStats, error) {
	return f.stats, f.err
}

type testEnv struct {
	t       *testing.T
	db      *database.DB
	jwt     *auth.JWTManager
	hub     *fakeHub
	mr      *miniredis.Miniredis
	queue   *queue.Queue
	trace   *claimstore.Memory
	ai      *fakeSummarizer
	refresh *fakeRefresher
	handler http.Handler
}

func newTestEnv(t *testing.T, mwCfg *ChiMiddlewareConfig) *testEnv {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "test-secret", AccessMinutes: 60})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		t:       t,
		db:      db,
		jwt:     jwtManager,
		hub:     &fakeHub{},
		mr:      mr,
		queue:   queue.New(rdb, queue.DefaultName),
		trace:   claimstore.NewMemory(nil),
		ai:      &fakeSummarizer{resp: models.SummaryResponse{Summary: "fine", Highlights: []string{}}},
		refresh: &fakeRefresher{},
	}

	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	h := NewHandler(Deps{
		Store:      db,
		JWT:        jwtManager,
		Hub:        env.hub,
		Queue:      env.queue,
		Summarizer: env.ai,
		Refresher:  env.refresh,
		Trace:      env.trace,
		RedisPing:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	env.handler = NewRouter(h, NewChiMiddleware(mwCfg), enforcer).Setup()
	return env
}

// token issues a token for a role; the username equals the role.
func (e *testEnv) token(role string) string {
	e.t.Helper()
	tok, err := e.jwt.GenerateToken(role, role)
	if err != nil {
		e.t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
	if message != "" && env.Error.Message != message {
		t.Errorf("error message = %q, want %q", env.Error.Message, message)
	}
}

func rating(v float64) *float64 { return &v }
