// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
)

func TestMiddlewareConfigFrom(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		rl          config.RateLimitConfig
		credentials bool
		limit       int
		window      time.Duration
	}{
		{"wildcard", []string{"*"}, config.RateLimitConfig{}, false, 100, time.Minute},
		{"explicit origin", []string{"http://localhost:5173"}, config.RateLimitConfig{Limit: 10, WindowSeconds: 30}, true, 10, 30 * time.Second},
		{"disabled", nil, config.RateLimitConfig{Disabled: true}, true, 100, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MiddlewareConfigFrom(config.SecurityConfig{CORSOrigins: tt.origins}, tt.rl)
			if c.CORSAllowCredentials != tt.credentials {
				t.Errorf("credentials = %v, want %v", c.CORSAllowCredentials, tt.credentials)
			}
			if c.RateLimitRequests != tt.limit || c.RateLimitWindow != tt.window {
				t.Errorf("rate limit = %d per %v, want %d per %v", c.RateLimitRequests, c.RateLimitWindow, tt.limit, tt.window)
			}
			if c.RateLimitDisabled != tt.rl.Disabled {
				t.Errorf("disabled = %v", c.RateLimitDisabled)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	mw := NewChiMiddleware(MiddlewareConfigFrom(config.SecurityConfig{CORSOrigins: []string{"http://localhost:5173"}}, config.RateLimitConfig{}))
	h := mw.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/series", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/series", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin was allowed: %q", got)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	h := NewChiMiddleware(cfg).RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
}
