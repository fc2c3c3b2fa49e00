// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package catalogclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		status  int
		want    string
		wantErr bool
	}{
		{"bare token", `{"access_token":"abc","token_type":"bearer","expires_in":3600}`, http.StatusOK, "abc", false},
		{"envelope", `{"status":"success","data":{"access_token":"xyz","token_type":"bearer"}}`, http.StatusOK, "xyz", false},
		{"missing token", `{"token_type":"bearer"}`, http.StatusOK, "", true},
		{"bad credentials", `{"status":"error"}`, http.StatusUnauthorized, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got models.LoginRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}
				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := New(config.RefreshConfig{APIBaseURL: srv.URL})
			token, err := c.Login(context.Background(), "worker", "worker-pass")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if token != tt.want {
				t.Errorf("Login() = %q, want %q", token, tt.want)
			}
			if got.Username != "worker" || got.Password != "worker-pass" {
				t.Errorf("request body = %+v", got)
			}
			if tt.status == http.StatusUnauthorized && !IsUnauthorized(err) {
				t.Errorf("IsUnauthorized(%v) = false", err)
			}
		})
	}
}

func TestListSeriesDecodesFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"status":"success","data":[
			{"id":1,"title":"Dark","creator":"Baran bo Odar","year":2017,"rating":8.7},
			{"id":2,"title":"Lost","creator":"J.J. Abrams","year":2004,"rating":null},
			{"title":"no id","creator":"x","year":2000}
		]}`))
	}))
	t.Cleanup(srv.Close)

	series, err := New(config.RefreshConfig{APIBaseURL: srv.URL}).ListSeries(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListSeries() error = %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("ListSeries() returned %d series, want 2", len(series))
	}
	if series[0].Title != "Dark" || series[0].Rating == nil || *series[0].Rating != 8.7 {
		t.Errorf("first series = %+v", series[0])
	}
	if series[1].Rating != nil {
		t.Errorf("second series rating = %v, want nil", *series[1].Rating)
	}
}

func TestCreateReport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reports" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var in models.ReportCreate
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.APIResponse{
			Status: "success",
			Data:   models.Report{ID: 7, Title: in.Title, Content: in.Content, CreatedBy: "worker"},
		})
	}))
	t.Cleanup(srv.Close)

	c := New(config.RefreshConfig{APIBaseURL: srv.URL})
	report, err := c.CreateReport(context.Background(), "tok", models.ReportCreate{Title: "Weekly TV Digest", Content: "x"})
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	if report.ID != 7 || report.Title != "Weekly TV Digest" || report.CreatedBy != "worker" {
		t.Errorf("report = %+v", report)
	}

	_, err = c.CreateReport(context.Background(), "stale", models.ReportCreate{Title: "t", Content: "c"})
	if !IsUnauthorized(err) {
		t.Errorf("CreateReport() with stale token error = %v, want 401", err)
	}
}

func TestIsUnauthorized(t *testing.T) {
	t.Parallel()

	if IsUnauthorized(errors.New("plain")) {
		t.Error("plain error reported as 401")
	}
	if IsUnauthorized(&StatusError{StatusCode: http.StatusForbidden}) {
		t.Error("403 reported as 401")
	}
	if !IsUnauthorized(&StatusError{StatusCode: http.StatusUnauthorized}) {
		t.Error("401 not detected")
	}
}
