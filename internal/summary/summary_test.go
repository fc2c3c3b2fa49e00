// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package summary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

func rating(v float64) *float64 { return &v }

func sampleSeries() []models.Series {
	return []models.Series{
		{ID: 1, Title: "Dark", Creator: "Baran bo Odar", Year: 2017, Rating: rating(8.7)},
		{ID: 2, Title: "Lost", Creator: "J.J. Abrams", Year: 2004},
	}
}

func chatServer(t *testing.T, status int, content string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer ollama" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)

		w.WriteHeader(status)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newClient(url string) *Client {
	return New(config.AIConfig{BaseURL: url + "/v1/", Model: "llama3.1", APIKey: "ollama", Timeout: time.Second})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	srv, got := chatServer(t, http.StatusOK, "Summary: A moody mix.\nHighlights:\n- Dark is rated highest\n- Lost is unrated")
	res := newClient(srv.URL).Summarize(context.Background(), sampleSeries())

	want := models.SummaryResponse{
		Summary:    "A moody mix.",
		Highlights: []string{"Dark is rated highest", "Lost is unrated"},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("Summarize() = %+v, want %+v", res, want)
	}

	if got.Model != "llama3.1" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("request = %+v", got)
	}
	wantPrompt := "Catalog:\nDark (2017) by Baran bo Odar rating 8.7\nLost (2004) by J.J. Abrams rating n/a"
	if got.Messages[1].Content != wantPrompt {
		t.Errorf("prompt = %q, want %q", got.Messages[1].Content, wantPrompt)
	}
}

func TestSummarizeCachesAnswers(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Summary: Cached.\nHighlights:\n- one"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := New(config.AIConfig{BaseURL: srv.URL + "/v1", Model: "llama3.1", Timeout: time.Second, CacheTTL: time.Minute})
	first := c.Summarize(context.Background(), sampleSeries())
	first.Highlights[0] = "mutated"
	second := c.Summarize(context.Background(), sampleSeries())

	if calls.Load() != 1 {
		t.Errorf("model called %d times, want 1", calls.Load())
	}
	if second.Summary != "Cached." || second.Highlights[0] != "one" {
		t.Errorf("cached Summarize() = %+v", second)
	}

	c.Summarize(context.Background(), sampleSeries()[:1])
	if calls.Load() != 2 {
		t.Errorf("model called %d times after catalog change, want 2", calls.Load())
	}
}

func TestSummarizeEmptyCatalog(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("model must not be called for an empty catalog")
	}))
	t.Cleanup(srv.Close)

	res := newClient(srv.URL).Summarize(context.Background(), nil)
	if res.Summary != EmptyCatalogSummary || len(res.Highlights) != 0 || res.Highlights == nil {
		t.Errorf("Summarize() = %+v", res)
	}
}

func TestSummarizeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not json", http.StatusOK, "<html>"},
		{"no choices", http.StatusOK, `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			res := newClient(srv.URL).Summarize(context.Background(), sampleSeries())
			if res.Summary != UnavailableSummary {
				t.Errorf("Summary = %q, want %q", res.Summary, UnavailableSummary)
			}
		})
	}
}

func TestSummarizeUnreachable(t *testing.T) {
	t.Parallel()

	res := New(config.AIConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}).
		Summarize(context.Background(), sampleSeries())
	if res.Summary != UnavailableSummary {
		t.Errorf("Summary = %q", res.Summary)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want models.SummaryResponse
	}{
		{
			name: "well formed",
			text: "Summary: Great shows.\nHighlights:\n- one\n-two\n  - three  ",
			want: models.SummaryResponse{Summary: "Great shows.", Highlights: []string{"one", "two", "three"}},
		},
		{
			name: "preamble before marker",
			text: "Sure! Here you go.\nSummary: Short.\nHighlights:\n- a",
			want: models.SummaryResponse{Summary: "Short.", Highlights: []string{"a"}},
		},
		{
			name: "dashes around summary",
			text: "Summary: - A dark streak. -\nHighlights:\n- a",
			want: models.SummaryResponse{Summary: "A dark streak.", Highlights: []string{"a"}},
		},
		{
			name: "no highlights section",
			text: "Summary: Only a summary.",
			want: models.SummaryResponse{Summary: "Only a summary.", Highlights: []string{}},
		},
		{
			name: "no marker uses first line",
			text: "The catalog is small.\nMore text.",
			want: models.SummaryResponse{Summary: "The catalog is small.", Highlights: []string{}},
		},
		{
			name: "empty summary after marker",
			text: "Summary:\nHighlights:\n- x",
			want: models.SummaryResponse{Summary: "Summary:", Highlights: []string{"x"}},
		},
		{
			name: "blank",
			text: "   ",
			want: models.SummaryResponse{Summary: NoTextSummary, Highlights: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildPromptCapsSeries(t *testing.T) {
	t.Parallel()

	series := make([]models.Series, MaxSeries+50)
	for i := range series {
		series[i] = models.Series{Title: "T", Creator: "C", Year: 2000}
	}
	prompt := BuildPrompt(series)
	if lines := strings.Count(prompt, "\n"); lines != MaxSeries {
		t.Errorf("prompt has %d series lines, want %d", lines, MaxSeries)
	}
}
