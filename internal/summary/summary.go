// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package summary asks an OpenAI-compatible chat completion endpoint (for
// example a local Ollama) to summarize the catalog.
//
// The model is told to answer in a fixed plain-text layout:
//
//	Summary: <one short paragraph>
//	Highlights:
//	- <bullet>
//	- <bullet>
//
// Parse is lenient: without a "Summary:" marker the first line of the
// answer becomes the summary. Any transport or decoding failure yields
// the fixed UnavailableSummary instead of an error, so the endpoint
// always answers.
package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/breaker"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/cache"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

// Fixed answers.
const (
	EmptyCatalogSummary = "No series yet. Add a few entries to generate insights."
	UnavailableSummary  = "AI summary unavailable (model response was invalid)."
	NoTextSummary       = "Summary unavailable."
)

// MaxSeries caps how many catalog lines go into one prompt.
const MaxSeries = 200

const (
	defaultTimeout = 30 * time.Second
	cacheEntries   = 64
	maxBodyBytes   = 4 << 20
	breakerName    = "ai-summary"

	systemPrompt = "You summarize a TV series catalog for a casual viewer. " +
		"Return plain text in this exact format:\n" +
		"Summary: <one short paragraph>\n" +
		"Highlights:\n" +
		"- <bullet>\n" +
		"- <bullet>\n" +
		"- <bullet>"
)

// Client talks to {base}/chat/completions.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]

	// answers is nil when caching is disabled.
	answers *cache.LRU[models.SummaryResponse]
}

// New builds a client from the AI configuration.
func New(cfg config.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		cb:      breaker.New[string](breakerName, nil),
	}
	if cfg.CacheTTL > 0 {
		c.answers = cache.NewLRU[models.SummaryResponse](cacheEntries, cfg.CacheTTL)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize returns a summary of series. It never fails: an empty catalog
// and an unusable model answer both map to fixed summaries.
func (c *Client) Summarize(ctx context.Context, series []models.Series) models.SummaryResponse {
	if len(series) == 0 {
		metrics.SummaryRequestsTotal.WithLabelValues("empty").Inc()
		return models.SummaryResponse{Summary: EmptyCatalogSummary, Highlights: []string{}}
	}

	prompt := BuildPrompt(series)
	key := cache.Key(c.model, prompt)
	if c.answers != nil {
		if res, ok := c.answers.Get(key); ok {
			metrics.SummaryRequestsTotal.WithLabelValues("cached").Inc()
			res.Highlights = slices.Clone(res.Highlights)
			return res
		}
	}

	text, err := breaker.Execute(c.cb, func() (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues("unavailable").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("component", "summary").Msg("AI summary failed")
		return models.SummaryResponse{Summary: UnavailableSummary, Highlights: []string{}}
	}

	metrics.SummaryRequestsTotal.WithLabelValues("ok").Inc()
	res := Parse(text)
	if c.answers != nil {
		stored := res
		stored.Highlights = slices.Clone(res.Highlights)
		c.answers.Add(key, stored)
	}
	return res
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion: unexpected status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion: no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// BuildPrompt lists at most MaxSeries series, one per line.
func BuildPrompt(series []models.Series) string {
	if len(series) > MaxSeries {
		series = series[:MaxSeries]
	}
	var b strings.Builder
	b.WriteString("Catalog:")
	for i := range series {
		b.WriteByte('\n')
		b.WriteString(series[i].CatalogLine())
	}
	return b.String()
}

// Parse extracts the summary paragraph and the "- " highlight bullets.
func Parse(text string) models.SummaryResponse {
	text = strings.TrimSpace(text)
	res := models.SummaryResponse{Highlights: []string{}}

	if _, after, ok := strings.Cut(text, "Summary:"); ok {
		summary, highlights, _ := strings.Cut(after, "Highlights:")
		res.Summary = strings.TrimSpace(strings.Trim(strings.TrimSpace(summary), "-"))
		for _, line := range strings.Split(highlights, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") {
				res.Highlights = append(res.Highlights, strings.TrimSpace(strings.TrimLeft(line, "-")))
			}
		}
	}

	if res.Summary == "" {
		if text == "" {
			res.Summary = NoTextSummary
		} else {
			first, _, _ := strings.Cut(text, "\n")
			res.Summary = strings.TrimSpace(first)
		}
	}
	return res
}
