// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package catalogclient is the HTTP refresh target: it lists series from the
catalog API and triggers the per-series refresh endpoint.

Requests:
  - GET  {base}/series?offset=N&limit=1000   list, paged until a short page
  - POST {base}/series/{id}/refresh          any non-2xx is a failure

The report worker uses the same client for POST /auth/login and
POST /reports (see api.go).

Listing and the worker calls go through a sony/gobreaker circuit breaker.
4xx responses do not count against it since they say nothing about server
health. RefreshItem bypasses the breaker: every claimed item gets its
full set of attempts, so a run of failing series cannot turn healthy ones
into failures without a call.
An optional x/time/rate limiter spaces calls out when
refresh.requests_per_second is set.
*/
package catalogclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/breaker"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/refresh"
)

const (
	// DefaultTimeout applies per request when the config leaves it unset.
	DefaultTimeout = 10 * time.Second

	// pageSize matches the catalog API's maximum limit.
	pageSize = 1000

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 32 << 20

	breakerName = "catalog-api"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client implements refresh.Target against the catalog HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	token   string
}

var _ refresh.Target = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearerToken sends Authorization: Bearer <token> on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for cfg.APIBaseURL.
func New(cfg config.RefreshConfig, opts ...Option) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb:      breaker.New[[]byte](breakerName, countsAgainstServer),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListItems fetches every series id. Entries without an id are dropped.
func (c *Client) ListItems(ctx context.Context) ([]refresh.Item, error) {
	entries, err := listAll(ctx, c, c.token, seriesEntry.id)
	if err != nil {
		return nil, err
	}
	items := make([]refresh.Item, len(entries))
	for i, e := range entries {
		items[i] = refresh.Item{ID: e.id()}
	}
	return items, nil
}

// listAll pages through GET /series, decoding entries as T and keeping the
// first entry seen for each key.
func listAll[T any](ctx context.Context, c *Client, token string, key func(T) string) ([]T, error) {
	var out []T
	seen := make(map[string]struct{})

	for offset := 0; ; offset += pageSize {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(pageSize))

		body, err := c.do(ctx, http.MethodGet, "/series?"+q.Encode(), nil, token)
		if err != nil {
			return nil, err
		}
		page, err := decodeList[T](body)
		if err != nil {
			return nil, fmt.Errorf("decode series list: %w", err)
		}

		added := 0
		for _, e := range page {
			id := key(e)
			if id == "" {
				logging.Warn().Str("component", "catalogclient").Msg("series entry without id dropped")
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, e)
			added++
		}

		// A server that ignores paging returns the same page again.
		if len(page) < pageSize || added == 0 {
			return out, nil
		}
	}
}

// RefreshItem posts to the refresh endpoint of one series.
func (c *Client) RefreshItem(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodPost, "/series/"+url.PathEscape(id)+"/refresh", nil, c.token)
	return err
}

// do is send guarded by the circuit breaker.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, token string) ([]byte, error) {
	return breaker.Execute(c.cb, func() ([]byte, error) {
		return c.send(ctx, method, path, payload, token)
	})
}

// send performs one request through the limiter and returns the body of a
// 2xx response. A non-nil payload is sent as JSON.
func (c *Client) send(ctx context.Context, method, path string, payload interface{}, token string) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		if reqBody, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	return c.roundTrip(ctx, method, c.baseURL+path, reqBody, token)
}

func (c *Client) roundTrip(ctx context.Context, method, reqURL string, reqBody []byte, token string) ([]byte, error) {
	var bodyReader io.Reader = http.NoBody
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(bytes.TrimSpace(body)), 200),
		}
	}
	return body, nil
}

type seriesEntry struct {
	ID json.RawMessage `json:"id"`
}

func (e seriesEntry) id() string {
	raw := strings.TrimSpace(string(e.ID))
	if raw == "" || raw == "null" {
		return ""
	}
	return strings.Trim(raw, `"`)
}

// decodeList accepts a bare array or an {"data": [...]} envelope.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	var entries []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// decodeObject decodes an object that may be wrapped in the
// {"status": ..., "data": {...}} envelope.
func decodeObject(body []byte, out interface{}) error {
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if envelope.Status != "" && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(body, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// countsAgainstServer keeps 4xx responses from tripping the breaker.
func countsAgainstServer(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode < 500
	}
	return err == nil
}
