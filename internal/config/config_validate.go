// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	if err := c.validateClaimStore(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateRateLimit()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

func (c *Config) validateRefresh() error {
	r := c.Refresh
	if err := validateHTTPURL(r.APIBaseURL, "API_BASE_URL"); err != nil {
		return err
	}
	if r.Concurrency < 1 {
		return fmt.Errorf("REFRESH_CONCURRENCY must be at least 1, got %d", r.Concurrency)
	}
	if r.Retries < 0 {
		return fmt.Errorf("REFRESH_RETRIES must not be negative, got %d", r.Retries)
	}
	if r.TraceStream == "" {
		return fmt.Errorf("REFRESH_TRACE_STREAM must not be empty")
	}
	if r.ClaimTTL <= 0 {
		return fmt.Errorf("REFRESH_CLAIM_TTL must be positive")
	}
	if r.InitialBackoff < 0 || r.MaxBackoff < 0 || r.Interval < 0 {
		return fmt.Errorf("refresh durations must not be negative")
	}
	if r.RequestsPerSecond < 0 {
		return fmt.Errorf("REFRESH_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateClaimStore() error {
	switch strings.ToLower(c.ClaimStore.Backend) {
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when CLAIMSTORE_BACKEND=redis")
		}
	case "badger":
		if c.ClaimStore.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when CLAIMSTORE_BACKEND=badger")
		}
	case "memory":
	default:
		return fmt.Errorf("CLAIMSTORE_BACKEND must be one of redis, badger, memory; got %q", c.ClaimStore.Backend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Security.AccessMinutes < 1 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be at least 1")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.Disabled {
		return nil
	}
	if c.RateLimit.Limit < 1 || c.RateLimit.WindowSeconds < 1 {
		return fmt.Errorf("RATE_LIMIT_LIMIT and RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	return nil
}

// UsesDefaultSecret reports whether JWT_SECRET was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.Security.JWTSecret == defaultConfig().Security.JWTSecret
}

func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
