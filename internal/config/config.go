// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package config loads TV-DB configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file, then environment variables. The environment names match the ones
// the service has always used (API_BASE_URL, REDIS_URL, JWT_SECRET, ...).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Refresh    RefreshConfig    `koanf:"refresh"`
	ClaimStore ClaimStoreConfig `koanf:"claimstore"`
	Security   SecurityConfig   `koanf:"security"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	AI         AIConfig         `koanf:"ai"`
	Worker     WorkerConfig     `koanf:"worker"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds the DuckDB catalog store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// RedisConfig holds the shared Redis connection and the job queue name.
type RedisConfig struct {
	URL   string `koanf:"url"`
	Queue string `koanf:"queue"`
}

// RefreshConfig drives the batch refresh orchestrator.
type RefreshConfig struct {
	// APIBaseURL is the catalog API the refresh run lists and refreshes.
	APIBaseURL string `koanf:"api_base_url"`

	// Concurrency bounds in-flight refresh calls.
	Concurrency int `koanf:"concurrency"`

	// Retries is the number of extra attempts after the first failure.
	Retries int `koanf:"retries"`

	TraceStream    string        `koanf:"trace_stream"`
	ClaimTTL       time.Duration `koanf:"claim_ttl"`
	InitialBackoff time.Duration `koanf:"initial_backoff"`
	MaxBackoff     time.Duration `koanf:"max_backoff"`
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RequestsPerSecond throttles calls to the catalog API; 0 disables it.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Interval schedules runs inside the server; 0 disables scheduling.
	Interval time.Duration `koanf:"interval"`
}

// ClaimStoreConfig selects the backend for claim keys and trace events.
type ClaimStoreConfig struct {
	Backend    string `koanf:"backend"` // redis, badger, memory
	BadgerPath string `koanf:"badger_path"`
}

// SecurityConfig holds token and CORS settings.
type SecurityConfig struct {
	JWTSecret     string   `koanf:"jwt_secret"`
	AccessMinutes int      `koanf:"access_token_expire_minutes"`
	CORSOrigins   []string `koanf:"cors_origins"`
	AdminUsername string   `koanf:"admin_username"`
	AdminPassword string   `koanf:"admin_password"`
}

// RateLimitConfig limits API requests per client IP.
type RateLimitConfig struct {
	Limit         int  `koanf:"limit"`
	WindowSeconds int  `koanf:"window_seconds"`
	Disabled      bool `koanf:"disabled"`
}

// AIConfig points at an OpenAI-compatible chat completion endpoint.
type AIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// CacheTTL keeps parsed answers per prompt. Zero disables the cache.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// WorkerConfig holds the report worker's credentials.
type WorkerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	PollTimeout time.Duration `koanf:"poll_timeout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AccessTokenTTL is the lifetime of issued JWTs.
func (s SecurityConfig) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessMinutes) * time.Minute
}

// RateWindow returns the rate limit window as a duration.
func (r RateLimitConfig) RateWindow() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}
