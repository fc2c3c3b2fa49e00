// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tvdb/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/tvdb.duckdb",
			MaxMemory: "512MB",
		},
		Redis: RedisConfig{
			URL:   "redis://127.0.0.1:6379/0",
			Queue: "tvdb:jobs",
		},
		Refresh: RefreshConfig{
			APIBaseURL:     "http://127.0.0.1:8000",
			Concurrency:    5,
			Retries:        2,
			TraceStream:    "tvdb:refresh:trace",
			ClaimTTL:       24 * time.Hour,
			InitialBackoff: 400 * time.Millisecond,
			RequestTimeout: 10 * time.Second,
		},
		ClaimStore: ClaimStoreConfig{
			Backend:    "redis",
			BadgerPath: "/data/claims",
		},
		Security: SecurityConfig{
			JWTSecret:     "dev-secret",
			AccessMinutes: 60,
			CORSOrigins:   []string{"*"},
			AdminUsername: "admin",
			AdminPassword: "admin-pass",
		},
		RateLimit: RateLimitConfig{
			Limit:         100,
			WindowSeconds: 60,
		},
		AI: AIConfig{
			BaseURL:  "http://127.0.0.1:11434/v1",
			Model:    "llama3.1",
			APIKey:   "ollama",
			Timeout:  30 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Worker: WorkerConfig{
			Username:    "worker",
			Password:    "worker-pass",
			PollTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, the optional YAML file and the environment, in that
// order of increasing precedence, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var commaFields = []string{"security.cors_origins"}

// splitCommaFields turns "a, b" from the environment into []string{"a","b"}.
func splitCommaFields(k *koanf.Koanf) error {
	for _, path := range commaFields {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings lists every environment variable the service reads.
// Anything not listed is ignored.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	"database_path":      "database.path",
	"duckdb_path":        "database.path",
	"duckdb_max_memory":  "database.max_memory",
	"duckdb_threads":     "database.threads",
	"redis_url":          "redis.url",
	"redis_queue":        "redis.queue",
	"claimstore_backend": "claimstore.backend",
	"badger_path":        "claimstore.badger_path",

	"api_base_url":                "refresh.api_base_url",
	"refresh_concurrency":         "refresh.concurrency",
	"refresh_retries":             "refresh.retries",
	"refresh_claim_ttl":           "refresh.claim_ttl",
	"refresh_initial_backoff":     "refresh.initial_backoff",
	"refresh_max_backoff":         "refresh.max_backoff",
	"refresh_request_timeout":     "refresh.request_timeout",
	"refresh_requests_per_second": "refresh.requests_per_second",
	"refresh_interval":            "refresh.interval",
	"refresh_trace_stream":        "refresh.trace_stream",

	"jwt_secret":                  "security.jwt_secret",
	"access_token_expire_minutes": "security.access_token_expire_minutes",
	"cors_origins":                "security.cors_origins",
	"admin_username":              "security.admin_username",
	"admin_password":              "security.admin_password",

	"rate_limit_limit":          "ratelimit.limit",
	"rate_limit_window_seconds": "ratelimit.window_seconds",
	"disable_rate_limit":        "ratelimit.disabled",

	"ollama_base_url":  "ai.base_url",
	"ollama_model":     "ai.model",
	"ollama_api_key":   "ai.api_key",
	"ollama_timeout":   "ai.timeout",
	"ollama_cache_ttl": "ai.cache_ttl",

	"worker_enabled":      "worker.enabled",
	"worker_username":     "worker.username",
	"worker_password":     "worker.password",
	"worker_poll_timeout": "worker.poll_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
