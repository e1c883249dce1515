// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package config provides layered configuration for Suadeo using Koanf v2.
// Precedence: environment variables > YAML config file > built-in defaults.
// No package holds ambient configuration state; the loaded Config is passed
// to each component at construction.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration object.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	ModelService ModelServiceConfig `koanf:"model_service"`
	Recommend    RecommendConfig    `koanf:"recommend"`
	Security     SecurityConfig     `koanf:"security"`
	Tracker      TrackerConfig      `koanf:"tracker"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings for the catalog and interaction log.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// ModelServiceConfig holds settings for the external CF/CBF model service.
type ModelServiceConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	// CFTopK and CBFTopK are the k query parameters sent to the model
	// service, matching its defaults of 50 and 5.
	CFTopK  int `koanf:"cf_top_k"`
	CBFTopK int `koanf:"cbf_top_k"`

	// MaxRequestsPerSecond bounds outbound call rate. 0 disables the limiter.
	MaxRequestsPerSecond float64 `koanf:"max_requests_per_second"`

	// BreakerFailureRatio opens the circuit when the failure rate over the
	// measurement window reaches this ratio (with a minimum request count).
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// RecommendConfig holds orchestration settings.
type RecommendConfig struct {
	// ColdStartThreshold is the interaction count below which a user is
	// treated as cold start.
	ColdStartThreshold int `koanf:"cold_start_threshold"`

	// SimilarFanout is the number of recent distinct items used for the
	// concurrent CBF fan-out on the warm-start path.
	SimilarFanout int `koanf:"similar_fanout"`

	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret verifies bearer tokens issued by the external identity
	// provider. Required in production.
	JWTSecret       string        `koanf:"jwt_secret"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// TrackerConfig holds settings for the fire-and-forget interaction recorder.
type TrackerConfig struct {
	// BufferSize is the in-process queue depth. Events beyond it are dropped
	// rather than blocking the request path.
	BufferSize int `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.ModelService.URL == "" {
		return fmt.Errorf("model_service.url is required")
	}
	if c.ModelService.Timeout <= 0 {
		return fmt.Errorf("model_service.timeout must be positive")
	}
	if c.Recommend.ColdStartThreshold < 1 {
		return fmt.Errorf("recommend.cold_start_threshold must be at least 1")
	}
	if c.Recommend.SimilarFanout < 1 {
		return fmt.Errorf("recommend.similar_fanout must be at least 1")
	}
	if c.Recommend.DefaultPageSize < 1 || c.Recommend.DefaultPageSize > c.Recommend.MaxPageSize {
		return fmt.Errorf("recommend.default_page_size must be in 1..max_page_size")
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	if c.Tracker.BufferSize < 1 {
		return fmt.Errorf("tracker.buffer_size must be at least 1")
	}
	return nil
}
