// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.ModelService.Timeout != 10*time.Second {
		t.Errorf("model_service.timeout = %v, want 10s", cfg.ModelService.Timeout)
	}
	if cfg.ModelService.CFTopK != 50 || cfg.ModelService.CBFTopK != 5 {
		t.Errorf("top-k = %d/%d, want 50/5", cfg.ModelService.CFTopK, cfg.ModelService.CBFTopK)
	}
	if cfg.Recommend.ColdStartThreshold != 5 {
		t.Errorf("cold_start_threshold = %d, want 5", cfg.Recommend.ColdStartThreshold)
	}
	if cfg.Recommend.DefaultPageSize != 10 || cfg.Recommend.MaxPageSize != 25 {
		t.Errorf("page sizes = %d/%d, want 10/25", cfg.Recommend.DefaultPageSize, cfg.Recommend.MaxPageSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_SERVICE_URL", "http://models.internal:8000")
	t.Setenv("RECOMMEND_COLD_START_THRESHOLD", "7")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.ModelService.URL != "http://models.internal:8000" {
		t.Errorf("model_service.url = %s", cfg.ModelService.URL)
	}
	if cfg.Recommend.ColdStartThreshold != 7 {
		t.Errorf("cold_start_threshold = %d, want 7", cfg.Recommend.ColdStartThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("SECURITY_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("cors_origins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors_origins[1] = %s, whitespace not trimmed", cfg.Security.CORSOrigins[1])
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7070\nrecommend:\n  similar_fanout: 4\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Recommend.SimilarFanout != 4 {
		t.Errorf("similar_fanout = %d, want 4 from file", cfg.Recommend.SimilarFanout)
	}
	// Untouched keys keep defaults.
	if cfg.Recommend.MaxPageSize != 25 {
		t.Errorf("max_page_size = %d, want default 25", cfg.Recommend.MaxPageSize)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("server.port = %d, environment should beat file", cfg.Server.Port)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing model url", func(c *Config) { c.ModelService.URL = "" }},
		{"zero threshold", func(c *Config) { c.Recommend.ColdStartThreshold = 0 }},
		{"default above max page size", func(c *Config) { c.Recommend.DefaultPageSize = 30 }},
		{"production without secret", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
