// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/marketbasket/internal/basket"
)

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}

func TestAnalysisConfig_DefaultParams(t *testing.T) {
	t.Parallel()

	a := defaultConfig().Analysis
	a.MaxItemsetSize = 4

	p := a.DefaultParams()
	want := basket.Params{
		MinSupport:            basket.DefaultMinSupport,
		MinConfidence:         basket.DefaultMinConfidence,
		MinLift:               basket.DefaultMinLift,
		MaxItemsetSize:        4,
		MaxCandidatesPerLevel: a.MaxCandidatesPerLevel,
	}
	if p != want {
		t.Errorf("DefaultParams() = %+v, want %+v", p, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "in memory without path",
			mutate: func(c *Config) { c.Storage.InMemory = true; c.Storage.Path = "" },
		},
		{
			name:   "cache disabled ignores size",
			mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.Size = 0 },
		},
		{
			name:   "rate limit disabled ignores window",
			mutate: func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitWindow = 0 },
		},
		{
			name:    "zero server timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "server.timeout",
		},
		{
			name:    "tiny body limit",
			mutate:  func(c *Config) { c.Server.MaxBodyBytes = 10 },
			wantErr: "server.max_body_bytes",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "qa" },
			wantErr: "server.environment",
		},
		{
			name:    "zero top n",
			mutate:  func(c *Config) { c.Analysis.TopN = 0 },
			wantErr: "analysis.top_n",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Analysis.MaxConcurrent = 0 },
			wantErr: "analysis.max_concurrent",
		},
		{
			name:    "rate without burst",
			mutate:  func(c *Config) { c.Analysis.RatePerSecond = 2; c.Analysis.Burst = 0 },
			wantErr: "analysis.burst",
		},
		{
			name:    "gc ratio out of range",
			mutate:  func(c *Config) { c.Storage.GCRatio = 1 },
			wantErr: "storage.gc_ratio",
		},
		{
			name:    "short gc interval",
			mutate:  func(c *Config) { c.Storage.GCInterval = time.Millisecond },
			wantErr: "storage.gc_interval",
		},
		{
			name:    "enabled cache without ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "cache.ttl",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AnalysisParamsWrapSentinel(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Analysis.MinConfidence = 2
	if err := cfg.Validate(); !errors.Is(err, basket.ErrInvalidParams) {
		t.Errorf("Validate() error = %v, want ErrInvalidParams", err)
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "debug", "info", "warn", "error", "INFO"} {
		cfg := defaultConfig()
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with level %q error = %v", level, err)
		}
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
	cfg.Server.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for production environment")
	}
}
