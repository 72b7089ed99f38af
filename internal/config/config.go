// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/marketbasket/internal/basket"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Storage  StorageConfig  `koanf:"storage"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// AnalysisConfig holds default thresholds and resource limits for analysis runs.
type AnalysisConfig struct {
	MinSupport    float64 `koanf:"min_support"`
	MinConfidence float64 `koanf:"min_confidence"`
	MinLift       float64 `koanf:"min_lift"`
	TopN          int     `koanf:"top_n"`
	MaxTopN       int     `koanf:"max_top_n"`

	// MaxItemsetSize and MaxCandidatesPerLevel bound every run; 0 disables a bound.
	MaxItemsetSize        int `koanf:"max_itemset_size"`
	MaxCandidatesPerLevel int `koanf:"max_candidates_per_level"`

	// MaxRows caps the rows accepted in a single upload or one-shot analysis.
	MaxRows int `koanf:"max_rows"`

	// Timeout bounds a single analysis run.
	Timeout time.Duration `koanf:"timeout"`

	// MaxConcurrent is the number of analyses allowed to run at once.
	MaxConcurrent int `koanf:"max_concurrent"`

	// RatePerSecond and Burst throttle how often analyses may start. 0 disables throttling.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// PopularityFallback serves most-purchased items when no rule applies.
	PopularityFallback bool `koanf:"popularity_fallback"`
}

// DefaultParams converts the configured thresholds into analysis parameters.
func (a AnalysisConfig) DefaultParams() basket.Params {
	return basket.Params{
		MinSupport:            a.MinSupport,
		MinConfidence:         a.MinConfidence,
		MinLift:               a.MinLift,
		MaxItemsetSize:        a.MaxItemsetSize,
		MaxCandidatesPerLevel: a.MaxCandidatesPerLevel,
	}
}

// StorageConfig holds dataset persistence settings
type StorageConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	DatasetTTL time.Duration `koanf:"dataset_ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// CacheConfig holds analysis result cache settings
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size"`
	TTL     time.Duration `koanf:"ttl"`
}

// SecurityConfig holds request throttling and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
