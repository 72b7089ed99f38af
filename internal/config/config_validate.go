// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.MaxBodyBytes < 1024 {
		return fmt.Errorf("server.max_body_bytes must be at least 1024, got %d", c.Server.MaxBodyBytes)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if err := a.DefaultParams().Validate(); err != nil {
		return fmt.Errorf("analysis defaults: %w", err)
	}
	if a.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be positive, got %d", a.TopN)
	}
	if a.MaxTopN < a.TopN {
		return fmt.Errorf("analysis.max_top_n must be >= analysis.top_n, got %d < %d", a.MaxTopN, a.TopN)
	}
	if a.MaxRows < 1 {
		return fmt.Errorf("analysis.max_rows must be positive, got %d", a.MaxRows)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("analysis.timeout must be positive, got %v", a.Timeout)
	}
	if a.MaxConcurrent < 1 {
		return fmt.Errorf("analysis.max_concurrent must be positive, got %d", a.MaxConcurrent)
	}
	if a.RatePerSecond < 0 {
		return fmt.Errorf("analysis.rate_per_second must be non-negative, got %f", a.RatePerSecond)
	}
	if a.RatePerSecond > 0 && a.Burst < 1 {
		return fmt.Errorf("analysis.burst must be positive when rate limiting is enabled, got %d", a.Burst)
	}
	return nil
}

func (c *Config) validateStorage() error {
	s := c.Storage
	if !s.InMemory && strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("storage.path is required unless storage.in_memory is enabled")
	}
	if s.DatasetTTL < 0 {
		return fmt.Errorf("storage.dataset_ttl must be non-negative, got %v", s.DatasetTTL)
	}
	if s.GCInterval < time.Second {
		return fmt.Errorf("storage.gc_interval must be at least 1s, got %v", s.GCInterval)
	}
	if s.GCRatio <= 0 || s.GCRatio >= 1 {
		return fmt.Errorf("storage.gc_ratio must be in (0, 1), got %f", s.GCRatio)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security.cors_origins must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
