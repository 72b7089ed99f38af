// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package analysis

import (
	"fmt"
	"time"

	"github.com/tomtom215/marketbasket/internal/basket"
)

// Config controls the analysis service.
type Config struct {
	// Defaults are the parameters used when a request does not supply its own.
	Defaults basket.Params

	// TopN is the default recommendation count; MaxTopN caps what a request may ask for.
	TopN    int
	MaxTopN int

	// MaxRows caps the rows accepted by CreateDataset and AnalyzeRows.
	MaxRows int

	// Timeout bounds a single analysis run.
	Timeout time.Duration

	// MaxConcurrent is the number of analyses allowed to run at once.
	MaxConcurrent int

	// RatePerSecond and Burst throttle analysis starts. RatePerSecond 0 disables throttling.
	RatePerSecond float64
	Burst         int

	// PopularityFallback serves most-purchased items when no rule applies.
	PopularityFallback bool

	// Result cache settings. A disabled cache always reads through to the store.
	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		Defaults:           basket.DefaultParams(),
		TopN:               basket.DefaultTopN,
		MaxTopN:            50,
		MaxRows:            2000000,
		Timeout:            2 * time.Minute,
		MaxConcurrent:      2,
		Burst:              4,
		PopularityFallback: true,
		CacheEnabled:       true,
		CacheSize:          256,
		CacheTTL:           15 * time.Minute,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("default params: %w", err)
	}
	if c.TopN < 1 || c.MaxTopN < c.TopN {
		return fmt.Errorf("top_n must be in [1, max_top_n], got %d (max %d)", c.TopN, c.MaxTopN)
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("max_rows must be positive, got %d", c.MaxRows)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second must be non-negative, got %f", c.RatePerSecond)
	}
	if c.RatePerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be positive when rate limiting is enabled, got %d", c.Burst)
	}
	return nil
}
