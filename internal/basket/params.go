// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"fmt"
	"math"
)

// Default analysis thresholds.
const (
	DefaultMinSupport    = 0.01
	DefaultMinConfidence = 0.2
	DefaultMinLift       = 1.0
	DefaultTopN          = 5
)

// Params configures one analysis run.
type Params struct {
	MinSupport    float64 `json:"min_support" koanf:"min_support" validate:"gte=0,lte=1"`
	MinConfidence float64 `json:"min_confidence" koanf:"min_confidence" validate:"gte=0,lte=1"`
	MinLift       float64 `json:"min_lift" koanf:"min_lift" validate:"gte=0"`

	// MaxItemsetSize and MaxCandidatesPerLevel bound the search; 0 disables a bound.
	MaxItemsetSize        int `json:"max_itemset_size,omitempty" koanf:"max_itemset_size" validate:"gte=0"`
	MaxCandidatesPerLevel int `json:"max_candidates_per_level,omitempty" koanf:"max_candidates_per_level" validate:"gte=0"`
}

// DefaultParams returns the standard thresholds with no search bounds.
func DefaultParams() Params {
	return Params{
		MinSupport:    DefaultMinSupport,
		MinConfidence: DefaultMinConfidence,
		MinLift:       DefaultMinLift,
	}
}

// Validate checks that every threshold is in range.
func (p Params) Validate() error {
	if math.IsNaN(p.MinSupport) || p.MinSupport < 0 || p.MinSupport > 1 {
		return fmt.Errorf("%w: min_support must be in [0, 1], got %f", ErrInvalidParams, p.MinSupport)
	}
	if math.IsNaN(p.MinConfidence) || p.MinConfidence < 0 || p.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be in [0, 1], got %f", ErrInvalidParams, p.MinConfidence)
	}
	if math.IsNaN(p.MinLift) || p.MinLift < 0 {
		return fmt.Errorf("%w: min_lift must be non-negative, got %f", ErrInvalidParams, p.MinLift)
	}
	if p.MaxItemsetSize < 0 {
		return fmt.Errorf("%w: max_itemset_size must be non-negative, got %d", ErrInvalidParams, p.MaxItemsetSize)
	}
	if p.MaxCandidatesPerLevel < 0 {
		return fmt.Errorf("%w: max_candidates_per_level must be non-negative, got %d", ErrInvalidParams, p.MaxCandidatesPerLevel)
	}
	return nil
}

func (p Params) minerOptions() MinerOptions {
	return MinerOptions{
		MinSupport:            p.MinSupport,
		MaxItemsetSize:        p.MaxItemsetSize,
		MaxCandidatesPerLevel: p.MaxCandidatesPerLevel,
	}
}

func (p Params) ruleOptions() RuleOptions {
	return RuleOptions{MinConfidence: p.MinConfidence, MinLift: p.MinLift}
}
