// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package analysis

import (
	"errors"

	"github.com/tomtom215/marketbasket/internal/store"
)

var (
	// ErrDatasetNotFound is returned when a dataset does not exist or has expired.
	ErrDatasetNotFound = store.ErrNotFound

	// ErrNotAnalyzed is returned by CurrentAnalysis and Recommend for a dataset
	// that has no stored analysis yet.
	ErrNotAnalyzed = errors.New("dataset has not been analyzed")

	// ErrTooManyRows is returned when an upload exceeds the configured row limit.
	ErrTooManyRows = errors.New("too many rows")

	// ErrBusy is returned when every analysis slot is taken.
	ErrBusy = errors.New("analysis capacity exhausted")

	// ErrRateLimited is returned when analyses are started faster than allowed.
	ErrRateLimited = errors.New("analysis rate limit exceeded")
)
