// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"errors"
	"fmt"
)

// Sentinel errors for the analysis pipeline.
var (
	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParams indicates an out-of-range threshold or limit.
	ErrInvalidParams = errors.New("invalid analysis parameters")
)

// InvalidInputError reports malformed transaction rows. Row is the zero-based
// index of the offending row, or -1 when the problem is not row-specific.
type InvalidInputError struct {
	Row    int
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: row %d: %s %s", e.Row, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
