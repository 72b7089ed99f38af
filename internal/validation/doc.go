// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator checks decoded API request bodies before they
// reach the analysis service. Field names in errors follow the json tags of the
// request, so a bad row is reported as "rows[3].item_name" rather than a Go
// field path.
//
// Custom tags:
//   - notblank: string must be non-empty after trimming whitespace
//
// # Usage
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
