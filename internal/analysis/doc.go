// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package analysis is the application service that sits between the HTTP API
// and the basket algorithms.
//
// A Service owns the dataset store, an in-process LRU of analysis results and
// the admission limits for analysis runs:
//
//   - CreateDataset validates rows and persists them under a new UUID
//   - Analyze runs Apriori and rule generation for a stored dataset and makes
//     the result the dataset's current analysis
//   - AnalyzeRows runs a one-shot analysis without persisting anything
//   - Recommend answers basket queries from the current analysis, falling back
//     to the most purchased items when no rule applies
//
// Analyses are bounded by a per-run timeout, a fixed number of concurrent
// slots and an optional token bucket (golang.org/x/time/rate). A refused run
// returns ErrBusy or ErrRateLimited without waiting.
package analysis
