// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package logging provides centralized zerolog-based structured logging for Marketbasket.
//
// The package provides:
//   - A global zerolog logger configured once from main (JSON or console output)
//   - Context-aware logging that carries request and dataset IDs
//   - An slog adapter so the suture supervisor tree logs through zerolog
//
// Library packages (basket, store, analysis) take a zerolog.Logger by value
// instead of reaching for the global logger; tests pass zerolog.Nop().
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Info().Int("rules", n).Msg("Analysis completed")
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
