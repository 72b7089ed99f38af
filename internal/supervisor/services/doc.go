// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package services adapts server components to suture.Service.
//
// Each service blocks in Serve until its context is canceled and implements
// fmt.Stringer so supervisor events name it.
package services
