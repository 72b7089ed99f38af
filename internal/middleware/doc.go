// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package middleware provides the HTTP middleware shared by the API router.

Every component has the chi signature func(http.Handler) http.Handler:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: records request counts, latencies and in-flight
    requests, labelled by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip
  - PerformanceMonitor: rolling per-endpoint latency percentiles

Endpoint labels use the matched route pattern (for example
/api/v1/datasets/{id}) so dataset IDs never reach metric label values.

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(middleware.Compression)
*/
package middleware
