// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package api exposes the analysis service over HTTP.

Routing uses chi with production middleware from the chi ecosystem:

  - go-chi/cors for CORS (global, so OPTIONS preflight works on every route)
  - go-chi/httprate for per-IP rate limiting
  - chi's RealIP and Recoverer
  - internal/middleware for request IDs, Prometheus metrics, gzip and
    latency percentiles

Endpoints:

	GET    /api/v1/health                           liveness and store status
	GET    /api/v1/health/live                      process liveness
	GET    /api/v1/health/ready                     store readiness (503 when unusable)
	GET    /api/v1/stats                            service counters and endpoint latencies
	POST   /api/v1/analyze                          one-shot analysis of posted rows
	POST   /api/v1/datasets                         upload rows, returns 201 and a summary
	GET    /api/v1/datasets                         list stored datasets
	GET    /api/v1/datasets/{datasetID}             dataset summary
	DELETE /api/v1/datasets/{datasetID}             remove a dataset and its analysis
	POST   /api/v1/datasets/{datasetID}/analysis    run and store an analysis
	GET    /api/v1/datasets/{datasetID}/analysis    current stored analysis
	POST   /api/v1/datasets/{datasetID}/recommendations
	GET    /metrics                                 Prometheus exposition

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}
*/
package api
