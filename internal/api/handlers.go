// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/middleware"
)

// Version is reported by the health endpoint. It is overridden at build time.
var Version = "dev"

// Handler serves the analysis endpoints.
type Handler struct {
	svc       *analysis.Service
	perf      *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a handler over svc. perf may be nil.
func NewHandler(svc *analysis.Service, perf *middleware.PerformanceMonitor) *Handler {
	return &Handler{
		svc:       svc,
		perf:      perf,
		startTime: time.Now(),
	}
}

// datasetRequest returns the dataset ID URL parameter and a request whose
// context carries it for logging.
func datasetRequest(r *http.Request) (string, *http.Request) {
	id := chi.URLParam(r, "datasetID")
	return id, r.WithContext(logging.ContextWithDatasetID(r.Context(), id))
}
