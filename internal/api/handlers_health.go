// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/middleware"
)

// pingTimeout bounds the store check made by health checks.
const pingTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreAvailable bool    `json:"store_available"`
	Uptime         float64 `json:"uptime_seconds"`
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Service   analysis.Metrics           `json:"service"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// Health reports overall status. It always answers 200; a store failure
// shows up as status "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeOK := h.ping(r.Context())

	status := "healthy"
	if !storeOK {
		status = "degraded"
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:         status,
		Version:        Version,
		StoreAvailable: storeOK,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 503 until the dataset store is usable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.ping(r.Context())

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).Status(statusCode, map[string]interface{}{
		"ready":           ready,
		"store_available": ready,
		"uptime":          time.Since(h.startTime).Seconds(),
	})
}

// Stats returns the service counters and per-endpoint latency percentiles.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Service:   h.svc.Metrics(),
		Endpoints: []middleware.EndpointStats{},
	}
	if h.perf != nil {
		resp.Endpoints = h.perf.GetStats()
	}
	NewResponseWriter(w, r).Success(resp)
}

func (h *Handler) ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Store health check failed")
		return false
	}
	return true
}
