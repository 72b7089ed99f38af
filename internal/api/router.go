// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marketbasket/internal/middleware"
)

// Router assembles the HTTP routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perf          *middleware.PerformanceMonitor
}

// NewRouter creates a router. mw and perf may be nil.
func NewRouter(handler *Handler, mw *ChiMiddleware, perf *middleware.PerformanceMonitor) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		perf:          perf,
	}
}

// Setup builds the chi router with the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight reaches every route
	r.Use(middleware.PrometheusMetrics)
	if router.perf != nil {
		r.Use(router.perf.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())

			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.chiMiddleware.MaxBodyBytes())
			r.Use(middleware.Compression)

			r.Get("/stats", router.handler.Stats)
			r.Post("/analyze", router.handler.AnalyzeRows)

			r.Route("/datasets", func(r chi.Router) {
				r.Post("/", router.handler.CreateDataset)
				r.Get("/", router.handler.ListDatasets)

				r.Route("/{datasetID}", func(r chi.Router) {
					r.Get("/", router.handler.GetDataset)
					r.Delete("/", router.handler.DeleteDataset)
					r.Post("/analysis", router.handler.RunAnalysis)
					r.Get("/analysis", router.handler.GetAnalysis)
					r.Post("/recommendations", router.handler.Recommend)
				})
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
