// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Apriori analysis runs (per stage, per level)
// - Recommendation serving
// - Result cache efficiency
// - Dataset store operations

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Analysis Metrics
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_analysis_runs_total",
			Help: "Total number of analysis runs by outcome",
		},
		[]string{"outcome"}, // "patterns_found", "no_frequent_itemsets", "no_rules", "error"
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_analysis_duration_seconds",
			Help:    "Duration of analysis stages in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"stage"}, // "mining", "rules", "total"
	)

	AnalysisTransactions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_analysis_transactions",
			Help:    "Number of transactions per analyzed dataset",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6), // 10 .. 1M
		},
	)

	CandidatesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_candidates_generated_total",
			Help: "Candidate itemsets produced by the join step, by itemset size",
		},
		[]string{"k"},
	)

	CandidatesPruned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_candidates_pruned_total",
			Help: "Candidate itemsets removed by subset pruning, by itemset size",
		},
		[]string{"k"},
	)

	FrequentItemsets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_frequent_itemsets_total",
			Help: "Frequent itemsets found, by itemset size",
		},
		[]string{"k"},
	)

	RulesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_rules_generated_total",
			Help: "Total association rules emitted",
		},
	)

	AnalysesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basket_analyses_in_flight",
			Help: "Analyses currently running",
		},
	)

	AnalysisRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_analysis_rejections_total",
			Help: "Analyses refused by admission control",
		},
		[]string{"reason"}, // "rate_limited", "busy"
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_recommendation_requests_total",
			Help: "Recommendation requests by the source that answered them",
		},
		[]string{"source"}, // "rules", "popularity", "none"
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_recommendations_served_total",
			Help: "Total products recommended",
		},
	)

	// Result Cache Metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_result_cache_hits_total",
			Help: "Total analysis result cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_result_cache_misses_total",
			Help: "Total analysis result cache misses",
		},
	)

	ResultCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basket_result_cache_entries",
			Help: "Current number of cached analysis results",
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_store_operation_duration_seconds",
			Help:    "Duration of dataset store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_store_operation_errors_total",
			Help: "Total dataset store operation errors",
		},
		[]string{"operation"},
	)

	StoreDatasets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basket_store_datasets",
			Help: "Datasets currently held in the store",
		},
	)

	StoreGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_store_gc_runs_total",
			Help: "Total value log garbage collection runs",
		},
	)
)

// LevelCounts carries per-level mining counters without importing the
// analysis package.
type LevelCounts struct {
	K          int
	Candidates int
	Pruned     int
	Frequent   int
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request refused by the HTTP rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordAnalysis records the outcome, stage timings and per-level work of one run.
func RecordAnalysis(outcome string, transactions, rules int, mining, ruleGen, total time.Duration, levels []LevelCounts) {
	AnalysisRuns.WithLabelValues(outcome).Inc()
	AnalysisDuration.WithLabelValues("mining").Observe(mining.Seconds())
	AnalysisDuration.WithLabelValues("rules").Observe(ruleGen.Seconds())
	AnalysisDuration.WithLabelValues("total").Observe(total.Seconds())
	AnalysisTransactions.Observe(float64(transactions))
	RulesGenerated.Add(float64(rules))

	for _, l := range levels {
		k := strconv.Itoa(l.K)
		CandidatesGenerated.WithLabelValues(k).Add(float64(l.Candidates))
		CandidatesPruned.WithLabelValues(k).Add(float64(l.Pruned))
		FrequentItemsets.WithLabelValues(k).Add(float64(l.Frequent))
	}
}

// RecordAnalysisError counts a run that ended in an error.
func RecordAnalysisError() {
	AnalysisRuns.WithLabelValues("error").Inc()
}

// RecordAnalysisRejected counts a run refused before it started.
func RecordAnalysisRejected(reason string) {
	AnalysisRejections.WithLabelValues(reason).Inc()
}

// TrackAnalysisInFlight adjusts the running analyses gauge.
func TrackAnalysisInFlight(inc bool) {
	if inc {
		AnalysesInFlight.Inc()
	} else {
		AnalysesInFlight.Dec()
	}
}

// RecordRecommendation records which source answered a request and how many
// products it returned.
func RecordRecommendation(source string, served int) {
	RecommendationRequests.WithLabelValues(source).Inc()
	RecommendationsServed.Add(float64(served))
}

// RecordResultCache records a result cache lookup.
func RecordResultCache(hit bool) {
	if hit {
		ResultCacheHits.Inc()
	} else {
		ResultCacheMisses.Inc()
	}
}

// RecordStoreOperation records a dataset store operation metric.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}
