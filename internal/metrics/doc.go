// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Analysis Metrics:
  - basket_analysis_runs_total: Runs by outcome (counter)
  - basket_analysis_duration_seconds: Stage latency (histogram)
    Labels: stage (mining, rules, total)
  - basket_candidates_generated_total, basket_candidates_pruned_total,
    basket_frequent_itemsets_total: Apriori work per itemset size (counters)
    Labels: k
  - basket_rules_generated_total: Emitted rules (counter)
  - basket_analyses_in_flight: Running analyses (gauge)
  - basket_analysis_rejections_total: Admission control refusals (counter)

Recommendation Metrics:
  - basket_recommendation_requests_total: Requests by answering source (counter)
  - basket_recommendations_served_total: Products returned (counter)

Cache and Store Metrics:
  - basket_result_cache_hits_total / basket_result_cache_misses_total
  - basket_store_operation_duration_seconds, basket_store_operation_errors_total
  - basket_store_datasets, basket_store_gc_runs_total

# Usage

	metrics.RecordAPIRequest("POST", "/api/v1/analyze", "200", elapsed)
	metrics.RecordRecommendation("rules", len(recs))
*/
package metrics
