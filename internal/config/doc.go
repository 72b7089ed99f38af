// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package config provides centralized configuration management for Marketbasket.

Configuration is loaded in layers with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml or /etc/marketbasket/config.yaml)
 3. Environment variables

Later layers override earlier ones. Environment variables are mapped explicitly,
so unrelated variables in the process environment never leak into the config.

# Configuration Structure

  - ServerConfig: HTTP listen address, timeouts and request body limit
  - LoggingConfig: zerolog level, format and caller info
  - AnalysisConfig: default thresholds, budgets and admission limits for analyses
  - StorageConfig: Badger dataset store location, TTL and value log GC
  - CacheConfig: in-process analysis result cache
  - SecurityConfig: per-IP rate limiting and CORS origins

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - HTTP_TIMEOUT (default: 60s)
  - HTTP_MAX_BODY_BYTES (default: 32MB)
  - ENVIRONMENT: development, staging or production

Analysis:
  - MIN_SUPPORT (default: 0.01)
  - MIN_CONFIDENCE (default: 0.2)
  - MIN_LIFT (default: 1.0)
  - TOP_N (default: 5), MAX_TOP_N (default: 50)
  - ANALYSIS_MAX_ITEMSET_SIZE, ANALYSIS_MAX_CANDIDATES_PER_LEVEL
  - ANALYSIS_MAX_ROWS, ANALYSIS_TIMEOUT, ANALYSIS_MAX_CONCURRENT
  - ANALYSIS_RATE_PER_SECOND, ANALYSIS_BURST
  - POPULARITY_FALLBACK (default: true)

Storage and cache:
  - STORAGE_PATH (default: /data/marketbasket), STORAGE_IN_MEMORY
  - STORAGE_SYNC_WRITES, DATASET_TTL, STORAGE_GC_INTERVAL, STORAGE_GC_RATIO
  - RESULT_CACHE_ENABLED, RESULT_CACHE_SIZE, RESULT_CACHE_TTL

Logging and security:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	params := cfg.Analysis.DefaultParams()
*/
package config
