// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package main is the entry point for the Marketbasket server.

Marketbasket accepts transaction datasets (transaction_id, item_name rows),
mines frequent itemsets with Apriori, derives association rules and serves
"customers also bought" recommendations over a JSON HTTP API.

# Application Architecture

Components run under a Suture v4 supervisor tree:

	RootSupervisor ("marketbasket")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Maintenance (badger value log GC, cache expiry, dataset gauge)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Dataset store: BadgerDB on disk, or in memory with STORAGE_IN_MEMORY=true
 4. Analysis service: result cache, concurrency slots and rate limiter
 5. HTTP Server: chi router with request ID, CORS, rate limit and metrics middleware
 6. Supervisor Tree: starts both layers and waits for a signal

# Configuration

Priority: Environment variables > Config file > Defaults

	# Server
	HTTP_PORT=8080
	HTTP_HOST=0.0.0.0
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Default analysis thresholds
	MIN_SUPPORT=0.01
	MIN_CONFIDENCE=0.2
	MIN_LIFT=1.0
	TOP_N=5

	# Limits
	ANALYSIS_MAX_ROWS=2000000
	ANALYSIS_TIMEOUT=2m
	ANALYSIS_MAX_CONCURRENT=2

	# Storage
	STORAGE_PATH=/data/marketbasket
	STORAGE_IN_MEMORY=false
	DATASET_TTL=168h

The config file is looked up as config.yaml in the working directory or
/etc/marketbasket/config.yaml unless CONFIG_PATH points elsewhere.

# Signal Handling

On SIGINT or SIGTERM the HTTP server stops accepting connections and drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT, the maintenance loop exits and
the dataset store is closed. Services that miss the deadline are logged.

# Endpoints

	GET    /api/v1/health[/live|/ready]
	GET    /api/v1/stats
	POST   /api/v1/analyze
	POST   /api/v1/datasets
	GET    /api/v1/datasets
	GET    /api/v1/datasets/{datasetID}
	DELETE /api/v1/datasets/{datasetID}
	POST   /api/v1/datasets/{datasetID}/analysis
	GET    /api/v1/datasets/{datasetID}/analysis
	POST   /api/v1/datasets/{datasetID}/recommendations
	GET    /metrics

# See Also

  - internal/basket: Apriori, rule generation and recommendations
  - internal/analysis: dataset lifecycle and admission control
  - cmd/basket: offline CLI over the same algorithms
*/
package main
