// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package supervisor runs the server's long-lived components under a suture v4
supervisor tree.

	marketbasket (root)
	├── maintenance-layer
	│   └── maintenance    store GC, cache expiry, dataset gauge
	└── api-layer
	    └── http-server    chi router behind net/http

Crashed services are restarted with suture's failure decay and backoff.
Lifecycle events go through sutureslog to a *slog.Logger, which the server
binary backs with zerolog via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewMaintenanceService(st, svc, cfg.Storage.GCInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	return tree.Serve(ctx)
*/
package supervisor
