// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/api"
	"github.com/tomtom215/marketbasket/internal/config"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/middleware"
	"github.com/tomtom215/marketbasket/internal/store"
	"github.com/tomtom215/marketbasket/internal/supervisor"
	"github.com/tomtom215/marketbasket/internal/supervisor/services"
)

const (
	// perfMaxMetrics is the size of the performance monitor's request ring.
	perfMaxMetrics = 1000

	// slowRequestThreshold marks requests that get logged as slow.
	slowRequestThreshold = time.Second

	idleTimeout = 60 * time.Second
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Marketbasket with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// run wires the components together and blocks until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	logger := logging.Logger()

	st, err := store.Open(storeConfig(cfg), logging.WithComponent("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close dataset store")
		}
	}()

	if cfg.Storage.InMemory {
		logging.Warn().Msg("Dataset store is in-memory; datasets will not survive a restart")
	} else {
		logging.Info().Str("path", cfg.Storage.Path).Msg("Dataset store opened")
	}

	svc, err := analysis.NewService(analysisConfig(cfg), st, logger)
	if err != nil {
		return err
	}

	perf := middleware.NewPerformanceMonitor(perfMaxMetrics, slowRequestThreshold, logging.WithComponent("perf"))
	handler := api.NewHandler(svc, perf)
	chiMiddleware := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Server, cfg.Security))
	router := api.NewRouter(handler, chiMiddleware, perf)

	server := newHTTPServer(cfg, router.Setup())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	tree.AddMaintenanceService(services.NewMaintenanceService(st, svc, cfg.Storage.GCInterval, logging.WithComponent("maintenance")))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	reportUnstopped(tree, logger)
	return nil
}

func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		Path:       cfg.Storage.Path,
		InMemory:   cfg.Storage.InMemory,
		SyncWrites: cfg.Storage.SyncWrites,
		EntryTTL:   cfg.Storage.DatasetTTL,
		GCRatio:    cfg.Storage.GCRatio,
	}
}

func analysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		Defaults:           cfg.Analysis.DefaultParams(),
		TopN:               cfg.Analysis.TopN,
		MaxTopN:            cfg.Analysis.MaxTopN,
		MaxRows:            cfg.Analysis.MaxRows,
		Timeout:            cfg.Analysis.Timeout,
		MaxConcurrent:      cfg.Analysis.MaxConcurrent,
		RatePerSecond:      cfg.Analysis.RatePerSecond,
		Burst:              cfg.Analysis.Burst,
		PopularityFallback: cfg.Analysis.PopularityFallback,
		CacheEnabled:       cfg.Cache.Enabled,
		CacheSize:          cfg.Cache.Size,
		CacheTTL:           cfg.Cache.TTL,
	}
}

// newHTTPServer builds the server. WriteTimeout leaves room for an analysis
// that runs up to its own timeout.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	writeTimeout := cfg.Server.Timeout
	if cfg.Analysis.Timeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.Analysis.Timeout + 5*time.Second
	}
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func reportUnstopped(tree *supervisor.SupervisorTree, logger zerolog.Logger) {
	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to collect unstopped service report")
		return
	}
	if len(unstopped) == 0 {
		return
	}
	logger.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
}
