// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/metrics"
)

// DefaultMaintenanceInterval applies when NewMaintenanceService gets a
// non-positive interval.
const DefaultMaintenanceInterval = 10 * time.Minute

// GarbageCollector reclaims space in the dataset store.
type GarbageCollector interface {
	RunGC() error
}

// CacheCleaner drops expired in-process cache entries.
type CacheCleaner interface {
	CleanupExpired() int
}

// DatasetCounter reports how many datasets are stored.
type DatasetCounter interface {
	Count(ctx context.Context) (int, error)
}

// MaintenanceStore is what the maintenance job needs from the dataset store.
type MaintenanceStore interface {
	GarbageCollector
	DatasetCounter
}

// MaintenanceService periodically expires cached analyses, runs value log GC
// and refreshes the dataset gauge. Failures are logged and retried on the next
// tick; they never stop the service.
type MaintenanceService struct {
	store    MaintenanceStore
	cache    CacheCleaner
	interval time.Duration
	logger   zerolog.Logger
	runs     atomic.Int64
}

// NewMaintenanceService creates the job. cache may be nil.
func NewMaintenanceService(store MaintenanceStore, cache CacheCleaner, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	return &MaintenanceService{
		store:    store,
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("component", "maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug().Dur("interval", m.interval).Msg("Maintenance started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single maintenance pass.
func (m *MaintenanceService) RunOnce(ctx context.Context) {
	start := time.Now()
	m.runs.Add(1)

	expired := 0
	if m.cache != nil {
		expired = m.cache.CleanupExpired()
	}

	if err := m.store.RunGC(); err != nil {
		m.logger.Warn().Err(err).Msg("Store garbage collection failed")
	}

	count, err := m.store.Count(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to count datasets")
	} else {
		metrics.StoreDatasets.Set(float64(count))
	}

	m.logger.Debug().
		Int("expired_cache_entries", expired).
		Int("datasets", count).
		Dur("duration", time.Since(start)).
		Msg("Maintenance pass complete")
}

// Runs returns the number of completed passes.
func (m *MaintenanceService) Runs() int64 {
	return m.runs.Load()
}

// String identifies the service in supervisor events.
func (m *MaintenanceService) String() string {
	return "maintenance"
}
