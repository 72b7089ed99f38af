// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package store persists uploaded datasets and their latest analysis in BadgerDB.
//
// Keys are namespaced by prefix:
//
//	dataset:<id>   JSON-encoded Dataset (rows included)
//	analysis:<id>  JSON-encoded Analysis for the dataset
//
// Entries carry a TTL so abandoned datasets expire on their own; RunGC
// reclaims the value log space they leave behind.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	datasetKeyPrefix  = "dataset:"
	analysisKeyPrefix = "analysis:"
)

// Errors
var (
	// ErrNotFound is returned when a dataset or analysis does not exist or has expired.
	ErrNotFound = errors.New("not found")

	// ErrStoreClosed is returned by operations after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// Config controls how the store opens BadgerDB.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM; nothing survives a restart.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// EntryTTL is how long datasets live. 0 keeps them forever.
	EntryTTL time.Duration

	// GCRatio is the value log discard ratio passed to RunValueLogGC.
	GCRatio float64
}

// Dataset is an uploaded set of transaction rows.
type Dataset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
	RowCount  int          `json:"row_count"`
	Rows      []basket.Row `json:"rows"`
}

// DatasetInfo is the row-less view of a Dataset returned by List.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	RowCount  int       `json:"row_count"`
}

// Analysis is the most recent analysis of a dataset.
type Analysis struct {
	DatasetID string         `json:"dataset_id"`
	Params    basket.Params  `json:"params"`
	Result    *basket.Result `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
}

// Store is a BadgerDB-backed dataset store. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	cfg    Config
	logger zerolog.Logger
}

// Open opens (or creates) the store described by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store path is required unless in-memory mode is enabled")
	}
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		cfg:    cfg,
		logger: logger.With().Str("component", "store").Logger(),
	}
	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("entry_ttl", cfg.EntryTTL).
		Msg("Dataset store opened")
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// PutDataset stores ds, assigning CreatedAt, ExpiresAt and RowCount.
func (s *Store) PutDataset(ctx context.Context, ds *Dataset) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("put_dataset", time.Since(start), err) }()

	if ds == nil || ds.ID == "" {
		return errors.New("dataset id cannot be empty")
	}
	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	if s.cfg.EntryTTL > 0 && ds.ExpiresAt.IsZero() {
		ds.ExpiresAt = now.Add(s.cfg.EntryTTL)
	}
	ds.RowCount = len(ds.Rows)

	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(datasetKeyPrefix+ds.ID, data, ds.ExpiresAt))
	})
}

// GetDataset returns the dataset with the given id or ErrNotFound.
func (s *Store) GetDataset(ctx context.Context, id string) (ds *Dataset, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("get_dataset", time.Since(start), ignoreNotFound(err)) }()

	ds = &Dataset{}
	if err := s.get(ctx, datasetKeyPrefix+id, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// ListDatasets returns every live dataset, newest first.
func (s *Store) ListDatasets(ctx context.Context) (infos []DatasetInfo, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("list_datasets", time.Since(start), err) }()

	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	infos = make([]DatasetInfo, 0)
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(datasetKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var info DatasetInfo
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping undecodable dataset")
				continue
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	metrics.StoreDatasets.Set(float64(len(infos)))
	return infos, nil
}

// DeleteDataset removes a dataset and its analysis. Returns ErrNotFound if
// the dataset does not exist.
func (s *Store) DeleteDataset(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("delete_dataset", time.Since(start), ignoreNotFound(err)) }()

	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(datasetKeyPrefix + id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get dataset: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete dataset: %w", err)
		}
		if err := txn.Delete([]byte(analysisKeyPrefix + id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete analysis: %w", err)
		}
		return nil
	})
}

// PutAnalysis replaces the stored analysis of a dataset. Returns ErrNotFound
// if the dataset no longer exists.
func (s *Store) PutAnalysis(ctx context.Context, a *Analysis) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("put_analysis", time.Since(start), ignoreNotFound(err)) }()

	if a == nil || a.DatasetID == "" {
		return errors.New("analysis dataset id cannot be empty")
	}
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(datasetKeyPrefix + a.DatasetID)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get dataset: %w", err)
		}
		return txn.SetEntry(newEntry(analysisKeyPrefix+a.DatasetID, data, a.ExpiresAt))
	})
}

// GetAnalysis returns the stored analysis of a dataset or ErrNotFound.
func (s *Store) GetAnalysis(ctx context.Context, datasetID string) (a *Analysis, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("get_analysis", time.Since(start), ignoreNotFound(err)) }()

	a = &Analysis{}
	if err := s.get(ctx, analysisKeyPrefix+datasetID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Count returns the number of live datasets.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.checkOpen(ctx); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(datasetKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC rewrites value log files until BadgerDB reports nothing left to
// reclaim. It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	if s.cfg.InMemory {
		return nil
	}
	if s.db.IsClosed() {
		return ErrStoreClosed
	}

	metrics.StoreGCRuns.Inc()
	for {
		err := s.db.RunValueLogGC(s.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

func (s *Store) get(ctx context.Context, key string, out any) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

func (s *Store) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	return nil
}

// newEntry builds an entry that expires at expiresAt, or never when it is zero.
func newEntry(key string, data []byte, expiresAt time.Time) *badger.Entry {
	e := badger.NewEntry([]byte(key), data)
	if !expiresAt.IsZero() {
		if ttl := time.Until(expiresAt); ttl > 0 {
			e = e.WithTTL(ttl)
		} else {
			e = e.WithTTL(time.Second)
		}
	}
	return e
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
