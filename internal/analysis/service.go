// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/cache"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/store"
)

// topItemsInSummary is the number of best-selling items reported by DatasetSummary.
const topItemsInSummary = 10

// DatasetSummary describes an uploaded dataset.
type DatasetSummary struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	ExpiresAt              time.Time          `json:"expires_at,omitempty"`
	TotalRows              int                `json:"total_rows"`
	TotalTransactions      int                `json:"total_transactions"`
	TotalUniqueItems       int                `json:"total_unique_items"`
	AvgItemsPerTransaction float64            `json:"avg_items_per_transaction"`
	TopItems               []basket.ItemCount `json:"top_items"`
	Analyzed               bool               `json:"analyzed"`
}

// RecommendResult is the answer to a recommendation request.
type RecommendResult struct {
	DatasetID       string                  `json:"dataset_id"`
	Basket          []string                `json:"basket"`
	Recommendations []basket.Recommendation `json:"recommendations"`
	Source          string                  `json:"source"`
}

// Metrics is a point-in-time snapshot of service counters.
type Metrics struct {
	AnalysesRun       int64     `json:"analyses_run"`
	AnalysisErrors    int64     `json:"analysis_errors"`
	Rejections        int64     `json:"rejections"`
	Recommendations   int64     `json:"recommendations"`
	PopularityServed  int64     `json:"popularity_served"`
	CacheHits         int64     `json:"cache_hits"`
	CacheMisses       int64     `json:"cache_misses"`
	CachedAnalyses    int       `json:"cached_analyses"`
	InFlight          int       `json:"in_flight"`
	LastAnalysisAt    time.Time `json:"last_analysis_at,omitempty"`
	LastAnalysisNanos int64     `json:"last_analysis_ns"`
}

// cachedAnalysis pairs a stored analysis with the recommender built from its rules.
type cachedAnalysis struct {
	analysis    *store.Analysis
	recommender *basket.Recommender
}

func newCachedAnalysis(a *store.Analysis) *cachedAnalysis {
	return &cachedAnalysis{analysis: a, recommender: basket.NewRecommender(a.Result.Rules)}
}

// Service runs analyses over stored datasets and serves recommendations from
// their results. It is safe for concurrent use.
type Service struct {
	cfg    Config
	store  *store.Store
	logger zerolog.Logger

	// Keys are "<datasetID>/current", "<datasetID>/params/<key>" and "<datasetID>/popularity".
	analyses   *cache.LRU[*cachedAnalysis]
	popularity *cache.LRU[*Popularity]

	// writeMu orders analysis writes against dataset deletes so a
	// deleted dataset never regains cache entries.
	writeMu sync.Mutex

	slots   chan struct{}
	limiter *rate.Limiter

	analysesRun      atomic.Int64
	analysisErrors   atomic.Int64
	rejections       atomic.Int64
	recommendations  atomic.Int64
	popularityServed atomic.Int64
	lastAnalysisAt   atomic.Int64
	lastAnalysisDur  atomic.Int64

	newID func() string
}

// NewService creates an analysis service backed by st.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, st *store.Store, logger zerolog.Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Service{
		cfg:    cfg,
		store:  st,
		logger: logger.With().Str("component", "analysis").Logger(),
		slots:  make(chan struct{}, cfg.MaxConcurrent),
		newID:  func() string { return uuid.New().String() },
	}
	if cfg.CacheEnabled {
		s.analyses = cache.NewLRU[*cachedAnalysis](cfg.CacheSize, cfg.CacheTTL)
		s.popularity = cache.NewLRU[*Popularity](cfg.CacheSize, cfg.CacheTTL)
	}
	if cfg.RatePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
	}
	return s, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// CreateDataset validates rows, stores them as a new dataset and returns its summary.
func (s *Service) CreateDataset(ctx context.Context, name string, rows []basket.Row) (*DatasetSummary, error) {
	if err := s.checkRowLimit(len(rows)); err != nil {
		return nil, err
	}
	ts, err := basket.Load(rows)
	if err != nil {
		return nil, err
	}

	ds := &store.Dataset{ID: s.newID(), Name: strings.TrimSpace(name), Rows: ts.Rows()}
	if err := s.store.PutDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}

	logger := s.log(ctx)
	logger.Info().
		Str("dataset_id", ds.ID).
		Int("rows", ds.RowCount).
		Int("transactions", ts.Len()).
		Msg("Dataset created")

	return summarize(ds, ts, false), nil
}

// DatasetSummary returns totals and best-selling items for a dataset.
func (s *Service) DatasetSummary(ctx context.Context, id string) (*DatasetSummary, error) {
	ds, ts, err := s.loadDataset(ctx, id)
	if err != nil {
		return nil, err
	}

	analyzed := true
	if _, err := s.currentAnalysis(ctx, id); errors.Is(err, ErrNotAnalyzed) {
		analyzed = false
	} else if err != nil {
		return nil, err
	}
	return summarize(ds, ts, analyzed), nil
}

// ListDatasets returns every live dataset, newest first.
func (s *Service) ListDatasets(ctx context.Context) ([]store.DatasetInfo, error) {
	return s.store.ListDatasets(ctx)
}

// DeleteDataset removes a dataset, its analysis and every cached result for it.
func (s *Service) DeleteDataset(ctx context.Context, id string) error {
	s.writeMu.Lock()
	err := s.store.DeleteDataset(ctx, id)
	if err == nil {
		s.evict(id)
	}
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	logger := s.log(ctx)
	logger.Info().Str("dataset_id", id).Msg("Dataset deleted")
	return nil
}

// Analyze runs the analysis of a stored dataset with params and makes the
// result the dataset's current analysis. Results are cached per parameter set.
func (s *Service) Analyze(ctx context.Context, id string, params basket.Params) (*store.Analysis, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	paramsKey := id + "/params/" + paramsCacheKey(params)
	if entry, ok := s.cachedEntry(s.analyses, paramsKey); ok {
		if err := s.commitAnalysis(ctx, id, entry); err != nil {
			return nil, err
		}
		return entry.analysis, nil
	}

	ds, ts, err := s.loadDataset(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, ts, params)
	if err != nil {
		return nil, err
	}

	a := &store.Analysis{
		DatasetID: id,
		Params:    params,
		Result:    result,
		ExpiresAt: ds.ExpiresAt,
	}
	entry := newCachedAnalysis(a)
	if err := s.commitAnalysis(ctx, id, entry, paramsKey); err != nil {
		return nil, err
	}
	return a, nil
}

// commitAnalysis stores entry as the dataset's current analysis and caches it
// under "<id>/current" plus any extra keys. A dataset deleted while the
// analysis ran yields ErrDatasetNotFound and leaves nothing cached.
func (s *Service) commitAnalysis(ctx context.Context, id string, entry *cachedAnalysis, keys ...string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.PutAnalysis(ctx, entry.analysis); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.evict(id)
		}
		return fmt.Errorf("store analysis: %w", err)
	}
	for _, key := range keys {
		s.cacheAdd(key, entry)
	}
	s.cacheAdd(id+"/current", entry)
	return nil
}

// CurrentAnalysis returns the last analysis stored for a dataset.
func (s *Service) CurrentAnalysis(ctx context.Context, id string) (*store.Analysis, error) {
	entry, err := s.currentAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry.analysis, nil
}

// AnalyzeRows runs a one-shot analysis without storing anything.
func (s *Service) AnalyzeRows(ctx context.Context, rows []basket.Row, params basket.Params) (*basket.Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkRowLimit(len(rows)); err != nil {
		return nil, err
	}
	ts, err := basket.Load(rows)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ts, params)
}

// Recommend suggests up to topN products for items using the dataset's current
// analysis. When no rule applies and the popularity fallback is enabled, the
// most purchased items not in the basket are returned instead. topN <= 0 uses
// the configured default; larger values are capped at MaxTopN.
func (s *Service) Recommend(ctx context.Context, id string, items []string, topN int) (*RecommendResult, error) {
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	if topN > s.cfg.MaxTopN {
		topN = s.cfg.MaxTopN
	}

	entry, err := s.currentAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &RecommendResult{
		DatasetID:       id,
		Basket:          items,
		Recommendations: entry.recommender.Recommend(items, topN),
		Source:          SourceRules,
	}

	if len(res.Recommendations) == 0 {
		res.Source = SourceNone
		if s.cfg.PopularityFallback {
			pop, err := s.popularityFor(ctx, id)
			if err != nil {
				return nil, err
			}
			if recs := pop.TopK(items, topN); len(recs) > 0 {
				res.Recommendations = recs
				res.Source = SourcePopularity
				s.popularityServed.Add(1)
			}
		}
	}

	s.recommendations.Add(1)
	metrics.RecordRecommendation(res.Source, len(res.Recommendations))
	logger := s.log(ctx)
	logger.Debug().
		Str("dataset_id", id).
		Strs("basket", items).
		Str("source", res.Source).
		Int("returned", len(res.Recommendations)).
		Msg("Recommendations served")
	return res, nil
}

// CleanupExpired drops expired cache entries and returns how many were removed.
func (s *Service) CleanupExpired() int {
	if s.analyses == nil {
		return 0
	}
	removed := s.analyses.CleanupExpired() + s.popularity.CleanupExpired()
	s.updateCacheGauge()
	return removed
}

// Metrics returns a snapshot of the service counters.
func (s *Service) Metrics() Metrics {
	m := Metrics{
		AnalysesRun:       s.analysesRun.Load(),
		AnalysisErrors:    s.analysisErrors.Load(),
		Rejections:        s.rejections.Load(),
		Recommendations:   s.recommendations.Load(),
		PopularityServed:  s.popularityServed.Load(),
		InFlight:          len(s.slots),
		LastAnalysisNanos: s.lastAnalysisDur.Load(),
	}
	if ts := s.lastAnalysisAt.Load(); ts > 0 {
		m.LastAnalysisAt = time.Unix(0, ts).UTC()
	}
	if s.analyses != nil {
		m.CacheHits, m.CacheMisses, m.CachedAnalyses = s.analyses.Stats()
	}
	return m
}

// Ping reports whether the dataset store is usable.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.store.Count(ctx); err != nil {
		return fmt.Errorf("dataset store: %w", err)
	}
	return nil
}

// run executes one analysis under the admission limits and records its metrics.
func (s *Service) run(ctx context.Context, ts *basket.TransactionStore, params basket.Params) (*basket.Result, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	result, err := basket.Analyze(runCtx, ts, params, s.log(ctx))
	if err != nil {
		s.analysisErrors.Add(1)
		metrics.RecordAnalysisError()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("analysis exceeded %v: %w", s.cfg.Timeout, err)
		}
		return nil, err
	}

	stats := result.Statistics
	levels := make([]metrics.LevelCounts, len(stats.Levels))
	for i, l := range stats.Levels {
		levels[i] = metrics.LevelCounts{K: l.K, Candidates: l.Candidates, Pruned: l.Pruned, Frequent: l.Frequent}
	}
	metrics.RecordAnalysis(string(result.Outcome), stats.TotalTransactions, stats.AssociationRulesCount,
		stats.Timings.Mining, stats.Timings.Rules, stats.Timings.Total, levels)

	s.analysesRun.Add(1)
	s.lastAnalysisAt.Store(time.Now().UnixNano())
	s.lastAnalysisDur.Store(int64(stats.Timings.Total))
	return result, nil
}

// acquire admits one analysis or explains why it was refused.
func (s *Service) acquire() (func(), error) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.reject("rate_limited")
		return nil, ErrRateLimited
	}
	select {
	case s.slots <- struct{}{}:
	default:
		s.reject("capacity")
		return nil, ErrBusy
	}

	metrics.TrackAnalysisInFlight(true)
	return func() {
		<-s.slots
		metrics.TrackAnalysisInFlight(false)
	}, nil
}

func (s *Service) reject(reason string) {
	s.rejections.Add(1)
	metrics.RecordAnalysisRejected(reason)
	s.logger.Warn().Str("reason", reason).Msg("Analysis rejected")
}

func (s *Service) checkRowLimit(n int) error {
	if n > s.cfg.MaxRows {
		return fmt.Errorf("%w: %d rows exceeds the limit of %d", ErrTooManyRows, n, s.cfg.MaxRows)
	}
	return nil
}

// loadDataset reads a dataset and rebuilds its transaction store.
func (s *Service) loadDataset(ctx context.Context, id string) (*store.Dataset, *basket.TransactionStore, error) {
	ds, err := s.store.GetDataset(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ts, err := basket.Load(ds.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %s: %w", id, err)
	}
	return ds, ts, nil
}

// currentAnalysis returns the cached or stored analysis of a dataset.
func (s *Service) currentAnalysis(ctx context.Context, id string) (*cachedAnalysis, error) {
	key := id + "/current"
	if entry, ok := s.cachedEntry(s.analyses, key); ok {
		return entry, nil
	}

	a, err := s.store.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		if _, derr := s.store.GetDataset(ctx, id); derr != nil {
			return nil, derr
		}
		return nil, ErrNotAnalyzed
	}
	if err != nil {
		return nil, err
	}

	entry := newCachedAnalysis(a)
	s.cacheAdd(key, entry)
	return entry, nil
}

// popularityFor returns the popularity ranking of a dataset.
func (s *Service) popularityFor(ctx context.Context, id string) (*Popularity, error) {
	key := id + "/popularity"
	if s.popularity != nil {
		if pop, ok := s.popularity.Get(key); ok {
			return pop, nil
		}
	}

	_, ts, err := s.loadDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	pop := NewPopularity(ts)
	if s.popularity != nil {
		s.popularity.Add(key, pop)
	}
	return pop, nil
}

// cachedEntry looks up key, treating entries whose analysis has expired as misses.
func (s *Service) cachedEntry(c *cache.LRU[*cachedAnalysis], key string) (*cachedAnalysis, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.Get(key)
	if ok && !entry.analysis.ExpiresAt.IsZero() && time.Now().After(entry.analysis.ExpiresAt) {
		c.Remove(key)
		ok = false
	}
	metrics.RecordResultCache(ok)
	return entry, ok
}

func (s *Service) cacheAdd(key string, entry *cachedAnalysis) {
	if s.analyses == nil {
		return
	}
	s.analyses.Add(key, entry)
	s.updateCacheGauge()
}

// evict drops every cached value belonging to a dataset.
func (s *Service) evict(id string) {
	if s.analyses == nil {
		return
	}
	s.analyses.RemovePrefix(id + "/")
	s.popularity.RemovePrefix(id + "/")
	s.updateCacheGauge()
}

func (s *Service) updateCacheGauge() {
	metrics.ResultCacheSize.Set(float64(s.analyses.Len()))
}

// log returns the service logger tagged with the request ID, if any.
func (s *Service) log(ctx context.Context) zerolog.Logger {
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		return s.logger.With().Str("request_id", requestID).Logger()
	}
	return s.logger
}

// paramsCacheKey renders params exactly, so distinct thresholds never share a key.
func paramsCacheKey(p basket.Params) string {
	return strings.Join([]string{
		strconv.FormatFloat(p.MinSupport, 'g', -1, 64),
		strconv.FormatFloat(p.MinConfidence, 'g', -1, 64),
		strconv.FormatFloat(p.MinLift, 'g', -1, 64),
		strconv.Itoa(p.MaxItemsetSize),
		strconv.Itoa(p.MaxCandidatesPerLevel),
	}, ":")
}

func summarize(ds *store.Dataset, ts *basket.TransactionStore, analyzed bool) *DatasetSummary {
	return &DatasetSummary{
		ID:                     ds.ID,
		Name:                   ds.Name,
		CreatedAt:              ds.CreatedAt,
		ExpiresAt:              ds.ExpiresAt,
		TotalRows:              ds.RowCount,
		TotalTransactions:      ts.Len(),
		TotalUniqueItems:       len(ts.UniqueItems()),
		AvgItemsPerTransaction: ts.AvgItemsPerTransaction(),
		TopItems:               ts.TopItems(topItemsInSummary),
		Analyzed:               analyzed,
	}
}
