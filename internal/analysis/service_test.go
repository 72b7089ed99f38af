// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/store"
)

const epsilon = 1e-9

// groceryRows is the six-transaction bakery/dairy example.
func groceryRows() []basket.Row {
	baskets := []struct {
		id    string
		items []string
	}{
		{"T1", []string{"Bread", "Milk", "Butter"}},
		{"T2", []string{"Bread", "Milk"}},
		{"T3", []string{"Bread", "Butter", "Cheese"}},
		{"T4", []string{"Milk", "Cheese"}},
		{"T5", []string{"Bread", "Milk", "Butter"}},
		{"T6", []string{"Beer", "Chips"}},
	}
	var rows []basket.Row
	for _, b := range baskets {
		for _, item := range b.items {
			rows = append(rows, basket.Row{TransactionID: b.id, Item: item})
		}
	}
	return rows
}

var groceryParams = basket.Params{MinSupport: 0.3, MinConfidence: 0.5, MinLift: 1.0}

// newTestService creates a service over an in-memory store.
func newTestService(t *testing.T, mutate func(cfg *Config)) *Service {
	t.Helper()

	st, err := store.Open(store.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("Failed to close store: %v", err)
		}
	})

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	svc, err := NewService(cfg, st, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func createGrocery(t *testing.T, svc *Service) string {
	t.Helper()
	summary, err := svc.CreateDataset(context.Background(), "groceries", groceryRows())
	if err != nil {
		t.Fatalf("CreateDataset() error = %v", err)
	}
	return summary.ID
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewService(DefaultConfig(), nil, zerolog.Nop()); err == nil {
		t.Error("NewService() without store should fail")
	}

	st, err := store.Open(store.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	cfg := DefaultConfig()
	cfg.MaxConcurrent = 0
	if _, err := NewService(cfg, st, zerolog.Nop()); err == nil {
		t.Error("NewService() with zero concurrency should fail")
	}
}

func TestService_CreateAndSummarize(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateDataset(ctx, "  groceries ", groceryRows())
	if err != nil {
		t.Fatalf("CreateDataset() error = %v", err)
	}
	if created.ID == "" || created.Name != "groceries" {
		t.Errorf("CreateDataset() = %+v", created)
	}
	if created.TotalTransactions != 6 || created.TotalUniqueItems != 6 || created.TotalRows != 15 {
		t.Errorf("totals = %d/%d/%d, want 6/6/15",
			created.TotalTransactions, created.TotalUniqueItems, created.TotalRows)
	}
	if math.Abs(created.AvgItemsPerTransaction-2.5) > epsilon {
		t.Errorf("AvgItemsPerTransaction = %f, want 2.5", created.AvgItemsPerTransaction)
	}
	if created.TopItems[0] != (basket.ItemCount{Item: "Bread", Count: 4}) {
		t.Errorf("TopItems[0] = %+v, want Bread/4", created.TopItems[0])
	}

	summary, err := svc.DatasetSummary(ctx, created.ID)
	if err != nil {
		t.Fatalf("DatasetSummary() error = %v", err)
	}
	if summary.Analyzed {
		t.Error("new dataset should not be marked analyzed")
	}
	if summary.TotalTransactions != 6 {
		t.Errorf("TotalTransactions = %d, want 6", summary.TotalTransactions)
	}

	infos, err := svc.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("ListDatasets() error = %v", err)
	}
	if len(infos) != 1 || infos[0].ID != created.ID {
		t.Errorf("ListDatasets() = %+v", infos)
	}
}

func TestService_CreateDatasetRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(cfg *Config) { cfg.MaxRows = 3 })
	ctx := context.Background()

	if _, err := svc.CreateDataset(ctx, "", groceryRows()); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("CreateDataset() over limit error = %v, want ErrTooManyRows", err)
	}

	_, err := svc.CreateDataset(ctx, "", []basket.Row{{TransactionID: "T1", Item: " "}})
	var inputErr *basket.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("CreateDataset() blank item error = %v, want *InvalidInputError", err)
	}
	if inputErr.Row != 0 {
		t.Errorf("InvalidInputError.Row = %d, want 0", inputErr.Row)
	}
}

func TestService_AnalyzeStoresCurrentAnalysis(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()
	id := createGrocery(t, svc)

	if _, err := svc.CurrentAnalysis(ctx, id); !errors.Is(err, ErrNotAnalyzed) {
		t.Errorf("CurrentAnalysis() before Analyze error = %v, want ErrNotAnalyzed", err)
	}

	a, err := svc.Analyze(ctx, id, groceryParams)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Result.Outcome != basket.OutcomePatternsFound {
		t.Errorf("Outcome = %q, want patterns_found", a.Result.Outcome)
	}
	if a.Result.Statistics.FrequentItemsetsCount != 8 {
		t.Errorf("FrequentItemsetsCount = %d, want 8", a.Result.Statistics.FrequentItemsetsCount)
	}

	current, err := svc.CurrentAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("CurrentAnalysis() error = %v", err)
	}
	if current.Params != groceryParams {
		t.Errorf("current Params = %+v, want %+v", current.Params, groceryParams)
	}

	summary, err := svc.DatasetSummary(ctx, id)
	if err != nil {
		t.Fatalf("DatasetSummary() error = %v", err)
	}
	if !summary.Analyzed {
		t.Error("analyzed dataset should be marked analyzed")
	}
}

func TestService_AnalyzeCachesPerParams(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()
	id := createGrocery(t, svc)

	first, err := svc.Analyze(ctx, id, groceryParams)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	strict := groceryParams
	strict.MinConfidence = 0.9
	if _, err := svc.Analyze(ctx, id, strict); err != nil {
		t.Fatalf("Analyze(strict) error = %v", err)
	}

	again, err := svc.Analyze(ctx, id, groceryParams)
	if err != nil {
		t.Fatalf("Analyze() again error = %v", err)
	}
	if again != first {
		t.Error("repeated Analyze() with the same params should return the cached analysis")
	}

	m := svc.Metrics()
	if m.AnalysesRun != 2 {
		t.Errorf("AnalysesRun = %d, want 2", m.AnalysesRun)
	}
	if m.CacheHits < 1 {
		t.Errorf("CacheHits = %d, want >= 1", m.CacheHits)
	}

	// The cached hit becomes the current analysis again.
	current, err := svc.CurrentAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("CurrentAnalysis() error = %v", err)
	}
	if current.Params != groceryParams {
		t.Errorf("current Params = %+v, want %+v", current.Params, groceryParams)
	}
}

func TestService_AnalyzeWithoutCache(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(cfg *Config) { cfg.CacheEnabled = false })
	ctx := context.Background()
	id := createGrocery(t, svc)

	for i := 0; i < 2; i++ {
		if _, err := svc.Analyze(ctx, id, groceryParams); err != nil {
			t.Fatalf("Analyze() #%d error = %v", i, err)
		}
	}
	if got := svc.Metrics().AnalysesRun; got != 2 {
		t.Errorf("AnalysesRun = %d, want 2 without a cache", got)
	}
	if _, err := svc.CurrentAnalysis(ctx, id); err != nil {
		t.Errorf("CurrentAnalysis() error = %v", err)
	}
	if removed := svc.CleanupExpired(); removed != 0 {
		t.Errorf("CleanupExpired() = %d, want 0", removed)
	}
}

func TestService_AnalyzeErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, "missing", groceryParams); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Analyze(missing) error = %v, want ErrDatasetNotFound", err)
	}

	bad := groceryParams
	bad.MinSupport = 2
	if _, err := svc.Analyze(ctx, "missing", bad); !errors.Is(err, basket.ErrInvalidParams) {
		t.Errorf("Analyze(bad params) error = %v, want ErrInvalidParams", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.AnalyzeRows(cancelled, groceryRows(), groceryParams); !errors.Is(err, context.Canceled) {
		t.Errorf("AnalyzeRows(cancelled) error = %v, want context.Canceled", err)
	}
	if got := svc.Metrics().AnalysisErrors; got != 1 {
		t.Errorf("AnalysisErrors = %d, want 1", got)
	}
}

func TestService_AnalyzeRows(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	result, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams)
	if err != nil {
		t.Fatalf("AnalyzeRows() error = %v", err)
	}
	if result.Outcome != basket.OutcomePatternsFound || len(result.Rules) == 0 {
		t.Errorf("AnalyzeRows() = %s with %d rules", result.Outcome, len(result.Rules))
	}

	infos, err := svc.ListDatasets(context.Background())
	if err != nil {
		t.Fatalf("ListDatasets() error = %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("AnalyzeRows() stored %d datasets, want none", len(infos))
	}

	empty, err := svc.AnalyzeRows(context.Background(), groceryRows(), basket.Params{MinSupport: 0.99})
	if err != nil {
		t.Fatalf("AnalyzeRows(high support) error = %v", err)
	}
	if empty.Outcome != basket.OutcomeNoFrequentItemsets {
		t.Errorf("Outcome = %q, want no_frequent_itemsets", empty.Outcome)
	}
}

func TestService_AdmissionLimits(t *testing.T) {
	t.Parallel()

	t.Run("capacity", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, func(cfg *Config) { cfg.MaxConcurrent = 1 })

		svc.slots <- struct{}{} // occupy the only slot
		if _, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams); !errors.Is(err, ErrBusy) {
			t.Errorf("AnalyzeRows() error = %v, want ErrBusy", err)
		}
		<-svc.slots

		if _, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams); err != nil {
			t.Errorf("AnalyzeRows() after release error = %v", err)
		}
		if got := svc.Metrics().Rejections; got != 1 {
			t.Errorf("Rejections = %d, want 1", got)
		}
	})

	t.Run("rate", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, func(cfg *Config) {
			cfg.RatePerSecond = 0.001
			cfg.Burst = 1
		})

		if _, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams); err != nil {
			t.Fatalf("first AnalyzeRows() error = %v", err)
		}
		if _, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams); !errors.Is(err, ErrRateLimited) {
			t.Errorf("second AnalyzeRows() error = %v, want ErrRateLimited", err)
		}
	})
}

func TestService_Recommend(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()
	id := createGrocery(t, svc)

	if _, err := svc.Recommend(ctx, id, []string{"Milk"}, 3); !errors.Is(err, ErrNotAnalyzed) {
		t.Errorf("Recommend() before Analyze error = %v, want ErrNotAnalyzed", err)
	}
	if _, err := svc.Recommend(ctx, "missing", []string{"Milk"}, 3); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Recommend(missing) error = %v, want ErrDatasetNotFound", err)
	}

	if _, err := svc.Analyze(ctx, id, groceryParams); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	res, err := svc.Recommend(ctx, id, []string{"Milk"}, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourceRules {
		t.Errorf("Source = %q, want rules", res.Source)
	}
	if len(res.Recommendations) == 0 || res.Recommendations[0].Product != "Bread" {
		t.Fatalf("Recommendations = %+v, want Bread first", res.Recommendations)
	}
	if math.Abs(res.Recommendations[0].Confidence-0.75) > epsilon {
		t.Errorf("confidence = %f, want 0.75", res.Recommendations[0].Confidence)
	}
	for _, r := range res.Recommendations {
		if r.Product == "Milk" {
			t.Error("recommended an item already in the basket")
		}
	}
}

func TestService_RecommendPopularityFallback(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()
	id := createGrocery(t, svc)
	if _, err := svc.Analyze(ctx, id, groceryParams); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	res, err := svc.Recommend(ctx, id, []string{"Beer"}, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourcePopularity {
		t.Fatalf("Source = %q, want popularity", res.Source)
	}
	if len(res.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(res.Recommendations))
	}
	first := res.Recommendations[0]
	if first.Product != "Bread" || first.Confidence != 0 || first.Lift != 0 {
		t.Errorf("first = %+v, want Bread with zero confidence and lift", first)
	}
	if math.Abs(first.Support-4.0/6.0) > epsilon {
		t.Errorf("support = %f, want 0.667", first.Support)
	}
	if len(first.BasedOn) != 1 || first.BasedOn[0] != "popularity" {
		t.Errorf("BasedOn = %v, want [popularity]", first.BasedOn)
	}
	if got := svc.Metrics().PopularityServed; got != 1 {
		t.Errorf("PopularityServed = %d, want 1", got)
	}

	noFallback := newTestService(t, func(cfg *Config) { cfg.PopularityFallback = false })
	id = createGrocery(t, noFallback)
	if _, err := noFallback.Analyze(ctx, id, groceryParams); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	res, err = noFallback.Recommend(ctx, id, []string{"Beer"}, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourceNone || len(res.Recommendations) != 0 {
		t.Errorf("Recommend() without fallback = %+v, want empty none", res)
	}
}

func TestService_RecommendTopNBounds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(cfg *Config) {
		cfg.TopN = 1
		cfg.MaxTopN = 2
	})
	ctx := context.Background()
	id := createGrocery(t, svc)
	if _, err := svc.Analyze(ctx, id, groceryParams); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	res, err := svc.Recommend(ctx, id, []string{"Beer"}, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 1 {
		t.Errorf("default topN returned %d, want 1", len(res.Recommendations))
	}

	res, err = svc.Recommend(ctx, id, []string{"Beer"}, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 2 {
		t.Errorf("capped topN returned %d, want 2", len(res.Recommendations))
	}
}

func TestService_DeleteDatasetEvictsCache(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	ctx := context.Background()
	id := createGrocery(t, svc)
	if _, err := svc.Analyze(ctx, id, groceryParams); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if _, err := svc.Recommend(ctx, id, []string{"Beer"}, 1); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if err := svc.DeleteDataset(ctx, id); err != nil {
		t.Fatalf("DeleteDataset() error = %v", err)
	}
	if got := svc.Metrics().CachedAnalyses; got != 0 {
		t.Errorf("CachedAnalyses = %d after delete, want 0", got)
	}
	if _, err := svc.CurrentAnalysis(ctx, id); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("CurrentAnalysis() after delete error = %v, want ErrDatasetNotFound", err)
	}
	if err := svc.DeleteDataset(ctx, id); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("second DeleteDataset() error = %v, want ErrDatasetNotFound", err)
	}
}

func TestService_AnalyzeAfterDeleteDoesNotResurrect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		// write runs after the dataset was deleted, standing in for an
		// Analyze that loaded the dataset before the delete landed.
		write func(ctx context.Context, svc *Service, id string, a *store.Analysis) error
	}{
		{
			name: "cached params entry",
			write: func(ctx context.Context, svc *Service, id string, a *store.Analysis) error {
				svc.cacheAdd(id+"/params/"+paramsCacheKey(groceryParams), newCachedAnalysis(a))
				_, err := svc.Analyze(ctx, id, groceryParams)
				return err
			},
		},
		{
			name: "fresh result",
			write: func(ctx context.Context, svc *Service, id string, a *store.Analysis) error {
				return svc.commitAnalysis(ctx, id, newCachedAnalysis(a), id+"/params/"+paramsCacheKey(groceryParams))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, nil)
			ctx := context.Background()
			id := createGrocery(t, svc)
			a, err := svc.Analyze(ctx, id, groceryParams)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if err := svc.DeleteDataset(ctx, id); err != nil {
				t.Fatalf("DeleteDataset() error = %v", err)
			}

			if err := tt.write(ctx, svc, id, a); !errors.Is(err, ErrDatasetNotFound) {
				t.Fatalf("write after delete error = %v, want ErrDatasetNotFound", err)
			}
			if got := svc.Metrics().CachedAnalyses; got != 0 {
				t.Errorf("CachedAnalyses = %d, want 0", got)
			}
			if _, err := svc.CurrentAnalysis(ctx, id); !errors.Is(err, ErrDatasetNotFound) {
				t.Errorf("CurrentAnalysis() error = %v, want ErrDatasetNotFound", err)
			}
		})
	}
}

func TestService_Metrics(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	if m := svc.Metrics(); !m.LastAnalysisAt.IsZero() || m.AnalysesRun != 0 {
		t.Errorf("fresh Metrics() = %+v", m)
	}

	before := time.Now().Add(-time.Second)
	if _, err := svc.AnalyzeRows(context.Background(), groceryRows(), groceryParams); err != nil {
		t.Fatalf("AnalyzeRows() error = %v", err)
	}
	m := svc.Metrics()
	if m.AnalysesRun != 1 || m.LastAnalysisAt.Before(before) {
		t.Errorf("Metrics() = %+v", m)
	}
	if m.InFlight != 0 {
		t.Errorf("InFlight = %d after completion, want 0", m.InFlight)
	}
}

func TestParamsCacheKey(t *testing.T) {
	t.Parallel()

	a := paramsCacheKey(basket.Params{MinSupport: 0.1, MinConfidence: 0.2, MinLift: 1})
	b := paramsCacheKey(basket.Params{MinSupport: 0.1, MinConfidence: 0.2, MinLift: 1, MaxItemsetSize: 3})
	c := paramsCacheKey(basket.Params{MinSupport: 0.10000001, MinConfidence: 0.2, MinLift: 1})
	if a == b || a == c {
		t.Errorf("distinct params share a key: %q %q %q", a, b, c)
	}
	if a != paramsCacheKey(basket.Params{MinSupport: 0.1, MinConfidence: 0.2, MinLift: 1}) {
		t.Error("equal params produced different keys")
	}
}

func TestService_Ping(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	if err := svc.store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := svc.Ping(context.Background()); !errors.Is(err, store.ErrStoreClosed) {
		t.Errorf("Ping() after close error = %v, want ErrStoreClosed", err)
	}
}
