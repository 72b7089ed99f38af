// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Outcome tags what an analysis run found.
type Outcome string

const (
	// OutcomePatternsFound means at least one rule met the thresholds.
	OutcomePatternsFound Outcome = "patterns_found"

	// OutcomeNoFrequentItemsets means no single item reached min_support.
	OutcomeNoFrequentItemsets Outcome = "no_frequent_itemsets"

	// OutcomeNoRules means itemsets were found but no rule met the thresholds.
	OutcomeNoRules Outcome = "no_rules"
)

// Dataset size classes reported in Statistics.
const (
	DatasetSmall  = "Small"
	DatasetMedium = "Medium"
	DatasetLarge  = "Large"
)

// Timings records wall-clock time spent in each stage.
type Timings struct {
	Mining time.Duration `json:"mining_ns"`
	Rules  time.Duration `json:"rules_ns"`
	Total  time.Duration `json:"total_ns"`
}

// Statistics summarizes the dataset and the run.
type Statistics struct {
	TotalTransactions      int          `json:"total_transactions"`
	TotalUniqueItems       int          `json:"total_unique_items"`
	AvgItemsPerTransaction float64      `json:"avg_items_per_transaction"`
	FrequentItemsetsCount  int          `json:"frequent_itemsets_count"`
	AssociationRulesCount  int          `json:"association_rules_count"`
	MaxItemsetSize         int          `json:"max_itemset_size"`
	StrongRules            int          `json:"strong_rules"`
	VeryStrongRules        int          `json:"very_strong_rules"`
	DatasetSize            string       `json:"dataset_size"`
	MinSupport             float64      `json:"min_support"`
	MinConfidence          float64      `json:"min_confidence"`
	MinLift                float64      `json:"min_lift"`
	Truncated              bool         `json:"truncated"`
	SupportLookups         int          `json:"support_lookups"`
	SupportScans           int          `json:"support_scans"`
	Levels                 []LevelStats `json:"levels"`
	Timings                Timings      `json:"timings"`
}

// Result is the output of one analysis run. FrequentItemsets is ordered by
// support descending and Rules follows RuleSet order.
type Result struct {
	Outcome          Outcome           `json:"outcome"`
	FrequentItemsets []FrequentItemset `json:"frequent_itemsets"`
	Rules            RuleSet           `json:"association_rules"`
	Statistics       Statistics        `json:"statistics"`
}

// ClassifyDatasetSize buckets a transaction count into Small, Medium or Large.
func ClassifyDatasetSize(transactions int) string {
	switch {
	case transactions > 10000:
		return DatasetLarge
	case transactions > 1000:
		return DatasetMedium
	default:
		return DatasetSmall
	}
}

// AnalyzeRows loads rows and runs Analyze on them.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AnalyzeRows(ctx context.Context, rows []Row, params Params, logger zerolog.Logger) (*Result, error) {
	store, err := Load(rows)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, store, params, logger)
}

// Analyze mines frequent itemsets and rules from store. Empty findings are
// reported through Result.Outcome; errors are limited to invalid parameters,
// an empty store and context cancellation.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Analyze(ctx context.Context, store *TransactionStore, params Params, logger zerolog.Logger) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if store == nil || store.Len() == 0 {
		return nil, &InvalidInputError{Row: -1, Reason: "no transactions to analyze"}
	}

	log := logger.With().Str("component", "analyzer").Logger()
	start := time.Now()

	calc := NewSupportCalculator(store)
	table, err := NewMiner(calc, params.minerOptions(), log).Mine(ctx)
	if err != nil {
		return nil, err
	}
	mined := time.Now()

	var rules RuleSet
	if table.MaxK() >= 2 {
		rules = GenerateRules(table, calc, params.ruleOptions())
	} else {
		rules = RuleSet{}
	}
	done := time.Now()

	result := &Result{
		FrequentItemsets: table.All(),
		Rules:            rules,
		Statistics: Statistics{
			TotalTransactions:      store.Len(),
			TotalUniqueItems:       len(store.itemCounts),
			AvgItemsPerTransaction: store.AvgItemsPerTransaction(),
			FrequentItemsetsCount:  table.Len(),
			AssociationRulesCount:  len(rules),
			MaxItemsetSize:         table.MaxK(),
			StrongRules:            rules.CountLiftAbove(StrongLift),
			VeryStrongRules:        rules.CountLiftAbove(VeryStrongLift),
			DatasetSize:            ClassifyDatasetSize(store.Len()),
			MinSupport:             params.MinSupport,
			MinConfidence:          params.MinConfidence,
			MinLift:                params.MinLift,
			Truncated:              table.Truncated,
			SupportLookups:         calc.Lookups(),
			SupportScans:           calc.Scans(),
			Levels:                 table.Stats,
			Timings: Timings{
				Mining: mined.Sub(start),
				Rules:  done.Sub(mined),
				Total:  done.Sub(start),
			},
		},
	}

	switch {
	case table.Len() == 0:
		result.Outcome = OutcomeNoFrequentItemsets
	case len(rules) == 0:
		result.Outcome = OutcomeNoRules
	default:
		result.Outcome = OutcomePatternsFound
	}

	log.Info().
		Str("outcome", string(result.Outcome)).
		Int("transactions", store.Len()).
		Int("frequent_itemsets", table.Len()).
		Int("rules", len(rules)).
		Dur("duration", result.Statistics.Timings.Total).
		Msg("Analysis completed")

	return result, nil
}
