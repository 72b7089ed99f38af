// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package basket implements Apriori frequent-itemset mining, association-rule
// generation and rule-based product recommendations.
//
// # Pipeline
//
// An analysis run flows strictly downstream:
//
//   - TransactionStore: normalizes (transaction_id, item_name) rows into one
//     deduplicated item set per transaction
//   - SupportCalculator: computes the support of any itemset against the store,
//     memoizing counts for the lifetime of the run
//   - Miner: level-wise Apriori search (join, prune, support filter)
//   - GenerateRules: association rules with support, confidence, lift and
//     conviction, sorted by confidence then lift
//   - Recommender: ranks products for a basket from the sorted rules
//
// Analyze wires the stages together and returns a Result whose Outcome tags
// the empty cases (no frequent itemsets, no rules) instead of returning an error.
//
// # Usage
//
//	store, err := basket.Load(rows)
//	if err != nil {
//	    return err // *basket.InvalidInputError
//	}
//	result, err := basket.Analyze(ctx, store, basket.DefaultParams(), logger)
//	recs := basket.NewRecommender(result.Rules).Recommend([]string{"Milk"}, 5)
//
// # Thread Safety
//
// A TransactionStore, FrequentItemsetTable and RuleSet are immutable once built
// and may be shared. A SupportCalculator and a Miner belong to a single run and
// must not be used from more than one goroutine.
package basket
