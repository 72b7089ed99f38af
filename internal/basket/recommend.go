// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"fmt"
	"strings"
)

// Recommendation is a product suggested for a basket together with the
// metrics of the first rule that produced it.
type Recommendation struct {
	Product    string   `json:"product"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
	Support    float64  `json:"support"`
	BasedOn    []string `json:"based_on"`
	Reason     string   `json:"reason"`
}

// Recommender serves suggestions from a sorted RuleSet. It is read-only and
// safe for concurrent use.
type Recommender struct {
	rules RuleSet
}

// NewRecommender wraps rules, which must already be in RuleSet order.
func NewRecommender(rules RuleSet) *Recommender {
	return &Recommender{rules: rules}
}

// Recommend returns at most topN products not already in the basket. Rules are
// scanned in order and a rule applies when its antecedent is contained in the
// basket. Each product appears once, carrying the metrics of the first
// applicable rule that named it.
func (r *Recommender) Recommend(items []string, topN int) []Recommendation {
	recs := make([]Recommendation, 0)
	if topN <= 0 || len(r.rules) == 0 {
		return recs
	}

	basket := normalizeBasket(items)
	seen := make(map[string]struct{})
	for i := range r.rules {
		rule := &r.rules[i]
		if !rule.Antecedent.IsSubsetOf(basket) {
			continue
		}
		for _, product := range rule.Consequent.items {
			if basket.Contains(product) {
				continue
			}
			if _, dup := seen[product]; dup {
				continue
			}
			seen[product] = struct{}{}
			recs = append(recs, Recommendation{
				Product:    product,
				Confidence: rule.Confidence,
				Lift:       rule.Lift,
				Support:    rule.Support,
				BasedOn:    rule.Antecedent.Items(),
				Reason:     ruleReason(rule.Antecedent),
			})
			if len(recs) == topN {
				return recs
			}
		}
	}
	return recs
}

// normalizeBasket trims names and drops empty ones.
func normalizeBasket(items []string) Itemset {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return NewItemset(cleaned...)
}

func ruleReason(antecedent Itemset) string {
	return fmt.Sprintf("Customers who bought %s also bought this", strings.Join(antecedent.items, ", "))
}
