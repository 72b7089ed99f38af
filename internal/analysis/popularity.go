// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package analysis

import (
	"fmt"
	"strings"

	"github.com/tomtom215/marketbasket/internal/basket"
)

// Sources of a recommendation response.
const (
	SourceRules      = "rules"
	SourcePopularity = "popularity"
	SourceNone       = "none"
)

// Popularity ranks items by the number of transactions containing them.
// It answers recommendation requests when no association rule applies.
//
// The support of a popular item is count / total transactions; confidence and
// lift are 0 since no rule backs the suggestion.
type Popularity struct {
	ranked []basket.ItemCount
	total  int
}

// NewPopularity ranks every item in ts, most frequent first with ties by name.
func NewPopularity(ts *basket.TransactionStore) *Popularity {
	return &Popularity{
		ranked: ts.TopItems(0),
		total:  ts.Len(),
	}
}

// TopK returns up to k of the most popular items that are not in the basket.
func (p *Popularity) TopK(items []string, k int) []basket.Recommendation {
	recs := make([]basket.Recommendation, 0)
	if k <= 0 || p.total == 0 {
		return recs
	}

	inBasket := make(map[string]struct{}, len(items))
	for _, item := range items {
		inBasket[strings.TrimSpace(item)] = struct{}{}
	}

	for _, ic := range p.ranked {
		if len(recs) == k {
			break
		}
		if _, ok := inBasket[ic.Item]; ok {
			continue
		}
		recs = append(recs, basket.Recommendation{
			Product: ic.Item,
			Support: float64(ic.Count) / float64(p.total),
			BasedOn: []string{SourcePopularity},
			Reason:  fmt.Sprintf("Popular item bought in %d of %d transactions", ic.Count, p.total),
		})
	}
	return recs
}
