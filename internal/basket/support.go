// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

// SupportCalculator computes itemset support against one TransactionStore.
// Counts are memoized by itemset key for the lifetime of the calculator,
// which should be one analysis run.
type SupportCalculator struct {
	store  *TransactionStore
	counts map[string]int

	lookups int
	scans   int
}

// NewSupportCalculator creates a calculator with an empty memo.
func NewSupportCalculator(store *TransactionStore) *SupportCalculator {
	return &SupportCalculator{
		store:  store,
		counts: make(map[string]int),
	}
}

// Total returns the number of transactions support is measured against.
func (c *SupportCalculator) Total() int {
	return c.store.Len()
}

// Count returns how many transactions contain every member of s.
func (c *SupportCalculator) Count(s Itemset) int {
	c.lookups++
	key := s.Key()
	if n, ok := c.counts[key]; ok {
		return n
	}

	c.scans++
	n := 0
	for _, tx := range c.store.transactions {
		if s.IsSubsetOf(tx.Items) {
			n++
		}
	}
	c.counts[key] = n
	return n
}

// Support returns the fraction of transactions containing s, in [0, 1].
// An empty store yields 0.
func (c *SupportCalculator) Support(s Itemset) float64 {
	total := c.store.Len()
	if total == 0 {
		return 0
	}
	return float64(c.Count(s)) / float64(total)
}

// Seed records a count computed elsewhere, such as the single level-1 pass.
func (c *SupportCalculator) Seed(s Itemset, count int) {
	c.counts[s.Key()] = count
}

// Lookups returns the number of Count calls, memo hits included.
func (c *SupportCalculator) Lookups() int {
	return c.lookups
}

// Scans returns the number of Count calls that had to walk the store.
func (c *SupportCalculator) Scans() int {
	return c.scans
}
