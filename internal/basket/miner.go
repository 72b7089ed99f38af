// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// MinerOptions bounds a mining run.
type MinerOptions struct {
	// MinSupport is the inclusive support threshold in [0, 1].
	MinSupport float64

	// MaxItemsetSize stops the search after this level. 0 means unbounded.
	MaxItemsetSize int

	// MaxCandidatesPerLevel stops the search when a level would need to count
	// more candidates than this. 0 means unbounded.
	MaxCandidatesPerLevel int
}

// FrequentItemset is an itemset whose support met the threshold.
type FrequentItemset struct {
	Items   Itemset `json:"items"`
	Support float64 `json:"support"`
	Size    int     `json:"size"`
	Count   int     `json:"transaction_count"`
}

// LevelStats describes the work done for one itemset size.
type LevelStats struct {
	K          int           `json:"k"`
	Candidates int           `json:"candidates"`
	Pruned     int           `json:"pruned"`
	Frequent   int           `json:"frequent"`
	Duration   time.Duration `json:"duration_ns"`
}

// FrequentItemsetTable holds the frequent itemsets of each size, level 1 first.
// Every non-empty subset of an itemset in the table is also in the table.
type FrequentItemsetTable struct {
	levels [][]FrequentItemset
	index  map[string]FrequentItemset

	// Stats has one entry per level that was attempted, including the last
	// (possibly empty) one.
	Stats []LevelStats

	// Truncated is set when a size or candidate budget ended the search early.
	Truncated bool
}

// MaxK returns the size of the largest frequent itemsets, 0 when there are none.
func (t *FrequentItemsetTable) MaxK() int {
	return len(t.levels)
}

// Level returns the frequent itemsets of size k, sorted by key.
func (t *FrequentItemsetTable) Level(k int) []FrequentItemset {
	if k < 1 || k > len(t.levels) {
		return nil
	}
	return t.levels[k-1]
}

// Len returns the total number of frequent itemsets across all levels.
func (t *FrequentItemsetTable) Len() int {
	return len(t.index)
}

// Lookup returns the entry for s if s is frequent.
func (t *FrequentItemsetTable) Lookup(s Itemset) (FrequentItemset, bool) {
	fi, ok := t.index[s.Key()]
	return fi, ok
}

// All returns every frequent itemset ordered by support descending, then size
// ascending, then key.
func (t *FrequentItemsetTable) All() []FrequentItemset {
	out := make([]FrequentItemset, 0, len(t.index))
	for _, level := range t.levels {
		out = append(out, level...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Support != out[j].Support {
			return out[i].Support > out[j].Support
		}
		if out[i].Items.Len() != out[j].Items.Len() {
			return out[i].Items.Len() < out[j].Items.Len()
		}
		return out[i].Items.Key() < out[j].Items.Key()
	})
	return out
}

// Miner runs the level-wise Apriori search.
type Miner struct {
	calc   *SupportCalculator
	opts   MinerOptions
	logger zerolog.Logger
}

// NewMiner creates a miner over the calculator's store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMiner(calc *SupportCalculator, opts MinerOptions, logger zerolog.Logger) *Miner {
	return &Miner{
		calc:   calc,
		opts:   opts,
		logger: logger.With().Str("component", "miner").Logger(),
	}
}

// Mine returns all frequent itemsets. The context is checked between levels;
// on cancellation the levels completed so far are discarded and ctx.Err() is
// returned.
func (m *Miner) Mine(ctx context.Context) (*FrequentItemsetTable, error) {
	table := &FrequentItemsetTable{index: make(map[string]FrequentItemset)}
	if m.calc.Total() == 0 {
		return table, nil
	}

	current := m.levelOne(table)
	for k := 2; len(current) > 0; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.opts.MaxItemsetSize > 0 && k > m.opts.MaxItemsetSize {
			table.Truncated = true
			m.logger.Debug().Int("k", k).Int("max_itemset_size", m.opts.MaxItemsetSize).
				Msg("Itemset size budget reached")
			break
		}

		start := time.Now()
		candidates := joinLevel(current, k)
		stats := LevelStats{K: k, Candidates: len(candidates)}
		if len(candidates) == 0 {
			stats.Duration = time.Since(start)
			table.Stats = append(table.Stats, stats)
			break
		}

		if k >= 3 {
			var pruned int
			candidates, pruned = pruneCandidates(candidates, current)
			stats.Pruned = pruned
		}

		if m.opts.MaxCandidatesPerLevel > 0 && len(candidates) > m.opts.MaxCandidatesPerLevel {
			stats.Duration = time.Since(start)
			table.Stats = append(table.Stats, stats)
			table.Truncated = true
			m.logger.Warn().Int("k", k).Int("candidates", len(candidates)).
				Int("max_candidates", m.opts.MaxCandidatesPerLevel).
				Msg("Candidate budget exceeded, stopping search")
			break
		}

		current = m.filter(candidates)
		stats.Frequent = len(current)
		stats.Duration = time.Since(start)
		table.Stats = append(table.Stats, stats)
		m.addLevel(table, current)

		m.logger.Debug().Int("k", k).Int("candidates", stats.Candidates).
			Int("pruned", stats.Pruned).Int("frequent", stats.Frequent).
			Msg("Level mined")
	}
	return table, nil
}

// levelOne counts single items in one pass and seeds the calculator memo.
func (m *Miner) levelOne(table *FrequentItemsetTable) []FrequentItemset {
	start := time.Now()
	total := float64(m.calc.Total())
	items := m.calc.store.UniqueItems()

	frequent := make([]FrequentItemset, 0, len(items))
	for _, item := range items {
		set := fromSorted([]string{item})
		count := m.calc.store.ItemCount(item)
		m.calc.Seed(set, count)
		support := float64(count) / total
		if support >= m.opts.MinSupport {
			frequent = append(frequent, FrequentItemset{Items: set, Support: support, Size: 1, Count: count})
		}
	}

	table.Stats = append(table.Stats, LevelStats{
		K:          1,
		Candidates: len(items),
		Frequent:   len(frequent),
		Duration:   time.Since(start),
	})
	m.addLevel(table, frequent)
	return frequent
}

func (m *Miner) filter(candidates []Itemset) []FrequentItemset {
	frequent := make([]FrequentItemset, 0, len(candidates))
	for _, c := range candidates {
		support := m.calc.Support(c)
		if support >= m.opts.MinSupport {
			frequent = append(frequent, FrequentItemset{Items: c, Support: support, Size: c.Len(), Count: m.calc.Count(c)})
		}
	}
	return frequent
}

func (m *Miner) addLevel(table *FrequentItemsetTable, level []FrequentItemset) {
	if len(level) == 0 {
		return
	}
	table.levels = append(table.levels, level)
	for _, fi := range level {
		table.index[fi.Items.Key()] = fi
	}
}

// joinLevel unions every unordered pair of (k-1)-itemsets and keeps the
// distinct unions of exactly k items, sorted by key.
func joinLevel(prev []FrequentItemset, k int) []Itemset {
	seen := make(map[string]struct{})
	out := make([]Itemset, 0)
	for i := 0; i < len(prev); i++ {
		for j := i + 1; j < len(prev); j++ {
			u := prev[i].Items.Union(prev[j].Items)
			if u.Len() != k {
				continue
			}
			key := u.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, u)
		}
	}
	sortItemsets(out)
	return out
}

// pruneCandidates drops candidates with any (k-1)-subset missing from prev.
func pruneCandidates(candidates []Itemset, prev []FrequentItemset) ([]Itemset, int) {
	frequent := make(map[string]struct{}, len(prev))
	for _, fi := range prev {
		frequent[fi.Items.Key()] = struct{}{}
	}

	kept := candidates[:0]
	pruned := 0
	for _, c := range candidates {
		ok := true
		for i := 0; i < c.Len(); i++ {
			if _, found := frequent[c.without(i).Key()]; !found {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		} else {
			pruned++
		}
	}
	return kept, pruned
}
