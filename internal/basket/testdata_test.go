// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"fmt"
	"math/rand"
	"testing"
)

// groceryRows is the six-transaction bakery/dairy example.
func groceryRows() []Row {
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
	var rows []Row
	for _, b := range baskets {
		for _, item := range b.items {
			rows = append(rows, Row{TransactionID: b.id, Item: item})
		}
	}
	return rows
}

// randomRows builds a reproducible dataset over a small item universe so
// that every itemset can be enumerated by brute force.
func randomRows(seed int64, transactions int, universe []string) []Row {
	rng := rand.New(rand.NewSource(seed))
	var rows []Row
	for t := 0; t < transactions; t++ {
		id := fmt.Sprintf("tx-%03d", t)
		picked := 0
		for _, item := range universe {
			if rng.Float64() < 0.45 {
				rows = append(rows, Row{TransactionID: id, Item: item})
				picked++
			}
		}
		if picked == 0 {
			rows = append(rows, Row{TransactionID: id, Item: universe[rng.Intn(len(universe))]})
		}
	}
	return rows
}

var propertyUniverse = []string{"Apples", "Bread", "Coffee", "Diapers", "Eggs", "Flour"}

func mustLoad(t *testing.T, rows []Row) *TransactionStore {
	t.Helper()
	store, err := Load(rows)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return store
}

// allSubsets enumerates every non-empty subset of universe.
func allSubsets(universe []string) []Itemset {
	n := len(universe)
	out := make([]Itemset, 0, 1<<n)
	for mask := 1; mask < 1<<n; mask++ {
		var items []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				items = append(items, universe[i])
			}
		}
		out = append(out, NewItemset(items...))
	}
	return out
}
