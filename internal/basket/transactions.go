// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"sort"
	"strings"
)

// Row is one raw (transaction, item) pair as supplied by the caller.
type Row struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Item          string `json:"item_name" validate:"required"`
}

// Transaction is one purchase event: an opaque ID and the distinct items bought.
type Transaction struct {
	ID    string  `json:"id"`
	Items Itemset `json:"items"`
}

// ItemCount pairs an item name with the number of transactions containing it.
type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// TransactionStore is the normalized, read-only view of a dataset.
// Transactions keep the order in which their IDs first appeared.
type TransactionStore struct {
	transactions []Transaction
	itemCounts   map[string]int
	totalItems   int
}

// Load groups rows by transaction ID, collapsing duplicate items.
// Leading and trailing whitespace is trimmed from IDs and item names; a value
// that is empty after trimming is rejected with *InvalidInputError.
func Load(rows []Row) (*TransactionStore, error) {
	if len(rows) == 0 {
		return nil, &InvalidInputError{Row: -1, Reason: "no transaction rows supplied"}
	}

	order := make([]string, 0)
	grouped := make(map[string][]string)
	for i, row := range rows {
		id := strings.TrimSpace(row.TransactionID)
		if id == "" {
			return nil, &InvalidInputError{Row: i, Field: "transaction_id", Reason: "is empty"}
		}
		item := strings.TrimSpace(row.Item)
		if item == "" {
			return nil, &InvalidInputError{Row: i, Field: "item_name", Reason: "is empty"}
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], item)
	}

	store := &TransactionStore{
		transactions: make([]Transaction, 0, len(order)),
		itemCounts:   make(map[string]int),
	}
	for _, id := range order {
		items := NewItemset(grouped[id]...)
		if items.Len() == 0 {
			continue
		}
		store.transactions = append(store.transactions, Transaction{ID: id, Items: items})
		store.totalItems += items.Len()
		for _, item := range items.items {
			store.itemCounts[item]++
		}
	}
	return store, nil
}

// Len returns the number of transactions.
func (s *TransactionStore) Len() int {
	return len(s.transactions)
}

// Transactions returns the transactions in load order. The slice must not be modified.
func (s *TransactionStore) Transactions() []Transaction {
	return s.transactions
}

// UniqueItems returns every distinct item name, sorted.
func (s *TransactionStore) UniqueItems() []string {
	items := make([]string, 0, len(s.itemCounts))
	for item := range s.itemCounts {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// ItemCount returns the number of transactions that contain item.
func (s *TransactionStore) ItemCount(item string) int {
	return s.itemCounts[item]
}

// AvgItemsPerTransaction returns the mean basket size, or 0 for an empty store.
func (s *TransactionStore) AvgItemsPerTransaction() float64 {
	if len(s.transactions) == 0 {
		return 0
	}
	return float64(s.totalItems) / float64(len(s.transactions))
}

// TopItems returns up to n items ordered by transaction count descending,
// ties broken by name. n <= 0 returns every item.
func (s *TransactionStore) TopItems(n int) []ItemCount {
	counts := make([]ItemCount, 0, len(s.itemCounts))
	for item, c := range s.itemCounts {
		counts = append(counts, ItemCount{Item: item, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Item < counts[j].Item
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Rows flattens the store back into rows, one per (transaction, item) pair.
func (s *TransactionStore) Rows() []Row {
	rows := make([]Row, 0, s.totalItems)
	for _, tx := range s.transactions {
		for _, item := range tx.Items.items {
			rows = append(rows, Row{TransactionID: tx.ID, Item: item})
		}
	}
	return rows
}
