// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// keySeparator joins item names in an itemset key. It cannot appear in
// item names typed by humans, so keys never collide.
const keySeparator = "\x1f"

// Itemset is an immutable set of item names kept in sorted order.
// Two itemsets with the same members have the same Key.
type Itemset struct {
	items []string
}

// NewItemset builds an itemset from the given names, dropping duplicates.
func NewItemset(items ...string) Itemset {
	if len(items) == 0 {
		return Itemset{}
	}
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	out := sorted[:1]
	for _, item := range sorted[1:] {
		if item != out[len(out)-1] {
			out = append(out, item)
		}
	}
	return Itemset{items: out}
}

// fromSorted wraps an already sorted, duplicate-free slice without copying.
func fromSorted(items []string) Itemset {
	return Itemset{items: items}
}

// Len returns the number of items in the set.
func (s Itemset) Len() int {
	return len(s.items)
}

// Items returns a copy of the members in sorted order.
func (s Itemset) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Key returns the canonical identity of the set, usable as a map key.
func (s Itemset) Key() string {
	return strings.Join(s.items, keySeparator)
}

// String renders the set as {a, b, c}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.items, ", ") + "}"
}

// Equal reports whether both sets have the same members.
func (s Itemset) Equal(other Itemset) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Contains reports whether item is a member of the set.
func (s Itemset) Contains(item string) bool {
	i := sort.SearchStrings(s.items, item)
	return i < len(s.items) && s.items[i] == item
}

// IsSubsetOf reports whether every member of s is also in other.
// The empty set is a subset of every set.
func (s Itemset) IsSubsetOf(other Itemset) bool {
	if len(s.items) > len(other.items) {
		return false
	}
	j := 0
	for _, item := range s.items {
		for j < len(other.items) && other.items[j] < item {
			j++
		}
		if j == len(other.items) || other.items[j] != item {
			return false
		}
		j++
	}
	return true
}

// Union returns the set of items present in either set.
func (s Itemset) Union(other Itemset) Itemset {
	out := make([]string, 0, len(s.items)+len(other.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		switch {
		case s.items[i] < other.items[j]:
			out = append(out, s.items[i])
			i++
		case s.items[i] > other.items[j]:
			out = append(out, other.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, other.items[j:]...)
	return fromSorted(out)
}

// Minus returns the members of s that are not in other.
func (s Itemset) Minus(other Itemset) Itemset {
	out := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if !other.Contains(item) {
			out = append(out, item)
		}
	}
	return fromSorted(out)
}

// without returns a copy of s with the member at index i removed.
func (s Itemset) without(i int) Itemset {
	out := make([]string, 0, len(s.items)-1)
	out = append(out, s.items[:i]...)
	out = append(out, s.items[i+1:]...)
	return fromSorted(out)
}

// pick returns the subset made of the members at the given ascending indices.
func (s Itemset) pick(indices []int) Itemset {
	out := make([]string, len(indices))
	for n, i := range indices {
		out[n] = s.items[i]
	}
	return fromSorted(out)
}

// MarshalJSON encodes the set as a sorted array of names.
func (s Itemset) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes an array of names, normalizing order and duplicates.
func (s *Itemset) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewItemset(items...)
	return nil
}

// sortItemsets orders itemsets by key so level contents are deterministic.
func sortItemsets(sets []Itemset) {
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Key() < sets[j].Key()
	})
}
