// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package basket

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
)

// Lift thresholds used to classify rule strength in statistics.
const (
	StrongLift     = 2.0
	VeryStrongLift = 3.0
)

// RuleOptions holds the rule emission thresholds.
type RuleOptions struct {
	MinConfidence float64
	MinLift       float64
}

// AssociationRule states that baskets containing Antecedent tend to also
// contain Consequent. The two sides are disjoint and their union is frequent.
type AssociationRule struct {
	Antecedent Itemset
	Consequent Itemset

	// Support is the support of Antecedent ∪ Consequent.
	Support    float64
	Confidence float64
	Lift       float64

	// Conviction is +Inf when Confidence is 1.
	Conviction float64

	AntecedentSupport float64
	ConsequentSupport float64

	// TransactionCount is the number of transactions containing both sides.
	TransactionCount int
}

type ruleJSON struct {
	Antecedent        Itemset  `json:"antecedent"`
	Consequent        Itemset  `json:"consequent"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
	Conviction        *float64 `json:"conviction"`
	AntecedentSupport float64  `json:"antecedent_support"`
	ConsequentSupport float64  `json:"consequent_support"`
	TransactionCount  int      `json:"transaction_count"`
}

// MarshalJSON encodes an infinite conviction as null.
//
//nolint:gocritic // value receiver so both rules and pointers marshal the same way
func (r AssociationRule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		Antecedent:        r.Antecedent,
		Consequent:        r.Consequent,
		Support:           r.Support,
		Confidence:        r.Confidence,
		Lift:              r.Lift,
		AntecedentSupport: r.AntecedentSupport,
		ConsequentSupport: r.ConsequentSupport,
		TransactionCount:  r.TransactionCount,
	}
	if !math.IsInf(r.Conviction, 1) {
		conviction := r.Conviction
		out.Conviction = &conviction
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null conviction as +Inf.
func (r *AssociationRule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = AssociationRule{
		Antecedent:        in.Antecedent,
		Consequent:        in.Consequent,
		Support:           in.Support,
		Confidence:        in.Confidence,
		Lift:              in.Lift,
		Conviction:        math.Inf(1),
		AntecedentSupport: in.AntecedentSupport,
		ConsequentSupport: in.ConsequentSupport,
		TransactionCount:  in.TransactionCount,
	}
	if in.Conviction != nil {
		r.Conviction = *in.Conviction
	}
	return nil
}

// RuleSet is a list of rules sorted by confidence descending, then lift
// descending, then antecedent and consequent keys.
type RuleSet []AssociationRule

// CountLiftAbove returns the number of rules whose lift is strictly above threshold.
func (rs RuleSet) CountLiftAbove(threshold float64) int {
	n := 0
	for i := range rs {
		if rs[i].Lift > threshold {
			n++
		}
	}
	return n
}

// GenerateRules derives every rule A -> I\A from the frequent itemsets of size
// two or more that meets both thresholds. Candidate rules whose antecedent or
// consequent has zero support are skipped.
func GenerateRules(table *FrequentItemsetTable, calc *SupportCalculator, opts RuleOptions) RuleSet {
	rules := make(RuleSet, 0)
	for k := 2; k <= table.MaxK(); k++ {
		for _, fi := range table.Level(k) {
			rules = appendRulesFor(rules, fi, calc, opts)
		}
	}
	sortRules(rules)
	return rules
}

func appendRulesFor(rules RuleSet, fi FrequentItemset, calc *SupportCalculator, opts RuleOptions) RuleSet {
	k := fi.Items.Len()
	for size := 1; size < k; size++ {
		forEachCombination(k, size, func(indices []int) {
			antecedent := fi.Items.pick(indices)
			antecedentSupport := calc.Support(antecedent)
			if antecedentSupport == 0 {
				return
			}
			confidence := fi.Support / antecedentSupport

			consequent := fi.Items.Minus(antecedent)
			consequentSupport := calc.Support(consequent)
			if consequentSupport == 0 {
				return
			}
			lift := confidence / consequentSupport

			if confidence < opts.MinConfidence || lift < opts.MinLift {
				return
			}
			rules = append(rules, AssociationRule{
				Antecedent:        antecedent,
				Consequent:        consequent,
				Support:           fi.Support,
				Confidence:        confidence,
				Lift:              lift,
				Conviction:        conviction(consequentSupport, confidence),
				AntecedentSupport: antecedentSupport,
				ConsequentSupport: consequentSupport,
				TransactionCount:  fi.Count,
			})
		})
	}
	return rules
}

func conviction(consequentSupport, confidence float64) float64 {
	if confidence >= 1 {
		return math.Inf(1)
	}
	return (1 - consequentSupport) / (1 - confidence)
}

func sortRules(rules RuleSet) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := &rules[i], &rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		if ak, bk := a.Antecedent.Key(), b.Antecedent.Key(); ak != bk {
			return ak < bk
		}
		return a.Consequent.Key() < b.Consequent.Key()
	})
}

// forEachCombination calls fn with every ascending r-subset of [0, n).
// The indices slice is reused between calls.
func forEachCombination(n, r int, fn func(indices []int)) {
	if r <= 0 || r > n {
		return
	}
	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}
	for {
		fn(indices)

		i := r - 1
		for i >= 0 && indices[i] == n-r+i {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < r; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
