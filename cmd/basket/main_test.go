// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/basket"
)

const groceryJSON = `[
	{"transaction_id": "T1", "item_name": "Bread"},
	{"transaction_id": "T1", "item_name": "Milk"},
	{"transaction_id": "T1", "item_name": "Butter"},
	{"transaction_id": "T2", "item_name": "Bread"},
	{"transaction_id": "T2", "item_name": "Milk"},
	{"transaction_id": "T3", "item_name": "Bread"},
	{"transaction_id": "T3", "item_name": "Butter"},
	{"transaction_id": "T3", "item_name": "Cheese"},
	{"transaction_id": "T4", "item_name": "Milk"},
	{"transaction_id": "T4", "item_name": "Cheese"},
	{"transaction_id": "T5", "item_name": "Bread"},
	{"transaction_id": "T5", "item_name": "Milk"},
	{"transaction_id": "T5", "item_name": "Butter"},
	{"transaction_id": "T6", "item_name": "Beer"},
	{"transaction_id": "T6", "item_name": "Chips"}
]`

var groceryFlags = []string{"--min-support", "0.3", "--min-confidence", "0.5", "--min-lift", "1.0", "--log-level", "error"}

// execute runs the CLI with stdin set to input and returns stdout.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	for _, name := range []string{"analyze", "recommend"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q) error = %v", name, err)
		}
		if sub.Name() != name {
			t.Errorf("Find(%q) = %q", name, sub.Name())
		}
	}

	flag := cmd.PersistentFlags().Lookup("min-support")
	if flag == nil || flag.DefValue != "0.01" {
		t.Errorf("min-support flag = %+v, want default 0.01", flag)
	}
}

func TestAnalyze_Stdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, groceryJSON, append([]string{"analyze"}, groceryFlags...)...)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var result struct {
		Outcome          basket.Outcome    `json:"outcome"`
		FrequentItemsets []json.RawMessage `json:"frequent_itemsets"`
		Rules            []json.RawMessage `json:"association_rules"`
		Statistics       struct {
			TotalTransactions int     `json:"total_transactions"`
			TotalUniqueItems  int     `json:"total_unique_items"`
			MinSupport        float64 `json:"min_support"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if result.Outcome != basket.OutcomePatternsFound {
		t.Errorf("outcome = %q, want %q", result.Outcome, basket.OutcomePatternsFound)
	}
	if result.Statistics.TotalTransactions != 6 || result.Statistics.TotalUniqueItems != 6 {
		t.Errorf("statistics = %+v, want 6 transactions and 6 items", result.Statistics)
	}
	if result.Statistics.MinSupport != 0.3 {
		t.Errorf("min_support = %v, want 0.3", result.Statistics.MinSupport)
	}
	if len(result.FrequentItemsets) == 0 || len(result.Rules) == 0 {
		t.Errorf("got %d itemsets and %d rules, want both non-empty", len(result.FrequentItemsets), len(result.Rules))
	}
}

func TestAnalyze_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(groceryJSON), 0o600); err != nil {
		t.Fatalf("write rows: %v", err)
	}

	out, err := execute(t, "", append([]string{"analyze", path, "--compact"}, groceryFlags...)...)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Errorf("--compact output spans multiple lines")
	}
	if !strings.Contains(out, `"outcome":"patterns_found"`) {
		t.Errorf("output missing outcome: %s", out)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty input",
			input:   "",
			args:    []string{"analyze"},
			wantMsg: "input is empty",
		},
		{
			name:    "empty array",
			input:   "[]",
			args:    []string{"analyze"},
			wantErr: basket.ErrInvalidInput,
		},
		{
			name:    "missing item name",
			input:   `[{"transaction_id": "T1", "item_name": ""}]`,
			args:    []string{"analyze"},
			wantErr: basket.ErrInvalidInput,
		},
		{
			name:    "unknown field",
			input:   `[{"transaction_id": "T1", "item_name": "Bread", "qty": 2}]`,
			args:    []string{"analyze"},
			wantMsg: "decode rows",
		},
		{
			name:    "support out of range",
			input:   groceryJSON,
			args:    []string{"analyze", "--min-support", "1.5"},
			wantErr: basket.ErrInvalidParams,
		},
		{
			name:    "missing file",
			input:   "",
			args:    []string{"analyze", filepath.Join(os.TempDir(), "marketbasket-does-not-exist.json")},
			wantMsg: "open input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.input, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantSource string
		wantFirst  string
		wantCount  int
	}{
		{
			name:       "rule based",
			args:       []string{"--item", "Butter"},
			wantSource: analysis.SourceRules,
			wantFirst:  "Bread",
		},
		{
			name:       "popularity fallback",
			args:       []string{"--item", "Beer", "--top-n", "3"},
			wantSource: analysis.SourcePopularity,
			wantFirst:  "Bread",
			wantCount:  3,
		},
		{
			name:       "fallback disabled",
			args:       []string{"-i", "Beer", "--no-fallback"},
			wantSource: analysis.SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"recommend"}, groceryFlags...)
			out, err := execute(t, groceryJSON, append(args, tt.args...)...)
			if err != nil {
				t.Fatalf("recommend error = %v", err)
			}

			var got recommendOutput
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decode output: %v\n%s", err, out)
			}
			if got.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", got.Source, tt.wantSource)
			}
			if tt.wantFirst == "" {
				if len(got.Recommendations) != 0 {
					t.Errorf("recommendations = %+v, want none", got.Recommendations)
				}
				return
			}
			if len(got.Recommendations) == 0 {
				t.Fatal("no recommendations returned")
			}
			if got.Recommendations[0].Product != tt.wantFirst {
				t.Errorf("first product = %q, want %q", got.Recommendations[0].Product, tt.wantFirst)
			}
			if tt.wantCount > 0 && len(got.Recommendations) != tt.wantCount {
				t.Errorf("got %d recommendations, want %d", len(got.Recommendations), tt.wantCount)
			}
			for _, rec := range got.Recommendations {
				for _, item := range got.Basket {
					if rec.Product == item {
						t.Errorf("recommended %q which is already in the basket", item)
					}
				}
			}
		})
	}
}

func TestRecommend_RequiresItem(t *testing.T) {
	t.Parallel()

	_, err := execute(t, groceryJSON, "recommend")
	if err == nil || !strings.Contains(err.Error(), "item") {
		t.Errorf("error = %v, want required flag error", err)
	}
}
