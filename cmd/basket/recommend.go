// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/basket"
)

type recommendOptions struct {
	Items      []string
	TopN       int
	NoFallback bool
}

// recommendOutput mirrors the server's recommendation payload without a dataset ID.
type recommendOutput struct {
	Basket          []string                `json:"basket"`
	Recommendations []basket.Recommendation `json:"recommendations"`
	Source          string                  `json:"source"`
	Outcome         basket.Outcome          `json:"outcome"`
	RulesConsidered int                     `json:"rules_considered"`
}

func newRecommendCommand(opts *rootOptions) *cobra.Command {
	recOpts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend [rows.json] --item NAME [--item NAME...]",
		Short: "Recommend products for a basket",
		Long: `Analyze transaction rows, then recommend products for the given basket.

Recommendations come from the association rules whose antecedent is contained
in the basket. When no rule applies, the most purchased items not already in
the basket are returned instead unless --no-fallback is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, opts, recOpts, firstArg(args))
		},
	}

	cmd.Flags().StringArrayVarP(&recOpts.Items, "item", "i", nil, "item in the basket (repeatable)")
	cmd.Flags().IntVarP(&recOpts.TopN, "top-n", "n", basket.DefaultTopN, "maximum number of recommendations")
	cmd.Flags().BoolVar(&recOpts.NoFallback, "no-fallback", false, "do not fall back to popular items")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *rootOptions, recOpts *recommendOptions, path string) error {
	rows, err := readRows(cmd, path)
	if err != nil {
		return err
	}

	ts, err := basket.Load(rows)
	if err != nil {
		return err
	}

	result, err := basket.Analyze(cmd.Context(), ts, opts.Params, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	topN := recOpts.TopN
	if topN <= 0 {
		topN = basket.DefaultTopN
	}

	out := recommendOutput{
		Basket:          recOpts.Items,
		Recommendations: basket.NewRecommender(result.Rules).Recommend(recOpts.Items, topN),
		Source:          analysis.SourceRules,
		Outcome:         result.Outcome,
		RulesConsidered: len(result.Rules),
	}

	if len(out.Recommendations) == 0 {
		out.Source = analysis.SourceNone
		if !recOpts.NoFallback {
			if recs := analysis.NewPopularity(ts).TopK(recOpts.Items, topN); len(recs) > 0 {
				out.Recommendations = recs
				out.Source = analysis.SourcePopularity
			}
		}
	}

	return writeJSON(cmd, out, opts.Compact)
}
