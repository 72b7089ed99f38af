// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/basket"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [rows.json]",
		Short: "Mine frequent itemsets and association rules",
		Long: `Mine frequent itemsets and association rules from transaction rows.

Rows are read from the named file, or from stdin when no file (or "-") is
given. The result holds the frequent itemsets, the rules that pass the
confidence and lift thresholds, and run statistics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, firstArg(args))
		},
	}
}

func runAnalyze(cmd *cobra.Command, opts *rootOptions, path string) error {
	rows, err := readRows(cmd, path)
	if err != nil {
		return err
	}

	result, err := basket.AnalyzeRows(cmd.Context(), rows, opts.Params, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	return writeJSON(cmd, result, opts.Compact)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
