// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/api"
	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/logging"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	LogLevel string
	Compact  bool
	Params   basket.Params
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{Params: basket.DefaultParams()}

	cmd := &cobra.Command{
		Use:           "basket",
		Short:         "Market basket analysis and product recommendations",
		Long:          "Mine frequent itemsets and association rules from transaction rows, and recommend products for a basket.",
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.Params.Validate()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.Compact, "compact", false, "write JSON without indentation")
	flags.Float64Var(&opts.Params.MinSupport, "min-support", basket.DefaultMinSupport, "minimum itemset support in [0, 1]")
	flags.Float64Var(&opts.Params.MinConfidence, "min-confidence", basket.DefaultMinConfidence, "minimum rule confidence in [0, 1]")
	flags.Float64Var(&opts.Params.MinLift, "min-lift", basket.DefaultMinLift, "minimum rule lift")
	flags.IntVar(&opts.Params.MaxItemsetSize, "max-itemset-size", 0, "largest itemset to mine (0 for no limit)")
	flags.IntVar(&opts.Params.MaxCandidatesPerLevel, "max-candidates", 0, "candidate cap per Apriori level (0 for no limit)")

	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newRecommendCommand(opts))

	return cmd
}

// logger writes human-readable logs to w at the configured level.
func (o *rootOptions) logger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(logging.ParseLevel(o.LogLevel)).
		With().
		Timestamp().
		Logger()
}
