// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Command basket runs market basket analysis offline.
//
// It reads transaction rows as a JSON array of
// {"transaction_id": "...", "item_name": "..."} objects from a file or stdin,
// runs the same Apriori and rule generation as the server, and writes JSON to
// stdout. Logs go to stderr.
//
//	basket analyze rows.json --min-support 0.05 --min-confidence 0.3
//	cat rows.json | basket recommend --item Bread --item Milk --top-n 3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
