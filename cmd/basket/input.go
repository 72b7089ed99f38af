// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/validation"
)

// stdinPath reads rows from the command's input stream.
const stdinPath = "-"

type rowsInput struct {
	Rows []basket.Row `validate:"required,min=1,dive"`
}

// readRows decodes a JSON array of rows from path, or from stdin when path is
// empty or "-".
func readRows(cmd *cobra.Command, path string) ([]basket.Row, error) {
	var r io.Reader
	if path == "" || path == stdinPath {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path) //nolint:gosec // path is an explicit CLI argument
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeRows(r)
}

func decodeRows(r io.Reader) ([]basket.Row, error) {
	var in rowsInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in.Rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input is empty: expected a JSON array of rows")
		}
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, fmt.Errorf("%w: %s", basket.ErrInvalidInput, verr.Error())
	}
	return in.Rows, nil
}

// writeJSON encodes v to the command's output stream.
func writeJSON(cmd *cobra.Command, v any, compact bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
