// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/basket"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid params", fmt.Errorf("wrap: %w", basket.ErrInvalidParams), http.StatusBadRequest, ErrCodeInvalidParams},
		{"invalid input", &basket.InvalidInputError{Row: 2, Field: "item_name", Reason: "is empty"}, http.StatusBadRequest, ErrCodeInvalidInput},
		{"not found", fmt.Errorf("load dataset: %w", analysis.ErrDatasetNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"not analyzed", analysis.ErrNotAnalyzed, http.StatusConflict, ErrCodeNotAnalyzed},
		{"too many rows", analysis.ErrTooManyRows, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{"rate limited", analysis.ErrRateLimited, http.StatusTooManyRequests, ErrCodeRateLimited},
		{"busy", analysis.ErrBusy, http.StatusServiceUnavailable, ErrCodeBusy},
		{"deadline", fmt.Errorf("mine: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"canceled", context.Canceled, http.StatusRequestTimeout, ErrCodeCanceled},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, code := errorStatus(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("errorStatus() = %d/%s, want %d/%s", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantMessage string
		retryAfter  bool
	}{
		{"internal errors are masked", errors.New("badger: value log corrupt"), "internal server error", false},
		{"client errors keep their message", analysis.ErrNotAnalyzed, analysis.ErrNotAnalyzed.Error(), false},
		{"busy sets Retry-After", analysis.ErrBusy, analysis.ErrBusy.Error(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			respondServiceError(NewResponseWriter(rec, req), req, tt.err)

			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error == nil || env.Error.Message != tt.wantMessage {
				t.Errorf("error = %+v, want message %q", env.Error, tt.wantMessage)
			}
			if got := rec.Header().Get("Retry-After") != ""; got != tt.retryAfter {
				t.Errorf("Retry-After present = %v, want %v", got, tt.retryAfter)
			}
		})
	}
}
