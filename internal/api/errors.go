// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/logging"
)

// errorStatus maps a service error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, basket.ErrInvalidParams):
		return http.StatusBadRequest, ErrCodeInvalidParams
	case errors.Is(err, basket.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case errors.Is(err, analysis.ErrDatasetNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, analysis.ErrNotAnalyzed):
		return http.StatusConflict, ErrCodeNotAnalyzed
	case errors.Is(err, analysis.ErrTooManyRows):
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge
	case errors.Is(err, analysis.ErrRateLimited):
		return http.StatusTooManyRequests, ErrCodeRateLimited
	case errors.Is(err, analysis.ErrBusy):
		return http.StatusServiceUnavailable, ErrCodeBusy
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, ErrCodeCanceled
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondServiceError writes err as an API error. Server-side failures are
// logged and reported with a generic message.
func respondServiceError(rw *ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)

	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		message = "internal server error"
	case http.StatusGatewayTimeout:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Analysis timed out")
		message = "analysis did not finish within the configured timeout"
	}

	if status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests {
		rw.w.Header().Set("Retry-After", "1")
	}
	rw.Error(status, code, message)
}
