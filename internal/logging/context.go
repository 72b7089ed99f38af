// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	datasetIDKey
)

// GenerateRequestID returns a random UUID for requests that arrive without
// an X-Request-ID header.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID tags ctx with the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID of ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithDatasetID tags ctx with the dataset a request operates on.
func ContextWithDatasetID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, datasetIDKey, id)
}

// DatasetIDFromContext returns the dataset ID of ctx, or "".
func DatasetIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(datasetIDKey).(string)
	return id
}

// Ctx returns the process logger with request_id and dataset_id fields taken
// from ctx. Absent IDs are omitted.
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Store health check failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	zctx := global.Load().With()
	if id := RequestIDFromContext(ctx); id != "" {
		zctx = zctx.Str("request_id", id)
	}
	if id := DatasetIDFromContext(ctx); id != "" {
		zctx = zctx.Str("dataset_id", id)
	}
	logger := zctx.Logger()
	return &logger
}
