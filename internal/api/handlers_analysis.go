// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"

	"github.com/tomtom215/marketbasket/internal/store"
)

// AnalyzeRows handles POST /api/v1/analyze. Nothing is persisted.
func (h *Handler) AnalyzeRows(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AnalyzeRequest
	if !bindJSON(rw, r, &req, false) {
		return
	}

	params := req.Params.Apply(h.svc.Config().Defaults)
	result, err := h.svc.AnalyzeRows(r.Context(), req.Rows, params)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(result)
}

// CreateDataset handles POST /api/v1/datasets.
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CreateDatasetRequest
	if !bindJSON(rw, r, &req, false) {
		return
	}

	summary, err := h.svc.CreateDataset(r.Context(), req.Name, req.Rows)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/datasets/"+summary.ID)
	rw.Created(summary)
}

// ListDatasets handles GET /api/v1/datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	infos, err := h.svc.ListDatasets(r.Context())
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	if infos == nil {
		infos = []store.DatasetInfo{}
	}
	count := len(infos)
	rw.SuccessWithMeta(infos, &APIMeta{Count: &count})
}

// GetDataset handles GET /api/v1/datasets/{datasetID}.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id, r := datasetRequest(r)
	rw := NewResponseWriter(w, r)

	summary, err := h.svc.DatasetSummary(r.Context(), id)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(summary)
}

// DeleteDataset handles DELETE /api/v1/datasets/{datasetID}.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, r := datasetRequest(r)
	rw := NewResponseWriter(w, r)

	if err := h.svc.DeleteDataset(r.Context(), id); err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(map[string]interface{}{
		"id":      id,
		"deleted": true,
	})
}

// RunAnalysis handles POST /api/v1/datasets/{datasetID}/analysis. The body is
// optional; without one the server defaults are used.
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	id, r := datasetRequest(r)
	rw := NewResponseWriter(w, r)

	var req RunAnalysisRequest
	if !bindJSON(rw, r, &req, true) {
		return
	}

	params := req.Params.Apply(h.svc.Config().Defaults)
	a, err := h.svc.Analyze(r.Context(), id, params)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(a)
}

// GetAnalysis handles GET /api/v1/datasets/{datasetID}/analysis.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, r := datasetRequest(r)
	rw := NewResponseWriter(w, r)

	a, err := h.svc.CurrentAnalysis(r.Context(), id)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(a)
}

// Recommend handles POST /api/v1/datasets/{datasetID}/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	id, r := datasetRequest(r)
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if !bindJSON(rw, r, &req, false) {
		return
	}

	res, err := h.svc.Recommend(r.Context(), id, req.Items, req.TopN)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(res)
}
