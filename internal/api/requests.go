// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/validation"
)

// ParamsRequest carries optional analysis thresholds. Omitted fields keep
// the server defaults.
type ParamsRequest struct {
	MinSupport            *float64 `json:"min_support,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinConfidence         *float64 `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinLift               *float64 `json:"min_lift,omitempty" validate:"omitempty,gte=0"`
	MaxItemsetSize        *int     `json:"max_itemset_size,omitempty" validate:"omitempty,gte=0"`
	MaxCandidatesPerLevel *int     `json:"max_candidates_per_level,omitempty" validate:"omitempty,gte=0"`
}

// Apply overlays the set fields on defaults.
func (p *ParamsRequest) Apply(defaults basket.Params) basket.Params {
	if p == nil {
		return defaults
	}
	out := defaults
	if p.MinSupport != nil {
		out.MinSupport = *p.MinSupport
	}
	if p.MinConfidence != nil {
		out.MinConfidence = *p.MinConfidence
	}
	if p.MinLift != nil {
		out.MinLift = *p.MinLift
	}
	if p.MaxItemsetSize != nil {
		out.MaxItemsetSize = *p.MaxItemsetSize
	}
	if p.MaxCandidatesPerLevel != nil {
		out.MaxCandidatesPerLevel = *p.MaxCandidatesPerLevel
	}
	return out
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Rows   []basket.Row   `json:"rows" validate:"required,min=1,dive"`
	Params *ParamsRequest `json:"params,omitempty"`
}

// CreateDatasetRequest is the body of POST /api/v1/datasets.
type CreateDatasetRequest struct {
	Name string       `json:"name,omitempty" validate:"max=200"`
	Rows []basket.Row `json:"rows" validate:"required,min=1,dive"`
}

// RunAnalysisRequest is the optional body of POST /api/v1/datasets/{datasetID}/analysis.
type RunAnalysisRequest struct {
	Params *ParamsRequest `json:"params,omitempty"`
}

// RecommendRequest is the body of POST /api/v1/datasets/{datasetID}/recommendations.
type RecommendRequest struct {
	Items []string `json:"items" validate:"required,min=1,max=1000,dive,notblank"`
	TopN  int      `json:"top_n,omitempty" validate:"gte=0"`
}

// errEmptyBody is returned by decodeJSON for an empty body when one is required.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON document into v. An empty body is accepted
// when optional is set.
func decodeJSON(r *http.Request, v interface{}, optional bool) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return errEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// bindJSON decodes and validates a request body, writing the error response
// itself. It reports whether the handler should continue.
func bindJSON(rw *ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	if err := decodeJSON(r, v, optional); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
