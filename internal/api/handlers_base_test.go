// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/analysis"
	"github.com/tomtom215/marketbasket/internal/basket"
	"github.com/tomtom215/marketbasket/internal/middleware"
	"github.com/tomtom215/marketbasket/internal/store"
)

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type testServer struct {
	handler http.Handler
	svc     *analysis.Service
	store   *store.Store
}

func (s *testServer) closeStore(t *testing.T) {
	t.Helper()
	if err := s.store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func groceryRows() []basket.Row {
	baskets := []struct {
		id    string
		items []string
	}{
		{"T1", []string{"Bread", "Milk", "Butter"}},
		{"T2", []string{"Bread", "Milk"}},
		{"T3", []string{"Bread", "Butter", "Cheese"}},
		{"T4", []string{"Milk", "Cheese"}},
		{"T5", []string{"Bread", "Milk", "Butter"}},
		{"T6", []string{"Beer", "Chips"}},
	}
	var rows []basket.Row
	for _, b := range baskets {
		for _, item := range b.items {
			rows = append(rows, basket.Row{TransactionID: b.id, Item: item})
		}
	}
	return rows
}

// groceryParams is the request fragment used by the analysis tests.
var groceryParams = map[string]float64{"min_support": 0.3, "min_confidence": 0.5, "min_lift": 1.0}

func newTestServer(t *testing.T, mutate func(cfg *ChiMiddlewareConfig)) *testServer {
	t.Helper()

	st, err := store.Open(store.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("Failed to close store: %v", err)
		}
	})

	svc, err := analysis.NewService(analysis.DefaultConfig(), st, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"https://shop.example"}
	mwCfg.RateLimitDisabled = true
	if mutate != nil {
		mutate(mwCfg)
	}

	perf := middleware.NewPerformanceMonitor(100, time.Minute, zerolog.Nop())
	router := NewRouter(NewHandler(svc, perf), NewChiMiddleware(mwCfg), perf)
	return &testServer{handler: router.Setup(), svc: svc, store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" &&
		bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("Failed to decode data %s: %v", env.Data, err)
	}
}

func (s *testServer) createGrocery(t *testing.T) string {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/v1/datasets", map[string]interface{}{
		"name": "grocery",
		"rows": groceryRows(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create dataset status = %d, body %s", rec.Code, rec.Body.String())
	}
	var summary analysis.DatasetSummary
	decodeData(t, env, &summary)
	return summary.ID
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Success {
		t.Error("success = true on an error response")
	}
	if env.Error == nil {
		t.Fatalf("error payload missing: %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q (message %q)", env.Error.Code, code, env.Error.Message)
	}
}
