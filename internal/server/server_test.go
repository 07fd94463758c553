package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

func testServer() *Server {
	return New("test", graph.DefaultOptions())
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := testServer()

	body := strings.Join([]string{
		`{"kind":"call","from":"main","to":"parse"}`,
		`{"kind":"call","from":"parse","to":"validate"}`,
		`{"kind":"call","from":"validate","to":"parse"}`,
		`{"kind":"import","from":"app","to":"parser"}`,
	}, "\n")

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.FactCount != 4 {
		t.Errorf("fact_count = %d, want 4", resp.FactCount)
	}
	if resp.Result.Statistics.CallGraph.NodeCount != 3 {
		t.Errorf("call graph node count = %d, want 3", resp.Result.Statistics.CallGraph.NodeCount)
	}
	if resp.Result.Cycles.TotalCycles != 1 {
		t.Errorf("total cycles = %d, want 1", resp.Result.Cycles.TotalCycles)
	}
}

func TestAnalyzeEndpoint_BadInput(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"kind":"bogus","from":"a","to":"b"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error response has no message")
	}
}

func TestAnalyzeEndpoint_MethodNotAllowed(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer()
	s.Health.RegisterCheck("store", GraphStoreHealthChecker(func(ctx context.Context) error {
		return nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != HealthStatusHealthy {
		t.Errorf("status = %s, want healthy", resp.Status)
	}
	if len(resp.Checks) != 1 || resp.Checks[0].Name != "store" {
		t.Errorf("checks = %+v, want one named store", resp.Checks)
	}
}

func TestHealthEndpoint_UnhealthyCheck(t *testing.T) {
	s := testServer()
	s.Health.RegisterCheck("temporal", TemporalHealthChecker(func(ctx context.Context) error {
		return errors.New("dial refused")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthEndpoint_DegradedWithoutStore(t *testing.T) {
	s := testServer()
	s.Health.RegisterCheck("store", GraphStoreHealthChecker(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	// Degraded still serves traffic.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != HealthStatusDegraded {
		t.Errorf("status = %s, want degraded", resp.Status)
	}
}

func TestReadinessProbe(t *testing.T) {
	s := testServer()
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status before ready = %d, want 503", rec.Code)
	}

	s.Health.SetReady(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status after ready = %d, want 200", rec.Code)
	}
}

func TestLivenessProbe(t *testing.T) {
	s := testServer()
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	s.Health.SetLive(false)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status after SetLive(false) = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "depscope_analyses_total") {
		t.Errorf("metrics output missing depscope counters:\n%s", rec.Body.String())
	}
}
