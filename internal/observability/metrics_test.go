package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	r := NewMetricsRegistry()
	c := r.NewCounter("test_total", "A test counter")

	c.Inc()
	c.Add(2.5)

	if got := c.Value(); got != 3.5 {
		t.Errorf("Value() = %v, want 3.5", got)
	}
}

func TestGauge(t *testing.T) {
	r := NewMetricsRegistry()
	g := r.NewGauge("test_gauge", "A test gauge")

	g.Set(10)
	g.Inc()
	g.Dec()
	g.Add(-3)

	if got := g.Value(); got != 7 {
		t.Errorf("Value() = %v, want 7", got)
	}
}

func TestHistogram(t *testing.T) {
	r := NewMetricsRegistry()
	h := r.NewHistogram("test_seconds", "A test histogram", []float64{0.1, 1, 10})

	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	if h.count != 4 {
		t.Errorf("count = %d, want 4", h.count)
	}
	if h.sum != 55.55 {
		t.Errorf("sum = %v, want 55.55", h.sum)
	}
	// Each observation lands in its first matching bucket; rendering
	// cumulates them.
	if h.counts[0] != 1 || h.counts[1] != 1 || h.counts[2] != 1 {
		t.Errorf("bucket counts = %v, want [1 1 1]", h.counts)
	}
}

func TestWritePrometheus(t *testing.T) {
	r := NewMetricsRegistry()
	r.NewCounter("app_requests_total", "Total requests").Add(5)
	r.NewGauge("app_active", "Active things").Set(2)
	h := r.NewHistogram("app_latency_seconds", "Latency", []float64{0.5, 1})
	h.Observe(0.3)
	h.Observe(2)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE app_requests_total counter",
		"app_requests_total 5",
		"# TYPE app_active gauge",
		"app_active 2",
		"# TYPE app_latency_seconds histogram",
		`app_latency_seconds_bucket{le="0.5"} 1`,
		`app_latency_seconds_bucket{le="1"} 1`,
		`app_latency_seconds_bucket{le="+Inf"} 2`,
		"app_latency_seconds_count 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("output missing %q:\n%s", want, body)
		}
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %s, want text/plain", ct)
	}
}

func TestDepscopeMetrics_RecordAnalysis(t *testing.T) {
	m := NewDepscopeMetrics()

	m.RecordAnalysis(100*time.Millisecond, 50, 3, 2, nil)
	m.RecordAnalysis(time.Second, 0, 0, 0, errors.New("bad facts"))

	if got := m.AnalysesTotal.Value(); got != 2 {
		t.Errorf("AnalysesTotal = %v, want 2", got)
	}
	if got := m.AnalysisErrorsTotal.Value(); got != 1 {
		t.Errorf("AnalysisErrorsTotal = %v, want 1", got)
	}
	if got := m.FactsTotal.Value(); got != 50 {
		t.Errorf("FactsTotal = %v, want 50", got)
	}
	if got := m.CyclesFound.Value(); got != 3 {
		t.Errorf("CyclesFound = %v, want 3", got)
	}
}

func TestDepscopeMetrics_RecordStoreWrite(t *testing.T) {
	m := NewDepscopeMetrics()

	m.RecordStoreWrite(10*time.Millisecond, nil)
	m.RecordStoreWrite(10*time.Millisecond, errors.New("connection refused"))

	if got := m.StoreWritesTotal.Value(); got != 2 {
		t.Errorf("StoreWritesTotal = %v, want 2", got)
	}
	if got := m.StoreErrorsTotal.Value(); got != 1 {
		t.Errorf("StoreErrorsTotal = %v, want 1", got)
	}
}

func TestMetricsGlobal(t *testing.T) {
	a := Metrics()
	b := Metrics()
	if a != b {
		t.Error("Metrics() should return the same instance")
	}
}
