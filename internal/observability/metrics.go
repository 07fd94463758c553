package observability

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MetricsRegistry holds all registered metrics and renders them in
// Prometheus text format.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
	histos   map[string]*Histogram
}

// Counter is a monotonically increasing metric.
type Counter struct {
	name  string
	help  string
	value float64
	mu    sync.Mutex
}

// Gauge is a metric that can go up or down.
type Gauge struct {
	name  string
	help  string
	value float64
	mu    sync.Mutex
}

// Histogram tracks the distribution of observed values.
type Histogram struct {
	name    string
	help    string
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
	mu      sync.Mutex
}

// NewMetricsRegistry creates an empty metrics registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
		histos:   make(map[string]*Histogram),
	}
}

// NewCounter creates and registers a counter.
func (r *MetricsRegistry) NewCounter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Counter{name: name, help: help}
	r.counters[name] = c
	return c
}

// NewGauge creates and registers a gauge.
func (r *MetricsRegistry) NewGauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := &Gauge{name: name, help: help}
	r.gauges[name] = g
	return g
}

// NewHistogram creates and registers a histogram. Nil buckets get the
// default latency buckets.
func (r *MetricsRegistry) NewHistogram(name, help string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	if buckets == nil {
		buckets = DefaultBuckets()
	}

	h := &Histogram{
		name:    name,
		help:    help,
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
	r.histos[name] = h
	return h
}

// DefaultBuckets returns default histogram buckets for latency in seconds.
func DefaultBuckets() []float64 {
	return []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.Add(1)
}

// Add adds a value to the counter.
func (c *Counter) Add(v float64) {
	c.mu.Lock()
	c.value += v
	c.mu.Unlock()
}

// Value returns the counter value.
func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set sets the gauge value.
func (g *Gauge) Set(v float64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() {
	g.Add(1)
}

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() {
	g.Add(-1)
}

// Add adds a value to the gauge.
func (g *Gauge) Add(v float64) {
	g.mu.Lock()
	g.value += v
	g.mu.Unlock()
}

// Value returns the gauge value.
func (g *Gauge) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Observe records a value in the histogram.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += v
	h.count++

	for i, bound := range h.buckets {
		if v <= bound {
			h.counts[i]++
			break
		}
	}
}

// ObserveDuration records the time elapsed since start.
func (h *Histogram) ObserveDuration(start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Handler returns an HTTP handler serving Prometheus text format.
func (r *MetricsRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		r.WritePrometheus(w)
	})
}

// WritePrometheus writes all metrics in Prometheus text format, sorted
// by name for stable output.
func (r *MetricsRegistry) WritePrometheus(w http.ResponseWriter) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range sortedKeys(r.counters) {
		c := r.counters[name]
		c.mu.Lock()
		writeMetric(w, c.name, "counter", c.help, c.value)
		c.mu.Unlock()
	}

	for _, name := range sortedKeys(r.gauges) {
		g := r.gauges[name]
		g.mu.Lock()
		writeMetric(w, g.name, "gauge", g.help, g.value)
		g.mu.Unlock()
	}

	for _, name := range sortedKeys(r.histos) {
		h := r.histos[name]
		h.mu.Lock()
		writeHistogram(w, h)
		h.mu.Unlock()
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, name, metricType, help string, value float64) {
	w.Write([]byte("# HELP " + name + " " + help + "\n"))
	w.Write([]byte("# TYPE " + name + " " + metricType + "\n"))
	w.Write([]byte(name + " " + formatFloat(value) + "\n"))
}

func writeHistogram(w http.ResponseWriter, h *Histogram) {
	w.Write([]byte("# HELP " + h.name + " " + h.help + "\n"))
	w.Write([]byte("# TYPE " + h.name + " histogram\n"))

	var cumulative uint64
	for i, bound := range h.buckets {
		cumulative += h.counts[i]
		w.Write([]byte(h.name + `_bucket{le="` + formatFloat(bound) + `"} `))
		w.Write([]byte(strconv.FormatUint(cumulative, 10) + "\n"))
	}

	w.Write([]byte(h.name + `_bucket{le="+Inf"} ` + strconv.FormatUint(h.count, 10) + "\n"))
	w.Write([]byte(h.name + "_sum " + formatFloat(h.sum) + "\n"))
	w.Write([]byte(h.name + "_count " + strconv.FormatUint(h.count, 10) + "\n"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DepscopeMetrics contains all depscope-specific metrics.
type DepscopeMetrics struct {
	Registry *MetricsRegistry

	// Analysis metrics
	AnalysesTotal       *Counter
	AnalysisDuration    *Histogram
	AnalysisErrorsTotal *Counter
	FactsTotal          *Counter
	CyclesFound         *Gauge
	FindingsFound       *Gauge

	// Graph store metrics
	StoreWritesTotal *Counter
	StoreErrorsTotal *Counter
	StoreDuration    *Histogram

	// Active workers gauge
	ActiveWorkers *Gauge
}

// NewDepscopeMetrics creates depscope-specific metrics.
func NewDepscopeMetrics() *DepscopeMetrics {
	r := NewMetricsRegistry()

	return &DepscopeMetrics{
		Registry: r,

		AnalysesTotal:       r.NewCounter("depscope_analyses_total", "Total analysis runs"),
		AnalysisDuration:    r.NewHistogram("depscope_analysis_duration_seconds", "Analysis run duration", nil),
		AnalysisErrorsTotal: r.NewCounter("depscope_analysis_errors_total", "Total failed analysis runs"),
		FactsTotal:          r.NewCounter("depscope_facts_total", "Total relationship facts processed"),
		CyclesFound:         r.NewGauge("depscope_cycles_found", "Cycles found in the latest analysis"),
		FindingsFound:       r.NewGauge("depscope_findings_found", "Findings flagged in the latest analysis"),

		StoreWritesTotal: r.NewCounter("depscope_store_writes_total", "Total graph store writes"),
		StoreErrorsTotal: r.NewCounter("depscope_store_errors_total", "Total failed graph store writes"),
		StoreDuration:    r.NewHistogram("depscope_store_duration_seconds", "Graph store write duration", nil),

		ActiveWorkers: r.NewGauge("depscope_active_workers", "Number of active workers"),
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *DepscopeMetrics) Handler() http.Handler {
	return m.Registry.Handler()
}

// RecordAnalysis records one analysis run.
func (m *DepscopeMetrics) RecordAnalysis(duration time.Duration, factCount, cycleCount, findingCount int, err error) {
	m.AnalysesTotal.Inc()
	m.AnalysisDuration.Observe(duration.Seconds())
	if err != nil {
		m.AnalysisErrorsTotal.Inc()
		return
	}
	m.FactsTotal.Add(float64(factCount))
	m.CyclesFound.Set(float64(cycleCount))
	m.FindingsFound.Set(float64(findingCount))
}

// RecordStoreWrite records one graph store write.
func (m *DepscopeMetrics) RecordStoreWrite(duration time.Duration, err error) {
	m.StoreWritesTotal.Inc()
	m.StoreDuration.Observe(duration.Seconds())
	if err != nil {
		m.StoreErrorsTotal.Inc()
	}
}

// Global metrics instance
var globalMetrics *DepscopeMetrics
var metricsOnce sync.Once

// Metrics returns the global metrics instance.
func Metrics() *DepscopeMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewDepscopeMetrics()
	})
	return globalMetrics
}
