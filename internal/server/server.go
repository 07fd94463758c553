package server

import (
	"context"
	"net/http"
	"time"

	"github.com/efebarandurmaz/depscope/internal/facts"
	"github.com/efebarandurmaz/depscope/internal/graph"
	"github.com/efebarandurmaz/depscope/internal/observability"
)

const maxFactsBodyBytes = 32 << 20

// Server serves analysis requests over HTTP.
type Server struct {
	Health  *Health
	options graph.Options
	metrics *observability.DepscopeMetrics
}

// New creates a server with the given analysis options.
func New(version string, opts graph.Options) *Server {
	return &Server{
		Health:  NewHealth(version),
		options: opts,
		metrics: observability.Metrics(),
	}
}

// AnalyzeResponse is the body returned by the analyze endpoint.
type AnalyzeResponse struct {
	FactCount int           `json:"fact_count"`
	Result    *graph.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the full HTTP handler: analysis, metrics and the
// health probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/health", s.Health.handleHealth)
	mux.HandleFunc("/ready", s.Health.handleReady)
	mux.HandleFunc("/live", s.Health.handleLive)
	mux.HandleFunc("/healthz", s.Health.handleHealth)
	mux.HandleFunc("/readyz", s.Health.handleReady)
	mux.HandleFunc("/livez", s.Health.handleLive)
	return mux
}

// handleAnalyze accepts relationship facts as JSONL in the request body
// and returns the full analysis bundle.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "POST required"})
		return
	}

	start := time.Now()

	body := http.MaxBytesReader(w, r.Body, maxFactsBodyBytes)
	parsed, err := facts.ReadJSONL(body)
	if err != nil {
		s.metrics.RecordAnalysis(time.Since(start), 0, 0, 0, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	b := graph.NewBuilder()
	facts.Apply(b, parsed)
	result := b.Build().Analyze(r.Context(), s.options)

	findings := 0
	for _, issues := range result.ProblematicPatterns() {
		findings += len(issues)
	}
	s.metrics.RecordAnalysis(time.Since(start), len(parsed), result.Cycles.TotalCycles, findings, nil)
	observability.Audit().LogAnalyzeComplete(r.Context(), "", time.Since(start), result.Cycles.TotalCycles, findings)

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		FactCount: len(parsed),
		Result:    result,
	})
}

// Serve runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.Health.SetReady(true)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.Health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
