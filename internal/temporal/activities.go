package temporal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/efebarandurmaz/depscope/internal/facts"
	"github.com/efebarandurmaz/depscope/internal/graph"
	"github.com/efebarandurmaz/depscope/internal/observability"
	"github.com/efebarandurmaz/depscope/internal/store"
)

// ActivityResult is a serializable result for Temporal activities.
type ActivityResult struct {
	ResultJSON string   `json:"result_json"`
	FactCount  int      `json:"fact_count"`
	CycleCount int      `json:"cycle_count"`
	Errors     []string `json:"errors,omitempty"`
}

// Dependencies are shared by all activities. SetDependencies must be
// called before a worker starts executing them.
type Dependencies struct {
	Store   store.Repository
	Options graph.Options
}

var deps *Dependencies

func SetDependencies(d *Dependencies) {
	deps = d
}

// AnalyzeActivity reads the facts file, builds the graphs and runs the
// full analysis pass.
func AnalyzeActivity(ctx context.Context, input AnalysisInput) (ActivityResult, error) {
	if deps == nil {
		return ActivityResult{}, fmt.Errorf("dependencies not set")
	}

	start := time.Now()

	parsed, err := facts.ReadFile(input.FactsPath)
	if err != nil {
		observability.Metrics().RecordAnalysis(time.Since(start), 0, 0, 0, err)
		return ActivityResult{}, fmt.Errorf("read facts: %w", err)
	}
	observability.Audit().LogFactsRead(ctx, input.FactsPath, len(parsed))

	b := graph.NewBuilder()
	facts.Apply(b, parsed)
	analyzer := b.Build()

	result := analyzer.Analyze(ctx, deps.Options)

	encoded, err := json.Marshal(result)
	if err != nil {
		return ActivityResult{}, fmt.Errorf("encode result: %w", err)
	}

	findings := flattenPatterns(result.ProblematicPatterns())
	observability.Metrics().RecordAnalysis(time.Since(start), len(parsed), result.Cycles.TotalCycles, len(findings), nil)
	observability.Audit().LogAnalyzeComplete(ctx, "", time.Since(start), result.Cycles.TotalCycles, len(findings))

	return ActivityResult{
		ResultJSON: string(encoded),
		FactCount:  len(parsed),
		CycleCount: result.Cycles.TotalCycles,
		Errors:     findings,
	}, nil
}

func flattenPatterns(patterns map[string][]string) []string {
	var flat []string
	for _, category := range []string{"cycles", "coupling", "density"} {
		flat = append(flat, patterns[category]...)
	}
	return flat
}

// StoreActivity rebuilds the graphs from the facts file and persists
// them to the configured repository.
func StoreActivity(ctx context.Context, input AnalysisInput) error {
	if deps == nil {
		return fmt.Errorf("dependencies not set")
	}
	if deps.Store == nil {
		return fmt.Errorf("no graph repository configured")
	}

	parsed, err := facts.ReadFile(input.FactsPath)
	if err != nil {
		return fmt.Errorf("read facts: %w", err)
	}

	b := graph.NewBuilder()
	facts.Apply(b, parsed)

	start := time.Now()
	err = deps.Store.StoreGraphs(ctx, b.Build())
	observability.Metrics().RecordStoreWrite(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("store graphs: %w", err)
	}
	return nil
}
