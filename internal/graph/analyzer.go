package graph

import (
	"context"
	"sync"

	"github.com/efebarandurmaz/depscope/internal/observability"
)

// Options tunes the analysis algorithms.
type Options struct {
	PageRankAlpha     float64
	PageRankMaxIter   int
	PageRankTolerance float64
}

// DefaultOptions returns the standard PageRank parameters.
func DefaultOptions() Options {
	return Options{
		PageRankAlpha:     0.85,
		PageRankMaxIter:   100,
		PageRankTolerance: 1e-6,
	}
}

// Analyzer runs every metric algorithm over the three built graphs. The
// graphs are immutable once built, so the per-graph passes run in parallel;
// each pass only reads the graph and writes its own slice of the result.
type Analyzer struct {
	calls    *Directed[FunctionNode, CallEdge]
	deps     *Directed[ModuleNode, DependencyEdge]
	inherits *Directed[ClassNode, InheritanceEdge]
}

// CallGraph returns the built call graph.
func (a *Analyzer) CallGraph() *Directed[FunctionNode, CallEdge] { return a.calls }

// DependencyGraph returns the built dependency graph.
func (a *Analyzer) DependencyGraph() *Directed[ModuleNode, DependencyEdge] { return a.deps }

// InheritanceGraph returns the built inheritance graph.
func (a *Analyzer) InheritanceGraph() *Directed[ClassNode, InheritanceEdge] { return a.inherits }

// Analyze computes the full result bundle. The context is used only for
// tracing; the algorithms themselves run to completion.
func (a *Analyzer) Analyze(ctx context.Context, opts Options) *Result {
	result := &Result{Network: make(map[string]NetworkMetrics, 3)}

	// Each goroutine writes its own fields; the shared network map is
	// filled in after the join.
	var callNet, depNet, inhNet NetworkMetrics

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		_, span := observability.StartAnalysisSpan(ctx, KeyCallGraph)
		defer span.End()
		observability.RecordGraphShape(span, a.calls.Order(), a.calls.Size())

		result.CallCentrality = centralityFor(a.calls, opts)
		result.Cycles.CallCycles = Cycles(a.calls)
		result.Components.CallComponents = StronglyConnected(a.calls)
		result.Statistics.CallGraph = statsFor(a.calls)
		callNet = ComputeNetworkMetrics(a.calls)
		observability.RecordAnalysisResult(span, len(result.Cycles.CallCycles), len(result.Components.CallComponents))
	}()

	go func() {
		defer wg.Done()
		_, span := observability.StartAnalysisSpan(ctx, KeyDependencyGraph)
		defer span.End()
		observability.RecordGraphShape(span, a.deps.Order(), a.deps.Size())

		result.DependencyCentrality = centralityFor(a.deps, opts)
		result.Cycles.DependencyCycles = Cycles(a.deps)
		result.Components.DependencyComponents = StronglyConnected(a.deps)
		result.Statistics.DependencyGraph = statsFor(a.deps)
		depNet = ComputeNetworkMetrics(a.deps)
		observability.RecordAnalysisResult(span, len(result.Cycles.DependencyCycles), len(result.Components.DependencyComponents))
	}()

	go func() {
		defer wg.Done()
		_, span := observability.StartAnalysisSpan(ctx, KeyInheritanceGraph)
		defer span.End()
		observability.RecordGraphShape(span, a.inherits.Order(), a.inherits.Size())

		result.InheritanceCentrality = centralityFor(a.inherits, opts)
		result.Cycles.InheritanceCycles = Cycles(a.inherits)
		result.Components.InheritanceComponents = StronglyConnected(a.inherits)
		result.Statistics.InheritanceGraph = statsFor(a.inherits)
		inhNet = ComputeNetworkMetrics(a.inherits)
		observability.RecordAnalysisResult(span, len(result.Cycles.InheritanceCycles), len(result.Components.InheritanceComponents))
	}()

	go func() {
		defer wg.Done()
		result.Coupling = ComputeCoupling(a.deps)
	}()

	wg.Wait()

	result.Network[KeyCallGraph] = callNet
	result.Network[KeyDependencyGraph] = depNet
	result.Network[KeyInheritanceGraph] = inhNet

	result.Cycles.TotalCycles = len(result.Cycles.CallCycles) +
		len(result.Cycles.DependencyCycles) +
		len(result.Cycles.InheritanceCycles)
	result.Components.TotalComponents = len(result.Components.CallComponents) +
		len(result.Components.DependencyComponents) +
		len(result.Components.InheritanceComponents)

	return result
}

func centralityFor[N Node, E Edge](g *Directed[N, E], opts Options) CentralityMetrics {
	pagerank := PageRank(g, opts.PageRankAlpha, opts.PageRankMaxIter, opts.PageRankTolerance)
	// The eigenvector slot carries the PageRank scores; copied so the two
	// maps stay independent.
	eigenvector := make(map[string]float64, len(pagerank))
	for key, score := range pagerank {
		eigenvector[key] = score
	}
	return CentralityMetrics{
		Degree:      DegreeCentrality(g),
		Betweenness: BetweennessCentrality(g),
		Closeness:   ClosenessCentrality(g),
		Eigenvector: eigenvector,
		PageRank:    pagerank,
	}
}

func statsFor[N Node, E Edge](g *Directed[N, E]) GraphStats {
	stats := GraphStats{
		NodeCount: g.Order(),
		EdgeCount: g.Size(),
		Density:   Density(g),
		Cyclic:    IsCyclic(g),
	}
	if stats.NodeCount > 0 {
		stats.AverageDegree = float64(stats.EdgeCount*2) / float64(stats.NodeCount)
	}
	return stats
}
