package graph

import (
	"context"
	"testing"
)

func analyzeScenario(t *testing.T) *Result {
	t.Helper()
	b := NewBuilder()
	b.AddCall("main", "a", 1)
	b.AddCall("a", "b", 1)
	b.AddCall("b", "a", 1)
	b.AddDependency("app", "util", "import")
	b.AddDependency("util", "app", "import")
	b.AddInheritance("Child", "Parent")
	return b.Build().Analyze(context.Background(), DefaultOptions())
}

func TestAnalyze_CallScenario(t *testing.T) {
	r := analyzeScenario(t)

	if r.Statistics.CallGraph.NodeCount != 3 || r.Statistics.CallGraph.EdgeCount != 3 {
		t.Errorf("call graph shape = %d nodes / %d edges, want 3/3",
			r.Statistics.CallGraph.NodeCount, r.Statistics.CallGraph.EdgeCount)
	}
	if len(r.Cycles.CallCycles) != 1 {
		t.Fatalf("expected one call cycle, got %v", r.Cycles.CallCycles)
	}
	inCycle := map[string]bool{}
	for _, node := range r.Cycles.CallCycles[0] {
		inCycle[node] = true
	}
	if !inCycle["a"] || !inCycle["b"] || inCycle["main"] {
		t.Errorf("cycle should contain a and b only, got %v", r.Cycles.CallCycles[0])
	}
	if r.CallCentrality.Betweenness["main"] != 0 {
		t.Errorf("main betweenness = %f, want 0", r.CallCentrality.Betweenness["main"])
	}
	if r.CallCentrality.Betweenness["a"] <= 0 {
		t.Errorf("a betweenness = %f, want > 0", r.CallCentrality.Betweenness["a"])
	}
	if !r.Statistics.CallGraph.Cyclic {
		t.Error("call graph should be cyclic")
	}
}

func TestAnalyze_DependencyAndCoupling(t *testing.T) {
	r := analyzeScenario(t)

	if len(r.Cycles.DependencyCycles) != 1 {
		t.Errorf("expected one dependency cycle, got %v", r.Cycles.DependencyCycles)
	}
	if r.Coupling == nil {
		t.Fatal("expected coupling metrics")
	}
	// app and util each import the other once.
	if !approx(r.Coupling.Instability["app"], 0.5) {
		t.Errorf("instability(app) = %f, want 0.5", r.Coupling.Instability["app"])
	}
}

func TestAnalyze_InheritanceGraph(t *testing.T) {
	r := analyzeScenario(t)

	if r.Statistics.InheritanceGraph.NodeCount != 2 {
		t.Errorf("inheritance nodes = %d, want 2", r.Statistics.InheritanceGraph.NodeCount)
	}
	if len(r.Cycles.InheritanceCycles) != 0 {
		t.Errorf("inheritance cycles = %v, want none", r.Cycles.InheritanceCycles)
	}
	if r.Statistics.InheritanceGraph.Cyclic {
		t.Error("inheritance graph should be acyclic")
	}
}

func TestAnalyze_NetworkMetricsPerGraph(t *testing.T) {
	r := analyzeScenario(t)

	for _, key := range []string{KeyCallGraph, KeyDependencyGraph, KeyInheritanceGraph} {
		if _, ok := r.Network[key]; !ok {
			t.Errorf("missing network metrics for %s", key)
		}
	}
	if m := r.Network[KeyDependencyGraph]; m.ConnectedComponents != 1 {
		t.Errorf("dependency components = %d, want 1", m.ConnectedComponents)
	}
}

func TestAnalyze_TotalsAndEigenvector(t *testing.T) {
	r := analyzeScenario(t)

	if r.Cycles.TotalCycles != len(r.Cycles.CallCycles)+len(r.Cycles.DependencyCycles)+len(r.Cycles.InheritanceCycles) {
		t.Errorf("total cycles = %d, inconsistent with per-graph lists", r.Cycles.TotalCycles)
	}
	if r.Components.TotalComponents == 0 {
		t.Error("expected singleton components to be counted")
	}
	for key, score := range r.CallCentrality.PageRank {
		if !approx(r.CallCentrality.Eigenvector[key], score) {
			t.Errorf("eigenvector slot should mirror pagerank for %s", key)
		}
	}
}

func TestAnalyze_EmptyBuilder(t *testing.T) {
	r := NewBuilder().Build().Analyze(context.Background(), DefaultOptions())

	if len(r.CallCentrality.Degree) != 0 {
		t.Errorf("empty graph degree map = %v, want empty", r.CallCentrality.Degree)
	}
	if r.Cycles.TotalCycles != 0 {
		t.Errorf("empty graphs should have no cycles, got %d", r.Cycles.TotalCycles)
	}
	if r.Statistics.CallGraph.Density != 0 {
		t.Errorf("empty density = %f, want 0", r.Statistics.CallGraph.Density)
	}
	if r.Coupling == nil || r.Coupling.Summary().TotalNodes != 0 {
		t.Error("empty coupling metrics expected, not nil")
	}
}

func TestAnalyze_StarGraphProperties(t *testing.T) {
	b := NewBuilder()
	for _, leaf := range []string{"l1", "l2", "l3", "l4", "l5"} {
		b.AddCall("hub", leaf, 1)
	}
	r := b.Build().Analyze(context.Background(), DefaultOptions())

	if !approx(r.CallCentrality.Degree["hub"], 1.0) {
		t.Errorf("hub degree = %f, want 1.0", r.CallCentrality.Degree["hub"])
	}
	if !approx(r.Statistics.CallGraph.Density, 1.0/6.0) {
		t.Errorf("star density = %f, want 1/6", r.Statistics.CallGraph.Density)
	}
	node, _, ok := r.CallCentrality.HighestDegree()
	if !ok || node != "hub" {
		t.Errorf("highest degree node = %s, want hub", node)
	}
}
