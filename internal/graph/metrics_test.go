package graph

import "testing"

func TestCentralityMetrics_MostCentral(t *testing.T) {
	m := CentralityMetrics{
		Betweenness: map[string]float64{"a": 0.1, "b": 0.7, "c": 0.3},
		Closeness:   map[string]float64{"a": 0.9, "b": 0.2},
		Degree:      map[string]float64{},
	}
	node, score, ok := m.MostCentralBetweenness()
	if !ok || node != "b" || !approx(score, 0.7) {
		t.Errorf("most central betweenness = %s/%f/%v, want b/0.7/true", node, score, ok)
	}
	node, _, ok = m.MostCentralCloseness()
	if !ok || node != "a" {
		t.Errorf("most central closeness = %s, want a", node)
	}
	if _, _, ok := m.HighestDegree(); ok {
		t.Error("empty degree map should report no result")
	}
}

func TestCentralityMetrics_MostCentralTie(t *testing.T) {
	m := CentralityMetrics{Betweenness: map[string]float64{"z": 0.5, "a": 0.5}}
	node, _, _ := m.MostCentralBetweenness()
	if node != "a" {
		t.Errorf("tie should resolve to smallest key, got %s", node)
	}
}

func TestTopPageRank(t *testing.T) {
	m := CentralityMetrics{
		PageRank: map[string]float64{"a": 0.1, "b": 0.5, "c": 0.3, "d": 0.1},
	}
	top := m.TopPageRank(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Node != "b" || top[1].Node != "c" {
		t.Errorf("unexpected ranking: %+v", top)
	}
	// a and d tie; lexicographic order breaks it.
	if top[2].Node != "a" {
		t.Errorf("tie should resolve to a, got %s", top[2].Node)
	}
}

func TestCentralityAverages(t *testing.T) {
	m := CentralityMetrics{
		Degree:   map[string]float64{"a": 1, "b": 2, "c": 3},
		PageRank: map[string]float64{},
	}
	avg := m.Averages()
	if !approx(avg.AvgDegree, 2.0) {
		t.Errorf("avg degree = %f, want 2.0", avg.AvgDegree)
	}
	if avg.AvgPageRank != 0 {
		t.Errorf("empty map average = %f, want 0", avg.AvgPageRank)
	}
}

func TestProblematicPatterns(t *testing.T) {
	r := &Result{
		Cycles: CycleAnalysis{
			DependencyCycles: [][]string{{"a", "b"}},
		},
		Statistics: Statistics{
			CallGraph:       GraphStats{Density: 0.6},
			DependencyGraph: GraphStats{Density: 0.1},
		},
	}
	issues := r.ProblematicPatterns()
	if len(issues["cycles"]) != 1 {
		t.Errorf("expected one cycle issue, got %v", issues["cycles"])
	}
	if len(issues["density"]) != 1 {
		t.Errorf("expected one density issue, got %v", issues["density"])
	}
	if _, ok := issues["coupling"]; ok {
		t.Error("no coupling metrics, no coupling issues")
	}
}

func TestProblematicPatterns_CleanResult(t *testing.T) {
	r := &Result{}
	if issues := r.ProblematicPatterns(); len(issues) != 0 {
		t.Errorf("clean result should have no issues, got %v", issues)
	}
}
