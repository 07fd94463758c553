package temporal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

func writeFactsFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facts.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("writing facts file: %v", err)
	}
	return path
}

func TestSetDependencies(t *testing.T) {
	testDeps := &Dependencies{Options: graph.DefaultOptions()}

	SetDependencies(testDeps)

	if deps == nil {
		t.Fatal("SetDependencies failed: deps is nil")
	}
	if deps.Options.PageRankAlpha != 0.85 {
		t.Errorf("Options.PageRankAlpha = %v, want 0.85", deps.Options.PageRankAlpha)
	}
}

func TestAnalyzeActivity(t *testing.T) {
	SetDependencies(&Dependencies{Options: graph.DefaultOptions()})

	path := writeFactsFile(t,
		`{"kind":"call","from":"main","to":"parse"}`,
		`{"kind":"call","from":"parse","to":"validate"}`,
		`{"kind":"call","from":"validate","to":"parse"}`,
		`{"kind":"import","from":"app","to":"parser","import_type":"standard"}`,
	)

	result, err := AnalyzeActivity(context.Background(), AnalysisInput{FactsPath: path})
	if err != nil {
		t.Fatalf("AnalyzeActivity: %v", err)
	}

	if result.FactCount != 4 {
		t.Errorf("FactCount = %d, want 4", result.FactCount)
	}
	if result.CycleCount != 1 {
		t.Errorf("CycleCount = %d, want 1", result.CycleCount)
	}

	var bundle graph.Result
	if err := json.Unmarshal([]byte(result.ResultJSON), &bundle); err != nil {
		t.Fatalf("unmarshal ResultJSON: %v", err)
	}
	if bundle.Statistics.CallGraph.NodeCount != 3 {
		t.Errorf("call graph node count = %d, want 3", bundle.Statistics.CallGraph.NodeCount)
	}
	if !bundle.Statistics.CallGraph.Cyclic {
		t.Error("call graph should be cyclic")
	}
	if bundle.Statistics.DependencyGraph.EdgeCount != 1 {
		t.Errorf("dependency graph edge count = %d, want 1", bundle.Statistics.DependencyGraph.EdgeCount)
	}
}

func TestAnalyzeActivity_MissingFile(t *testing.T) {
	SetDependencies(&Dependencies{Options: graph.DefaultOptions()})

	_, err := AnalyzeActivity(context.Background(), AnalysisInput{
		FactsPath: filepath.Join(t.TempDir(), "missing.jsonl"),
	})
	if err == nil {
		t.Fatal("expected error for missing facts file")
	}
}

func TestStoreActivity_NoRepository(t *testing.T) {
	SetDependencies(&Dependencies{Options: graph.DefaultOptions()})

	path := writeFactsFile(t, `{"kind":"call","from":"a","to":"b"}`)

	err := StoreActivity(context.Background(), AnalysisInput{FactsPath: path})
	if err == nil || !strings.Contains(err.Error(), "no graph repository") {
		t.Errorf("StoreActivity error = %v, want repository error", err)
	}
}
