package facts

import (
	"context"
	"strings"
	"testing"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

func TestReadJSONL(t *testing.T) {
	input := `{"kind":"call","from":"main","to":"handler","count":3}

{"kind":"import","from":"app","to":"util","import_type":"from_import"}
{"kind":"inherit","from":"Child","to":"Parent"}
`
	out, err := ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(out))
	}
	if out[0].Kind != KindCall || out[0].Count != 3 {
		t.Errorf("unexpected first fact: %+v", out[0])
	}
	if out[1].ImportType != "from_import" {
		t.Errorf("unexpected import type: %q", out[1].ImportType)
	}
}

func TestReadJSONL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid_json", "{not json}", "invalid JSONL at line 1"},
		{"missing_kind", `{"from":"a","to":"b"}`, "missing kind"},
		{"unknown_kind", `{"kind":"uses","from":"a","to":"b"}`, "unknown kind"},
		{"missing_endpoint", `{"kind":"call","from":"a"}`, "missing from/to"},
		{"later_line", "{\"kind\":\"call\",\"from\":\"a\",\"to\":\"b\"}\n{broken}", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONL(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	all := []Fact{
		{Kind: KindCall, From: "main", To: "a", Count: 2},
		{Kind: KindCall, From: "main", To: "a", Count: 1},
		{Kind: KindImport, From: "app", To: "util", ImportType: "import"},
		{Kind: KindInherit, From: "Child", To: "Parent"},
	}

	b := graph.NewBuilder()
	Apply(b, all)
	r := b.Build().Analyze(context.Background(), graph.DefaultOptions())

	if r.Statistics.CallGraph.NodeCount != 2 || r.Statistics.CallGraph.EdgeCount != 1 {
		t.Errorf("call graph shape = %d/%d, want 2 nodes and 1 merged edge",
			r.Statistics.CallGraph.NodeCount, r.Statistics.CallGraph.EdgeCount)
	}
	if r.Statistics.DependencyGraph.NodeCount != 2 {
		t.Errorf("dependency nodes = %d, want 2", r.Statistics.DependencyGraph.NodeCount)
	}
	if r.Statistics.InheritanceGraph.EdgeCount != 1 {
		t.Errorf("inheritance edges = %d, want 1", r.Statistics.InheritanceGraph.EdgeCount)
	}
}
