package graph

import (
	"reflect"
	"testing"
)

func TestDirected_AddNodeDedup(t *testing.T) {
	g := NewDirected[FunctionNode, CallEdge]()
	if !g.AddNode("a", FunctionNode{Name: "a", Line: 1}) {
		t.Error("first insert should report created")
	}
	if g.AddNode("a", FunctionNode{Name: "a", Line: 99}) {
		t.Error("second insert should report existing")
	}
	n, _ := g.Node("a")
	if n.Line != 1 {
		t.Errorf("existing payload should be kept, got line %d", n.Line)
	}
	if g.Order() != 1 {
		t.Errorf("expected 1 node, got %d", g.Order())
	}
}

func TestDirected_NeighborsKeepInsertionOrder(t *testing.T) {
	g := NewDirected[FunctionNode, CallEdge]()
	for _, key := range []string{"a", "c", "b", "d"} {
		g.AddNode(key, FunctionNode{Name: key})
	}
	g.SetEdge("a", "c", CallEdge{Weight: 1})
	g.SetEdge("a", "b", CallEdge{Weight: 1})
	g.SetEdge("a", "d", CallEdge{Weight: 1})

	want := []string{"c", "b", "d"}
	if got := g.OutNeighbors("a"); !reflect.DeepEqual(got, want) {
		t.Errorf("out neighbors = %v, want %v", got, want)
	}
	if got := g.Keys(); !reflect.DeepEqual(got, []string{"a", "c", "b", "d"}) {
		t.Errorf("keys = %v", got)
	}
}

func TestDirected_SetEdgeReplacesPayload(t *testing.T) {
	g := NewDirected[FunctionNode, CallEdge]()
	g.AddNode("a", FunctionNode{Name: "a"})
	g.AddNode("b", FunctionNode{Name: "b"})
	g.SetEdge("a", "b", CallEdge{CallCount: 1, Weight: 1})
	g.SetEdge("a", "b", CallEdge{CallCount: 5, Weight: 5})

	if g.Size() != 1 {
		t.Errorf("replacing an edge should not grow the count, got %d", g.Size())
	}
	edge, _ := g.Edge("a", "b")
	if edge.CallCount != 5 {
		t.Errorf("expected replaced payload, got %+v", edge)
	}
}

func TestDirected_Degrees(t *testing.T) {
	g := NewDirected[ModuleNode, DependencyEdge]()
	for _, key := range []string{"a", "b", "c"} {
		g.AddNode(key, ModuleNode{Name: key})
	}
	g.SetEdge("a", "b", DependencyEdge{Weight: 1})
	g.SetEdge("c", "b", DependencyEdge{Weight: 1})
	g.SetEdge("b", "a", DependencyEdge{Weight: 1})

	if in := g.InDegree("b"); in != 2 {
		t.Errorf("in-degree of b = %d, want 2", in)
	}
	if out := g.OutDegree("b"); out != 1 {
		t.Errorf("out-degree of b = %d, want 1", out)
	}
	if got := g.InNeighbors("b"); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("in neighbors of b = %v", got)
	}
}

func TestDirected_EdgeToUnknownNodePanics(t *testing.T) {
	g := NewDirected[FunctionNode, CallEdge]()
	g.AddNode("a", FunctionNode{Name: "a"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic for edge to unknown node")
		}
	}()
	g.SetEdge("a", "missing", CallEdge{Weight: 1})
}

func TestToGonum_SkipsSelfLoops(t *testing.T) {
	g := NewDirected[FunctionNode, CallEdge]()
	g.AddNode("a", FunctionNode{Name: "a"})
	g.AddNode("b", FunctionNode{Name: "b"})
	g.SetEdge("a", "a", CallEdge{Weight: 1})
	g.SetEdge("a", "b", CallEdge{Weight: 1})

	v := toGonum(g)
	if n := v.directed.Nodes().Len(); n != 2 {
		t.Errorf("expected 2 gonum nodes, got %d", n)
	}
	aID := v.keyToID["a"]
	bID := v.keyToID["b"]
	if v.directed.HasEdgeFromTo(aID, aID) {
		t.Error("self loop should be skipped in the gonum view")
	}
	if !v.directed.HasEdgeFromTo(aID, bID) {
		t.Error("expected edge a -> b in the gonum view")
	}
}
