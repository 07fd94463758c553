package graph

import (
	"gonum.org/v1/gonum/graph/simple"
)

// Directed is a directed graph with string-keyed nodes and at most one edge
// per (from, to) pair. Node and neighbor iteration follow insertion order so
// traversal output is reproducible for a given fact order. Self-loops are
// allowed.
type Directed[N Node, E Edge] struct {
	keys  []string
	nodes map[string]N
	out   map[string]*adjacency[E]
	in    map[string]*neighborSet
	edges int
}

type adjacency[E Edge] struct {
	order []string
	set   map[string]E
}

type neighborSet struct {
	order []string
	set   map[string]struct{}
}

// NewDirected returns an empty graph.
func NewDirected[N Node, E Edge]() *Directed[N, E] {
	return &Directed[N, E]{
		nodes: make(map[string]N),
		out:   make(map[string]*adjacency[E]),
		in:    make(map[string]*neighborSet),
	}
}

// AddNode inserts the node under key if absent. It reports whether a new
// node was created; an existing key keeps its original payload.
func (g *Directed[N, E]) AddNode(key string, payload N) bool {
	if _, ok := g.nodes[key]; ok {
		return false
	}
	g.nodes[key] = payload
	g.keys = append(g.keys, key)
	return true
}

// Node returns the payload stored under key.
func (g *Directed[N, E]) Node(key string) (N, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// HasNode reports whether key exists in the graph.
func (g *Directed[N, E]) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// SetEdge inserts or replaces the edge from -> to. Both endpoints must
// already exist; referencing a missing node is a builder bug, not caller
// input, so it panics.
func (g *Directed[N, E]) SetEdge(from, to string, payload E) {
	if !g.HasNode(from) || !g.HasNode(to) {
		panic("graph: edge references unknown node " + from + " -> " + to)
	}
	adj := g.out[from]
	if adj == nil {
		adj = &adjacency[E]{set: make(map[string]E)}
		g.out[from] = adj
	}
	if _, ok := adj.set[to]; !ok {
		adj.order = append(adj.order, to)
		g.edges++

		ins := g.in[to]
		if ins == nil {
			ins = &neighborSet{set: make(map[string]struct{})}
			g.in[to] = ins
		}
		ins.order = append(ins.order, from)
		ins.set[from] = struct{}{}
	}
	adj.set[to] = payload
}

// Edge returns the edge payload from -> to.
func (g *Directed[N, E]) Edge(from, to string) (E, bool) {
	var zero E
	adj := g.out[from]
	if adj == nil {
		return zero, false
	}
	e, ok := adj.set[to]
	if !ok {
		return zero, ok
	}
	return e, true
}

// HasEdge reports whether an edge from -> to exists.
func (g *Directed[N, E]) HasEdge(from, to string) bool {
	adj := g.out[from]
	if adj == nil {
		return false
	}
	_, ok := adj.set[to]
	return ok
}

// Order returns the node count.
func (g *Directed[N, E]) Order() int { return len(g.keys) }

// Size returns the edge count. Repeated facts merge into one edge, so this
// counts distinct (from, to) pairs.
func (g *Directed[N, E]) Size() int { return g.edges }

// Keys returns the node keys in insertion order.
func (g *Directed[N, E]) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// OutNeighbors returns the targets of edges leaving key, in insertion order.
func (g *Directed[N, E]) OutNeighbors(key string) []string {
	adj := g.out[key]
	if adj == nil {
		return nil
	}
	return adj.order
}

// InNeighbors returns the sources of edges entering key, in insertion order.
func (g *Directed[N, E]) InNeighbors(key string) []string {
	ins := g.in[key]
	if ins == nil {
		return nil
	}
	return ins.order
}

// OutDegree returns the number of edges leaving key.
func (g *Directed[N, E]) OutDegree(key string) int {
	adj := g.out[key]
	if adj == nil {
		return 0
	}
	return len(adj.order)
}

// InDegree returns the number of edges entering key.
func (g *Directed[N, E]) InDegree(key string) int {
	ins := g.in[key]
	if ins == nil {
		return 0
	}
	return len(ins.order)
}

// gonumView maps the string-keyed graph onto gonum's int64 node IDs so the
// topo algorithms can run on it. Self-loops are skipped during conversion
// because gonum's simple graphs reject them; SCC and component membership
// are unaffected.
type gonumView struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	keyToID    map[string]int64
	idToKey    map[int64]string
}

func toGonum[N Node, E Edge](g *Directed[N, E]) *gonumView {
	v := &gonumView{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		keyToID:    make(map[string]int64, g.Order()),
		idToKey:    make(map[int64]string, g.Order()),
	}
	for i, key := range g.keys {
		id := int64(i)
		v.keyToID[key] = id
		v.idToKey[id] = key
		v.directed.AddNode(simple.Node(id))
		v.undirected.AddNode(simple.Node(id))
	}
	for _, from := range g.keys {
		for _, to := range g.OutNeighbors(from) {
			if from == to {
				continue
			}
			f := simple.Node(v.keyToID[from])
			t := simple.Node(v.keyToID[to])
			v.directed.SetEdge(v.directed.NewEdge(f, t))
			v.undirected.SetEdge(v.undirected.NewEdge(f, t))
		}
	}
	return v
}
