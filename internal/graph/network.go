package graph

import "gonum.org/v1/gonum/graph/topo"

// NetworkMetrics holds whole-graph statistics.
type NetworkMetrics struct {
	Density              float64 `json:"density"`
	ClusteringCoeff      float64 `json:"clustering_coefficient"`
	AveragePathLength    float64 `json:"average_path_length"`
	Diameter             int     `json:"diameter"`
	ConnectedComponents  int     `json:"connected_components"`
	LargestComponentSize int     `json:"largest_component_size"`
}

// Sparse reports whether the graph is sparsely connected.
func (m NetworkMetrics) Sparse() bool { return m.Density < 0.1 }

// Dense reports whether the graph is densely connected.
func (m NetworkMetrics) Dense() bool { return m.Density > 0.5 }

// ComplexityScore folds density, clustering and path length into a 0-1
// scale.
func (m NetworkMetrics) ComplexityScore() float64 {
	pathScore := 0.0
	if m.AveragePathLength > 0 {
		pathScore = 1 / m.AveragePathLength
	}
	return (m.Density + m.ClusteringCoeff + pathScore) / 3
}

// Density returns E/(N*(N-1)), or 0 when the graph has fewer than two nodes.
func Density[N Node, E Edge](g *Directed[N, E]) float64 {
	n := g.Order()
	if n <= 1 {
		return 0
	}
	return float64(g.Size()) / float64(n*(n-1))
}

// AverageClustering computes the mean local clustering coefficient. Each
// node's in- and out-neighbors (self excluded) form an undirected neighbor
// set of size k; the local coefficient counts directed edges among them
// against k*(k-1).
func AverageClustering[N Node, E Edge](g *Directed[N, E]) float64 {
	n := g.Order()
	if n == 0 {
		return 0
	}
	total := 0.0
	for _, key := range g.keys {
		total += localClustering(g, key)
	}
	return total / float64(n)
}

func localClustering[N Node, E Edge](g *Directed[N, E], key string) float64 {
	seen := make(map[string]struct{})
	neighbors := make([]string, 0)
	for _, v := range g.OutNeighbors(key) {
		if v == key {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			neighbors = append(neighbors, v)
		}
	}
	for _, v := range g.InNeighbors(key) {
		if v == key {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			neighbors = append(neighbors, v)
		}
	}
	k := len(neighbors)
	if k < 2 {
		return 0
	}
	links := 0
	for _, u := range neighbors {
		for _, w := range neighbors {
			if u != w && g.HasEdge(u, w) {
				links++
			}
		}
	}
	return float64(links) / float64(k*(k-1))
}

// AveragePathLength is the mean BFS distance over all reachable ordered
// pairs, each source's zero-distance self pair included. Unreachable pairs
// are excluded rather than treated as infinite.
func AveragePathLength[N Node, E Edge](g *Directed[N, E]) float64 {
	totalDist := 0
	pairs := 0
	for _, source := range g.keys {
		for _, d := range shortestPathLengths(g, source) {
			totalDist += d
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(totalDist) / float64(pairs)
}

// Diameter is the largest finite BFS distance between any ordered pair.
func Diameter[N Node, E Edge](g *Directed[N, E]) int {
	diameter := 0
	for _, source := range g.keys {
		for _, d := range shortestPathLengths(g, source) {
			if d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}

// WeakComponents returns the number of weakly connected components and the
// size of the largest one, treating every edge as undirected.
func WeakComponents[N Node, E Edge](g *Directed[N, E]) (count, largest int) {
	if g.Order() == 0 {
		return 0, 0
	}
	v := toGonum(g)
	components := topo.ConnectedComponents(v.undirected)
	for _, c := range components {
		if len(c) > largest {
			largest = len(c)
		}
	}
	return len(components), largest
}

// ComputeNetworkMetrics bundles the whole-graph statistics.
func ComputeNetworkMetrics[N Node, E Edge](g *Directed[N, E]) NetworkMetrics {
	count, largest := WeakComponents(g)
	return NetworkMetrics{
		Density:              Density(g),
		ClusteringCoeff:      AverageClustering(g),
		AveragePathLength:    AveragePathLength(g),
		Diameter:             Diameter(g),
		ConnectedComponents:  count,
		LargestComponentSize: largest,
	}
}
