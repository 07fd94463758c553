package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/topo"
)

// IsCyclic reports whether the graph contains any directed cycle,
// including self-loops.
func IsCyclic[N Node, E Edge](g *Directed[N, E]) bool {
	visited := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	var dfs func(node string) bool
	dfs = func(node string) bool {
		switch visited[node] {
		case 2:
			return false
		case 1:
			return true
		}
		visited[node] = 1
		for _, next := range g.OutNeighbors(node) {
			if dfs(next) {
				return true
			}
		}
		visited[node] = 2
		return false
	}
	for _, key := range g.keys {
		if visited[key] == 0 && dfs(key) {
			return true
		}
	}
	return false
}

// Cycles enumerates directed cycles found along the DFS traversal order:
// one cycle per back edge discovered. This is not a complete elementary
// cycle enumerator; overlapping cycles through shared nodes may be missed,
// but at least one cycle per strongly connected region is reported.
func Cycles[N Node, E Edge](g *Directed[N, E]) [][]string {
	var cycles [][]string
	visited := make(map[string]int)
	path := make([]string, 0)

	var dfs func(node string)
	dfs = func(node string) {
		if visited[node] == 2 {
			return
		}
		if visited[node] == 1 {
			cycle := make([]string, 0)
			for i := len(path) - 1; i >= 0; i-- {
				cycle = append(cycle, path[i])
				if path[i] == node {
					break
				}
			}
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			cycles = append(cycles, cycle)
			return
		}
		visited[node] = 1
		path = append(path, node)
		for _, next := range g.OutNeighbors(node) {
			dfs(next)
		}
		path = path[:len(path)-1]
		visited[node] = 2
	}

	for _, key := range g.keys {
		if visited[key] == 0 {
			dfs(key)
		}
	}
	return cycles
}

// StronglyConnected returns the Tarjan SCC decomposition, singletons
// included. Node keys within each component are sorted for deterministic
// output.
func StronglyConnected[N Node, E Edge](g *Directed[N, E]) [][]string {
	if g.Order() == 0 {
		return nil
	}
	v := toGonum(g)
	var components [][]string
	for _, scc := range topo.TarjanSCC(v.directed) {
		keys := make([]string, 0, len(scc))
		for _, node := range scc {
			keys = append(keys, v.idToKey[node.ID()])
		}
		sort.Strings(keys)
		components = append(components, keys)
	}
	return components
}
