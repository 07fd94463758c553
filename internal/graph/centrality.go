package graph

import "math"

// DegreeCentrality returns (in-degree + out-degree)/(N-1) per node. The map
// is empty when the graph has fewer than two nodes.
func DegreeCentrality[N Node, E Edge](g *Directed[N, E]) map[string]float64 {
	scores := make(map[string]float64)
	n := g.Order()
	if n <= 1 {
		return scores
	}
	norm := float64(n - 1)
	for _, key := range g.keys {
		scores[key] = float64(g.InDegree(key)+g.OutDegree(key)) / norm
	}
	return scores
}

// BetweennessCentrality computes Brandes' betweenness over unweighted
// shortest paths, normalized by (N-1)(N-2). Graphs with two or fewer nodes
// have no intermediate positions and score zero everywhere.
func BetweennessCentrality[N Node, E Edge](g *Directed[N, E]) map[string]float64 {
	scores := make(map[string]float64, g.Order())
	for _, key := range g.keys {
		scores[key] = 0
	}
	n := g.Order()
	if n <= 2 {
		return scores
	}

	for _, source := range g.keys {
		stack := make([]string, 0, n)
		pred := make(map[string][]string)
		sigma := map[string]float64{source: 1}
		dist := map[string]int{source: 0}

		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.OutNeighbors(v) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}

		delta := make(map[string]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	norm := float64((n - 1) * (n - 2))
	for key := range scores {
		scores[key] /= norm
	}
	return scores
}

// ClosenessCentrality scores each node as (reachable-1)/sum of BFS distances
// to the nodes it can reach, or 0 when it reaches nothing.
func ClosenessCentrality[N Node, E Edge](g *Directed[N, E]) map[string]float64 {
	scores := make(map[string]float64, g.Order())
	for _, source := range g.keys {
		dist := shortestPathLengths(g, source)
		total := 0
		for _, d := range dist {
			total += d
		}
		if total > 0 && len(dist) > 1 {
			scores[source] = float64(len(dist)-1) / float64(total)
		} else {
			scores[source] = 0
		}
	}
	return scores
}

// PageRank runs power iteration with damping alpha from a uniform 1/N start,
// stopping when the largest per-node change drops below tol or after maxIter
// rounds. Dangling nodes keep their mass rather than redistributing it, so
// totals drift below 1 on graphs with sinks.
func PageRank[N Node, E Edge](g *Directed[N, E], alpha float64, maxIter int, tol float64) map[string]float64 {
	scores := make(map[string]float64, g.Order())
	n := g.Order()
	if n == 0 {
		return scores
	}

	for _, key := range g.keys {
		scores[key] = 1 / float64(n)
	}
	base := (1 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, n)
		for _, key := range g.keys {
			sum := 0.0
			for _, u := range g.InNeighbors(key) {
				if out := g.OutDegree(u); out > 0 {
					sum += scores[u] / float64(out)
				}
			}
			next[key] = base + alpha*sum
		}

		maxDiff := 0.0
		for key, v := range next {
			if d := math.Abs(v - scores[key]); d > maxDiff {
				maxDiff = d
			}
		}
		scores = next
		if maxDiff < tol {
			break
		}
	}
	return scores
}

// shortestPathLengths runs an unweighted BFS from source and returns the
// distance to every reachable node, including source at distance 0.
func shortestPathLengths[N Node, E Edge](g *Directed[N, E], source string) map[string]int {
	dist := map[string]int{source: 0}
	queue := []string{source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.OutNeighbors(v) {
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	return dist
}
