package graph

import (
	"fmt"
	"sort"
)

// CentralityMetrics holds the per-node score maps for one graph. The
// eigenvector slot carries the PageRank scores; a dedicated eigenvector
// computation is not implemented.
type CentralityMetrics struct {
	Degree      map[string]float64 `json:"degree"`
	Betweenness map[string]float64 `json:"betweenness"`
	Closeness   map[string]float64 `json:"closeness"`
	Eigenvector map[string]float64 `json:"eigenvector"`
	PageRank    map[string]float64 `json:"pagerank"`
}

// CentralityAverages holds the mean of each score map.
type CentralityAverages struct {
	AvgDegree      float64 `json:"avg_degree"`
	AvgBetweenness float64 `json:"avg_betweenness"`
	AvgCloseness   float64 `json:"avg_closeness"`
	AvgEigenvector float64 `json:"avg_eigenvector"`
	AvgPageRank    float64 `json:"avg_pagerank"`
}

// ScoredNode pairs a node with a centrality score for ranked listings.
type ScoredNode struct {
	Node  string  `json:"node"`
	Score float64 `json:"score"`
}

// MostCentralBetweenness returns the node with the highest betweenness.
// Exact ties resolve to the lexicographically smallest key.
func (m CentralityMetrics) MostCentralBetweenness() (string, float64, bool) {
	return maxEntry(m.Betweenness)
}

// MostCentralCloseness returns the node with the highest closeness.
func (m CentralityMetrics) MostCentralCloseness() (string, float64, bool) {
	return maxEntry(m.Closeness)
}

// HighestDegree returns the node with the highest degree centrality.
func (m CentralityMetrics) HighestDegree() (string, float64, bool) {
	return maxEntry(m.Degree)
}

// TopPageRank returns up to n nodes ranked by PageRank, descending. Exact
// ties order lexicographically.
func (m CentralityMetrics) TopPageRank(n int) []ScoredNode {
	ranked := make([]ScoredNode, 0, len(m.PageRank))
	for node, score := range m.PageRank {
		ranked = append(ranked, ScoredNode{Node: node, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Node < ranked[j].Node
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Averages returns the mean of every score map.
func (m CentralityMetrics) Averages() CentralityAverages {
	return CentralityAverages{
		AvgDegree:      averageValues(m.Degree),
		AvgBetweenness: averageValues(m.Betweenness),
		AvgCloseness:   averageValues(m.Closeness),
		AvgEigenvector: averageValues(m.Eigenvector),
		AvgPageRank:    averageValues(m.PageRank),
	}
}

func maxEntry(scores map[string]float64) (string, float64, bool) {
	if len(scores) == 0 {
		return "", 0, false
	}
	var bestNode string
	var bestScore float64
	first := true
	for node, score := range scores {
		if first || score > bestScore || (score == bestScore && node < bestNode) {
			bestNode, bestScore = node, score
			first = false
		}
	}
	return bestNode, bestScore, true
}

func averageValues(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// CycleAnalysis lists the cycles discovered per graph.
type CycleAnalysis struct {
	CallCycles        [][]string `json:"call_cycles"`
	DependencyCycles  [][]string `json:"dependency_cycles"`
	InheritanceCycles [][]string `json:"inheritance_cycles"`
	TotalCycles       int        `json:"total_cycles"`
}

// ComponentAnalysis lists the strongly connected components per graph,
// singletons included.
type ComponentAnalysis struct {
	CallComponents        [][]string `json:"call_components"`
	DependencyComponents  [][]string `json:"dependency_components"`
	InheritanceComponents [][]string `json:"inheritance_components"`
	TotalComponents       int        `json:"total_components"`
}

// GraphStats describes one graph's shape.
type GraphStats struct {
	NodeCount     int     `json:"node_count"`
	EdgeCount     int     `json:"edge_count"`
	Density       float64 `json:"density"`
	Cyclic        bool    `json:"is_cyclic"`
	AverageDegree float64 `json:"average_degree"`
}

// Statistics holds per-graph shape stats.
type Statistics struct {
	CallGraph        GraphStats `json:"call_graph"`
	DependencyGraph  GraphStats `json:"dependency_graph"`
	InheritanceGraph GraphStats `json:"inheritance_graph"`
}

// Result keys for the per-graph network metrics map.
const (
	KeyCallGraph        = "call_graph"
	KeyDependencyGraph  = "dependency_graph"
	KeyInheritanceGraph = "inheritance_graph"
)

// Result is the full analysis bundle. All maps are keyed by the natural
// string identifiers supplied to the builder.
type Result struct {
	CallCentrality        CentralityMetrics         `json:"call_centrality"`
	DependencyCentrality  CentralityMetrics         `json:"dependency_centrality"`
	InheritanceCentrality CentralityMetrics         `json:"inheritance_centrality"`
	Cycles                CycleAnalysis             `json:"cycles"`
	Components            ComponentAnalysis         `json:"components"`
	Coupling              *CouplingMetrics          `json:"coupling"`
	Statistics            Statistics                `json:"statistics"`
	Network               map[string]NetworkMetrics `json:"network"`
}

// ProblematicPatterns flags structural issues worth surfacing to a reader:
// cycles that break imports or designs, overly coupled modules, and dense
// graphs.
func (r *Result) ProblematicPatterns() map[string][]string {
	issues := make(map[string][]string)

	var cycleIssues []string
	if n := len(r.Cycles.DependencyCycles); n > 0 {
		cycleIssues = append(cycleIssues, fmt.Sprintf("found %d dependency cycles which can cause circular imports", n))
	}
	if n := len(r.Cycles.InheritanceCycles); n > 0 {
		cycleIssues = append(cycleIssues, fmt.Sprintf("found %d inheritance cycles which indicate design problems", n))
	}
	if n := len(r.Cycles.CallCycles); n > 10 {
		cycleIssues = append(cycleIssues, fmt.Sprintf("found %d call cycles, consider refactoring recursive patterns", n))
	}
	if len(cycleIssues) > 0 {
		issues["cycles"] = cycleIssues
	}

	if r.Coupling != nil {
		stats := r.Coupling.Summary()
		var couplingIssues []string
		if stats.AvgInstability > 0.8 {
			couplingIssues = append(couplingIssues, "high average instability, modules depend too much on others")
		}
		if stats.MaxCoupling > 20 {
			couplingIssues = append(couplingIssues, "modules with very high coupling, consider decomposition")
		}
		if len(couplingIssues) > 0 {
			issues["coupling"] = couplingIssues
		}
	}

	var densityIssues []string
	if r.Statistics.DependencyGraph.Density > 0.3 {
		densityIssues = append(densityIssues, "dependency graph is very dense, consider modularization")
	}
	if r.Statistics.CallGraph.Density > 0.5 {
		densityIssues = append(densityIssues, "call graph is very dense, functions are tightly coupled")
	}
	if len(densityIssues) > 0 {
		issues["density"] = densityIssues
	}

	return issues
}
