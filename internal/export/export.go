// Package export renders built graphs and analysis results for human and
// tool consumption.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

// DOT generates a Graphviz DOT representation of one graph.
func DOT[N graph.Node, E graph.Edge](g *graph.Directed[N, E], name string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("digraph %s {\n", sanitizeID(name)))
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\" shape=box style=filled fillcolor=\"#238636\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\" fontsize=10 color=\"#3fb950\"];\n\n")

	for _, key := range g.Keys() {
		n, _ := g.Node(key)
		b.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\"];\n", key, n.DisplayName()))
	}
	b.WriteString("\n")

	for _, from := range g.Keys() {
		for _, to := range g.OutNeighbors(from) {
			e, _ := g.Edge(from, to)
			label := ""
			if w := e.EdgeWeight(); w > 1 {
				label = fmt.Sprintf(" [label=\"%g\"]", w)
			}
			b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\"%s;\n", from, to, label))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// Mermaid generates a Mermaid diagram of one graph.
func Mermaid[N graph.Node, E graph.Edge](g *graph.Directed[N, E]) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for _, key := range g.Keys() {
		n, _ := g.Node(key)
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", sanitizeID(key), n.DisplayName()))
	}

	for _, from := range g.Keys() {
		for _, to := range g.OutNeighbors(from) {
			e, _ := g.Edge(from, to)
			label := ""
			if w := e.EdgeWeight(); w > 1 {
				label = fmt.Sprintf("|%g|", w)
			}
			b.WriteString(fmt.Sprintf("  %s -->%s %s\n", sanitizeID(from), label, sanitizeID(to)))
		}
	}

	return b.String()
}

// JSON serializes the analysis result.
func JSON(r *graph.Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FormatSummary returns a human-readable summary of the analysis result.
func FormatSummary(r *graph.Result) string {
	var b strings.Builder
	b.WriteString("Graph Analysis Summary\n")
	b.WriteString("======================\n\n")

	writeStats := func(label string, s graph.GraphStats) {
		b.WriteString(fmt.Sprintf("%s:\n", label))
		b.WriteString(fmt.Sprintf("  Nodes:      %d\n", s.NodeCount))
		b.WriteString(fmt.Sprintf("  Edges:      %d\n", s.EdgeCount))
		b.WriteString(fmt.Sprintf("  Density:    %.4f\n", s.Density))
		b.WriteString(fmt.Sprintf("  Avg Degree: %.2f\n", s.AverageDegree))
		b.WriteString(fmt.Sprintf("  Cyclic:     %v\n", s.Cyclic))
	}
	writeStats("Call Graph", r.Statistics.CallGraph)
	writeStats("Dependency Graph", r.Statistics.DependencyGraph)
	writeStats("Inheritance Graph", r.Statistics.InheritanceGraph)

	b.WriteString(fmt.Sprintf("\nCycles:     %d total\n", r.Cycles.TotalCycles))
	for i, cycle := range r.Cycles.DependencyCycles {
		b.WriteString(fmt.Sprintf("  dep %d: %s\n", i+1, strings.Join(cycle, " -> ")))
	}
	b.WriteString(fmt.Sprintf("Components: %d total\n", r.Components.TotalComponents))

	if node, score, ok := r.CallCentrality.MostCentralBetweenness(); ok && score > 0 {
		b.WriteString(fmt.Sprintf("\nMost central function: %s (%.4f)\n", node, score))
	}
	if top := r.CallCentrality.TopPageRank(3); len(top) > 0 {
		b.WriteString("Top PageRank:\n")
		for _, entry := range top {
			b.WriteString(fmt.Sprintf("  %s: %.4f\n", entry.Node, entry.Score))
		}
	}

	if r.Coupling != nil {
		stats := r.Coupling.Summary()
		b.WriteString(fmt.Sprintf("\nCoupling: avg instability %.2f, max coupling %d\n",
			stats.AvgInstability, stats.MaxCoupling))
	}

	if issues := r.ProblematicPatterns(); len(issues) > 0 {
		b.WriteString("\nFindings:\n")
		for _, category := range []string{"cycles", "coupling", "density"} {
			for _, issue := range issues[category] {
				b.WriteString(fmt.Sprintf("  [%s] %s\n", category, issue))
			}
		}
	}

	return b.String()
}

func sanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
}
