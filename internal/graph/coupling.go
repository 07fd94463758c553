package graph

import (
	"math"
	"sort"
)

// defaultAbstractness is used when no interface information reaches the
// engine; every module sits halfway on the abstractness axis.
const defaultAbstractness = 0.5

// CouplingMetrics holds per-module coupling scores derived from the
// dependency graph.
type CouplingMetrics struct {
	Afferent         map[string]int     `json:"afferent_coupling"`
	Efferent         map[string]int     `json:"efferent_coupling"`
	Instability      map[string]float64 `json:"instability"`
	Abstractness     map[string]float64 `json:"abstractness"`
	DistanceFromMain map[string]float64 `json:"distance_from_main"`

	order []string
}

// NodeCoupling pairs a module with its total coupling for ranked listings.
type NodeCoupling struct {
	Node     string `json:"node"`
	Coupling int    `json:"coupling"`
}

// NodeInstability pairs a module with its instability for ranked listings.
type NodeInstability struct {
	Node        string  `json:"node"`
	Instability float64 `json:"instability"`
}

// CouplingStats summarizes the coupling metrics across all modules.
type CouplingStats struct {
	TotalNodes     int     `json:"total_nodes"`
	AvgAfferent    float64 `json:"avg_afferent"`
	AvgEfferent    float64 `json:"avg_efferent"`
	AvgInstability float64 `json:"avg_instability"`
	AvgDistance    float64 `json:"avg_distance_from_main"`
	MaxCoupling    int     `json:"max_coupling"`
}

// ComputeCoupling derives coupling metrics from a dependency graph.
// Afferent coupling is the in-degree, efferent the out-degree; instability
// is Ce/(Ca+Ce) and 0 for isolated modules.
func ComputeCoupling[N Node, E Edge](g *Directed[N, E]) *CouplingMetrics {
	m := &CouplingMetrics{
		Afferent:         make(map[string]int),
		Efferent:         make(map[string]int),
		Instability:      make(map[string]float64),
		Abstractness:     make(map[string]float64),
		DistanceFromMain: make(map[string]float64),
		order:            g.Keys(),
	}
	for _, key := range m.order {
		ca := g.InDegree(key)
		ce := g.OutDegree(key)
		m.Afferent[key] = ca
		m.Efferent[key] = ce
		m.Instability[key] = instability(ca, ce)
		m.Abstractness[key] = defaultAbstractness
		m.DistanceFromMain[key] = math.Abs(defaultAbstractness + m.Instability[key] - 1)
	}
	return m
}

func instability(ca, ce int) float64 {
	if ca+ce == 0 {
		return 0
	}
	return float64(ce) / float64(ca+ce)
}

// MostCoupled returns up to n modules ranked by total coupling, descending.
// Ties keep node insertion order.
func (m *CouplingMetrics) MostCoupled(n int) []NodeCoupling {
	ranked := make([]NodeCoupling, 0, len(m.order))
	for _, key := range m.order {
		ranked = append(ranked, NodeCoupling{Node: key, Coupling: m.Afferent[key] + m.Efferent[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Coupling > ranked[j].Coupling
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// MostUnstable returns up to n modules ranked by instability, descending.
// Ties keep node insertion order.
func (m *CouplingMetrics) MostUnstable(n int) []NodeInstability {
	ranked := make([]NodeInstability, 0, len(m.order))
	for _, key := range m.order {
		ranked = append(ranked, NodeInstability{Node: key, Instability: m.Instability[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Instability > ranked[j].Instability
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Summary aggregates the per-module scores.
func (m *CouplingMetrics) Summary() CouplingStats {
	stats := CouplingStats{TotalNodes: len(m.order)}
	if stats.TotalNodes == 0 {
		return stats
	}
	var sumCa, sumCe, sumI, sumD float64
	for _, key := range m.order {
		sumCa += float64(m.Afferent[key])
		sumCe += float64(m.Efferent[key])
		sumI += m.Instability[key]
		sumD += m.DistanceFromMain[key]
		if c := m.Afferent[key] + m.Efferent[key]; c > stats.MaxCoupling {
			stats.MaxCoupling = c
		}
	}
	n := float64(stats.TotalNodes)
	stats.AvgAfferent = sumCa / n
	stats.AvgEfferent = sumCe / n
	stats.AvgInstability = sumI / n
	stats.AvgDistance = sumD / n
	return stats
}
