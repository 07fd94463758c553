// Package snapshot captures analysis results as point-in-time records
// that can be listed, tagged and compared across runs.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

// Snapshot is a point-in-time capture of one analysis run.
type Snapshot struct {
	ID          string                  `json:"id"`
	Tag         string                  `json:"tag,omitempty"`
	Description string                  `json:"description,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	FactsPath   string                  `json:"facts_path"`
	FactCount   int                     `json:"fact_count"`
	ContentHash string                  `json:"content_hash"`
	Graphs      map[string]GraphSummary `json:"graphs"`
	Findings    []string                `json:"findings,omitempty"`
}

// GraphSummary records one graph's shape at snapshot time.
type GraphSummary struct {
	NodeCount  int     `json:"node_count"`
	EdgeCount  int     `json:"edge_count"`
	CycleCount int     `json:"cycle_count"`
	Density    float64 `json:"density"`
	Cyclic     bool    `json:"is_cyclic"`
}

// Index is a lightweight listing of all snapshots for fast lookup.
type Index struct {
	Snapshots []Summary `json:"snapshots"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the minimal info for listing snapshots.
type Summary struct {
	ID           string    `json:"id"`
	Tag          string    `json:"tag,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	FactsPath    string    `json:"facts_path"`
	FactCount    int       `json:"fact_count"`
	TotalCycles  int       `json:"total_cycles"`
	FindingCount int       `json:"finding_count"`
}

// New builds a snapshot from an analysis result. The result bundle
// itself is stored separately, addressed by ContentHash.
func New(factsPath string, factCount int, result *graph.Result, resultJSON []byte) *Snapshot {
	snap := &Snapshot{
		CreatedAt:   time.Now(),
		FactsPath:   factsPath,
		FactCount:   factCount,
		ContentHash: ContentHash(resultJSON),
		Graphs: map[string]GraphSummary{
			graph.KeyCallGraph:        summarize(result.Statistics.CallGraph, len(result.Cycles.CallCycles)),
			graph.KeyDependencyGraph:  summarize(result.Statistics.DependencyGraph, len(result.Cycles.DependencyCycles)),
			graph.KeyInheritanceGraph: summarize(result.Statistics.InheritanceGraph, len(result.Cycles.InheritanceCycles)),
		},
	}

	patterns := result.ProblematicPatterns()
	for _, category := range []string{"cycles", "coupling", "density"} {
		snap.Findings = append(snap.Findings, patterns[category]...)
	}

	snap.ID = generateID(snap)
	return snap
}

func summarize(stats graph.GraphStats, cycles int) GraphSummary {
	return GraphSummary{
		NodeCount:  stats.NodeCount,
		EdgeCount:  stats.EdgeCount,
		CycleCount: cycles,
		Density:    stats.Density,
		Cyclic:     stats.Cyclic,
	}
}

// ContentHash computes the SHA-256 of content.
func ContentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func generateID(snap *Snapshot) string {
	data, _ := json.Marshal(struct {
		Time    int64  `json:"t"`
		Content string `json:"c"`
	}{
		Time:    snap.CreatedAt.UnixNano(),
		Content: snap.ContentHash,
	})
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:8])
}

// TotalCycles sums cycle counts across all graphs.
func (s *Snapshot) TotalCycles() int {
	total := 0
	for _, g := range s.Graphs {
		total += g.CycleCount
	}
	return total
}

// Summary returns a lightweight summary of this snapshot.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:           s.ID,
		Tag:          s.Tag,
		CreatedAt:    s.CreatedAt,
		FactsPath:    s.FactsPath,
		FactCount:    s.FactCount,
		TotalCycles:  s.TotalCycles(),
		FindingCount: len(s.Findings),
	}
}
