package snapshot

import (
	"fmt"
	"sort"
	"strings"
)

// SnapshotDiff represents the change between two analysis snapshots.
type SnapshotDiff struct {
	OldID      string      `json:"old_id"`
	NewID      string      `json:"new_id"`
	OldTag     string      `json:"old_tag,omitempty"`
	NewTag     string      `json:"new_tag,omitempty"`
	Identical  bool        `json:"identical"`
	GraphDiffs []GraphDiff `json:"graph_diffs"`
	Findings   FindingDiff `json:"findings"`
	Summary    DiffSummary `json:"summary"`
}

// GraphDiff captures shape changes in one graph between snapshots.
type GraphDiff struct {
	Graph         string  `json:"graph"`
	NodeDelta     int     `json:"node_delta"`
	EdgeDelta     int     `json:"edge_delta"`
	CycleDelta    int     `json:"cycle_delta"`
	DensityDelta  float64 `json:"density_delta"`
	TurnedCyclic  bool    `json:"turned_cyclic,omitempty"`
	TurnedAcyclic bool    `json:"turned_acyclic,omitempty"`
}

// FindingDiff lists findings introduced and resolved between snapshots.
type FindingDiff struct {
	Introduced []string `json:"introduced,omitempty"`
	Resolved   []string `json:"resolved,omitempty"`
}

// DiffSummary provides aggregate stats about the diff.
type DiffSummary struct {
	TotalNodeDelta  int  `json:"total_node_delta"`
	TotalEdgeDelta  int  `json:"total_edge_delta"`
	TotalCycleDelta int  `json:"total_cycle_delta"`
	Improved        bool `json:"improved"`
}

// Diff computes the differences between two snapshots. The old snapshot
// is the baseline.
func Diff(old, new *Snapshot) *SnapshotDiff {
	d := &SnapshotDiff{
		OldID:     old.ID,
		NewID:     new.ID,
		OldTag:    old.Tag,
		NewTag:    new.Tag,
		Identical: old.ContentHash == new.ContentHash,
	}

	names := make([]string, 0, len(old.Graphs)+len(new.Graphs))
	seen := make(map[string]bool)
	for name := range old.Graphs {
		names = append(names, name)
		seen[name] = true
	}
	for name := range new.Graphs {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		og := old.Graphs[name]
		ng := new.Graphs[name]
		gd := GraphDiff{
			Graph:         name,
			NodeDelta:     ng.NodeCount - og.NodeCount,
			EdgeDelta:     ng.EdgeCount - og.EdgeCount,
			CycleDelta:    ng.CycleCount - og.CycleCount,
			DensityDelta:  ng.Density - og.Density,
			TurnedCyclic:  !og.Cyclic && ng.Cyclic,
			TurnedAcyclic: og.Cyclic && !ng.Cyclic,
		}
		d.GraphDiffs = append(d.GraphDiffs, gd)

		d.Summary.TotalNodeDelta += gd.NodeDelta
		d.Summary.TotalEdgeDelta += gd.EdgeDelta
		d.Summary.TotalCycleDelta += gd.CycleDelta
	}

	d.Findings = diffFindings(old.Findings, new.Findings)
	d.Summary.Improved = d.Summary.TotalCycleDelta < 0 ||
		(d.Summary.TotalCycleDelta == 0 && len(d.Findings.Resolved) > len(d.Findings.Introduced))

	return d
}

func diffFindings(oldFindings, newFindings []string) FindingDiff {
	oldSet := make(map[string]bool, len(oldFindings))
	for _, f := range oldFindings {
		oldSet[f] = true
	}
	newSet := make(map[string]bool, len(newFindings))
	for _, f := range newFindings {
		newSet[f] = true
	}

	var fd FindingDiff
	for _, f := range newFindings {
		if !oldSet[f] {
			fd.Introduced = append(fd.Introduced, f)
		}
	}
	for _, f := range oldFindings {
		if !newSet[f] {
			fd.Resolved = append(fd.Resolved, f)
		}
	}
	return fd
}

// String renders the diff as a human-readable report.
func (d *SnapshotDiff) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Snapshot %s -> %s\n", shortRef(d.OldID, d.OldTag), shortRef(d.NewID, d.NewTag))
	if d.Identical {
		b.WriteString("No changes: result bundles are identical\n")
		return b.String()
	}

	for _, gd := range d.GraphDiffs {
		if gd.NodeDelta == 0 && gd.EdgeDelta == 0 && gd.CycleDelta == 0 && !gd.TurnedCyclic && !gd.TurnedAcyclic {
			continue
		}
		fmt.Fprintf(&b, "  %s: %+d nodes, %+d edges, %+d cycles\n",
			gd.Graph, gd.NodeDelta, gd.EdgeDelta, gd.CycleDelta)
		if gd.TurnedCyclic {
			fmt.Fprintf(&b, "    %s became cyclic\n", gd.Graph)
		}
		if gd.TurnedAcyclic {
			fmt.Fprintf(&b, "    %s is no longer cyclic\n", gd.Graph)
		}
	}

	for _, f := range d.Findings.Introduced {
		fmt.Fprintf(&b, "  new finding: %s\n", f)
	}
	for _, f := range d.Findings.Resolved {
		fmt.Fprintf(&b, "  resolved: %s\n", f)
	}

	return b.String()
}

func shortRef(id, tag string) string {
	if tag != "" {
		return tag
	}
	return id
}
