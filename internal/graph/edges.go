package graph

// Edge is implemented by every edge payload stored in a graph.
type Edge interface {
	// EdgeWeight is the merged weight of all facts recorded for this edge.
	EdgeWeight() float64
}

// CallEdge connects a caller function to a callee.
type CallEdge struct {
	CallCount int     `json:"call_count"`
	Weight    float64 `json:"weight"`
}

func (e CallEdge) EdgeWeight() float64 { return e.Weight }

// DependencyEdge connects an importing module to an imported one.
type DependencyEdge struct {
	ImportType string  `json:"import_type"` // "import", "from_import", ...
	Weight     float64 `json:"weight"`
}

func (e DependencyEdge) EdgeWeight() float64 { return e.Weight }

// InheritanceEdge connects a child class to a parent.
type InheritanceEdge struct {
	InheritanceType string  `json:"inheritance_type"` // "extends"
	Weight          float64 `json:"weight"`
}

func (e InheritanceEdge) EdgeWeight() float64 { return e.Weight }
