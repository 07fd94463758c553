package graph

// Builder accumulates relationship facts into the three graphs. Duplicate
// facts are the common case and merge into the existing edge by weight;
// they never return an error. A Builder is not safe for concurrent use.
type Builder struct {
	calls    *Directed[FunctionNode, CallEdge]
	deps     *Directed[ModuleNode, DependencyEdge]
	inherits *Directed[ClassNode, InheritanceEdge]
	built    bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		calls:    NewDirected[FunctionNode, CallEdge](),
		deps:     NewDirected[ModuleNode, DependencyEdge](),
		inherits: NewDirected[ClassNode, InheritanceEdge](),
	}
}

// AddCall records a caller -> callee fact. A count below 1 is treated as 1.
// Repeated facts for the same pair accumulate into one edge.
func (b *Builder) AddCall(caller, callee string, count int) {
	b.mustMutable()
	if count < 1 {
		count = 1
	}
	b.calls.AddNode(caller, FunctionNode{Name: caller})
	b.calls.AddNode(callee, FunctionNode{Name: callee})

	edge, ok := b.calls.Edge(caller, callee)
	if ok {
		edge.CallCount += count
		edge.Weight += float64(count)
	} else {
		edge = CallEdge{CallCount: count, Weight: float64(count)}
	}
	b.calls.SetEdge(caller, callee, edge)
}

// AddDependency records an importer -> imported fact tagged with the import
// kind. Each repeated fact increments the edge weight by 1; the first fact's
// import type wins.
func (b *Builder) AddDependency(importer, imported, importType string) {
	b.mustMutable()
	b.deps.AddNode(importer, ModuleNode{Name: importer})
	b.deps.AddNode(imported, ModuleNode{Name: imported})

	edge, ok := b.deps.Edge(importer, imported)
	if ok {
		edge.Weight++
	} else {
		edge = DependencyEdge{ImportType: importType, Weight: 1}
	}
	b.deps.SetEdge(importer, imported, edge)
}

// AddInheritance records a child -> parent fact.
func (b *Builder) AddInheritance(child, parent string) {
	b.mustMutable()
	b.inherits.AddNode(child, ClassNode{Name: child})
	b.inherits.AddNode(parent, ClassNode{Name: parent})

	edge, ok := b.inherits.Edge(child, parent)
	if ok {
		edge.Weight++
	} else {
		edge = InheritanceEdge{InheritanceType: "extends", Weight: 1}
	}
	b.inherits.SetEdge(child, parent, edge)
}

// SetFunctionDetail fills in the defining location for a function node,
// creating it if needed.
func (b *Builder) SetFunctionDetail(name, filePath string, line int) {
	b.mustMutable()
	if !b.calls.AddNode(name, FunctionNode{Name: name, FilePath: filePath, Line: line}) {
		b.calls.nodes[name] = FunctionNode{Name: name, FilePath: filePath, Line: line}
	}
}

// SetModuleDetail fills in the file path and external flag for a module
// node, creating it if needed.
func (b *Builder) SetModuleDetail(name, filePath string, external bool) {
	b.mustMutable()
	if !b.deps.AddNode(name, ModuleNode{Name: name, FilePath: filePath, External: external}) {
		b.deps.nodes[name] = ModuleNode{Name: name, FilePath: filePath, External: external}
	}
}

// SetClassDetail fills in the defining location for a class node, creating
// it if needed.
func (b *Builder) SetClassDetail(name, filePath string, line int) {
	b.mustMutable()
	if !b.inherits.AddNode(name, ClassNode{Name: name, FilePath: filePath, Line: line}) {
		b.inherits.nodes[name] = ClassNode{Name: name, FilePath: filePath, Line: line}
	}
}

// Build finalizes the builder and hands the three graphs to an Analyzer.
// The builder must not be used afterwards.
func (b *Builder) Build() *Analyzer {
	b.mustMutable()
	b.built = true
	return &Analyzer{
		calls:    b.calls,
		deps:     b.deps,
		inherits: b.inherits,
	}
}

func (b *Builder) mustMutable() {
	if b.built {
		panic("graph: builder used after Build")
	}
}
