package graph

import "strings"

// Node is implemented by every node payload stored in a graph.
type Node interface {
	// DisplayName is the human-readable identifier used as the result map key.
	DisplayName() string
	// Location returns the defining file path and line (0 when unknown).
	Location() (string, int)
}

// FunctionNode is a call-graph node.
type FunctionNode struct {
	Name     string `json:"function_name"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line_number"`
}

func (n FunctionNode) DisplayName() string     { return n.Name }
func (n FunctionNode) Location() (string, int) { return n.FilePath, n.Line }

// QualifiedName returns "file::name", or just the name when the file is unknown.
func (n FunctionNode) QualifiedName() string {
	if n.FilePath == "" {
		return n.Name
	}
	return n.FilePath + "::" + n.Name
}

// ModuleNode is a dependency-graph node.
type ModuleNode struct {
	Name     string `json:"module_name"`
	FilePath string `json:"file_path"`
	External bool   `json:"is_external"`
}

func (n ModuleNode) DisplayName() string     { return n.Name }
func (n ModuleNode) Location() (string, int) { return n.FilePath, 0 }

// Internal reports whether the module belongs to the analyzed codebase.
func (n ModuleNode) Internal() bool { return !n.External }

// ModuleType classifies the module by its name shape.
func (n ModuleNode) ModuleType() string {
	switch {
	case n.External:
		return "external"
	case strings.Contains(n.Name, "."):
		return "package"
	default:
		return "module"
	}
}

// ClassNode is an inheritance-graph node.
type ClassNode struct {
	Name     string `json:"class_name"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line_number"`
}

func (n ClassNode) DisplayName() string     { return n.Name }
func (n ClassNode) Location() (string, int) { return n.FilePath, n.Line }

// QualifiedName returns "file::name", or just the name when the file is unknown.
func (n ClassNode) QualifiedName() string {
	if n.FilePath == "" {
		return n.Name
	}
	return n.FilePath + "::" + n.Name
}
