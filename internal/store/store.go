// Package store defines persistence for built relationship graphs.
package store

import (
	"context"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

// Repository persists the built graphs for later querying.
type Repository interface {
	// StoreGraphs persists the three relationship graphs.
	StoreGraphs(ctx context.Context, a *graph.Analyzer) error
	// QueryCallees returns all functions called by the given function.
	QueryCallees(ctx context.Context, functionName string) ([]string, error)
	// QueryImporters returns all modules importing the given module.
	QueryImporters(ctx context.Context, moduleName string) ([]string, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
