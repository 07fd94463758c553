package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/efebarandurmaz/depscope/internal/graph"
	"github.com/efebarandurmaz/depscope/internal/store"
)

// Neo4jRepository implements store.Repository using Neo4j.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j-backed repository.
func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver}, nil
}

func (r *Neo4jRepository) StoreGraphs(ctx context.Context, a *graph.Analyzer) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	if err := r.storeCallGraph(ctx, session, a.CallGraph()); err != nil {
		return fmt.Errorf("store call graph: %w", err)
	}
	if err := r.storeDependencyGraph(ctx, session, a.DependencyGraph()); err != nil {
		return fmt.Errorf("store dependency graph: %w", err)
	}
	if err := r.storeInheritanceGraph(ctx, session, a.InheritanceGraph()); err != nil {
		return fmt.Errorf("store inheritance graph: %w", err)
	}
	return nil
}

func (r *Neo4jRepository) storeCallGraph(ctx context.Context, session neo4j.SessionWithContext, g *graph.Directed[graph.FunctionNode, graph.CallEdge]) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, key := range g.Keys() {
			node, _ := g.Node(key)
			_, err := tx.Run(ctx,
				"MERGE (f:Function {name: $name}) SET f.path = $path, f.line = $line",
				map[string]any{"name": node.Name, "path": node.FilePath, "line": node.Line})
			if err != nil {
				return nil, err
			}
		}
		for _, from := range g.Keys() {
			for _, to := range g.OutNeighbors(from) {
				edge, _ := g.Edge(from, to)
				_, err := tx.Run(ctx,
					"MATCH (a:Function {name: $from}), (b:Function {name: $to}) "+
						"MERGE (a)-[c:CALLS]->(b) SET c.weight = $weight, c.call_count = $count",
					map[string]any{"from": from, "to": to, "weight": edge.Weight, "count": edge.CallCount})
				if err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	return err
}

func (r *Neo4jRepository) storeDependencyGraph(ctx context.Context, session neo4j.SessionWithContext, g *graph.Directed[graph.ModuleNode, graph.DependencyEdge]) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, key := range g.Keys() {
			node, _ := g.Node(key)
			_, err := tx.Run(ctx,
				"MERGE (m:Module {name: $name}) SET m.path = $path, m.external = $external",
				map[string]any{"name": node.Name, "path": node.FilePath, "external": node.External})
			if err != nil {
				return nil, err
			}
		}
		for _, from := range g.Keys() {
			for _, to := range g.OutNeighbors(from) {
				edge, _ := g.Edge(from, to)
				_, err := tx.Run(ctx,
					"MATCH (a:Module {name: $from}), (b:Module {name: $to}) "+
						"MERGE (a)-[i:IMPORTS]->(b) SET i.weight = $weight, i.import_type = $kind",
					map[string]any{"from": from, "to": to, "weight": edge.Weight, "kind": edge.ImportType})
				if err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	return err
}

func (r *Neo4jRepository) storeInheritanceGraph(ctx context.Context, session neo4j.SessionWithContext, g *graph.Directed[graph.ClassNode, graph.InheritanceEdge]) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, key := range g.Keys() {
			node, _ := g.Node(key)
			_, err := tx.Run(ctx,
				"MERGE (c:Class {name: $name}) SET c.path = $path, c.line = $line",
				map[string]any{"name": node.Name, "path": node.FilePath, "line": node.Line})
			if err != nil {
				return nil, err
			}
		}
		for _, from := range g.Keys() {
			for _, to := range g.OutNeighbors(from) {
				edge, _ := g.Edge(from, to)
				_, err := tx.Run(ctx,
					"MATCH (a:Class {name: $from}), (b:Class {name: $to}) "+
						"MERGE (a)-[e:INHERITS]->(b) SET e.weight = $weight, e.type = $type",
					map[string]any{"from": from, "to": to, "weight": edge.Weight, "type": edge.InheritanceType})
				if err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	return err
}

func (r *Neo4jRepository) QueryCallees(ctx context.Context, functionName string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (:Function {name: $name})-[:CALLS]->(callee:Function) RETURN callee.name",
			map[string]any{"name": functionName})
		if err != nil {
			return nil, err
		}
		var names []string
		for records.Next(ctx) {
			n, _ := records.Record().Get("callee.name")
			names = append(names, n.(string))
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (r *Neo4jRepository) QueryImporters(ctx context.Context, moduleName string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (importer:Module)-[:IMPORTS]->(:Module {name: $name}) RETURN importer.name",
			map[string]any{"name": moduleName})
		if err != nil {
			return nil, err
		}
		var names []string
		for records.Next(ctx) {
			n, _ := records.Record().Get("importer.name")
			names = append(names, n.(string))
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Ping verifies connectivity to the database.
func (r *Neo4jRepository) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var _ store.Repository = (*Neo4jRepository)(nil)
