package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/efebarandurmaz/depscope/internal/config"
	"github.com/efebarandurmaz/depscope/internal/export"
	"github.com/efebarandurmaz/depscope/internal/facts"
	"github.com/efebarandurmaz/depscope/internal/graph"
	"github.com/efebarandurmaz/depscope/internal/observability"
	"github.com/efebarandurmaz/depscope/internal/server"
	"github.com/efebarandurmaz/depscope/internal/snapshot"
	neo4jstore "github.com/efebarandurmaz/depscope/internal/store/neo4j"
	temporalmod "github.com/efebarandurmaz/depscope/internal/temporal"
	"github.com/spf13/cobra"

	temporalclient "go.temporal.io/sdk/client"
)

func main() {
	var (
		factsPath  string
		configPath string
		jsonReport bool
	)

	rootCmd := &cobra.Command{
		Use:   "depscope",
		Short: "Dependency and call graph analysis engine",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build graphs from relationship facts and run the full analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(configPath, factsPath, jsonReport)
		},
	}
	analyzeCmd.Flags().StringVar(&factsPath, "facts", "", "Path to relationship facts JSONL file")
	analyzeCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")
	analyzeCmd.Flags().BoolVar(&jsonReport, "json", false, "Output the full result bundle as JSON")
	_ = analyzeCmd.MarkFlagRequired("facts")

	var (
		exportFormat string
		exportGraph  string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a built graph in DOT, Mermaid or JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(configPath, factsPath, exportGraph, exportFormat)
		},
	}
	exportCmd.Flags().StringVar(&factsPath, "facts", "", "Path to relationship facts JSONL file")
	exportCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")
	exportCmd.Flags().StringVar(&exportGraph, "graph", "call", "Graph to export (call, deps, inheritance)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "dot", "Output format (dot, mermaid, json)")
	_ = exportCmd.MarkFlagRequired("facts")

	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Persist built graphs to the configured graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(configPath, factsPath)
		},
	}
	storeCmd.Flags().StringVar(&factsPath, "facts", "", "Path to relationship facts JSONL file")
	storeCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")
	_ = storeCmd.MarkFlagRequired("facts")

	var submitStore bool
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an analysis workflow to Temporal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(configPath, factsPath, submitStore)
		},
	}
	submitCmd.Flags().StringVar(&factsPath, "facts", "", "Path to relationship facts JSONL file")
	submitCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")
	submitCmd.Flags().BoolVar(&submitStore, "store", false, "Also persist graphs after analysis")
	_ = submitCmd.MarkFlagRequired("facts")

	var serveAddr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve analysis over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, serveAddr)
		},
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")

	var (
		snapDir string
		snapTag string
	)
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Analyze facts and save the result as a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(configPath, factsPath, snapDir, snapTag)
		},
	}
	snapshotCmd.Flags().StringVar(&factsPath, "facts", "", "Path to relationship facts JSONL file")
	snapshotCmd.Flags().StringVar(&configPath, "config", "configs/depscope.yaml", "Config file path")
	snapshotCmd.Flags().StringVar(&snapDir, "dir", ".depscope", "Snapshot store directory")
	snapshotCmd.Flags().StringVar(&snapTag, "tag", "", "Optional tag for the snapshot")
	_ = snapshotCmd.MarkFlagRequired("facts")

	var (
		diffOld string
		diffNew string
	)
	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two analysis snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(snapDir, diffOld, diffNew, jsonReport)
		},
	}
	diffCmd.Flags().StringVar(&snapDir, "dir", ".depscope", "Snapshot store directory")
	diffCmd.Flags().StringVar(&diffOld, "old", "", "Baseline snapshot ID or tag")
	diffCmd.Flags().StringVar(&diffNew, "new", "", "Snapshot ID or tag to compare against the baseline")
	diffCmd.Flags().BoolVar(&jsonReport, "json", false, "Output the diff as JSON")
	_ = diffCmd.MarkFlagRequired("old")
	_ = diffCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(analyzeCmd, exportCmd, storeCmd, submitCmd, serveCmd, snapshotCmd, diffCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(configPath string) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = &config.Config{}
	}
	return cfg
}

func analysisOptions(cfg *config.Config) graph.Options {
	opts := graph.DefaultOptions()
	if cfg.Analysis.PageRankAlpha > 0 {
		opts.PageRankAlpha = cfg.Analysis.PageRankAlpha
	}
	if cfg.Analysis.PageRankMaxIter > 0 {
		opts.PageRankMaxIter = cfg.Analysis.PageRankMaxIter
	}
	if cfg.Analysis.PageRankTolerance > 0 {
		opts.PageRankTolerance = cfg.Analysis.PageRankTolerance
	}
	return opts
}

func initTracing(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	tc := observability.DefaultTracingConfig()
	tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	if cfg.Tracing.SampleRate > 0 {
		tc.SampleRate = cfg.Tracing.SampleRate
	}
	if cfg.Tracing.Environment != "" {
		tc.Environment = cfg.Tracing.Environment
	}
	return observability.InitTracing(ctx, tc)
}

func buildAnalyzer(factsPath string) (*graph.Analyzer, int, error) {
	parsed, err := facts.ReadFile(factsPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read facts: %w", err)
	}

	b := graph.NewBuilder()
	facts.Apply(b, parsed)
	return b.Build(), len(parsed), nil
}

func runAnalyze(configPath, factsPath string, jsonReport bool) error {
	ctx := context.Background()
	cfg := loadConfig(configPath)

	tp, err := initTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tp.Shutdown(ctx)

	analyzer, factCount, err := buildAnalyzer(factsPath)
	if err != nil {
		return err
	}

	if !jsonReport {
		fmt.Printf("Loaded %d facts from %s\n\n", factCount, factsPath)
	}

	result := analyzer.Analyze(ctx, analysisOptions(cfg))

	if jsonReport {
		data, err := export.JSON(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(export.FormatSummary(result))
	return nil
}

func runExport(configPath, factsPath, which, format string) error {
	ctx := context.Background()
	cfg := loadConfig(configPath)

	analyzer, _, err := buildAnalyzer(factsPath)
	if err != nil {
		return err
	}

	if format == "json" {
		result := analyzer.Analyze(ctx, analysisOptions(cfg))
		data, err := export.JSON(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	var out string
	switch which {
	case "call":
		if format == "mermaid" {
			out = export.Mermaid(analyzer.CallGraph())
		} else {
			out = export.DOT(analyzer.CallGraph(), "calls")
		}
	case "deps", "dependency":
		if format == "mermaid" {
			out = export.Mermaid(analyzer.DependencyGraph())
		} else {
			out = export.DOT(analyzer.DependencyGraph(), "dependencies")
		}
	case "inheritance":
		if format == "mermaid" {
			out = export.Mermaid(analyzer.InheritanceGraph())
		} else {
			out = export.DOT(analyzer.InheritanceGraph(), "inheritance")
		}
	default:
		return fmt.Errorf("unknown graph %q (want call, deps or inheritance)", which)
	}

	fmt.Print(out)
	return nil
}

func runStore(configPath, factsPath string) error {
	ctx := context.Background()
	cfg := loadConfig(configPath)

	if cfg.Graph.URI == "" {
		return fmt.Errorf("no graph store configured (set graph.uri)")
	}

	tp, err := initTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tp.Shutdown(ctx)

	analyzer, factCount, err := buildAnalyzer(factsPath)
	if err != nil {
		return err
	}

	repo, err := neo4jstore.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return fmt.Errorf("connect graph store: %w", err)
	}
	defer repo.Close(ctx)

	if err := repo.StoreGraphs(ctx, analyzer); err != nil {
		return fmt.Errorf("store graphs: %w", err)
	}

	fmt.Printf("Stored graphs built from %d facts to %s\n", factCount, cfg.Graph.URI)
	return nil
}

func runSubmit(configPath, factsPath string, storeGraphs bool) error {
	ctx := context.Background()
	cfg := loadConfig(configPath)

	c, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	run, err := c.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		TaskQueue: cfg.Temporal.TaskQueue,
	}, temporalmod.AnalysisWorkflow, temporalmod.AnalysisInput{
		FactsPath:   factsPath,
		StoreGraphs: storeGraphs,
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}

	fmt.Printf("Started workflow %s (run %s)\n", run.GetID(), run.GetRunID())

	var output temporalmod.AnalysisOutput
	if err := run.Get(ctx, &output); err != nil {
		return fmt.Errorf("workflow failed: %w", err)
	}

	fmt.Printf("Analyzed %d facts, found %d cycles\n", output.FactCount, output.CycleCount)
	for _, e := range output.Errors {
		fmt.Printf("  finding: %s\n", e)
	}
	if output.Stored {
		fmt.Println("Graphs persisted to graph store")
	}
	return nil
}

func runServe(configPath, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(configPath)

	tp, err := initTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tp.Shutdown(context.Background())

	srv := server.New("0.1.0", analysisOptions(cfg))
	if cfg.Graph.URI != "" {
		repo, err := neo4jstore.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
		if err != nil {
			return fmt.Errorf("connect graph store: %w", err)
		}
		defer repo.Close(context.Background())
		srv.Health.RegisterCheck("store", server.GraphStoreHealthChecker(repo.Ping))
	} else {
		srv.Health.RegisterCheck("store", server.GraphStoreHealthChecker(nil))
	}

	fmt.Printf("Serving on %s\n", addr)
	return srv.Serve(ctx, addr)
}

func runSnapshot(configPath, factsPath, dir, tag string) error {
	ctx := context.Background()
	cfg := loadConfig(configPath)

	analyzer, factCount, err := buildAnalyzer(factsPath)
	if err != nil {
		return err
	}

	result := analyzer.Analyze(ctx, analysisOptions(cfg))
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	store, err := snapshot.NewStore(dir)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	snap := snapshot.New(factsPath, factCount, result, data)
	snap.Tag = tag
	if err := store.Save(snap, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	observability.Audit().LogSnapshotSave(ctx, snap.ID, tag)
	fmt.Printf("Saved snapshot %s (%d facts, %d cycles)\n", snap.ID, factCount, snap.TotalCycles())
	return nil
}

func runDiff(dir, oldRef, newRef string, jsonReport bool) error {
	store, err := snapshot.NewStore(dir)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	oldSnap, err := resolveSnapshot(store, oldRef)
	if err != nil {
		return err
	}
	newSnap, err := resolveSnapshot(store, newRef)
	if err != nil {
		return err
	}

	d := snapshot.Diff(oldSnap, newSnap)

	if jsonReport {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("encode diff: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(d.String())
	return nil
}

func resolveSnapshot(store *snapshot.Store, ref string) (*snapshot.Snapshot, error) {
	if snap, err := store.Load(ref); err == nil {
		return snap, nil
	}
	snap, err := store.FindByTag(ref)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q not found by ID or tag", ref)
	}
	return snap, nil
}
