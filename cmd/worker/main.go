package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/efebarandurmaz/depscope/internal/config"
	"github.com/efebarandurmaz/depscope/internal/graph"
	"github.com/efebarandurmaz/depscope/internal/observability"
	"github.com/efebarandurmaz/depscope/internal/server"
	"github.com/efebarandurmaz/depscope/internal/store"
	neo4jstore "github.com/efebarandurmaz/depscope/internal/store/neo4j"
	temporalmod "github.com/efebarandurmaz/depscope/internal/temporal"

	temporalclient "go.temporal.io/sdk/client"
)

func main() {
	configPath := "configs/depscope.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	tc := observability.DefaultTracingConfig()
	tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	if cfg.Tracing.SampleRate > 0 {
		tc.SampleRate = cfg.Tracing.SampleRate
	}
	if cfg.Tracing.Environment != "" {
		tc.Environment = cfg.Tracing.Environment
	}
	tp, err := observability.InitTracing(ctx, tc)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer tp.Shutdown(ctx)

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

	// The graph store is optional; workers without one can still run
	// analysis workflows that skip persistence.
	var repo store.Repository
	var storePing func(context.Context) error
	if cfg.Graph.URI != "" {
		r, err := neo4jstore.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
		if err != nil {
			log.Fatalf("graph store: %v", err)
		}
		defer r.Close(ctx)
		repo = r
		storePing = r.Ping
	}

	temporalmod.SetDependencies(&temporalmod.Dependencies{
		Store:   repo,
		Options: opts,
	})

	c, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w, err := temporalmod.StartWorker(c, cfg.Temporal.TaskQueue)
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
	observability.Metrics().ActiveWorkers.Inc()

	// Health and metrics endpoints for the worker process.
	serveCtx, stopServe := context.WithCancel(ctx)
	srv := server.New("0.1.0", opts)
	srv.Health.RegisterCheck("temporal", server.TemporalHealthChecker(func(ctx context.Context) error {
		_, err := c.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
		return err
	}))
	srv.Health.RegisterCheck("store", server.GraphStoreHealthChecker(storePing))
	go func() {
		if err := srv.Serve(serveCtx, ":8080"); err != nil {
			log.Printf("health server: %v", err)
		}
	}()

	fmt.Printf("Worker started on task queue: %s\n", cfg.Temporal.TaskQueue)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	stopServe()
	w.Stop()
	observability.Metrics().ActiveWorkers.Dec()
	fmt.Println("Worker stopped")
}
