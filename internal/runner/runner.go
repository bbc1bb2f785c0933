package runner

import (
	"context"
	"fmt"
	"log"

	"cloudgraphx/internal/builder"
	"cloudgraphx/internal/config"
	"cloudgraphx/internal/cycles"
	"cloudgraphx/internal/formatter"
	"cloudgraphx/internal/graph"
	"cloudgraphx/internal/impact"
	"cloudgraphx/internal/metrics"
	"cloudgraphx/internal/neo4j"
	"cloudgraphx/internal/provider"
)

// newProvider builds the relation provider for a run. The CLI currently
// serves facts from snapshot files; live vendor providers plug in behind the
// same interface.
func newProvider(cfg *config.Config) (provider.Provider, error) {
	if cfg.Snapshot == "" {
		return nil, fmt.Errorf("no snapshot configured; set 'snapshot' in %s.%s or pass --snapshot", config.ConfigFileName, config.ConfigFileType)
	}
	log.Printf("Loading snapshot %s...", cfg.Snapshot)
	return provider.LoadSnapshot(cfg.Snapshot)
}

// Graph builds the scope graph, or a depth-bounded graph rooted at rootID
// when it is non-empty, and emits it in the configured format. With
// cfg.Update set, the graph is pushed to Neo4j instead.
func Graph(ctx context.Context, cfg *config.Config, rootID string, maxDepth int) error {
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}
	b := builder.New(prov)

	var g *graph.Graph
	if rootID != "" {
		log.Printf("Building dependency graph rooted at %s (max depth %d)...", rootID, maxDepth)
		g, err = b.BuildResourceGraph(ctx, cfg.Scope, rootID, maxDepth)
	} else {
		log.Printf("Building dependency graph for scope %q...", cfg.Scope)
		g, err = b.BuildScopeGraph(ctx, cfg.Scope)
	}
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	if cfg.Update {
		// A rooted graph is a partial view of the scope, so obsolete-node
		// pruning only runs for whole-scope pushes.
		return pushToNeo4j(ctx, g, cfg, rootID == "")
	}
	return emit(g, cfg)
}

// Cycles scans the whole-scope graph for circular dependency chains.
func Cycles(ctx context.Context, cfg *config.Config) error {
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}

	log.Printf("Building dependency graph for scope %q...", cfg.Scope)
	g, err := builder.New(prov).BuildScopeGraph(ctx, cfg.Scope)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	found := cycles.Find(g)
	log.Printf("Found %d circular dependency chains.", len(found))

	out, err := formatter.ToJSON(found)
	if err != nil {
		return fmt.Errorf("failed to render cycle report: %w", err)
	}
	fmt.Println(out)
	return nil
}

// Impact runs a blast-radius analysis for changing or deleting a resource.
func Impact(ctx context.Context, cfg *config.Config, resourceID string, action impact.Action) error {
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}

	log.Printf("Analyzing %s impact for %s...", action, resourceID)
	analysis, err := impact.New(prov).Analyze(ctx, cfg.Scope, resourceID, action)
	if err != nil {
		return err
	}

	out, err := formatter.ToJSON(analysis)
	if err != nil {
		return fmt.Errorf("failed to render impact report: %w", err)
	}
	fmt.Println(out)
	return nil
}

// Metrics aggregates scope-level dependency metrics and anti-patterns.
func Metrics(ctx context.Context, cfg *config.Config) error {
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}

	log.Printf("Computing dependency metrics for scope %q...", cfg.Scope)
	m, err := metrics.New(prov).Compute(ctx, cfg.Scope)
	if err != nil {
		return err
	}

	out, err := formatter.ToJSON(m)
	if err != nil {
		return fmt.Errorf("failed to render metrics report: %w", err)
	}
	fmt.Println(out)
	return nil
}

// emit renders a graph in the configured format to stdout.
func emit(g *graph.Graph, cfg *config.Config) error {
	var out string
	var err error

	switch cfg.Format {
	case "json":
		out, err = formatter.ToJSON(g)
	case "cypher":
		query, _ := formatter.ToCypherTransaction(g, cfg.Scope)
		out = query
	case "dot":
		out, err = formatter.ToDOT(g)
	default:
		return fmt.Errorf("unknown output format %q (expected json, cypher or dot)", cfg.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	fmt.Println(out)
	return nil
}

// pushToNeo4j synchronizes the scope's portion of the database with the
// built graph.
func pushToNeo4j(ctx context.Context, g *graph.Graph, cfg *config.Config, pruneObsolete bool) error {
	neo4jCfg := &cfg.Neo4j
	if neo4jCfg.URI == "" || neo4jCfg.User == "" || neo4jCfg.Password == "" {
		return fmt.Errorf("neo4j-uri, neo4j-user, and neo4j-pass are required when pushing to Neo4j. Please configure them in %s.%s or pass them as flags", config.ConfigFileName, config.ConfigFileType)
	}

	log.Printf("Connecting to Neo4j at %s...", neo4jCfg.URI)
	client, err := neo4j.NewClient(neo4jCfg.URI, neo4jCfg.User, neo4jCfg.Password)
	if err != nil {
		return fmt.Errorf("failed to create neo4j client: %w", err)
	}
	defer client.Close(ctx)

	if err := client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	log.Println("Updating Neo4j database...")
	if err := client.UpdateGraph(ctx, cfg.Scope, g, pruneObsolete); err != nil {
		return fmt.Errorf("failed to update neo4j graph: %w", err)
	}

	log.Println("Successfully updated Neo4j database.")
	return nil
}
