package metrics

import (
	"context"
	"fmt"
	"sort"

	"cloudgraphx/internal/analytics"
	"cloudgraphx/internal/builder"
	"cloudgraphx/internal/cycles"
	"cloudgraphx/internal/graph"
	"cloudgraphx/internal/provider"
)

const (
	// topHubCount caps the hubResources list.
	topHubCount = 10

	// godResourceThreshold is the connection count beyond which a node is
	// flagged by the god_resource anti-pattern.
	godResourceThreshold = 10
)

// HubResource pairs a hub node with its connection count.
type HubResource struct {
	ResourceID      string `json:"resourceId"`
	ResourceName    string `json:"resourceName"`
	ConnectionCount int    `json:"connectionCount"`
}

// AntiPattern is a structurally undesirable dependency shape.
type AntiPattern struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
}

// Breakdown counts edges grouped by type and by strength.
type Breakdown struct {
	ByType     map[graph.EdgeType]int `json:"byType"`
	ByStrength map[graph.Strength]int `json:"byStrength"`
}

// DependencyMetrics is the aggregate report over one scope.
type DependencyMetrics struct {
	TotalResources                 int           `json:"totalResources"`
	TotalDependencies              int           `json:"totalDependencies"`
	ResourcesWithDependencies      int           `json:"resourcesWithDependencies"`
	ResourcesWithoutDependencies   int           `json:"resourcesWithoutDependencies"`
	AverageDependenciesPerResource float64       `json:"averageDependenciesPerResource"`
	HubResources                   []HubResource `json:"hubResources"`
	LeafResources                  []string      `json:"leafResources"`
	CircularDependenciesCount      int           `json:"circularDependenciesCount"`
	AntiPatterns                   []AntiPattern `json:"antiPatterns"`
	DependencyBreakdown            Breakdown     `json:"dependencyBreakdown"`
}

// Aggregator derives scope-level metrics and anti-pattern findings.
type Aggregator struct {
	builder *builder.Builder
}

// New returns an Aggregator backed by the given relation provider.
func New(p provider.Provider) *Aggregator {
	return &Aggregator{builder: builder.New(p)}
}

// Compute builds the whole-scope graph and aggregates its metrics. For a
// deterministic provider the output is identical across calls.
func (a *Aggregator) Compute(ctx context.Context, scope string) (*DependencyMetrics, error) {
	g, err := a.builder.BuildScopeGraph(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("metrics for scope %q failed: %w", scope, err)
	}
	found := cycles.Find(g)

	m := &DependencyMetrics{
		TotalResources:            len(g.Nodes),
		TotalDependencies:         len(g.Edges),
		CircularDependenciesCount: len(found),
		HubResources:              hubResources(g),
		LeafResources:             leafResources(g),
		AntiPatterns:              antiPatterns(g, found),
		DependencyBreakdown:       breakdown(g),
	}

	sources := make(map[string]bool)
	for _, e := range g.Edges {
		sources[e.Source] = true
	}
	m.ResourcesWithDependencies = len(sources)
	m.ResourcesWithoutDependencies = m.TotalResources - m.ResourcesWithDependencies

	if m.TotalResources > 0 {
		m.AverageDependenciesPerResource = float64(m.TotalDependencies) / float64(m.TotalResources)
	}
	return m, nil
}

// hubResources returns the hub nodes with their connection counts, highest
// first, capped at topHubCount.
func hubResources(g *graph.Graph) []HubResource {
	counts := analytics.ConnectionCounts(g)

	var hubs []HubResource
	for _, id := range g.SortedIDs() {
		if g.Nodes[id].IsHub {
			hubs = append(hubs, HubResource{
				ResourceID:      id,
				ResourceName:    g.NodeName(id),
				ConnectionCount: counts[id],
			})
		}
	}

	sort.SliceStable(hubs, func(i, j int) bool {
		return hubs[i].ConnectionCount > hubs[j].ConnectionCount
	})
	if len(hubs) > topHubCount {
		hubs = hubs[:topHubCount]
	}
	return hubs
}

// leafResources returns the ids of nodes with no outgoing edges.
func leafResources(g *graph.Graph) []string {
	out := analytics.OutDegree(g)

	var leaves []string
	for _, id := range g.SortedIDs() {
		if out[id] == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// antiPatterns emits at most one finding per anti-pattern kind: a high
// severity circular_dependency aggregating every cycle member, and a medium
// severity god_resource listing nodes whose connection count exceeds the
// god threshold.
func antiPatterns(g *graph.Graph, found []cycles.CircularDependency) []AntiPattern {
	var patterns []AntiPattern

	if len(found) > 0 {
		seen := make(map[string]bool)
		var members []string
		for _, c := range found {
			for _, id := range c.Cycle {
				if !seen[id] {
					seen[id] = true
					members = append(members, id)
				}
			}
		}
		sort.Strings(members)
		patterns = append(patterns, AntiPattern{
			Type:        "circular_dependency",
			Severity:    "high",
			Description: fmt.Sprintf("%d circular dependency chains detected", len(found)),
			Resources:   members,
		})
	}

	counts := analytics.ConnectionCounts(g)
	var gods []string
	for _, id := range g.SortedIDs() {
		if counts[id] > godResourceThreshold {
			gods = append(gods, id)
		}
	}
	if len(gods) > 0 {
		patterns = append(patterns, AntiPattern{
			Type:        "god_resource",
			Severity:    "medium",
			Description: fmt.Sprintf("%d resources exceed %d connections", len(gods), godResourceThreshold),
			Resources:   gods,
		})
	}
	return patterns
}

func breakdown(g *graph.Graph) Breakdown {
	b := Breakdown{
		ByType:     make(map[graph.EdgeType]int),
		ByStrength: make(map[graph.Strength]int),
	}
	for _, e := range g.Edges {
		b.ByType[e.Type]++
		b.ByStrength[e.Strength]++
	}
	return b
}
