package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloudgraphx/internal/analytics"
	"cloudgraphx/internal/cycles"
	"cloudgraphx/internal/graph"
	"cloudgraphx/internal/provider"
)

const (
	// MinDepth and MaxDepth bound the traversal depth accepted by
	// BuildResourceGraph.
	MinDepth = 1
	MaxDepth = 3

	// DefaultMaxDepth is used by callers that do not expose a depth knob,
	// such as impact analysis.
	DefaultMaxDepth = 3
)

// ErrInvalidMaxDepth is returned when the requested traversal depth is
// outside [MinDepth, MaxDepth]. The builder never clamps silently.
var ErrInvalidMaxDepth = errors.New("max depth out of range")

// enricher maps one scope-wide relation kind onto the edges it produces.
type enricher struct {
	kind          provider.RelationKind
	edgeType      graph.EdgeType
	strength      graph.Strength
	bidirectional bool
	// accept filters rows beyond basic shape validation; nil accepts all.
	accept func(provider.Row) bool
}

// scopeEnrichers run in this fixed order. Each one queries the provider
// independently so a failing relation kind costs only its own edges.
var scopeEnrichers = []enricher{
	{
		kind:          provider.NetworkPeering,
		edgeType:      graph.EdgeNetwork,
		strength:      graph.StrengthStrong,
		bidirectional: true,
		accept: func(r provider.Row) bool {
			return r.State == provider.PeeringConnected
		},
	},
	{kind: provider.LoadBalancerBackend, edgeType: graph.EdgeNetwork, strength: graph.StrengthStrong},
	{kind: provider.DiskAttachment, edgeType: graph.EdgeStorage, strength: graph.StrengthStrong},
	{kind: provider.NSGAssociation, edgeType: graph.EdgeSecurity, strength: graph.StrengthWeak},
	{kind: provider.PrivateEndpoint, edgeType: graph.EdgeNetwork, strength: graph.StrengthWeak},
}

// Builder constructs dependency graphs from relation facts.
type Builder struct {
	prov provider.Provider
}

// New returns a Builder backed by the given relation provider.
func New(p provider.Provider) *Builder {
	return &Builder{prov: p}
}

// frame is one pending traversal step.
type frame struct {
	ref   provider.ResourceRef
	depth int
}

// BuildResourceGraph builds a depth-bounded graph rooted at rootID by
// following explicit depends_on declarations. The provider reports every
// declaration involving the queried resource, so the traversal walks both
// the resources rootID depends on and the resources depending on it; edges
// always point from the declaring resource to its dependency.
//
// The traversal checks the visited set before expanding a node, so a true
// cycle in the underlying data terminates the branch silently instead of
// looping; finding cycles is a separate pass over the collected edges
// (cycles.Find). Edges pointing past the depth bound are retained even
// though their target node is never materialized.
func (b *Builder) BuildResourceGraph(ctx context.Context, scope, rootID string, maxDepth int) (*graph.Graph, error) {
	if maxDepth < MinDepth || maxDepth > MaxDepth {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidMaxDepth, maxDepth, MinDepth, MaxDepth)
	}

	root, err := b.prov.GetResource(ctx, scope, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root resource %q: %w", rootID, err)
	}

	g := graph.New()
	visited := make(map[string]bool)
	uniqueEdges := make(map[string]struct{})
	stack := []frame{{ref: *root, depth: 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[cur.ref.ID] || cur.depth >= maxDepth {
			continue
		}
		visited[cur.ref.ID] = true
		g.AddNode(nodeFromRef(cur.ref))

		rows, err := b.prov.Query(ctx, scope, provider.DirectDependsOn, provider.Params{ResourceID: cur.ref.ID})
		if err != nil {
			log.Printf("Warning: dependency fetch for %s failed, continuing without its edges: %v", cur.ref.ID, err)
			continue
		}

		for _, row := range rows {
			if !provider.ValidRow(provider.DirectDependsOn, row) {
				continue
			}
			// A fact surfaces once per endpoint; keep one edge per pair.
			edgeKey := fmt.Sprintf("%s -> %s", row.Source.ID, row.Target.ID)
			if _, ok := uniqueEdges[edgeKey]; !ok {
				uniqueEdges[edgeKey] = struct{}{}
				g.AddEdge(graph.Edge{
					Source:   row.Source.ID,
					Target:   row.Target.ID,
					Type:     graph.EdgeDependsOn,
					Strength: graph.StrengthStrong,
				})
			}
			// Continue from the far endpoint of the fact.
			next := *row.Target
			if next.ID == cur.ref.ID {
				next = row.Source
			}
			stack = append(stack, frame{ref: next, depth: cur.depth + 1})
		}
	}

	analytics.ComputeLevels(g, rootID)
	b.finalize(g)
	return g, nil
}

// BuildScopeGraph lists every resource in the scope as a node, then runs the
// relation enrichers. Enricher failures are non-fatal: the relation kind
// simply contributes no edges.
func (b *Builder) BuildScopeGraph(ctx context.Context, scope string) (*graph.Graph, error) {
	listing, err := b.prov.Query(ctx, scope, provider.AllResources, provider.Params{})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources in scope %q: %w", scope, err)
	}

	g := graph.New()
	for _, row := range listing {
		if !provider.ValidRow(provider.AllResources, row) {
			continue
		}
		g.AddNode(nodeFromRef(row.Source))
	}

	for _, en := range scopeEnrichers {
		rows, err := b.prov.Query(ctx, scope, en.kind, provider.Params{})
		if err != nil {
			log.Printf("Warning: %s enrichment failed, continuing without it: %v", en.kind, err)
			continue
		}
		for _, row := range rows {
			if !provider.ValidRow(en.kind, row) {
				continue
			}
			if en.accept != nil && !en.accept(row) {
				continue
			}
			// Edges whose source is outside the scope are dropped.
			if !g.HasNode(row.Source.ID) {
				continue
			}
			g.AddEdge(graph.Edge{
				Source:        row.Source.ID,
				Target:        row.Target.ID,
				Type:          en.edgeType,
				Bidirectional: en.bidirectional,
				Strength:      en.strength,
				Metadata:      rowMetadata(row),
			})
		}
	}

	analytics.ComputeLevelsFromRoots(g)
	b.finalize(g)
	return g, nil
}

// finalize derives hub flags and graph metadata once construction is done.
func (b *Builder) finalize(g *graph.Graph) {
	analytics.ComputeHubFlags(g, analytics.DefaultHubThreshold)

	maxLevel := 0
	for _, n := range g.Nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}

	g.Metadata = graph.Metadata{
		TotalNodes:              len(g.Nodes),
		TotalEdges:              len(g.Edges),
		MaxDepth:                maxLevel,
		HasCircularDependencies: len(cycles.Find(g)) > 0,
		ComputedAt:              time.Now().UTC(),
	}
}

func rowMetadata(row provider.Row) map[string]string {
	if row.State == "" {
		return nil
	}
	return map[string]string{"state": row.State}
}

func nodeFromRef(r provider.ResourceRef) *graph.Node {
	return &graph.Node{
		ID:       r.ID,
		Name:     r.Name,
		Type:     r.Type,
		Status:   r.Status,
		Cost:     r.Cost,
		Metadata: r.Metadata,
	}
}
