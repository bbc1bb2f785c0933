package impact

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cloudgraphx/internal/builder"
	"cloudgraphx/internal/graph"
	"cloudgraphx/internal/provider"
)

// Action is the change being evaluated against the target resource.
type Action string

const (
	ActionDelete Action = "delete"
	ActionModify Action = "modify"
)

// RiskLevel grades the blast radius of a change.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ImpactedSet is one ring of the blast radius.
type ImpactedSet struct {
	Resources []string `json:"resources"`
	Count     int      `json:"count"`
}

// Analysis is the blast-radius report for changing or deleting a resource.
type Analysis struct {
	ResourceID       string      `json:"resourceId"`
	ResourceName     string      `json:"resourceName"`
	Action           Action      `json:"action"`
	DirectImpact     ImpactedSet `json:"directImpact"`
	IndirectImpact   ImpactedSet `json:"indirectImpact"`
	ServicesAffected []string    `json:"servicesAffected"`
	RiskLevel        RiskLevel   `json:"riskLevel"`
	Recommendations  []string    `json:"recommendations"`
}

// Analyzer computes blast-radius reports.
type Analyzer struct {
	builder *builder.Builder
}

// New returns an Analyzer backed by the given relation provider.
func New(p provider.Provider) *Analyzer {
	return &Analyzer{builder: builder.New(p)}
}

// Analyze builds the dependency graph rooted at resourceID and derives the
// direct and indirect dependents, the affected service families, a risk
// level and remediation recommendations.
//
// A missing target resource fails with provider.ErrNotFound; provider
// failures during the graph build itself degrade gracefully instead.
func (a *Analyzer) Analyze(ctx context.Context, scope, resourceID string, action Action) (*Analysis, error) {
	g, err := a.builder.BuildResourceGraph(ctx, scope, resourceID, builder.DefaultMaxDepth)
	if err != nil {
		return nil, fmt.Errorf("impact analysis for %q failed: %w", resourceID, err)
	}

	direct := dependentsOf(g, map[string]bool{resourceID: true}, map[string]bool{resourceID: true})
	directSet := make(map[string]bool, len(direct))
	for _, id := range direct {
		directSet[id] = true
	}

	exclude := map[string]bool{resourceID: true}
	for id := range directSet {
		exclude[id] = true
	}
	indirect := dependentsOf(g, directSet, exclude)

	total := len(direct) + len(indirect)
	target := g.Nodes[resourceID]

	analysis := &Analysis{
		ResourceID:       resourceID,
		ResourceName:     g.NodeName(resourceID),
		Action:           action,
		DirectImpact:     ImpactedSet{Resources: direct, Count: len(direct)},
		IndirectImpact:   ImpactedSet{Resources: indirect, Count: len(indirect)},
		ServicesAffected: serviceFamilies(g, append(append([]string{}, direct...), indirect...)),
		RiskLevel:        scoreRisk(target.IsHub, total),
	}
	analysis.Recommendations = recommend(analysis, target.IsHub)
	return analysis, nil
}

// dependentsOf returns the ids of nodes holding an edge into any member of
// targets, excluding ids in exclude. Results are sorted for determinism.
func dependentsOf(g *graph.Graph, targets, exclude map[string]bool) []string {
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if !targets[e.Target] || exclude[e.Source] || !g.HasNode(e.Source) {
			continue
		}
		seen[e.Source] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// serviceFamilies extracts the distinct top-level type segments of the
// impacted nodes, e.g. "compute" from "compute/vm/linux".
func serviceFamilies(g *graph.Graph, ids []string) []string {
	seen := make(map[string]bool)
	for _, id := range ids {
		n, ok := g.Nodes[id]
		if !ok || n.Type == "" {
			continue
		}
		family, _, _ := strings.Cut(n.Type, "/")
		seen[family] = true
	}

	families := make([]string, 0, len(seen))
	for f := range seen {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

// scoreRisk applies the grading rules in precedence order.
func scoreRisk(isHub bool, total int) RiskLevel {
	switch {
	case isHub || total > 10:
		return RiskCritical
	case total > 5:
		return RiskHigh
	case total > 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// recommend derives remediation guidance from the computed report. The
// output is deterministic for a given report.
func recommend(a *Analysis, isHub bool) []string {
	var recs []string

	if a.RiskLevel == RiskCritical || a.RiskLevel == RiskHigh {
		recs = append(recs,
			"Schedule a maintenance window before applying this change",
			"Take backups of all dependent resources",
			"Notify stakeholders of the affected services",
		)
	}
	if a.DirectImpact.Count > 0 {
		recs = append(recs, fmt.Sprintf("Update the %d directly dependent resources before acting on %s", a.DirectImpact.Count, a.ResourceName))
	}
	if isHub {
		recs = append(recs, "This resource is a dependency hub; consider redesigning to reduce coupling")
	}
	if a.Action == ActionDelete {
		recs = append(recs,
			"Prefer disabling or soft-deleting over hard deletion",
			"Export the resource configuration before deletion",
		)
	}
	if a.IndirectImpact.Count > 5 {
		recs = append(recs, "Roll the change out in stages to limit indirect fallout")
	}
	return recs
}
