package builder

import (
	"context"
	"errors"
	"testing"

	"cloudgraphx/internal/graph"
	"cloudgraphx/internal/provider"
)

func ref(id, typ string) provider.ResourceRef {
	return provider.ResourceRef{ID: id, Name: "name-" + id, Type: typ}
}

func dep(from, to provider.ResourceRef) provider.Row {
	return provider.Row{Source: from, Target: &to}
}

// failingProvider fails queries of one relation kind and delegates the rest.
type failingProvider struct {
	*provider.Static
	failKind provider.RelationKind
	failID   string
}

func (f *failingProvider) Query(ctx context.Context, scope string, kind provider.RelationKind, params provider.Params) ([]provider.Row, error) {
	if kind == f.failKind && (f.failID == "" || params.ResourceID == f.failID) {
		return nil, errors.New("provider permission error")
	}
	return f.Static.Query(ctx, scope, kind, params)
}

func TestBuildResourceGraph_LinearChain(t *testing.T) {
	vm := ref("vm-web-01", "compute/vm/linux")
	disk := ref("disk-os-01", "storage/disk/managed")
	nsg := ref("nsg-web-01", "security/nsg/standard")

	prov := provider.NewStatic(
		[]provider.ResourceRef{vm, disk, nsg},
		map[provider.RelationKind][]provider.Row{
			provider.DirectDependsOn: {dep(vm, disk), dep(vm, nsg)},
		},
	)

	g, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "vm-web-01", 2)
	if err != nil {
		t.Fatalf("BuildResourceGraph failed: %v", err)
	}

	if len(g.Nodes) != 3 {
		t.Errorf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 2 {
		t.Errorf("Expected 2 edges, got %d", len(g.Edges))
	}

	wantLevels := map[string]int{"vm-web-01": 0, "disk-os-01": 1, "nsg-web-01": 1}
	for id, want := range wantLevels {
		n, ok := g.Nodes[id]
		if !ok {
			t.Fatalf("Expected node %q was not found", id)
		}
		if n.Level != want {
			t.Errorf("Expected node %q at level %d, got %d", id, want, n.Level)
		}
	}

	for _, e := range g.Edges {
		if e.Type != graph.EdgeDependsOn {
			t.Errorf("Expected edge type depends_on, got %q", e.Type)
		}
		if e.Strength != graph.StrengthStrong {
			t.Errorf("Expected strong edge, got %q", e.Strength)
		}
	}

	if g.Metadata.HasCircularDependencies {
		t.Error("Expected no circular dependencies")
	}
	if g.Metadata.TotalNodes != 3 || g.Metadata.TotalEdges != 2 {
		t.Errorf("Metadata totals wrong: %+v", g.Metadata)
	}
	if g.Metadata.MaxDepth != 1 {
		t.Errorf("Expected max depth 1, got %d", g.Metadata.MaxDepth)
	}
}

func TestBuildResourceGraph_DepthBound(t *testing.T) {
	a := ref("a", "compute/vm/linux")
	b := ref("b", "compute/vm/linux")
	c := ref("c", "compute/vm/linux")
	d := ref("d", "compute/vm/linux")

	prov := provider.NewStatic(
		[]provider.ResourceRef{a, b, c, d},
		map[provider.RelationKind][]provider.Row{
			provider.DirectDependsOn: {dep(a, b), dep(b, c), dep(c, d)},
		},
	)

	for _, maxDepth := range []int{1, 2, 3} {
		g, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "a", maxDepth)
		if err != nil {
			t.Fatalf("BuildResourceGraph(maxDepth=%d) failed: %v", maxDepth, err)
		}
		for id, n := range g.Nodes {
			if n.Level > maxDepth {
				t.Errorf("maxDepth=%d: node %q has level %d", maxDepth, id, n.Level)
			}
		}
		if len(g.Nodes) != maxDepth {
			t.Errorf("maxDepth=%d: expected %d nodes, got %d", maxDepth, maxDepth, len(g.Nodes))
		}
	}
}

func TestBuildResourceGraph_RetainsEdgePastDepthBound(t *testing.T) {
	a := ref("a", "compute/vm/linux")
	b := ref("b", "compute/vm/linux")
	c := ref("c", "compute/vm/linux")

	prov := provider.NewStatic(
		[]provider.ResourceRef{a, b, c},
		map[provider.RelationKind][]provider.Row{
			provider.DirectDependsOn: {dep(a, b), dep(b, c)},
		},
	)

	g, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "a", 2)
	if err != nil {
		t.Fatalf("BuildResourceGraph failed: %v", err)
	}

	// b's edge to c is collected even though c itself is past the bound.
	if len(g.Edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(g.Edges))
	}
	if g.HasNode("c") {
		t.Error("Node c should not be materialized at depth 2")
	}
}

func TestBuildResourceGraph_CycleTerminates(t *testing.T) {
	a := ref("a", "compute/vm/linux")
	b := ref("b", "compute/vm/linux")
	c := ref("c", "compute/vm/linux")

	prov := provider.NewStatic(
		[]provider.ResourceRef{a, b, c},
		map[provider.RelationKind][]provider.Row{
			provider.DirectDependsOn: {dep(a, b), dep(b, c), dep(c, a)},
		},
	)

	g, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "a", 3)
	if err != nil {
		t.Fatalf("BuildResourceGraph failed: %v", err)
	}

	if len(g.Nodes) != 3 {
		t.Errorf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 3 {
		t.Errorf("Expected 3 edges, got %d", len(g.Edges))
	}
	if !g.Metadata.HasCircularDependencies {
		t.Error("Expected circular dependency flag to be set")
	}
}

func TestBuildResourceGraph_InvalidMaxDepth(t *testing.T) {
	prov := provider.NewStatic([]provider.ResourceRef{ref("a", "compute/vm/linux")}, nil)

	for _, maxDepth := range []int{0, -1, 4} {
		_, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "a", maxDepth)
		if !errors.Is(err, ErrInvalidMaxDepth) {
			t.Errorf("maxDepth=%d: expected ErrInvalidMaxDepth, got %v", maxDepth, err)
		}
	}
}

func TestBuildResourceGraph_RootNotFound(t *testing.T) {
	prov := provider.NewStatic(nil, nil)

	_, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "missing", 2)
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBuildResourceGraph_DependencyFetchFailureIsNonFatal(t *testing.T) {
	a := ref("a", "compute/vm/linux")
	b := ref("b", "compute/vm/linux")

	static := provider.NewStatic(
		[]provider.ResourceRef{a, b},
		map[provider.RelationKind][]provider.Row{
			provider.DirectDependsOn: {dep(a, b)},
		},
	)
	prov := &failingProvider{Static: static, failKind: provider.DirectDependsOn, failID: "b"}

	g, err := New(prov).BuildResourceGraph(context.Background(), "sub-1", "a", 3)
	if err != nil {
		t.Fatalf("Expected graceful degradation, got error: %v", err)
	}

	if !g.HasNode("a") || !g.HasNode("b") {
		t.Error("Expected both nodes despite the failed fetch for b")
	}
	if len(g.Edges) != 1 {
		t.Errorf("Expected 1 edge, got %d", len(g.Edges))
	}
}

func scopeFixture() *provider.Static {
	vm1 := ref("vm-1", "compute/vm/linux")
	vm2 := ref("vm-2", "compute/vm/linux")
	disk1 := ref("disk-1", "storage/disk/managed")
	nsg1 := ref("nsg-1", "security/nsg/standard")
	net1 := ref("net-1", "network/vnet/standard")
	net2 := ref("net-2", "network/vnet/standard")
	lb1 := ref("lb-1", "network/lb/standard")
	outside := ref("outside", "compute/vm/linux")

	return provider.NewStatic(
		[]provider.ResourceRef{vm1, vm2, disk1, nsg1, net1, net2, lb1},
		map[provider.RelationKind][]provider.Row{
			provider.NetworkPeering: {
				{Source: net1, Target: &net2, State: provider.PeeringConnected},
				{Source: net2, Target: &net1, State: "Disconnected"},
			},
			provider.LoadBalancerBackend: {
				{Source: lb1, Target: &vm1},
				{Source: lb1, Target: &vm2},
			},
			provider.DiskAttachment: {
				{Source: vm1, Target: &disk1},
				{Source: outside, Target: &disk1}, // source not in scope, dropped
			},
			provider.NSGAssociation: {
				{Source: vm1, Target: &nsg1},
				{Source: vm2}, // malformed: missing target, skipped
			},
		},
	)
}

func TestBuildScopeGraph(t *testing.T) {
	g, err := New(scopeFixture()).BuildScopeGraph(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("BuildScopeGraph failed: %v", err)
	}

	if len(g.Nodes) != 7 {
		t.Errorf("Expected 7 nodes, got %d", len(g.Nodes))
	}
	// connected peering + 2 lb backends + 1 in-scope attachment + 1 valid nsg
	if len(g.Edges) != 5 {
		t.Fatalf("Expected 5 edges, got %d", len(g.Edges))
	}

	byType := make(map[graph.EdgeType]int)
	for _, e := range g.Edges {
		byType[e.Type]++
	}
	if byType[graph.EdgeNetwork] != 3 {
		t.Errorf("Expected 3 network edges, got %d", byType[graph.EdgeNetwork])
	}
	if byType[graph.EdgeStorage] != 1 {
		t.Errorf("Expected 1 storage edge, got %d", byType[graph.EdgeStorage])
	}
	if byType[graph.EdgeSecurity] != 1 {
		t.Errorf("Expected 1 security edge, got %d", byType[graph.EdgeSecurity])
	}

	for _, e := range g.Edges {
		if e.Type == graph.EdgeNetwork && e.Source == "net-1" {
			if !e.Bidirectional {
				t.Error("Expected peering edge to be bidirectional")
			}
			if e.Metadata["state"] != provider.PeeringConnected {
				t.Errorf("Expected peering state metadata, got %v", e.Metadata)
			}
		}
	}
}

func TestBuildScopeGraph_EnricherFailureIsNonFatal(t *testing.T) {
	prov := &failingProvider{Static: scopeFixture(), failKind: provider.DiskAttachment}

	g, err := New(prov).BuildScopeGraph(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Expected graceful degradation, got error: %v", err)
	}

	if len(g.Nodes) != 7 {
		t.Errorf("Expected 7 nodes, got %d", len(g.Nodes))
	}
	// the disk attachment edge is missing, everything else survives
	if len(g.Edges) != 4 {
		t.Errorf("Expected 4 edges, got %d", len(g.Edges))
	}
	for _, e := range g.Edges {
		if e.Type == graph.EdgeStorage {
			t.Error("Expected no storage edges after the enricher failure")
		}
	}
}
