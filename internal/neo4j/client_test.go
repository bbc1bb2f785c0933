package neo4j

import (
	"reflect"
	"strings"
	"testing"

	"cloudgraphx/internal/graph"
)

func TestObsoleteResourceIDs(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "vm-1"})
	g.AddNode(&graph.Node{ID: "disk-1"})

	existing := map[string]bool{
		"vm-1":   true, // still present, kept
		"vm-old": true,
		"lb-old": true,
	}

	got := obsoleteResourceIDs(existing, g)
	want := []string{"lb-old", "vm-old"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected obsolete ids %v, got %v", want, got)
	}
}

func TestObsoleteResourceIDs_NothingToPrune(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "vm-1"})

	if got := obsoleteResourceIDs(map[string]bool{"vm-1": true}, g); len(got) != 0 {
		t.Errorf("Expected no obsolete ids, got %v", got)
	}
}

func TestPruneQueriesAreScopeFiltered(t *testing.T) {
	// Both the listing and the delete must carry the scope filter so a sync
	// for one scope can never remove resources synced from another.
	if !strings.Contains(fetchScopeResourcesQuery, "{scope: $scope}") {
		t.Errorf("Listing query is not scope filtered: %q", fetchScopeResourcesQuery)
	}
	if !strings.Contains(deleteObsoleteQuery, "scope: $scope") {
		t.Errorf("Delete query is not scope filtered: %q", deleteObsoleteQuery)
	}
	if !strings.Contains(deleteObsoleteQuery, "DETACH DELETE") {
		t.Errorf("Delete query does not detach-delete: %q", deleteObsoleteQuery)
	}
}
