package provider

import (
	"context"
	"errors"
)

// RelationKind identifies one category of inter-resource relationship fact.
type RelationKind string

const (
	DirectDependsOn     RelationKind = "direct_depends_on"
	NetworkPeering      RelationKind = "network_peering"
	LoadBalancerBackend RelationKind = "load_balancer_backend"
	DiskAttachment      RelationKind = "disk_attachment"
	NSGAssociation      RelationKind = "nsg_association"
	PrivateEndpoint     RelationKind = "private_endpoint"
	AllResources        RelationKind = "all_resources_listing"
)

// PeeringConnected is the peering state required for a network_peering row
// to produce an edge.
const PeeringConnected = "Connected"

// ErrNotFound is returned by GetResource when no resource with the requested
// id exists in the scope.
var ErrNotFound = errors.New("resource not found")

// ResourceRef describes one cloud resource as reported by the provider.
type ResourceRef struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Status   string            `json:"status,omitempty"`
	Cost     float64           `json:"cost"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Row is one relation fact. Source is always set; Target is nil for
// all_resources_listing rows. State carries relation-specific detail such as
// the peering connection state.
type Row struct {
	Source ResourceRef  `json:"source"`
	Target *ResourceRef `json:"target,omitempty"`
	State  string       `json:"state,omitempty"`
}

// Params narrows a query. ResourceID is required for direct_depends_on,
// which returns every declaration involving that resource at either
// endpoint; the scope-wide kinds ignore it.
type Params struct {
	ResourceID string
}

// Provider supplies raw dependency facts for a scope. Implementations own
// authentication, pagination and rate limiting; callers treat individual
// query failures as recoverable.
type Provider interface {
	// GetResource fetches a single resource by id, returning ErrNotFound
	// when it does not exist in the scope.
	GetResource(ctx context.Context, scope, id string) (*ResourceRef, error)

	// Query returns the relation rows of one kind within the scope.
	Query(ctx context.Context, scope string, kind RelationKind, params Params) ([]Row, error)
}

// ValidRow reports whether a row carries the fields its kind requires.
// Malformed rows are skipped by consumers rather than failing the analysis.
func ValidRow(kind RelationKind, r Row) bool {
	if r.Source.ID == "" {
		return false
	}
	if kind == AllResources {
		return true
	}
	return r.Target != nil && r.Target.ID != ""
}
