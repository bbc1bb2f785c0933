package provider

import "context"

// Static is a deterministic in-memory Provider. It backs snapshot files and
// the engine's tests.
type Static struct {
	resources map[string]ResourceRef
	order     []string
	relations map[RelationKind][]Row
}

// NewStatic builds a Static provider from a resource list and relation rows.
// Resource order is preserved for listings.
func NewStatic(resources []ResourceRef, relations map[RelationKind][]Row) *Static {
	s := &Static{
		resources: make(map[string]ResourceRef, len(resources)),
		order:     make([]string, 0, len(resources)),
		relations: make(map[RelationKind][]Row, len(relations)),
	}
	for _, r := range resources {
		if _, ok := s.resources[r.ID]; !ok {
			s.order = append(s.order, r.ID)
		}
		s.resources[r.ID] = r
	}
	for kind, rows := range relations {
		s.relations[kind] = append([]Row(nil), rows...)
	}
	return s
}

// GetResource implements Provider.
func (s *Static) GetResource(_ context.Context, _ string, id string) (*ResourceRef, error) {
	r, ok := s.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// Query implements Provider. The scope argument is ignored: a Static provider
// holds exactly one scope's worth of facts.
func (s *Static) Query(_ context.Context, _ string, kind RelationKind, params Params) ([]Row, error) {
	if kind == AllResources {
		rows := make([]Row, 0, len(s.order))
		for _, id := range s.order {
			rows = append(rows, Row{Source: s.resources[id]})
		}
		return rows, nil
	}

	rows := s.relations[kind]
	if kind == DirectDependsOn {
		// Every declaration involving the resource, at either endpoint.
		filtered := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.Source.ID == params.ResourceID || (r.Target != nil && r.Target.ID == params.ResourceID) {
				filtered = append(filtered, r)
			}
		}
		return filtered, nil
	}
	return append([]Row(nil), rows...), nil
}
