package provider

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the on-disk form of a scope export: the full resource
// inventory plus every relation fact known at export time.
type Snapshot struct {
	Scope     string        `json:"scope"`
	Resources []ResourceRef `json:"resources"`
	Relations []SnapshotRow `json:"relations"`
}

// SnapshotRow is one relation fact in a snapshot file.
type SnapshotRow struct {
	Kind   RelationKind `json:"kind"`
	Source ResourceRef  `json:"source"`
	Target *ResourceRef `json:"target,omitempty"`
	State  string       `json:"state,omitempty"`
}

// LoadSnapshot reads a snapshot file and returns a Static provider serving
// its facts.
func LoadSnapshot(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot unmarshals snapshot JSON from a byte slice.
// This is exported for testing purposes.
func ParseSnapshot(data []byte) (*Static, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot JSON: %w", err)
	}

	relations := make(map[RelationKind][]Row)
	for _, r := range snap.Relations {
		relations[r.Kind] = append(relations[r.Kind], Row{
			Source: r.Source,
			Target: r.Target,
			State:  r.State,
		})
	}

	return NewStatic(snap.Resources, relations), nil
}
