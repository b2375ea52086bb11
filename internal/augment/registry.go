package augment

import (
	"fmt"
	"sort"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// Registry correlates marker identities to the marker nodes carrying them.
// It is a lookup table, not an ownership edge: the tree stays acyclic and
// nodes remain independently owned. One registry serves one tree.
type Registry struct {
	byID map[uint64]Marker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint64]Marker)}
}

// Record adds a marker to the registry. Recording two markers with the same
// identity violates the uniqueness invariant and fails.
func (r *Registry) Record(m Marker) error {
	if _, exists := r.byID[m.ID()]; exists {
		return fmt.Errorf("%w: duplicate marker id %d", ErrPrecondition, m.ID())
	}

	r.byID[m.ID()] = m

	return nil
}

// Lookup returns the marker with the given identity.
func (r *Registry) Lookup(id uint64) (Marker, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Len returns the number of recorded markers.
func (r *Registry) Len() int {
	return len(r.byID)
}

// SortedByID returns the recorded markers in ascending identity order, which
// is the order they were created in.
func (r *Registry) SortedByID() []Marker {
	markers := make([]Marker, 0, len(r.byID))
	for _, m := range r.byID {
		markers = append(markers, m)
	}

	sort.Slice(markers, func(i, j int) bool {
		return markers[i].ID() < markers[j].ID()
	})

	return markers
}

// CollectModule scans a module and records every marker found in it.
func CollectModule(m *ast.Module) (*Registry, error) {
	r := NewRegistry()

	var err error

	InspectModule(m, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		if marker, ok := n.(Marker); ok {
			err = r.Record(marker)
		}

		return err == nil
	})

	if err != nil {
		return nil, err
	}

	return r, nil
}
