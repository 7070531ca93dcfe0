// Package blockmodel holds the in-memory view of a sub-blocked block model
// and the indexing structures built over it: the reverse grid index (parent
// cell -> member sub-blocks) and the per-sub-block axis-aligned extents.
//
// All geometry is expected in a single block-local coordinate frame. Any
// world-to-local conversion happens in the loader or whatever supplies the
// model; nothing in this package converts coordinates.
package blockmodel

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchAttribute is returned when the requested domain attribute
	// does not exist on the model.
	ErrNoSuchAttribute = errors.New("blockmodel: no such attribute")

	// ErrAttributeNotCategorical is returned when the requested attribute
	// exists but holds continuous (float) values rather than categories.
	ErrAttributeNotCategorical = errors.New("blockmodel: attribute is not categorical")
)

// Vec3 is a point or size in block-local coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w component-wise.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// GridKey identifies one coarse parent cell in a model's logical grid.
// Keys are only meaningful within a single model.
type GridKey struct {
	I, J, K int
}

// Model is a read-only view of one block model for the duration of a
// comparison pass. Centroids, Sizes and ParentIndex are index-aligned:
// element n of each describes sub-block n.
type Model struct {
	Name string

	// Resolution is the parent (primary) block size per axis.
	Resolution Vec3

	// ColumnCount, RowCount and SliceCount are the parent grid dimensions
	// along x, y and z respectively.
	ColumnCount int
	RowCount    int
	SliceCount  int

	Centroids   []Vec3
	Sizes       []Vec3
	ParentIndex []GridKey

	// Categorical holds string/int valued attributes keyed by name.
	// Continuous attributes live in Numeric so a categorical lookup can
	// fail fast instead of silently coercing.
	Categorical map[string][]string
	Numeric     map[string][]float64
}

// SubBlockCount reports the number of sub-blocks in the model.
func (m *Model) SubBlockCount() int {
	return len(m.Centroids)
}

// Span returns the total length covered by the parent grid on each axis
// (resolution times parent count).
func (m *Model) Span() Vec3 {
	return Vec3{
		X: m.Resolution.X * float64(m.ColumnCount),
		Y: m.Resolution.Y * float64(m.RowCount),
		Z: m.Resolution.Z * float64(m.SliceCount),
	}
}

// Domain returns the categorical attribute with the given name. The
// attribute is always selected explicitly by the caller; the model never
// guesses which attribute is "the" domain.
func (m *Model) Domain(name string) ([]string, error) {
	if values, ok := m.Categorical[name]; ok {
		return values, nil
	}
	if _, ok := m.Numeric[name]; ok {
		return nil, fmt.Errorf("%w: %q holds float values", ErrAttributeNotCategorical, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSuchAttribute, name)
}

// Validate checks that the per-sub-block arrays are index-aligned. Attribute
// arrays must match the sub-block count as well.
func (m *Model) Validate() error {
	n := m.SubBlockCount()
	if len(m.Sizes) != n {
		return fmt.Errorf("blockmodel %q: %d sizes for %d centroids", m.Name, len(m.Sizes), n)
	}
	if len(m.ParentIndex) != n {
		return fmt.Errorf("blockmodel %q: %d parent indices for %d centroids", m.Name, len(m.ParentIndex), n)
	}
	for name, values := range m.Categorical {
		if len(values) != n {
			return fmt.Errorf("blockmodel %q: attribute %q has %d values for %d sub-blocks", m.Name, name, len(values), n)
		}
	}
	for name, values := range m.Numeric {
		if len(values) != n {
			return fmt.Errorf("blockmodel %q: attribute %q has %d values for %d sub-blocks", m.Name, name, len(values), n)
		}
	}
	return nil
}
