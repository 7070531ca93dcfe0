package lattice

import (
	"fmt"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
)

// Solid is a closed triangulated boundary used to restrict the lattice to a
// region of interest. Vertices are in the same block-local frame as the
// lattice samples.
type Solid struct {
	Vertices []blockmodel.Vec3
	Facets   [][3]int
}

// NewSolid validates the mesh before it is used for filtering. A malformed
// solid is a configuration error, not a runtime condition.
func NewSolid(vertices []blockmodel.Vec3, facets [][3]int) (*Solid, error) {
	if len(vertices) < 4 || len(facets) < 4 {
		return nil, &ConfigError{Field: "solid", Reason: fmt.Sprintf("%d vertices / %d facets cannot enclose a volume", len(vertices), len(facets))}
	}
	for n, f := range facets {
		for _, v := range f {
			if v < 0 || v >= len(vertices) {
				return nil, &ConfigError{Field: "solid", Reason: fmt.Sprintf("facet %d references vertex %d of %d", n, v, len(vertices))}
			}
		}
	}
	return &Solid{Vertices: vertices, Facets: facets}, nil
}

// rayDir is the fixed casting direction for containment tests. It is
// deliberately oblique so that rays from lattice points (which line up with
// axis-aligned geometry) do not graze shared triangle edges and get counted
// twice.
var rayDir = blockmodel.Vec3{X: 0.8442457, Y: 0.4387761, Z: 0.3080819}

// Contains reports whether p is inside the solid, by casting a ray and
// counting triangle crossings: an odd count means inside.
func (s *Solid) Contains(p blockmodel.Vec3) bool {
	crossings := 0
	for _, f := range s.Facets {
		if rayHitsTriangle(p, rayDir, s.Vertices[f[0]], s.Vertices[f[1]], s.Vertices[f[2]]) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// Filter returns the samples inside the solid, preserving lattice order.
func (s *Solid) Filter(samples []blockmodel.Vec3) []blockmodel.Vec3 {
	inside := make([]blockmodel.Vec3, 0, len(samples))
	for _, p := range samples {
		if s.Contains(p) {
			inside = append(inside, p)
		}
	}
	return inside
}

// rayHitsTriangle is the Moller-Trumbore intersection test. Hits behind the
// origin or outside the triangle return false.
func rayHitsTriangle(origin, dir, v0, v1, v2 blockmodel.Vec3) bool {
	const eps = 1e-12

	e1 := blockmodel.Vec3{X: v1.X - v0.X, Y: v1.Y - v0.Y, Z: v1.Z - v0.Z}
	e2 := blockmodel.Vec3{X: v2.X - v0.X, Y: v2.Y - v0.Y, Z: v2.Z - v0.Z}

	h := cross(dir, e2)
	a := dot(e1, h)
	if a > -eps && a < eps {
		return false // ray parallel to triangle plane
	}

	inv := 1.0 / a
	sv := blockmodel.Vec3{X: origin.X - v0.X, Y: origin.Y - v0.Y, Z: origin.Z - v0.Z}
	u := inv * dot(sv, h)
	if u < 0 || u > 1 {
		return false
	}

	q := cross(sv, e1)
	v := inv * dot(dir, q)
	if v < 0 || u+v > 1 {
		return false
	}

	t := inv * dot(e2, q)
	return t > eps
}

func dot(a, b blockmodel.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b blockmodel.Vec3) blockmodel.Vec3 {
	return blockmodel.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
