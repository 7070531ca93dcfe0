package blockmodel

import (
	"math"
	"testing"
)

const extentTol = 1e-12

func TestBuildExtents(t *testing.T) {
	centroids := []Vec3{
		{0.5, 0.5, 0.5},
		{2.0, 3.0, 4.0},
	}
	sizes := []Vec3{
		{1, 1, 1},
		{2, 4, 8},
	}

	extents := BuildExtents(centroids, sizes)
	if len(extents) != 2 {
		t.Fatalf("expected 2 extents, got %d", len(extents))
	}

	want := []Extent{
		{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}},
		{Min: Vec3{1, 1, 0}, Max: Vec3{3, 5, 8}},
	}
	for n := range want {
		if !vecNear(extents[n].Min, want[n].Min) || !vecNear(extents[n].Max, want[n].Max) {
			t.Errorf("extent %d: expected %+v, got %+v", n, want[n], extents[n])
		}
	}
}

func TestExtentContains_Inclusive(t *testing.T) {
	e := Extent{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	cases := []struct {
		p    Vec3
		want bool
	}{
		{Vec3{0.5, 0.5, 0.5}, true},
		{Vec3{0, 0, 0}, true}, // faces are inclusive
		{Vec3{1, 1, 1}, true},
		{Vec3{1.0000001, 0.5, 0.5}, false},
		{Vec3{0.5, -0.0000001, 0.5}, false},
	}
	for _, c := range cases {
		if got := e.Contains(c.p); got != c.want {
			t.Errorf("Contains(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestExtentContains_Degenerate(t *testing.T) {
	// Zero size: the box collapses to its centroid, which it still contains.
	zero := BuildExtents([]Vec3{{1, 1, 1}}, []Vec3{{0, 0, 0}})[0]
	if !zero.Contains(Vec3{1, 1, 1}) {
		t.Errorf("zero-size extent should contain its centroid")
	}
	if zero.Contains(Vec3{1.001, 1, 1}) {
		t.Errorf("zero-size extent contained an off-centroid point")
	}

	// Negative size: Min > Max, nothing is contained. This is deliberate
	// pass-through behaviour, not an error.
	neg := BuildExtents([]Vec3{{1, 1, 1}}, []Vec3{{-2, -2, -2}})[0]
	if neg.Contains(Vec3{1, 1, 1}) {
		t.Errorf("negative-size extent must not contain anything")
	}
}

func vecNear(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < extentTol &&
		math.Abs(a.Y-b.Y) < extentTol &&
		math.Abs(a.Z-b.Z) < extentTol
}
