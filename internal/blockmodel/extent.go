package blockmodel

// Extent is the axis-aligned bounding box of one sub-block.
type Extent struct {
	Min, Max Vec3
}

// Contains reports whether p lies inside the extent. The test is inclusive
// on both faces, matching the containment rule used during resolution. A
// degenerate extent (Min > Max on any axis, from a zero or negative size)
// never contains anything.
func (e Extent) Contains(p Vec3) bool {
	return e.Min.X <= p.X && p.X <= e.Max.X &&
		e.Min.Y <= p.Y && p.Y <= e.Max.Y &&
		e.Min.Z <= p.Z && p.Z <= e.Max.Z
}

// BuildExtents computes the bounding box of every sub-block from its
// centroid and size: centroid ± size/2. The result is index-aligned with
// the inputs. Degenerate sizes are passed through without validation; the
// containment test simply never matches them.
func BuildExtents(centroids, sizes []Vec3) []Extent {
	extents := make([]Extent, len(centroids))
	for n := range centroids {
		half := sizes[n].Scale(0.5)
		extents[n] = Extent{
			Min: Vec3{centroids[n].X - half.X, centroids[n].Y - half.Y, centroids[n].Z - half.Z},
			Max: centroids[n].Add(half),
		}
	}
	return extents
}
