package blockmodel

// ReverseGridIndex maps a parent grid cell to the sub-block indices that
// belong to it, in original sub-block order. Built once per model, then
// read-only for the rest of the run.
type ReverseGridIndex map[GridKey][]int

// BuildReverseGridIndex groups sub-blocks by their parent grid cell in a
// single pass. Every sub-block lands in exactly one bucket, so the union of
// all buckets is a partition of [0, len(parentIndex)). An empty model yields
// an empty index, which is valid: every lookup against it misses.
func BuildReverseGridIndex(parentIndex []GridKey) ReverseGridIndex {
	index := make(ReverseGridIndex, len(parentIndex))
	for sub, key := range parentIndex {
		index[key] = append(index[key], sub)
	}
	return index
}

// ParentCount reports the number of distinct parent cells that contain at
// least one sub-block.
func (g ReverseGridIndex) ParentCount() int {
	return len(g)
}

// Lookup returns the sub-block indices for a parent cell, or nil when the
// cell holds no sub-blocks.
func (g ReverseGridIndex) Lookup(key GridKey) []int {
	return g[key]
}
