// Package compare implements the sub-block correspondence pipeline: it
// resolves which sub-block of each model contains every lattice sample and
// cross-tabulates the resolved domain values into a confusion table.
package compare

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
)

// resolveBatchSize is the number of samples a worker claims at a time.
// Cancellation is checked between batches, never inside one, so a cancelled
// run still leaves every written slot complete.
const resolveBatchSize = 1024

// ModelIndex bundles the read-only structures needed to answer containment
// queries against one model: the reverse grid index, the per-sub-block
// extents and the selected domain attribute. Built once, then shared by all
// resolver workers.
type ModelIndex struct {
	Name       string
	Resolution blockmodel.Vec3
	Grid       blockmodel.ReverseGridIndex
	Extents    []blockmodel.Extent
	Domain     []string
}

// NewModelIndex builds the indexing structures for one model. The domain
// attribute is named explicitly by the caller.
func NewModelIndex(m *blockmodel.Model, attribute string) (*ModelIndex, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	domain, err := m.Domain(attribute)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", m.Name, err)
	}
	return &ModelIndex{
		Name:       m.Name,
		Resolution: m.Resolution,
		Grid:       blockmodel.BuildReverseGridIndex(m.ParentIndex),
		Extents:    blockmodel.BuildExtents(m.Centroids, m.Sizes),
		Domain:     domain,
	}, nil
}

// Sample resolution states.
const (
	stateResolved      = iota // a sub-block contains the sample
	stateOutsideLimits        // no parent cell holds any sub-block
	stateNoContainment        // parent cell hit, but no extent contains the sample
)

// Result holds one model's resolution of the whole sample sequence.
// SubBlocks and Values are index-aligned with the samples; unresolved slots
// carry sub-block -1 and an empty value.
type Result struct {
	ModelName string
	SubBlocks []int
	Values    []string

	// OutsideLimits and NoContainment list the unresolved sample indices by
	// cause, in ascending order. They are diagnostics, not errors.
	OutsideLimits []int
	NoContainment []int
}

// Resolved reports whether sample n resolved to a sub-block.
func (r *Result) Resolved(n int) bool {
	return r.SubBlocks[n] >= 0
}

// ResolvedCount reports how many samples resolved.
func (r *Result) ResolvedCount() int {
	count := 0
	for _, sub := range r.SubBlocks {
		if sub >= 0 {
			count++
		}
	}
	return count
}

// resolveOne locates the sub-block of idx containing p. Candidates are
// tested in stored grid-index order and the first containing extent wins;
// the policy is deliberate so that overlapping or malformed sub-blocks still
// resolve deterministically.
func resolveOne(idx *ModelIndex, p blockmodel.Vec3) (sub int, state int) {
	key := blockmodel.GridKey{
		I: int(math.Floor(p.X / idx.Resolution.X)),
		J: int(math.Floor(p.Y / idx.Resolution.Y)),
		K: int(math.Floor(p.Z / idx.Resolution.Z)),
	}
	candidates := idx.Grid.Lookup(key)
	if candidates == nil {
		return -1, stateOutsideLimits
	}
	for _, sub := range candidates {
		if idx.Extents[sub].Contains(p) {
			return sub, stateResolved
		}
	}
	return -1, stateNoContainment
}

// Resolve answers the containment query for every sample against one model.
// The pass is parallel across samples: workers claim fixed-size batches and
// write only their own output slots, so the result is identical to a
// sequential pass. workers <= 1 runs sequentially.
func Resolve(ctx context.Context, idx *ModelIndex, samples []blockmodel.Vec3, workers int) (*Result, error) {
	subs := make([]int, len(samples))
	states := make([]int, len(samples))

	if workers <= 1 {
		for n, p := range samples {
			if n%resolveBatchSize == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			subs[n], states[n] = resolveOne(idx, p)
		}
		return collectResult(idx, subs, states), nil
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range next {
				end := start + resolveBatchSize
				if end > len(samples) {
					end = len(samples)
				}
				for n := start; n < end; n++ {
					subs[n], states[n] = resolveOne(idx, samples[n])
				}
			}
		}()
	}

	var cancelled error
	for start := 0; start < len(samples); start += resolveBatchSize {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		next <- start
	}
	close(next)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return collectResult(idx, subs, states), nil
}

// collectResult assembles the per-sample arrays into a Result. Runs after
// the worker barrier; diagnostics come out in ascending sample order
// regardless of which worker handled which batch.
func collectResult(idx *ModelIndex, subs, states []int) *Result {
	r := &Result{
		ModelName: idx.Name,
		SubBlocks: subs,
		Values:    make([]string, len(subs)),
	}
	for n := range subs {
		switch states[n] {
		case stateResolved:
			r.Values[n] = idx.Domain[subs[n]]
		case stateOutsideLimits:
			r.OutsideLimits = append(r.OutsideLimits, n)
		case stateNoContainment:
			r.NoContainment = append(r.NoContainment, n)
		}
	}
	return r
}

// PointSetResult wraps a point set's own domain attribute as a Result so a
// point-to-model comparison can reuse CrossTabulate. Every point counts as
// resolved to itself; values are lower-cased the way legend categories are.
func PointSetResult(name string, domains []string) *Result {
	r := &Result{
		ModelName: name,
		SubBlocks: make([]int, len(domains)),
		Values:    make([]string, len(domains)),
	}
	for n, v := range domains {
		r.SubBlocks[n] = n
		r.Values[n] = strings.ToLower(v)
	}
	return r
}
