package compare

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/lattice"
	"github.com/jash404/Block-model-comparison-sub000/internal/monitoring"
)

// ErrIncompatibleModels is returned when the two models do not span the same
// volume. The created lattice must cover both models identically, so unequal
// spans cannot be compared.
var ErrIncompatibleModels = errors.New("compare: block models span different extents")

// RunConfig configures one model-to-model comparison.
type RunConfig struct {
	// Attribute names the categorical domain attribute on both models.
	Attribute string

	// SmallestA and SmallestB are the smallest sub-block sizes of each
	// model, used to derive the lattice step. When either is zero-valued,
	// Step must be set instead.
	SmallestA, SmallestB blockmodel.Vec3

	// Step overrides the derived lattice step when non-zero.
	Step blockmodel.Vec3

	// Subdivision divides the derived step. Zero means 1.
	Subdivision int

	// Solid, when set, restricts the lattice to samples inside it.
	Solid *lattice.Solid

	// TopN for the collapsed table; zero means DefaultTopN.
	TopN int

	// Categories restricts tallies to legend categories (lower-cased).
	Categories []string

	// Workers for the resolution pass. Zero means GOMAXPROCS.
	Workers int

	// MaxSamples bounds the lattice size. Zero means the lattice default.
	MaxSamples int64
}

// RunResult is the full outcome of one comparison run.
type RunResult struct {
	SampleCount int
	Step        blockmodel.Vec3
	A, B        *Result
	Comparison  *Comparison
}

// Run compares two block models end to end: derives the lattice, resolves
// every sample against both models and cross-tabulates the outcome. Models
// with zero sub-blocks are valid inputs; every sample simply resolves
// nowhere and the comparison fails with ErrEmptyComparison.
func Run(ctx context.Context, a, b *blockmodel.Model, cfg RunConfig) (*RunResult, error) {
	spanA, spanB := a.Span(), b.Span()
	if spanA != spanB {
		return nil, fmt.Errorf("%w: %q spans %+v, %q spans %+v", ErrIncompatibleModels, a.Name, spanA, b.Name, spanB)
	}

	step := cfg.Step
	if step == (blockmodel.Vec3{}) {
		subdivision := cfg.Subdivision
		if subdivision == 0 {
			subdivision = 1
		}
		smallestA, smallestB := cfg.SmallestA, cfg.SmallestB
		if smallestA == (blockmodel.Vec3{}) {
			smallestA = SmallestSubBlock(a)
		}
		if smallestB == (blockmodel.Vec3{}) {
			smallestB = SmallestSubBlock(b)
		}
		var err error
		step, err = lattice.StepFromSmallest(smallestA, smallestB, subdivision)
		if err != nil {
			return nil, err
		}
	}

	samples, err := lattice.Generate(lattice.Config{Step: step, Span: spanA, MaxSamples: cfg.MaxSamples})
	if err != nil {
		return nil, err
	}
	monitoring.Logf("comparison %q vs %q: %d lattice samples at step %+v", a.Name, b.Name, len(samples), step)

	if cfg.Solid != nil {
		samples = cfg.Solid.Filter(samples)
		monitoring.Logf("solid restriction keeps %d samples", len(samples))
	}

	idxA, err := NewModelIndex(a, cfg.Attribute)
	if err != nil {
		return nil, err
	}
	idxB, err := NewModelIndex(b, cfg.Attribute)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("parent cells: %q=%d %q=%d", a.Name, idxA.Grid.ParentCount(), b.Name, idxB.Grid.ParentCount())

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	resA, err := Resolve(ctx, idxA, samples, workers)
	if err != nil {
		return nil, err
	}
	resB, err := Resolve(ctx, idxB, samples, workers)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("samples not in limits: %q=%d %q=%d", a.Name, len(resA.OutsideLimits), b.Name, len(resB.OutsideLimits))

	cmp, err := CrossTabulate(resA, resB, Options{TopN: cfg.TopN, Categories: cfg.Categories})
	if err != nil {
		return nil, err
	}

	return &RunResult{
		SampleCount: len(samples),
		Step:        step,
		A:           resA,
		B:           resB,
		Comparison:  cmp,
	}, nil
}

// SmallestSubBlock scans a model for its smallest sub-block size per axis,
// for callers that do not know it up front.
func SmallestSubBlock(m *blockmodel.Model) blockmodel.Vec3 {
	smallest := blockmodel.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	for _, s := range m.Sizes {
		if s.X > 0 && s.X < smallest.X {
			smallest.X = s.X
		}
		if s.Y > 0 && s.Y < smallest.Y {
			smallest.Y = s.Y
		}
		if s.Z > 0 && s.Z < smallest.Z {
			smallest.Z = s.Z
		}
	}
	if math.IsInf(smallest.X, 1) || math.IsInf(smallest.Y, 1) || math.IsInf(smallest.Z, 1) {
		return blockmodel.Vec3{}
	}
	return smallest
}

// BatchOutcome pairs one comparison of a batch with its error, so a batch
// run can report per-pair failures without aborting the remaining pairs.
type BatchOutcome struct {
	AName, BName string
	Result       *RunResult
	Err          error
}

// RunBatch compares consecutive model pairs, continuing past individual
// failures.
func RunBatch(ctx context.Context, pairs [][2]*blockmodel.Model, cfg RunConfig) []BatchOutcome {
	outcomes := make([]BatchOutcome, 0, len(pairs))
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		result, err := Run(ctx, a, b, cfg)
		if err != nil {
			monitoring.Logf("comparison %q vs %q failed: %v", a.Name, b.Name, err)
		}
		outcomes = append(outcomes, BatchOutcome{AName: a.Name, BName: b.Name, Result: result, Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return outcomes
}
