// Package lattice generates the common fine sampling grid laid over every
// block model in a comparison, and the optional point-in-solid filter that
// restricts it to a region of interest.
package lattice

import (
	"fmt"
	"math"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
)

// DefaultMaxSamples caps the lattice size so a pathological step cannot
// produce an unworkable number of samples.
const DefaultMaxSamples = 10_000_000_000

// ConfigError reports an invalid lattice configuration. It is raised at
// construction time and never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("lattice config: %s: %s", e.Field, e.Reason)
}

// Config describes the lattice: one step and one spanned length per axis.
// The lattice covers [0, Span) on each axis with cell centroids at
// step/2, 3*step/2, and so on.
type Config struct {
	Step blockmodel.Vec3
	Span blockmodel.Vec3

	// MaxSamples bounds the total sample count. Zero means
	// DefaultMaxSamples.
	MaxSamples int64
}

// Counts returns the number of lattice cells per axis, ceil(span/step).
func (c Config) Counts() (nx, ny, nz int) {
	nx = int(math.Ceil(c.Span.X / c.Step.X))
	ny = int(math.Ceil(c.Span.Y / c.Step.Y))
	nz = int(math.Ceil(c.Span.Z / c.Step.Z))
	return nx, ny, nz
}

func (c Config) validate() error {
	if c.Step.X <= 0 || c.Step.Y <= 0 || c.Step.Z <= 0 {
		return &ConfigError{Field: "step", Reason: fmt.Sprintf("must be positive on every axis, got %+v", c.Step)}
	}
	if c.Span.X <= 0 || c.Span.Y <= 0 || c.Span.Z <= 0 {
		return &ConfigError{Field: "span", Reason: fmt.Sprintf("must be positive on every axis, got %+v", c.Span)}
	}
	limit := c.MaxSamples
	if limit == 0 {
		limit = DefaultMaxSamples
	}
	nx, ny, nz := c.Counts()
	if total := int64(nx) * int64(ny) * int64(nz); total > limit {
		return &ConfigError{Field: "step", Reason: fmt.Sprintf("%d samples exceeds the budget of %d; use a coarser step", total, limit)}
	}
	return nil
}

// Generate produces the lattice cell centroids in a deterministic x-major
// order (x outermost, z innermost). Downstream per-model value arrays stay
// index-aligned with this sequence for the whole run.
func Generate(cfg Config) ([]blockmodel.Vec3, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	nx, ny, nz := cfg.Counts()
	samples := make([]blockmodel.Vec3, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		x := (float64(i) + 0.5) * cfg.Step.X
		for j := 0; j < ny; j++ {
			y := (float64(j) + 0.5) * cfg.Step.Y
			for k := 0; k < nz; k++ {
				samples = append(samples, blockmodel.Vec3{X: x, Y: y, Z: (float64(k) + 0.5) * cfg.Step.Z})
			}
		}
	}
	return samples, nil
}

// StepFromSmallest derives the lattice step from the smallest sub-block
// sizes of the two models being compared: the per-axis GCD of the two sizes,
// divided by the subdivision factor. A lattice at this step lands a sample
// inside every sub-block of either model.
func StepFromSmallest(a, b blockmodel.Vec3, subdivision int) (blockmodel.Vec3, error) {
	if subdivision < 1 {
		return blockmodel.Vec3{}, &ConfigError{Field: "subdivision", Reason: fmt.Sprintf("must be at least 1, got %d", subdivision)}
	}
	if a.X <= 0 || a.Y <= 0 || a.Z <= 0 || b.X <= 0 || b.Y <= 0 || b.Z <= 0 {
		return blockmodel.Vec3{}, &ConfigError{Field: "smallest sub-block size", Reason: "must be positive on every axis"}
	}
	div := float64(subdivision)
	return blockmodel.Vec3{
		X: floatGCD(a.X, b.X) / div,
		Y: floatGCD(a.Y, b.Y) / div,
		Z: floatGCD(a.Z, b.Z) / div,
	}, nil
}

// floatGCD runs Euclid's algorithm on real-valued cell sizes. Sizes in
// practice are short decimals (0.5, 1.25, 2), so a fixed tolerance is enough
// to terminate.
func floatGCD(a, b float64) float64 {
	const tol = 1e-9
	a, b = math.Abs(a), math.Abs(b)
	for b > tol {
		a, b = b, math.Mod(a, b)
	}
	return a
}
