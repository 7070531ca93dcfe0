package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

// TestRun_IdenticalModels is the end-to-end scenario: a 2x2x2 model with
// domains A A B B A A B B compared against an identical copy on a 0.5-step
// lattice must come out 100% matching with a purely diagonal table.
func TestRun_IdenticalModels(t *testing.T) {
	build := func(name string) *blockmodel.Model {
		return denseModel(name, 2, 2, 2, []string{"A", "A", "B", "B", "A", "A", "B", "B"})
	}
	a, b := build("left"), build("right")

	result, err := Run(context.Background(), a, b, RunConfig{
		Attribute: "domain",
		Step:      blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.SampleCount != 64 {
		t.Errorf("expected 64 lattice samples over the 2x2x2 volume, got %d", result.SampleCount)
	}
	if len(result.A.OutsideLimits) != 0 || len(result.B.OutsideLimits) != 0 {
		t.Errorf("no sample should fall outside limits: %d / %d",
			len(result.A.OutsideLimits), len(result.B.OutsideLimits))
	}

	cmp := result.Comparison
	if cmp.MatchPercent != 100 || cmp.MismatchPercent != 0 {
		t.Fatalf("expected 100%% match, got %v%% / %v%%", cmp.MatchPercent, cmp.MismatchPercent)
	}
	if cmp.Full.Cell("A", "A") == 0 || cmp.Full.Cell("B", "B") == 0 {
		t.Error("diagonal cells (A,A) and (B,B) must be populated")
	}
	if cmp.Full.Cell("A", "B") != 0 || cmp.Full.Cell("B", "A") != 0 {
		t.Error("off-diagonal cells must be zero for identical models")
	}
}

func TestRun_DerivedStep(t *testing.T) {
	a := denseModel("a", 2, 2, 2, []string{"A", "B"})
	b := denseModel("b", 2, 2, 2, []string{"A", "B"})

	// Smallest sizes come from the models themselves (1,1,1), subdivision 2
	// gives a 0.5 step.
	result, err := Run(context.Background(), a, b, RunConfig{
		Attribute:   "domain",
		Subdivision: 2,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Step != (blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("expected derived step 0.5, got %+v", result.Step)
	}
	if result.SampleCount != 64 {
		t.Errorf("expected 64 samples, got %d", result.SampleCount)
	}
}

func TestRun_IncompatibleSpans(t *testing.T) {
	a := denseModel("a", 2, 2, 2, []string{"A"})
	b := denseModel("b", 3, 2, 2, []string{"A"})

	_, err := Run(context.Background(), a, b, RunConfig{
		Attribute: "domain",
		Step:      blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	})
	if !errors.Is(err, ErrIncompatibleModels) {
		t.Fatalf("expected ErrIncompatibleModels, got %v", err)
	}
}

func TestRun_EmptyModelFailsLoudly(t *testing.T) {
	a := denseModel("a", 2, 2, 2, []string{"A"})
	empty := &blockmodel.Model{
		Name:        "empty",
		Resolution:  blockmodel.Vec3{X: 1, Y: 1, Z: 1},
		ColumnCount: 2, RowCount: 2, SliceCount: 2,
		Categorical: map[string][]string{"domain": {}},
	}

	_, err := Run(context.Background(), a, empty, RunConfig{
		Attribute: "domain",
		Step:      blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	})
	if !errors.Is(err, ErrEmptyComparison) {
		t.Fatalf("expected ErrEmptyComparison against an empty model, got %v", err)
	}
}

func TestRun_MissingAttribute(t *testing.T) {
	a := denseModel("a", 1, 1, 1, []string{"A"})
	b := denseModel("b", 1, 1, 1, []string{"A"})

	_, err := Run(context.Background(), a, b, RunConfig{
		Attribute: "lithology",
		Step:      blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	})
	if !errors.Is(err, blockmodel.ErrNoSuchAttribute) {
		t.Fatalf("expected ErrNoSuchAttribute, got %v", err)
	}
}

func TestRunBatch_ContinuesPastFailures(t *testing.T) {
	good := denseModel("good", 2, 2, 2, []string{"A"})
	good2 := denseModel("good2", 2, 2, 2, []string{"A"})
	bad := denseModel("bad", 3, 3, 3, []string{"A"})

	outcomes := RunBatch(context.Background(), [][2]*blockmodel.Model{
		{good, bad},
		{good, good2},
	}, RunConfig{Attribute: "domain", Step: blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil {
		t.Error("first pair should fail on incompatible spans")
	}
	if outcomes[1].Err != nil {
		t.Errorf("second pair should succeed, got %v", outcomes[1].Err)
	}
}

func TestSmallestSubBlock(t *testing.T) {
	m := denseModel("m", 2, 1, 1, []string{"A"})
	m.Sizes[1] = blockmodel.Vec3{X: 0.25, Y: 0.5, Z: 1}

	got := SmallestSubBlock(m)
	if got != (blockmodel.Vec3{X: 0.25, Y: 0.5, Z: 1}) {
		t.Errorf("unexpected smallest size %+v", got)
	}

	if got := SmallestSubBlock(&blockmodel.Model{}); got != (blockmodel.Vec3{}) {
		t.Errorf("empty model should yield zero size, got %+v", got)
	}
}
