package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

func testTable(t *testing.T) (*compare.RunResult, *compare.Table) {
	t.Helper()
	values := []string{"ore", "ore", "waste", "ore", "waste", "air"}
	other := []string{"ore", "waste", "waste", "ore", "waste", "air"}

	a := &compare.Result{ModelName: "left", Values: values, SubBlocks: make([]int, len(values))}
	b := &compare.Result{ModelName: "right", Values: other, SubBlocks: make([]int, len(other))}

	cmp, err := compare.CrossTabulate(a, b, compare.Options{TopN: 2})
	if err != nil {
		t.Fatalf("CrossTabulate: %v", err)
	}
	result := &compare.RunResult{
		SampleCount: len(values),
		Step:        blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		A:           a,
		B:           b,
		Comparison:  cmp,
	}
	return result, cmp.Collapsed
}

func TestRenderHeatmap(t *testing.T) {
	_, table := testTable(t)

	var buf bytes.Buffer
	if err := RenderHeatmap(&buf, table, "left vs right"); err != nil {
		t.Fatalf("RenderHeatmap: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "heatmap") {
		t.Error("rendered page should carry a heatmap series")
	}
	for _, col := range table.Cols {
		if !strings.Contains(html, col) {
			t.Errorf("rendered page missing category %q", col)
		}
	}
}

func TestSaveMatrixPNG(t *testing.T) {
	_, table := testTable(t)

	path := filepath.Join(t.TempDir(), "matrix.png")
	if err := SaveMatrixPNG(table, path); err != nil {
		t.Fatalf("SaveMatrixPNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("matrix PNG is empty")
	}

	if err := SaveMatrixPNG(&compare.Table{}, filepath.Join(t.TempDir(), "empty.png")); err == nil {
		t.Error("expected error for empty table")
	}
}

func TestWriteSummary(t *testing.T) {
	result, _ := testTable(t)

	var buf bytes.Buffer
	if err := WriteSummary(&buf, result); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Percentage of space matching",
		"left domains:",
		"right domains:",
		"Contingency table",
		"others",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
