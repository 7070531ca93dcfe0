package comparedb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testModel(name string, domains []string) *blockmodel.Model {
	m := &blockmodel.Model{
		Name:        name,
		Resolution:  blockmodel.Vec3{X: 1, Y: 1, Z: 1},
		ColumnCount: 2,
		RowCount:    2,
		SliceCount:  2,
		Categorical: map[string][]string{},
	}
	var values []string
	n := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				m.Centroids = append(m.Centroids, blockmodel.Vec3{
					X: float64(i) + 0.5, Y: float64(j) + 0.5, Z: float64(k) + 0.5,
				})
				m.Sizes = append(m.Sizes, blockmodel.Vec3{X: 1, Y: 1, Z: 1})
				m.ParentIndex = append(m.ParentIndex, blockmodel.GridKey{I: i, J: j, K: k})
				values = append(values, domains[n%len(domains)])
				n++
			}
		}
	}
	m.Categorical["domain"] = values
	return m
}

func testRunResult(t *testing.T) *compare.RunResult {
	t.Helper()
	a := testModel("model-a", []string{"ore", "waste"})
	b := testModel("model-b", []string{"ore", "waste"})
	result, err := compare.Run(context.Background(), a, b, compare.RunConfig{
		Attribute: "domain",
		Step:      blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestRecordRunRoundTrip(t *testing.T) {
	db := openTestDB(t)
	result := testRunResult(t)

	runID, err := db.RecordRun("domain", result)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == "" {
		t.Fatal("RecordRun returned an empty run ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.ModelA != "model-a" || run.ModelB != "model-b" {
		t.Errorf("got models %q/%q, want model-a/model-b", run.ModelA, run.ModelB)
	}
	if run.Attribute != "domain" {
		t.Errorf("got attribute %q, want domain", run.Attribute)
	}
	if run.StepX != 0.5 || run.StepY != 0.5 || run.StepZ != 0.5 {
		t.Errorf("got step %v/%v/%v, want 0.5 on every axis", run.StepX, run.StepY, run.StepZ)
	}
	if run.SampleCount != result.SampleCount {
		t.Errorf("got sample count %d, want %d", run.SampleCount, result.SampleCount)
	}
	if run.MatchCount != result.Comparison.MatchCount {
		t.Errorf("got match count %d, want %d", run.MatchCount, result.Comparison.MatchCount)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestGetRunUnknownID(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetRun("no-such-run"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v, want sql.ErrNoRows", err)
	}
}

func TestListRunsMostRecentFirst(t *testing.T) {
	db := openTestDB(t)
	result := testRunResult(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.RecordRun("domain", result)
		if err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	seen := make(map[string]bool)
	for _, r := range runs {
		seen[r.RunID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("run %s missing from listing", id)
		}
	}

	runs, err = db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns limit 2: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs with limit 2, want 2", len(runs))
	}
}

func TestLoadTableRoundTrip(t *testing.T) {
	db := openTestDB(t)
	result := testRunResult(t)

	runID, err := db.RecordRun("domain", result)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	for _, collapsed := range []bool{true, false} {
		want := result.Comparison.Full
		if collapsed {
			want = result.Comparison.Collapsed
		}
		got, err := db.LoadTable(runID, collapsed)
		if err != nil {
			t.Fatalf("LoadTable(collapsed=%v): %v", collapsed, err)
		}
		if got.Total != want.Total {
			t.Errorf("collapsed=%v: got total %d, want %d", collapsed, got.Total, want.Total)
		}
		for _, row := range want.Rows {
			for _, col := range want.Cols {
				if w := want.Cell(row, col); w != 0 && got.Cell(row, col) != w {
					t.Errorf("collapsed=%v: cell[%s][%s] = %d, want %d",
						collapsed, row, col, got.Cell(row, col), w)
				}
			}
		}
	}
}

func TestMigrateVersion(t *testing.T) {
	db := openTestDB(t)
	version, dirty, err := db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion: %v", err)
	}
	if dirty {
		t.Error("migrations left the store dirty")
	}
	if version == 0 {
		t.Error("got version 0 after NewDB ran migrations")
	}
}
