package blockio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
)

const modelCSV = `x,y,z,dx,dy,dz,i,j,k,domain,grade
0.5,0.5,0.5,1,1,1,0,0,0,ore,1.25
1.5,0.5,0.5,1,1,1,1,0,0,waste,0.1
0.25,1.5,0.5,0.5,1,1,0,1,0,ore,2.0
`

func TestReadModel(t *testing.T) {
	m, err := ReadModel(strings.NewReader(modelCSV), "test", blockmodel.Vec3{X: 1, Y: 1, Z: 1}, 2, 2, 1)
	if err != nil {
		t.Fatalf("ReadModel: %v", err)
	}

	if m.SubBlockCount() != 3 {
		t.Fatalf("expected 3 sub-blocks, got %d", m.SubBlockCount())
	}
	if m.Centroids[2] != (blockmodel.Vec3{X: 0.25, Y: 1.5, Z: 0.5}) {
		t.Errorf("unexpected centroid %+v", m.Centroids[2])
	}
	if m.ParentIndex[1] != (blockmodel.GridKey{I: 1, J: 0, K: 0}) {
		t.Errorf("unexpected parent index %+v", m.ParentIndex[1])
	}

	// "domain" holds non-numeric values: categorical. "grade" parses as
	// floats throughout: numeric.
	domain, err := m.Domain("domain")
	if err != nil {
		t.Fatalf("Domain: %v", err)
	}
	if domain[0] != "ore" || domain[1] != "waste" {
		t.Errorf("unexpected domain values %v", domain)
	}
	if _, ok := m.Numeric["grade"]; !ok {
		t.Error("grade should be loaded as numeric")
	}
}

func TestReadModel_BadInput(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"wrong header", "a,b,c\n"},
		{"short row", "x,y,z,dx,dy,dz,i,j,k\n0.5,0.5\n"},
		{"bad float", "x,y,z,dx,dy,dz,i,j,k\nnope,0,0,1,1,1,0,0,0\n"},
		{"bad grid index", "x,y,z,dx,dy,dz,i,j,k\n0,0,0,1,1,1,0.5,0,0\n"},
	}
	for _, c := range cases {
		if _, err := ReadModel(strings.NewReader(c.csv), "t", blockmodel.Vec3{X: 1, Y: 1, Z: 1}, 1, 1, 1); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestReadPoints(t *testing.T) {
	const pointsCSV = `x,y,z,domain
0.5,0.5,0.5,Ore
1.5,1.5,0.5,waste
`
	ps, err := ReadPoints(strings.NewReader(pointsCSV), "samples")
	if err != nil {
		t.Fatalf("ReadPoints: %v", err)
	}
	if len(ps.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(ps.Points))
	}
	// Domain case is preserved here; the comparison lower-cases it.
	if ps.Domains[0] != "Ore" {
		t.Errorf("unexpected domain %q", ps.Domains[0])
	}
}

func TestLoadLegend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legend.csv")
	const legendCSV = `name,r,g,b,a
Ore,255,0,0,255
waste,0,128,0,255
`
	if err := os.WriteFile(path, []byte(legendCSV), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLegend(path)
	if err != nil {
		t.Fatalf("LoadLegend: %v", err)
	}
	if !l.Contains("ore") || !l.Contains("waste") {
		t.Errorf("legend missing categories: %v", l.Names())
	}
	hex, ok := l.Hex("ore")
	if !ok || hex != "#ff0000ff" {
		t.Errorf("unexpected hex %q", hex)
	}
}

func TestReadSolid(t *testing.T) {
	const obj = `# unit tetrahedron-ish box
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 2 3
f 1 3 4
f 5/1 7/2 6/3
f 5 8 7
f 1 5 6
f 1 6 2
f 4 3 7
f 4 7 8
f 1 4 8
f 1 8 5
f 2 6 7
f 2 7 3
`
	solid, err := ReadSolid(strings.NewReader(obj))
	if err != nil {
		t.Fatalf("ReadSolid: %v", err)
	}
	if len(solid.Vertices) != 8 || len(solid.Facets) != 12 {
		t.Fatalf("expected 8 vertices / 12 facets, got %d / %d", len(solid.Vertices), len(solid.Facets))
	}
	if !solid.Contains(blockmodel.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Error("cube should contain its centre")
	}

	if _, err := ReadSolid(strings.NewReader("v 0 0 0\nf 1 1\n")); err == nil {
		t.Error("expected error for non-triangle face")
	}
}
