package blockio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/lattice"
)

// LoadSolid reads a triangulated bounding solid from a Wavefront OBJ subset:
// "v x y z" vertex lines and "f a b c" triangle lines (1-based indices,
// "a/b/c" forms accepted, only the vertex index is used). Anything else is
// ignored.
func LoadSolid(path string) (*lattice.Solid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	solid, err := ReadSolid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return solid, nil
}

// ReadSolid parses the OBJ subset from r. See LoadSolid.
func ReadSolid(r io.Reader) (*lattice.Solid, error) {
	var vertices []blockmodel.Vec3
	var facets [][3]int

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v blockmodel.Vec3
			var err error
			if v.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if v.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if v.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, v)

		case "f":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: only triangulated faces are supported, got %d vertices", line, len(fields)-1)
			}
			var facet [3]int
			for n := 0; n < 3; n++ {
				ref := strings.SplitN(fields[1+n], "/", 2)[0]
				idx, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				if idx < 1 {
					return nil, fmt.Errorf("line %d: face index %d out of range", line, idx)
				}
				facet[n] = idx - 1 // OBJ indices are 1-based
			}
			facets = append(facets, facet)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lattice.NewSolid(vertices, facets)
}
