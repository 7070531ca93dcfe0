// Package blockio loads block models, point sets, legends and bounding
// solids from flat files. It stands in for the vendor object store: whatever
// supplies this data is responsible for having already converted geometry
// into one consistent block-local coordinate frame.
package blockio

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/legend"
)

// geometry columns every model CSV starts with; remaining columns are
// attributes.
var modelHeader = []string{"x", "y", "z", "dx", "dy", "dz", "i", "j", "k"}

// ModelHeaderComment documents the expected layout, for error messages and
// the CLI help text: a header row of x,y,z,dx,dy,dz,i,j,k followed by one
// column per attribute.
const ModelHeaderComment = "x,y,z,dx,dy,dz,i,j,k,<attribute>..."

// LoadModel reads a block model from CSV. The first row is a header:
// centroid (x,y,z), size (dx,dy,dz), parent grid index (i,j,k), then one
// column per attribute. An attribute column where every value parses as a
// float is loaded as numeric; anything else is categorical. Resolution and
// parent counts come from the caller because the CSV does not carry them.
func LoadModel(path, name string, resolution blockmodel.Vec3, columns, rows, slices int) (*blockmodel.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadModel(f, name, resolution, columns, rows, slices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// ReadModel parses model CSV from r. See LoadModel.
func ReadModel(r io.Reader, name string, resolution blockmodel.Vec3, columns, rows, slices int) (*blockmodel.Model, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < len(modelHeader) {
		return nil, fmt.Errorf("header has %d columns, need at least %d (%s)", len(header), len(modelHeader), ModelHeaderComment)
	}
	for n, want := range modelHeader {
		if !strings.EqualFold(strings.TrimSpace(header[n]), want) {
			return nil, fmt.Errorf("header column %d is %q, want %q (%s)", n, header[n], want, ModelHeaderComment)
		}
	}
	attrNames := make([]string, 0, len(header)-len(modelHeader))
	for _, h := range header[len(modelHeader):] {
		attrNames = append(attrNames, strings.TrimSpace(h))
	}

	m := &blockmodel.Model{
		Name:        name,
		Resolution:  resolution,
		ColumnCount: columns,
		RowCount:    rows,
		SliceCount:  slices,
		Categorical: make(map[string][]string),
		Numeric:     make(map[string][]float64),
	}
	attrValues := make([][]string, len(attrNames))

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if len(record) != len(header) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(record), len(header))
		}

		var geo [6]float64
		for n := 0; n < 6; n++ {
			geo[n], err = strconv.ParseFloat(strings.TrimSpace(record[n]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, modelHeader[n], err)
			}
		}
		var grid [3]int
		for n := 0; n < 3; n++ {
			grid[n], err = strconv.Atoi(strings.TrimSpace(record[6+n]))
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, modelHeader[6+n], err)
			}
		}

		m.Centroids = append(m.Centroids, blockmodel.Vec3{X: geo[0], Y: geo[1], Z: geo[2]})
		m.Sizes = append(m.Sizes, blockmodel.Vec3{X: geo[3], Y: geo[4], Z: geo[5]})
		m.ParentIndex = append(m.ParentIndex, blockmodel.GridKey{I: grid[0], J: grid[1], K: grid[2]})
		for n := range attrNames {
			attrValues[n] = append(attrValues[n], strings.TrimSpace(record[len(modelHeader)+n]))
		}
	}

	for n, attr := range attrNames {
		if nums, ok := parseFloatColumn(attrValues[n]); ok {
			m.Numeric[attr] = nums
		} else {
			m.Categorical[attr] = attrValues[n]
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseFloatColumn types an attribute column: numeric only when every value
// parses as a float.
func parseFloatColumn(values []string) ([]float64, bool) {
	nums := make([]float64, len(values))
	for n, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		nums[n] = f
	}
	return nums, true
}

// PointSet is a list of sample points with one domain value per point.
type PointSet struct {
	Name    string
	Points  []blockmodel.Vec3
	Domains []string
}

// LoadPoints reads a point set from CSV with header x,y,z,domain.
func LoadPoints(path, name string) (*PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := ReadPoints(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ps, nil
}

// ReadPoints parses point CSV from r. See LoadPoints.
func ReadPoints(r io.Reader, name string) (*PointSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != 4 || !strings.EqualFold(header[0], "x") || !strings.EqualFold(header[3], "domain") {
		return nil, fmt.Errorf("point header must be x,y,z,domain, got %v", header)
	}

	ps := &PointSet{Name: name}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		var p blockmodel.Vec3
		if p.X, err = strconv.ParseFloat(strings.TrimSpace(record[0]), 64); err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		if p.Y, err = strconv.ParseFloat(strings.TrimSpace(record[1]), 64); err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		if p.Z, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err != nil {
			return nil, fmt.Errorf("line %d: z: %w", line, err)
		}
		ps.Points = append(ps.Points, p)
		ps.Domains = append(ps.Domains, strings.TrimSpace(record[3]))
	}
	return ps, nil
}

// LoadLegend reads a legend from CSV with header name,r,g,b[,a]. Channel
// values are 0-255; a missing alpha column means opaque.
func LoadLegend(path string) (*legend.Legend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filepath.Base(path), err)
	}
	if len(header) < 4 || !strings.EqualFold(header[0], "name") {
		return nil, fmt.Errorf("%s: legend header must be name,r,g,b[,a], got %v", filepath.Base(path), header)
	}

	var names []string
	var colours []color.RGBA
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", filepath.Base(path), line+1, err)
		}
		line++
		if len(record) < 4 {
			return nil, fmt.Errorf("%s: line %d: %d fields, need at least 4", filepath.Base(path), line, len(record))
		}

		var chans [4]uint8
		chans[3] = 255
		for n := 1; n < len(record) && n < 5; n++ {
			v, err := strconv.Atoi(strings.TrimSpace(record[n]))
			if err != nil || v < 0 || v > 255 {
				return nil, fmt.Errorf("%s: line %d: channel %d must be 0-255, got %q", filepath.Base(path), line, n, record[n])
			}
			chans[n-1] = uint8(v)
		}
		names = append(names, strings.TrimSpace(record[0]))
		colours = append(colours, color.RGBA{R: chans[0], G: chans[1], B: chans[2], A: chans[3]})
	}

	return legend.New(names, colours)
}
