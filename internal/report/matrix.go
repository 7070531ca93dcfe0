package report

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

// tableGrid adapts a contingency table to plotter.GridXYZ. Cell values are
// shares of the table total so the colour ramp is comparable between runs of
// different sample counts.
type tableGrid struct {
	table  *compare.Table
	shares [][]float64
}

func newTableGrid(table *compare.Table) tableGrid {
	shares := make([][]float64, len(table.Counts))
	var total float64
	for r, row := range table.Counts {
		shares[r] = make([]float64, len(row))
		for c, count := range row {
			shares[r][c] = float64(count)
		}
		total += floats.Sum(shares[r])
	}
	if total > 0 {
		for r := range shares {
			floats.Scale(1/total, shares[r])
		}
	}
	return tableGrid{table: table, shares: shares}
}

func (g tableGrid) Dims() (c, r int) { return len(g.table.Cols), len(g.table.Rows) }
func (g tableGrid) X(c int) float64  { return float64(c) }
func (g tableGrid) Y(r int) float64  { return float64(r) }
func (g tableGrid) Z(c, r int) float64 {
	return g.shares[r][c]
}

// categoryTicks places one labelled tick per category index.
type categoryTicks []string

func (t categoryTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(t))
	for n, label := range t {
		v := float64(n)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// SaveMatrixPNG writes the contingency table as a heatmap image, the
// full-matrix counterpart of the interactive top-N page.
func SaveMatrixPNG(table *compare.Table, path string) error {
	if len(table.Rows) == 0 || len(table.Cols) == 0 {
		return fmt.Errorf("report: empty contingency table")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", table.RowModel, table.ColModel)
	p.X.Label.Text = table.ColModel
	p.Y.Label.Text = table.RowModel
	p.X.Tick.Marker = categoryTicks(table.Cols)
	p.Y.Tick.Marker = categoryTicks(table.Rows)

	hm := plotter.NewHeatMap(newTableGrid(table), palette.Heat(12, 1))
	p.Add(hm)

	width := vg.Length(2+len(table.Cols)) * vg.Inch
	height := vg.Length(2+len(table.Rows)) * vg.Inch
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("report: saving matrix: %w", err)
	}
	return nil
}
