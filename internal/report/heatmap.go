// Package report renders comparison output: an interactive HTML heatmap of
// the contingency table, a PNG of the full matrix, and a plain-text summary.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

// heatPalette is a viridis ramp, dark for empty cells through yellow for
// the densest cell.
var heatPalette = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderHeatmap writes a standalone HTML page with the contingency table as
// an ECharts heatmap. Rows (model A) run up the y axis, columns (model B)
// along the x axis; cell values are raw counts with the share shown in the
// tooltip.
func RenderHeatmap(w io.Writer, table *compare.Table, title string) error {
	data := make([]opts.HeatMapData, 0, len(table.Rows)*len(table.Cols))
	maxCount := 0
	for r := range table.Rows {
		for c := range table.Cols {
			count := table.Counts[r][c]
			if count > maxCount {
				maxCount = count
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, count}})
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("rows=%s cols=%s total=%d", table.RowModel, table.ColModel, table.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: table.Cols,
			Name: table.ColModel,
			SplitArea: &opts.SplitArea{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: table.Rows,
			Name: table.RowModel,
			SplitArea: &opts.SplitArea{
				Show: opts.Bool(true),
			},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCount),
			InRange:    &opts.VisualMapInRange{Color: heatPalette},
		}),
	)
	hm.AddSeries("samples", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	return hm.Render(w)
}
