package report

import (
	"fmt"
	"io"

	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

// WriteSummary prints the human-readable comparison report: resolution
// diagnostics, match percentage, per-model domain tallies and the collapsed
// contingency table.
func WriteSummary(w io.Writer, result *compare.RunResult) error {
	cmp := result.Comparison

	fmt.Fprintf(w, "Samples compared: %d (step %g x %g x %g)\n",
		result.SampleCount, result.Step.X, result.Step.Y, result.Step.Z)
	fmt.Fprintf(w, "Samples not in limits: %s=%d %s=%d\n",
		result.A.ModelName, len(result.A.OutsideLimits),
		result.B.ModelName, len(result.B.OutsideLimits))
	fmt.Fprintf(w, "Resolved in both models: %d\n\n", cmp.Aligned)

	fmt.Fprintf(w, "Percentage of space matching: %.2f %%\n", cmp.MatchPercent)
	fmt.Fprintf(w, "Percentage of space not matching: %.2f %%\n\n", cmp.MismatchPercent)

	writeTallies(w, result.A.ModelName, cmp.TalliesA)
	writeTallies(w, result.B.ModelName, cmp.TalliesB)

	return writeTable(w, cmp.Collapsed)
}

func writeTallies(w io.Writer, model string, tallies []compare.Tally) {
	fmt.Fprintf(w, "%s domains:\n", model)
	for _, t := range tallies {
		fmt.Fprintf(w, "  %-20s %8d  %6.2f %%\n", t.Category, t.Count, t.Percent)
	}
	fmt.Fprintln(w)
}

func writeTable(w io.Writer, table *compare.Table) error {
	fmt.Fprintf(w, "Contingency table (%s rows, %s columns):\n", table.RowModel, table.ColModel)
	fmt.Fprintf(w, "%-20s", "")
	for _, col := range table.Cols {
		fmt.Fprintf(w, "%12s", col)
	}
	fmt.Fprintln(w)
	for r, row := range table.Rows {
		fmt.Fprintf(w, "%-20s", row)
		for c := range table.Cols {
			fmt.Fprintf(w, "%12d", table.Counts[r][c])
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintln(w)
	return err
}
