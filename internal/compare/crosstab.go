package compare

import (
	"errors"
	"fmt"
	"sort"
)

// OthersLabel is the pseudo-category absorbing low-frequency categories in
// the collapsed table.
const OthersLabel = "others"

// DefaultTopN is the number of categories kept before collapsing the rest
// into OthersLabel.
const DefaultTopN = 5

// ErrEmptyComparison is returned when no sample resolved in both models, so
// no percentage can be computed.
var ErrEmptyComparison = errors.New("compare: no sample resolved in both models")

// Options controls cross-tabulation.
type Options struct {
	// TopN is the number of highest-count categories kept per sequence in
	// the collapsed table. Zero means DefaultTopN.
	TopN int

	// Categories, when non-empty, restricts the per-model tallies to the
	// listed (already lower-cased) legend categories. The tables are not
	// affected; resolved values outside the legend still tabulate as-is.
	Categories []string
}

// Tally is the count and share of one category within a resolved sequence.
type Tally struct {
	Category string
	Count    int
	Percent  float64
}

// Table is a contingency table: Counts[r][c] samples carried Rows[r] in the
// first model and Cols[c] in the second.
type Table struct {
	RowModel, ColModel string
	Rows, Cols         []string
	Counts             [][]int
	Total              int
}

// Cell returns the count for a (row, col) category pair, or zero when either
// label is absent.
func (t *Table) Cell(row, col string) int {
	r := indexOf(t.Rows, row)
	c := indexOf(t.Cols, col)
	if r < 0 || c < 0 {
		return 0
	}
	return t.Counts[r][c]
}

func indexOf(labels []string, label string) int {
	for n, l := range labels {
		if l == label {
			return n
		}
	}
	return -1
}

// Comparison is the outcome of cross-tabulating two resolved sequences.
type Comparison struct {
	// Aligned is the number of samples resolved in both models; all
	// percentages are relative to it.
	Aligned int

	MatchCount      int
	MismatchCount   int
	MatchPercent    float64
	MismatchPercent float64

	// MismatchSamples lists the original sample indices where both models
	// resolved but disagreed, for downstream visibility filtering.
	MismatchSamples []int

	// TalliesA and TalliesB are the per-category shares of each sequence,
	// ordered by count descending.
	TalliesA, TalliesB []Tally

	// Collapsed keeps the top-N categories per sequence with the remainder
	// relabelled as OthersLabel; Full tabulates every raw category.
	Collapsed *Table
	Full      *Table
}

// CrossTabulate compares two resolutions of the same sample sequence. Only
// samples resolved in both models participate; matching is decided on raw
// values before any others-collapse.
func CrossTabulate(a, b *Result, opts Options) (*Comparison, error) {
	if len(a.SubBlocks) != len(b.SubBlocks) {
		return nil, fmt.Errorf("compare: result lengths differ (%d vs %d)", len(a.SubBlocks), len(b.SubBlocks))
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	var valsA, valsB []string
	cmp := &Comparison{}
	for n := range a.SubBlocks {
		if !a.Resolved(n) || !b.Resolved(n) {
			continue
		}
		va, vb := a.Values[n], b.Values[n]
		valsA = append(valsA, va)
		valsB = append(valsB, vb)
		if va == vb {
			cmp.MatchCount++
		} else {
			cmp.MismatchCount++
			cmp.MismatchSamples = append(cmp.MismatchSamples, n)
		}
	}

	cmp.Aligned = len(valsA)
	if cmp.Aligned == 0 {
		return nil, ErrEmptyComparison
	}
	cmp.MatchPercent = 100 * float64(cmp.MatchCount) / float64(cmp.Aligned)
	cmp.MismatchPercent = 100 * float64(cmp.MismatchCount) / float64(cmp.Aligned)

	cmp.TalliesA = tally(valsA, opts.Categories)
	cmp.TalliesB = tally(valsB, opts.Categories)

	cmp.Full = tabulate(a.ModelName, b.ModelName, valsA, valsB)
	cmp.Collapsed = tabulate(a.ModelName, b.ModelName,
		collapse(valsA, keepSet(cmp.TalliesA, topN)),
		collapse(valsB, keepSet(cmp.TalliesB, topN)))

	return cmp, nil
}

// tally counts categories in one sequence, ordered by count descending with
// name as the tie-break so output is stable. When legend categories are
// given, only those are reported.
func tally(values []string, categories []string) []Tally {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	var keep map[string]bool
	if len(categories) > 0 {
		keep = make(map[string]bool, len(categories))
		for _, c := range categories {
			keep[c] = true
		}
	}

	tallies := make([]Tally, 0, len(counts))
	for cat, count := range counts {
		if keep != nil && !keep[cat] {
			continue
		}
		tallies = append(tallies, Tally{Category: cat, Count: count})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Category < tallies[j].Category
	})

	// Percentages are shares of the whole resolved sequence, not of the
	// kept categories, so a legend restriction leaves them comparable.
	total := float64(len(values))
	for n := range tallies {
		tallies[n].Percent = 100 * float64(tallies[n].Count) / total
	}
	return tallies
}

// keepSet returns the categories surviving a top-N collapse.
func keepSet(tallies []Tally, topN int) map[string]bool {
	keep := make(map[string]bool, topN)
	for n, t := range tallies {
		if n >= topN {
			break
		}
		keep[t.Category] = true
	}
	return keep
}

// collapse relabels every category outside keep as OthersLabel.
func collapse(values []string, keep map[string]bool) []string {
	out := make([]string, len(values))
	for n, v := range values {
		if keep[v] {
			out[n] = v
		} else {
			out[n] = OthersLabel
		}
	}
	return out
}

// tabulate builds the contingency table for two aligned sequences. Labels
// are ordered by marginal count descending (ties by name), with OthersLabel
// forced last when present.
func tabulate(rowModel, colModel string, valsA, valsB []string) *Table {
	rows := labelOrder(valsA)
	cols := labelOrder(valsB)

	rowIdx := make(map[string]int, len(rows))
	for n, l := range rows {
		rowIdx[l] = n
	}
	colIdx := make(map[string]int, len(cols))
	for n, l := range cols {
		colIdx[l] = n
	}

	counts := make([][]int, len(rows))
	for n := range counts {
		counts[n] = make([]int, len(cols))
	}
	for n := range valsA {
		counts[rowIdx[valsA[n]]][colIdx[valsB[n]]]++
	}

	return &Table{
		RowModel: rowModel,
		ColModel: colModel,
		Rows:     rows,
		Cols:     cols,
		Counts:   counts,
		Total:    len(valsA),
	}
}

func labelOrder(values []string) []string {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		li, lj := labels[i], labels[j]
		if li == OthersLabel || lj == OthersLabel {
			return lj == OthersLabel && li != OthersLabel
		}
		if counts[li] != counts[lj] {
			return counts[li] > counts[lj]
		}
		return li < lj
	})
	return labels
}
