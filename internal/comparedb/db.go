// Package comparedb persists comparison runs to sqlite: the run summary,
// both contingency tables and the per-model domain tallies. The schema is
// managed by embedded golang-migrate migrations.
package comparedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the run store at path and brings the schema up
// to date.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	store := &DB{db}
	if err := store.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// RunSummary is one persisted comparison run.
type RunSummary struct {
	RunID          string
	ModelA, ModelB string
	Attribute      string
	StepX          float64
	StepY          float64
	StepZ          float64
	SampleCount    int
	AlignedCount   int
	MatchCount     int
	MatchPercent   float64
	OutsideLimitsA int
	OutsideLimitsB int
	CreatedAt      time.Time
}

// RecordRun persists a completed comparison and returns its run ID.
func (db *DB) RecordRun(attribute string, result *compare.RunResult) (string, error) {
	runID := uuid.NewString()
	cmp := result.Comparison

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO comparison_runs (
			run_id, model_a, model_b, attribute,
			step_x, step_y, step_z,
			sample_count, aligned_count, match_count, match_percent,
			outside_limits_a, outside_limits_b
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.A.ModelName, result.B.ModelName, attribute,
		result.Step.X, result.Step.Y, result.Step.Z,
		result.SampleCount, cmp.Aligned, cmp.MatchCount, cmp.MatchPercent,
		len(result.A.OutsideLimits), len(result.B.OutsideLimits),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertCells(tx, runID, true, cmp.Collapsed); err != nil {
		return "", err
	}
	if err := insertCells(tx, runID, false, cmp.Full); err != nil {
		return "", err
	}
	if err := insertTallies(tx, runID, "a", cmp.TalliesA); err != nil {
		return "", err
	}
	if err := insertTallies(tx, runID, "b", cmp.TalliesB); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func insertCells(tx *sql.Tx, runID string, collapsed bool, table *compare.Table) error {
	stmt, err := tx.Prepare(`
		INSERT INTO comparison_cells (run_id, collapsed, row_label, col_label, sample_count)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	flag := 0
	if collapsed {
		flag = 1
	}
	for r, row := range table.Rows {
		for c, col := range table.Cols {
			if table.Counts[r][c] == 0 {
				continue // sparse storage; missing cells read back as zero
			}
			if _, err := stmt.Exec(runID, flag, row, col, table.Counts[r][c]); err != nil {
				return fmt.Errorf("failed to insert cell (%s,%s): %w", row, col, err)
			}
		}
	}
	return nil
}

func insertTallies(tx *sql.Tx, runID, side string, tallies []compare.Tally) error {
	for _, t := range tallies {
		_, err := tx.Exec(`
			INSERT INTO comparison_tallies (run_id, model_side, category, sample_count, percent)
			VALUES (?, ?, ?, ?, ?)`,
			runID, side, t.Category, t.Count, t.Percent)
		if err != nil {
			return fmt.Errorf("failed to insert tally %q: %w", t.Category, err)
		}
	}
	return nil
}

// GetRun fetches one run summary by ID.
func (db *DB) GetRun(runID string) (*RunSummary, error) {
	row := db.QueryRow(`
		SELECT run_id, model_a, model_b, attribute,
		       step_x, step_y, step_z,
		       sample_count, aligned_count, match_count, match_percent,
		       outside_limits_a, outside_limits_b, created_at
		FROM comparison_runs WHERE run_id = ?`, runID)

	var s RunSummary
	err := row.Scan(&s.RunID, &s.ModelA, &s.ModelB, &s.Attribute,
		&s.StepX, &s.StepY, &s.StepZ,
		&s.SampleCount, &s.AlignedCount, &s.MatchCount, &s.MatchPercent,
		&s.OutsideLimitsA, &s.OutsideLimitsB, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRuns returns run summaries, most recent first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT run_id, model_a, model_b, attribute,
		       step_x, step_y, step_z,
		       sample_count, aligned_count, match_count, match_percent,
		       outside_limits_a, outside_limits_b, created_at
		FROM comparison_runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		err := rows.Scan(&s.RunID, &s.ModelA, &s.ModelB, &s.Attribute,
			&s.StepX, &s.StepY, &s.StepZ,
			&s.SampleCount, &s.AlignedCount, &s.MatchCount, &s.MatchPercent,
			&s.OutsideLimitsA, &s.OutsideLimitsB, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// LoadTable reconstructs a persisted contingency table. Labels come back in
// stored order (count descending at write time) via the run's cells.
func (db *DB) LoadTable(runID string, collapsed bool) (*compare.Table, error) {
	run, err := db.GetRun(runID)
	if err != nil {
		return nil, err
	}

	flag := 0
	if collapsed {
		flag = 1
	}
	rows, err := db.Query(`
		SELECT row_label, col_label, sample_count
		FROM comparison_cells
		WHERE run_id = ? AND collapsed = ?
		ORDER BY row_label, col_label`, runID, flag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type cell struct {
		row, col string
		count    int
	}
	var cells []cell
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	var rowLabels, colLabels []string
	total := 0
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.row, &c.col, &c.count); err != nil {
			return nil, err
		}
		cells = append(cells, c)
		if !rowSet[c.row] {
			rowSet[c.row] = true
			rowLabels = append(rowLabels, c.row)
		}
		if !colSet[c.col] {
			colSet[c.col] = true
			colLabels = append(colLabels, c.col)
		}
		total += c.count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table := &compare.Table{
		RowModel: run.ModelA,
		ColModel: run.ModelB,
		Rows:     rowLabels,
		Cols:     colLabels,
		Counts:   make([][]int, len(rowLabels)),
		Total:    total,
	}
	rowIdx := make(map[string]int, len(rowLabels))
	for n, l := range rowLabels {
		rowIdx[l] = n
	}
	colIdx := make(map[string]int, len(colLabels))
	for n, l := range colLabels {
		colIdx[l] = n
	}
	for n := range table.Counts {
		table.Counts[n] = make([]int, len(colLabels))
	}
	for _, c := range cells {
		table.Counts[rowIdx[c.row]][colIdx[c.col]] = c.count
	}
	return table, nil
}
