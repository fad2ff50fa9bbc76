package contingency

import (
	"fmt"
	"math"

	"gocontab/domain/core"
	"gocontab/domain/dataset"
)

// NonLevelPrefix labels the aggregated "rest" row of a one-vs-rest table
const NonLevelPrefix = "Non-"

// Row is one labelled row of a contingency table
type Row struct {
	Label  string  `json:"label"`
	Counts []int64 `json:"counts"`
}

// Table cross-tabulates one level against all other levels over the outcome columns.
// Tables built from a dataset are always 2x2; other shapes are accepted by the tests.
type Table struct {
	Level    string   `json:"level"`
	Variable string   `json:"variable"` // categorical column header
	Outcomes []string `json:"outcomes"` // outcome column headers
	Rows     []Row    `json:"rows"`
}

// Shape returns (rows, columns) of the count matrix
func (t Table) Shape() (int, int) {
	if len(t.Rows) == 0 {
		return 0, 0
	}
	return len(t.Rows), len(t.Rows[0].Counts)
}

// Is2x2 reports whether the count matrix is exactly 2x2
func (t Table) Is2x2() bool {
	r, c := t.Shape()
	return r == 2 && c == 2
}

// Cell returns the observed count at row i, column j
func (t Table) Cell(i, j int) int64 {
	return t.Rows[i].Counts[j]
}

// RowSums returns the marginal total of every row
func (t Table) RowSums() []int64 {
	sums := make([]int64, len(t.Rows))
	for i, row := range t.Rows {
		for _, v := range row.Counts {
			sums[i] += v
		}
	}
	return sums
}

// ColSums returns the marginal total of every outcome column
func (t Table) ColSums() []int64 {
	_, cols := t.Shape()
	sums := make([]int64, cols)
	for _, row := range t.Rows {
		for j, v := range row.Counts {
			sums[j] += v
		}
	}
	return sums
}

// Total returns the grand total of the table
func (t Table) Total() int64 {
	var total int64
	for _, s := range t.RowSums() {
		total += s
	}
	return total
}

// CheckMargins returns ErrDegenerateTable when a row or column total is zero,
// which leaves the expected frequencies undefined.
func (t Table) CheckMargins() error {
	for i, s := range t.RowSums() {
		if s == 0 {
			return core.NewDegenerateTableError(t.Level, fmt.Sprintf("row %q sums to zero", t.Rows[i].Label))
		}
	}
	for j, s := range t.ColSums() {
		if s == 0 {
			name := fmt.Sprintf("#%d", j+1)
			if j < len(t.Outcomes) {
				name = t.Outcomes[j]
			}
			return core.NewDegenerateTableError(t.Level, fmt.Sprintf("column %q sums to zero", name))
		}
	}
	return nil
}

// Levels returns the distinct values of the categorical column in first-appearance order
func Levels(ds *dataset.Dataset, col int) ([]string, error) {
	seen := make(map[string]bool)
	var levels []string
	for i, v := range ds.Column(col) {
		if v == "" {
			return nil, fmt.Errorf("%w in column %q row %d", core.ErrEmptyLevel, ds.Headers[col], i+1)
		}
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	return levels, nil
}

// Input is the validated, parsed form of a dataset selection
type Input struct {
	Variable string
	Outcomes []string
	Labels   []string
	Counts   [][]int64 // Counts[j][row] for outcome column j
	Levels   []string
}

// Prepare validates the selected columns and parses the outcome counts.
// Every failure is a validation error; no table is built on failure.
func Prepare(ds *dataset.Dataset, sel dataset.Selection) (*Input, error) {
	resolved, err := sel.Resolve(ds)
	if err != nil {
		return nil, err
	}

	levels, err := Levels(ds, resolved.Categorical)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, fmt.Errorf("%w: column %q has %d", core.ErrInsufficientLevels, ds.Headers[resolved.Categorical], len(levels))
	}

	in := &Input{
		Variable: ds.Headers[resolved.Categorical],
		Labels:   ds.Column(resolved.Categorical),
		Levels:   levels,
	}
	for _, idx := range []int{resolved.Numeric1, resolved.Numeric2} {
		counts, err := ds.Counts(idx)
		if err != nil {
			return nil, err
		}
		in.Outcomes = append(in.Outcomes, ds.Headers[idx])
		in.Counts = append(in.Counts, counts)
	}
	if err := checkTotals(in.Outcomes, in.Counts); err != nil {
		return nil, err
	}
	return in, nil
}

// checkTotals rejects counts whose grand total does not fit in an int64.
// Counts are non-negative, so every row, column and table sum is then safe.
func checkTotals(outcomes []string, counts [][]int64) error {
	var grand int64
	for j, col := range counts {
		for _, v := range col {
			if v > math.MaxInt64-grand {
				return fmt.Errorf("%w: total of %v exceeds %d at column %q", core.ErrInvalidCount, outcomes, int64(math.MaxInt64), outcomes[j])
			}
			grand += v
		}
	}
	return nil
}

// Totals returns the dataset-wide total of every outcome column
func (in *Input) Totals() []int64 {
	totals := make([]int64, len(in.Counts))
	for j, col := range in.Counts {
		for _, v := range col {
			totals[j] += v
		}
	}
	return totals
}

// Build constructs the one-vs-rest table for a single level.
// Rows carrying the level are summed into row 1, all other rows into row 2.
func (in *Input) Build(level string) Table {
	in1 := make([]int64, len(in.Counts))
	rest := make([]int64, len(in.Counts))
	for r, label := range in.Labels {
		target := rest
		if label == level {
			target = in1
		}
		for j := range in.Counts {
			target[j] += in.Counts[j][r]
		}
	}

	return Table{
		Level:    level,
		Variable: in.Variable,
		Outcomes: append([]string(nil), in.Outcomes...),
		Rows: []Row{
			{Label: level, Counts: in1},
			{Label: NonLevelPrefix + level, Counts: rest},
		},
	}
}

// BuildAll constructs one table per level in first-appearance order
func (in *Input) BuildAll() []Table {
	tables := make([]Table, len(in.Levels))
	for i, level := range in.Levels {
		tables[i] = in.Build(level)
	}
	return tables
}

// BuildTables validates the selection and returns the ordered per-level tables
func BuildTables(ds *dataset.Dataset, sel dataset.Selection) ([]Table, error) {
	in, err := Prepare(ds, sel)
	if err != nil {
		return nil, err
	}
	return in.BuildAll(), nil
}
