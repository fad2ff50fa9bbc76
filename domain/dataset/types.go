package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gocontab/domain/core"
)

// Dataset is an ordered collection of named columns aligned by row index.
// Cells are kept as the raw text read from the source file.
type Dataset struct {
	Name    string     `json:"name,omitempty"`
	Headers []string   `json:"headers"`
	Columns [][]string `json:"columns"`
}

// NewDataset builds a column-oriented dataset from header and row-oriented records.
// Short rows are padded with empty cells.
func NewDataset(name string, headers []string, rows [][]string) *Dataset {
	ds := &Dataset{
		Name:    name,
		Headers: make([]string, len(headers)),
		Columns: make([][]string, len(headers)),
	}
	for i, h := range headers {
		ds.Headers[i] = strings.TrimSpace(h)
		ds.Columns[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		for c := range headers {
			if c < len(row) {
				ds.Columns[c][r] = strings.TrimSpace(row[c])
			}
		}
	}
	return ds
}

// NumColumns returns the number of columns
func (d *Dataset) NumColumns() int {
	return len(d.Headers)
}

// NumRows returns the number of data rows (header excluded)
func (d *Dataset) NumRows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0])
}

// Column returns the cells of the column at the 0-based index
func (d *Dataset) Column(idx int) []string {
	return d.Columns[idx]
}

// ColumnRef names a column either by 1-based position or by header text
type ColumnRef string

// Resolve maps the reference onto a 0-based column index
func (r ColumnRef) Resolve(d *Dataset) (int, error) {
	ref := strings.TrimSpace(string(r))
	if ref == "" {
		return 0, fmt.Errorf("%w: empty column reference", core.ErrUnknownColumn)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > d.NumColumns() {
			return 0, fmt.Errorf("%w: column %d not in 1..%d", core.ErrColumnOutOfRange, n, d.NumColumns())
		}
		return n - 1, nil
	}

	for i, h := range d.Headers {
		if h == ref {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnknownColumn, ref)
}

// Selection identifies the categorical column and the two outcome count columns
type Selection struct {
	Categorical ColumnRef `json:"categorical" yaml:"categorical"`
	Numeric1    ColumnRef `json:"numeric1" yaml:"numeric1"`
	Numeric2    ColumnRef `json:"numeric2" yaml:"numeric2"`
}

// ResolvedSelection holds the 0-based indexes of a validated Selection
type ResolvedSelection struct {
	Categorical int
	Numeric1    int
	Numeric2    int
}

// Resolve validates every reference of the selection against the dataset
func (s Selection) Resolve(d *Dataset) (ResolvedSelection, error) {
	var out ResolvedSelection
	var err error

	if out.Categorical, err = s.Categorical.Resolve(d); err != nil {
		return out, fmt.Errorf("categorical column: %w", err)
	}
	if out.Numeric1, err = s.Numeric1.Resolve(d); err != nil {
		return out, fmt.Errorf("numeric column 1: %w", err)
	}
	if out.Numeric2, err = s.Numeric2.Resolve(d); err != nil {
		return out, fmt.Errorf("numeric column 2: %w", err)
	}
	if out.Numeric1 == out.Categorical || out.Numeric2 == out.Categorical {
		return out, core.NewValidationError("selection", "numeric columns must differ from the categorical column")
	}
	return out, nil
}
