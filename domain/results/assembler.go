package results

import (
	"gocontab/domain/contingency"
	"gocontab/domain/stats"
)

// Column identifies one column of the results table
type Column string

const (
	ColumnLevel     Column = "level"
	ColumnTest      Column = "Test"
	ColumnPValue    Column = "p-value"
	ColumnAdjusted  Column = "Adjusted p-value"
	ColumnChiSquare Column = "Chi square"
	ColumnDF        Column = "df"
	ColumnSignif    Column = "Signif"
	ColumnConfInt   Column = "conf_int"
	ColumnOddsRatio Column = "odds_ratio"
)

// ResultsTable holds one corrected outcome per level, in level order, together
// with a column schema fixed from the test kinds present across all rows.
type ResultsTable struct {
	Variable string                   `json:"variable"`
	Columns  []Column                 `json:"columns"`
	Rows     []stats.CorrectedOutcome `json:"rows"`
}

// Schema returns the column set for a collection of outcomes.
// Chi-square columns appear when any row used the chi-square test and the
// exact-test columns when any row used the exact test.
func Schema(rows []stats.CorrectedOutcome) []Column {
	hasChi, hasExact := false, false
	for _, r := range rows {
		switch r.Kind {
		case stats.TestChiSquare:
			hasChi = true
		case stats.TestExact:
			hasExact = true
		}
	}

	cols := []Column{ColumnLevel, ColumnTest, ColumnPValue, ColumnAdjusted}
	if hasChi {
		cols = append(cols, ColumnChiSquare, ColumnDF)
	}
	cols = append(cols, ColumnSignif)
	if hasExact {
		cols = append(cols, ColumnConfInt, ColumnOddsRatio)
	}
	return cols
}

// Assemble builds the results table; variable names the level column
func Assemble(variable string, rows []stats.CorrectedOutcome) ResultsTable {
	return ResultsTable{
		Variable: variable,
		Columns:  Schema(rows),
		Rows:     rows,
	}
}

// Header returns the printable column names
func (t ResultsTable) Header() []string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if c == ColumnLevel {
			header[i] = t.Variable
			continue
		}
		header[i] = string(c)
	}
	return header
}

// Has reports whether the schema contains the column
func (t ResultsTable) Has(col Column) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Values returns the cells of every row following the schema.
// Cells of the other test kind, and the confidence interval, are nil.
func (t ResultsTable) Values() [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = cell(r, c)
		}
		out[i] = row
	}
	return out
}

func cell(r stats.CorrectedOutcome, c Column) any {
	switch c {
	case ColumnLevel:
		return r.Level
	case ColumnTest:
		return string(r.Kind)
	case ColumnPValue:
		return r.PValue
	case ColumnAdjusted:
		return r.AdjustedPValue
	case ColumnSignif:
		return string(r.SignificanceCode)
	case ColumnChiSquare:
		if r.ChiSquare != nil {
			return r.ChiSquare.Statistic
		}
	case ColumnDF:
		if r.ChiSquare != nil {
			return r.ChiSquare.DegreesOfFreedom
		}
	case ColumnOddsRatio:
		if r.Exact != nil {
			return r.Exact.OddsRatio
		}
	case ColumnConfInt:
		if r.Exact != nil && r.Exact.ConfidenceInterval != nil {
			return *r.Exact.ConfidenceInterval
		}
	}
	return nil
}

// CombinedTable is every contingency table stacked with a blank row between tables
type CombinedTable struct {
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// Combine stacks the tables in order, inserting one blank separator row
// of matching width between consecutive tables.
func Combine(variable string, outcomes []string, tables []contingency.Table) CombinedTable {
	header := append([]string{variable}, outcomes...)
	combined := CombinedTable{Header: header}

	for i, tbl := range tables {
		if i > 0 {
			blank := make([]any, len(header))
			for j := range blank {
				blank[j] = ""
			}
			combined.Rows = append(combined.Rows, blank)
		}
		for _, row := range tbl.Rows {
			cells := make([]any, 0, len(header))
			cells = append(cells, row.Label)
			for _, v := range row.Counts {
				cells = append(cells, v)
			}
			combined.Rows = append(combined.Rows, cells)
		}
	}
	return combined
}
