package excel

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"gocontab/domain/results"
	"gocontab/domain/stats"
	"gocontab/internal"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the two output workbooks
const (
	ResultsSheet     = "Results"
	ContingencySheet = "Contingency_Tables"
)

// columnPadding is added to the widest cell of a column
const columnPadding = 2

// WorkbookWriter persists results and contingency tables as xlsx workbooks
type WorkbookWriter struct {
	logger *internal.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *internal.Logger) *WorkbookWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WorkbookWriter{logger: logger}
}

// WriteResults writes the results table to the "Results" sheet of path
func (w *WorkbookWriter) WriteResults(ctx context.Context, path string, table results.ResultsTable) error {
	return w.writeSheet(ctx, path, ResultsSheet, table.Header(), table.Values())
}

// WriteContingency writes the stacked contingency tables to the "Contingency_Tables" sheet of path
func (w *WorkbookWriter) WriteContingency(ctx context.Context, path string, table results.CombinedTable) error {
	return w.writeSheet(ctx, path, ContingencySheet, table.Header, table.Rows)
}

func (w *WorkbookWriter) writeSheet(ctx context.Context, path, sheet string, header []string, rows [][]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	widths := make([]int, len(header))
	headerRow := make([]any, len(header))
	for j, h := range header {
		headerRow[j] = h
		widths[j] = utf8.RuneCountInString(h)
	}
	if err := setRow(f, sheet, 1, headerRow); err != nil {
		return err
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
			if j < len(widths) {
				widths[j] = max(widths[j], utf8.RuneCountInString(cellText(v)))
			}
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	for j, width := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(width+columnPadding)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	w.logger.Info("[WorkbookWriter] wrote sheet %q (%d rows) to %s", sheet, len(rows), path)
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}

// cellValue converts values Excel cannot store as numbers into text
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if text, ok := stats.NonFiniteText(x); ok {
			return text
		}
	}
	return v
}

// cellText is the textual form used to size columns
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if text, ok := stats.NonFiniteText(x); ok {
			return text
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
