package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocontab/domain/dataset"
	"gocontab/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string // empty means the first sheet
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, sheet string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet, logger: logger}
}

// ReadDataset reads the file into a column-oriented dataset
func (r *DataReader) ReadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}

	ds := dataset.NewDataset(filepath.Base(r.filePath), rows[0], rows[1:])
	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), ds.NumColumns(), ds.NumRows())
	return ds, nil
}

// Headers returns only the header row, used to list the selectable columns
func (r *DataReader) Headers(ctx context.Context) ([]string, error) {
	ds, err := r.ReadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Headers, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets: %s", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return dropBlankRows(rows), nil
}

// readCSVRows reads CSV data; rows may have varying lengths
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return dropBlankRows(rows), nil
}

// dropBlankRows removes rows whose cells are all empty
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
