package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
	"heartdash/internal"
	"heartdash/ports"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

var _ ports.DatasetSource = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger.WithComponent("DataReader")}
}

// Load reads the whole file into a table
func (r *DataReader) Load(ctx context.Context) (*dataset.Table, error) {
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s file not found: %s", core.ErrDatasetUnavailable, strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.processRows(rows)
}

// readExcelRows reads the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrDatasetUnavailable)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads CSV data
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
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows converts raw string rows into a table
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s must have a header row and one data row", core.ErrDatasetEmpty, r.filePath)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]dataset.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(dataset.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	return &dataset.Table{
		Name:     name,
		Source:   r.filePath,
		Headers:  headers,
		Rows:     dataRows,
		LoadedAt: time.Now(),
	}, nil
}
