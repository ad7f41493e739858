package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
	"heartdash/internal"
	"heartdash/ports"
)

// Connect opens and pings a Postgres connection
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// datasetRepository reads the display dataset from a single table
type datasetRepository struct {
	db     *sqlx.DB
	table  string
	logger *internal.Logger
}

// NewDatasetRepository creates a dataset source backed by table
func NewDatasetRepository(db *sqlx.DB, table string, logger *internal.Logger) ports.DatasetSource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &datasetRepository{db: db, table: table, logger: logger.WithComponent("DatasetRepository")}
}

// Load reads every row of the table, keeping the table's column order
func (r *datasetRepository) Load(ctx context.Context) (*dataset.Table, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(r.table))

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", core.ErrDatasetUnavailable, r.table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", r.table, err)
	}

	var data []dataset.Row
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		data = append(data, toRow(headers, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", r.table, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: table %s", core.ErrDatasetEmpty, r.table)
	}

	r.logger.Info("Loaded %d rows, %d columns from %s", len(data), len(headers), r.table)

	return &dataset.Table{
		Name:     r.table,
		Source:   "postgres:" + r.table,
		Headers:  headers,
		Rows:     data,
		LoadedAt: time.Now(),
	}, nil
}

func toRow(headers []string, values []interface{}) dataset.Row {
	row := make(dataset.Row, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = formatCell(values[i])
		}
	}
	return row
}

// formatCell renders a driver value the way the CSV export spells it
func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
