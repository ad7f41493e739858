package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"heartdash/domain/core"
)

// Row represents one dataset record as column name to raw cell text
type Row map[string]string

// Table is the dataset loaded once at startup for display. It is never
// modified after loading.
type Table struct {
	Name     string
	Source   string
	Headers  []string
	Rows     []Row
	LoadedAt time.Time
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Values returns the raw cells of a column in row order
func (t *Table) Values(column string) ([]string, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[column]
	}
	return out, nil
}

// Floats parses a numeric column. Blank cells are skipped and counted as
// missing; any other unparsable cell makes the column non-numeric.
func (t *Table) Floats(column string) ([]float64, int, error) {
	cells, err := t.Values(column)
	if err != nil {
		return nil, 0, err
	}
	out := make([]float64, 0, len(cells))
	missing := 0
	for _, cell := range cells {
		if IsMissing(cell) {
			missing++
			continue
		}
		v, ok := ParseNumber(cell)
		if !ok {
			return nil, 0, core.NewNotNumericError(column)
		}
		out = append(out, v)
	}
	return out, missing, nil
}

// IsNumeric reports whether every non-blank cell of the column parses as a
// number and at least one does
func (t *Table) IsNumeric(column string) bool {
	vals, _, err := t.Floats(column)
	return err == nil && len(vals) > 0
}

// NumericColumns returns the numeric columns in header order
func (t *Table) NumericColumns() []string {
	var cols []string
	for _, h := range t.Headers {
		if t.IsNumeric(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// Head returns up to n leading rows
func (t *Table) Head(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// IsMissing reports whether a cell holds no value
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

// ParseNumber parses a cell as a finite number, ignoring surrounding spaces
func ParseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ColumnKind is the inferred kind of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// ColumnSummary describes one column, in the manner of a describe() table.
// Numeric fields are zero for categorical columns and the reverse.
type ColumnSummary struct {
	Name    string
	Kind    ColumnKind
	Count   int
	Missing int

	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64

	Unique  int
	Top     string
	TopFreq int
}

// MissingRate returns the share of blank cells
func (s ColumnSummary) MissingRate() float64 {
	total := s.Count + s.Missing
	if total == 0 {
		return 0
	}
	return float64(s.Missing) / float64(total)
}

// CorrelationMatrix holds pairwise Pearson coefficients for numeric columns
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
	Pairs   [][]int // complete observations behind each coefficient
}

// HistogramBin is one bin of a numeric distribution, [Lower, Upper)
type HistogramBin struct {
	Lower float64
	Upper float64
	Count float64
}

// ValueCount is the frequency of one category
type ValueCount struct {
	Value string
	Count int
	Share float64
}

// SortValueCounts orders by descending count, then value
func SortValueCounts(vc []ValueCount) {
	sort.Slice(vc, func(i, j int) bool {
		if vc[i].Count != vc[j].Count {
			return vc[i].Count > vc[j].Count
		}
		return vc[i].Value < vc[j].Value
	})
}
