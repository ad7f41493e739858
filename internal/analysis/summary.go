// Package analysis computes the tabular views of the display dataset.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
)

// Describe summarises every column of the table in header order
func Describe(t *dataset.Table) ([]dataset.ColumnSummary, error) {
	if t.Len() == 0 {
		return nil, core.ErrDatasetEmpty
	}
	out := make([]dataset.ColumnSummary, 0, len(t.Headers))
	for _, col := range t.Headers {
		var (
			s   dataset.ColumnSummary
			err error
		)
		if t.IsNumeric(col) {
			s, err = describeNumeric(t, col)
		} else {
			s, err = describeCategorical(t, col)
		}
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", col, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func describeNumeric(t *dataset.Table, col string) (dataset.ColumnSummary, error) {
	data, missing, err := t.Floats(col)
	if err != nil {
		return dataset.ColumnSummary{}, err
	}
	s := dataset.ColumnSummary{Name: col, Kind: dataset.KindNumeric, Count: len(data), Missing: missing}

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if len(data) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = quantile(0.25, sorted)
	s.Q75 = quantile(0.75, sorted)
	return s, nil
}

// quantile interpolates linearly between closest ranks, at position (n-1)p
// of the sorted data, the way pandas' describe() does. gonum's LinInterp
// places p at rank n·p, so p is shifted onto that scale first.
func quantile(p float64, sorted []float64) float64 {
	n := float64(len(sorted))
	return stat.Quantile(((n-1)*p+1)/n, stat.LinInterp, sorted, nil)
}

func describeCategorical(t *dataset.Table, col string) (dataset.ColumnSummary, error) {
	counts, missing, err := ValueCounts(t, col)
	if err != nil {
		return dataset.ColumnSummary{}, err
	}
	s := dataset.ColumnSummary{Name: col, Kind: dataset.KindCategorical, Missing: missing, Unique: len(counts)}
	for _, c := range counts {
		s.Count += c.Count
	}
	if len(counts) > 0 {
		s.Top = counts[0].Value
		s.TopFreq = counts[0].Count
	}
	return s, nil
}

// ValueCounts returns the frequency of each non-blank value of a column,
// most frequent first, and the number of blank cells
func ValueCounts(t *dataset.Table, col string) ([]dataset.ValueCount, int, error) {
	cells, err := t.Values(col)
	if err != nil {
		return nil, 0, err
	}
	freq := make(map[string]int)
	missing := 0
	for _, cell := range cells {
		if dataset.IsMissing(cell) {
			missing++
			continue
		}
		freq[cell]++
	}
	present := len(cells) - missing
	out := make([]dataset.ValueCount, 0, len(freq))
	for v, n := range freq {
		out = append(out, dataset.ValueCount{Value: v, Count: n, Share: float64(n) / float64(present)})
	}
	dataset.SortValueCounts(out)
	return out, missing, nil
}

// Correlate computes Pearson coefficients between the given numeric columns
// over pairwise complete rows. A pair with fewer than two complete rows, or
// with a constant side, gets NaN.
func Correlate(t *dataset.Table, cols []string) (dataset.CorrelationMatrix, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return dataset.CorrelationMatrix{}, core.NewColumnNotFoundError(c)
		}
		if !t.IsNumeric(c) {
			return dataset.CorrelationMatrix{}, core.NewNotNumericError(c)
		}
	}

	n := len(cols)
	m := dataset.CorrelationMatrix{
		Columns: cols,
		Values:  make([][]float64, n),
		Pairs:   make([][]int, n),
	}
	for i := range cols {
		m.Values[i] = make([]float64, n)
		m.Pairs[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := completePairs(t, cols[i], cols[j])
			r := math.NaN()
			if len(x) >= 2 && stat.Variance(x, nil) > 0 && stat.Variance(y, nil) > 0 {
				r = stat.Correlation(x, y, nil)
			}
			m.Values[i][j], m.Values[j][i] = r, r
			m.Pairs[i][j], m.Pairs[j][i] = len(x), len(x)
		}
	}
	return m, nil
}

func completePairs(t *dataset.Table, a, b string) ([]float64, []float64) {
	var x, y []float64
	for _, row := range t.Rows {
		va, okA := parseCell(row[a])
		vb, okB := parseCell(row[b])
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// Histogram bins a numeric column into equal-width bins spanning its range
func Histogram(t *dataset.Table, col string, bins int) ([]dataset.HistogramBin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	data, _, err := t.Floats(col)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s has no values", core.ErrDatasetEmpty, col)
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		bins = 1
	}

	dividers := make([]float64, bins+1)
	if lo == hi {
		dividers[0], dividers[1] = lo, lo
	} else {
		floats.Span(dividers, lo, hi)
	}
	// the top divider is exclusive, nudge it so the maximum lands in the last bin
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]dataset.HistogramBin, bins)
	for i := range out {
		out[i] = dataset.HistogramBin{Lower: dividers[i], Upper: dividers[i+1], Count: counts[i]}
	}
	return out, nil
}

func parseCell(cell string) (float64, bool) {
	if dataset.IsMissing(cell) {
		return 0, false
	}
	return dataset.ParseNumber(cell)
}
