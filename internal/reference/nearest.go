// Package reference answers prediction queries from the display dataset by
// majority vote over the nearest rows. It backs the local stand-in for the
// prediction service.
package reference

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
	"heartdash/domain/payload"
)

var (
	ErrNoFeatures   = errors.New("query has no usable features")
	ErrNoNeighbours = errors.New("no dataset row has the queried features")
)

// Features are the columns used for distance, in a fixed order
var Features = []string{
	payload.FieldAge, payload.FieldSex, payload.FieldCP, payload.FieldTrestbps,
	payload.FieldChol, payload.FieldFbs, payload.FieldRestECG, payload.FieldThalch,
	payload.FieldExang, payload.FieldOldpeak,
}

// DefaultLabelColumn holds the disease level in the UCI dataset
const DefaultLabelColumn = "num"

var chestPainCodes = map[string]float64{
	"typical angina":  1,
	"atypical angina": 2,
	"non-anginal":     3,
	"asymptomatic":    4,
}

// Index holds the encoded dataset. NaN marks a missing feature.
type Index struct {
	rows   [][]float64
	labels []string
	mean   []float64
	scale  []float64
}

// NewIndex encodes every row of t that has a label
func NewIndex(t *dataset.Table, labelColumn string) (*Index, error) {
	if !t.HasColumn(labelColumn) {
		return nil, fmt.Errorf("label column %q not in dataset", labelColumn)
	}
	ix := &Index{}
	for _, row := range t.Rows {
		label := row[labelColumn]
		if dataset.IsMissing(label) {
			continue
		}
		vec := make([]float64, len(Features))
		for i, f := range Features {
			vec[i] = encodeCell(f, row[f])
		}
		ix.rows = append(ix.rows, vec)
		ix.labels = append(ix.labels, label)
	}
	if len(ix.rows) == 0 {
		return nil, fmt.Errorf("%w: no labelled rows", core.ErrDatasetEmpty)
	}

	ix.mean = make([]float64, len(Features))
	ix.scale = make([]float64, len(Features))
	for i := range Features {
		var col []float64
		for _, vec := range ix.rows {
			if !math.IsNaN(vec[i]) {
				col = append(col, vec[i])
			}
		}
		ix.mean[i], ix.scale[i] = 0, 1
		if len(col) > 1 {
			m, sd := stat.MeanStdDev(col, nil)
			ix.mean[i] = m
			if sd > 0 {
				ix.scale[i] = sd
			}
		}
	}
	return ix, nil
}

// Len returns the number of labelled rows
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Predict returns the majority label among the k nearest rows over the
// features present in query, and how many neighbours voted.
func (ix *Index) Predict(query map[string]float64, k int) (string, int, error) {
	var cols []int
	for i, f := range Features {
		if _, ok := query[f]; ok {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return "", 0, ErrNoFeatures
	}
	if k < 1 {
		k = 1
	}

	q := make([]float64, len(cols))
	for j, i := range cols {
		q[j] = (query[Features[i]] - ix.mean[i]) / ix.scale[i]
	}

	type neighbour struct {
		dist  float64
		label string
	}
	var found []neighbour
	vec := make([]float64, len(cols))
rows:
	for r, row := range ix.rows {
		for j, i := range cols {
			if math.IsNaN(row[i]) {
				continue rows
			}
			vec[j] = (row[i] - ix.mean[i]) / ix.scale[i]
		}
		found = append(found, neighbour{dist: floats.Distance(q, vec, 2), label: ix.labels[r]})
	}
	if len(found) == 0 {
		return "", 0, ErrNoNeighbours
	}

	sort.SliceStable(found, func(a, b int) bool { return found[a].dist < found[b].dist })
	if k > len(found) {
		k = len(found)
	}

	votes := make(map[string]int)
	for _, n := range found[:k] {
		votes[n.label]++
	}
	best, bestVotes := "", -1
	for label, v := range votes {
		if v > bestVotes || (v == bestVotes && labelLess(label, best)) {
			best, bestVotes = label, v
		}
	}
	return best, k, nil
}

// ParseQuery reads the features of a prediction request. Parameters that are
// not features, like id and dataset, are ignored.
func ParseQuery(values url.Values) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, f := range Features {
		raw := strings.TrimSpace(values.Get(f))
		if raw == "" {
			continue
		}
		v, err := encodeQuery(f, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", f, raw, err)
		}
		out[f] = v
	}
	return out, nil
}

// encodeCell maps a dataset cell to a number, NaN when missing or unknown
func encodeCell(feature, cell string) float64 {
	cell = strings.TrimSpace(cell)
	if dataset.IsMissing(cell) {
		return math.NaN()
	}
	switch feature {
	case payload.FieldSex:
		switch strings.ToLower(cell) {
		case "male", "1":
			return 1
		case "female", "0":
			return 0
		}
		return math.NaN()
	case payload.FieldCP:
		if v, ok := chestPainCodes[strings.ToLower(cell)]; ok {
			return v
		}
	case payload.FieldFbs, payload.FieldExang:
		if b, err := strconv.ParseBool(cell); err == nil {
			return boolCode(b)
		}
		return math.NaN()
	case payload.FieldRestECG:
		if strings.EqualFold(cell, "normal") {
			return 0
		}
		return 1
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// encodeQuery maps a query parameter in the form's encoding to a number
func encodeQuery(feature, raw string) (float64, error) {
	switch feature {
	case payload.FieldFbs, payload.FieldExang:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, err
		}
		return boolCode(b), nil
	case payload.FieldRestECG:
		switch strings.ToLower(raw) {
		case "normal":
			return 0, nil
		case "abnormal":
			return 1, nil
		}
		return 0, errors.New("expected normal or abnormal")
	}
	return strconv.ParseFloat(raw, 64)
}

func boolCode(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// labelLess orders labels numerically when both are numbers
func labelLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}
