package reference

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
)

func referenceTable() *dataset.Table {
	return &dataset.Table{
		Headers: []string{"id", "age", "sex", "cp", "chol", "fbs", "restecg", "thalch", "exang", "num"},
		Rows: []dataset.Row{
			{"id": "1", "age": "35", "sex": "Female", "cp": "atypical angina", "chol": "190", "fbs": "FALSE", "restecg": "normal", "thalch": "180", "exang": "FALSE", "num": "0"},
			{"id": "2", "age": "38", "sex": "Female", "cp": "non-anginal", "chol": "200", "fbs": "FALSE", "restecg": "normal", "thalch": "175", "exang": "FALSE", "num": "0"},
			{"id": "3", "age": "41", "sex": "Male", "cp": "atypical angina", "chol": "210", "fbs": "FALSE", "restecg": "normal", "thalch": "170", "exang": "FALSE", "num": "0"},
			{"id": "4", "age": "66", "sex": "Male", "cp": "asymptomatic", "chol": "290", "fbs": "TRUE", "restecg": "lv hypertrophy", "thalch": "110", "exang": "TRUE", "num": "2"},
			{"id": "5", "age": "69", "sex": "Male", "cp": "asymptomatic", "chol": "300", "fbs": "TRUE", "restecg": "st-t abnormality", "thalch": "105", "exang": "TRUE", "num": "3"},
			{"id": "6", "age": "64", "sex": "Male", "cp": "asymptomatic", "chol": "", "fbs": "FALSE", "restecg": "lv hypertrophy", "thalch": "115", "exang": "TRUE", "num": "2"},
			{"id": "7", "age": "50", "sex": "Male", "cp": "asymptomatic", "chol": "240", "fbs": "FALSE", "restecg": "normal", "thalch": "140", "exang": "FALSE", "num": ""},
		},
	}
}

func TestNewIndex(t *testing.T) {
	ix, err := NewIndex(referenceTable(), DefaultLabelColumn)
	require.NoError(t, err)
	assert.Equal(t, 6, ix.Len(), "unlabelled row is skipped")

	_, err = NewIndex(referenceTable(), "target")
	assert.Error(t, err)

	_, err = NewIndex(&dataset.Table{Headers: []string{"num"}, Rows: []dataset.Row{{"num": ""}}}, "num")
	assert.ErrorIs(t, err, core.ErrDatasetEmpty)
}

func TestPredict_MajorityOfNearest(t *testing.T) {
	ix, err := NewIndex(referenceTable(), DefaultLabelColumn)
	require.NoError(t, err)

	label, used, err := ix.Predict(map[string]float64{"age": 67, "sex": 1, "thalch": 108, "exang": 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, "2", label)
	assert.Equal(t, 3, used)

	label, _, err = ix.Predict(map[string]float64{"age": 36, "thalch": 178}, 3)
	require.NoError(t, err)
	assert.Equal(t, "0", label)
}

func TestPredict_SkipsRowsMissingQueriedFeatures(t *testing.T) {
	ix, err := NewIndex(referenceTable(), DefaultLabelColumn)
	require.NoError(t, err)

	_, used, err := ix.Predict(map[string]float64{"chol": 295}, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, used)
}

func TestPredict_TieBreaksOnLowestLabel(t *testing.T) {
	ix, err := NewIndex(referenceTable(), DefaultLabelColumn)
	require.NoError(t, err)

	// nearest two are 66 (num 2) and 69 (num 3), one vote each
	label, used, err := ix.Predict(map[string]float64{"age": 67}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, used)
	assert.Equal(t, "2", label)
}

func TestPredict_NoFeatures(t *testing.T) {
	ix, err := NewIndex(referenceTable(), DefaultLabelColumn)
	require.NoError(t, err)

	_, _, err = ix.Predict(map[string]float64{}, 3)
	assert.ErrorIs(t, err, ErrNoFeatures)
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"id":      {"12"},
		"dataset": {"Hungary"},
		"age":     {"54"},
		"sex":     {"1"},
		"fbs":     {"true"},
		"exang":   {"False"},
		"restecg": {"abnormal"},
		"chol":    {""},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"age":     54,
		"sex":     1,
		"fbs":     1,
		"exang":   0,
		"restecg": 1,
	}, q)

	_, err = ParseQuery(url.Values{"age": {"old"}})
	assert.Error(t, err)

	_, err = ParseQuery(url.Values{"restecg": {"lv hypertrophy"}})
	assert.Error(t, err)
}
