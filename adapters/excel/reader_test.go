package excel

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"heartdash/domain/core"
	"heartdash/internal"
)

const heartCSV = "\ufeffid,age,sex,dataset,cp,trestbps,chol,fbs,restecg,thalch,exang,oldpeak,slope,ca,thal,num\n" +
	"1,63,Male,Cleveland,typical angina,145,233,TRUE,lv hypertrophy,150,FALSE,2.3,downsloping,0,fixed defect,0\n" +
	"2,67,Male,Cleveland,asymptomatic,160,286,FALSE,lv hypertrophy,108,TRUE,1.5,flat,3,normal,2\n" +
	"3,37,Male,Cleveland,non-anginal,130,250,FALSE,normal,187,FALSE,3.5,downsloping,0,normal,0\n"

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError, io.Discard)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart_disease_uci.csv")
	require.NoError(t, os.WriteFile(path, []byte(heartCSV), 0o644))

	tbl, err := NewDataReader(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "heart_disease_uci", tbl.Name)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, "id", tbl.Headers[0])
	assert.Len(t, tbl.Headers, 16)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "typical angina", tbl.Rows[0]["cp"])
	assert.Equal(t, "2", tbl.Rows[1]["num"])
	assert.False(t, tbl.LoadedAt.IsZero())
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"id", "age", "chol"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, 63, 233}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{2, 67, 286}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := NewDataReader(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "age", "chol"}, tbl.Headers)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "286", tbl.Rows[1]["chol"])
	assert.True(t, tbl.IsNumeric("age"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"), quietLogger()).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrDatasetUnavailable)
}

func TestLoadHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,age\n"), 0o644))

	_, err := NewDataReader(path, quietLogger()).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrDatasetEmpty)
}

func TestLoadShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,age,chol\n1,63\n2,67,286,extra\n"), 0o644))

	tbl, err := NewDataReader(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", tbl.Rows[0]["chol"])
	assert.Equal(t, "286", tbl.Rows[1]["chol"])
	assert.Len(t, tbl.Rows[1], 3)
}
