package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSentinels(t *testing.T) {
	in := SentinelInput{
		ID:       4,
		Age:      0,
		Dataset:  "",
		Trestbps: 130,
		Chol:     0,
		Fbs:      true,
		Thalch:   0,
		Oldpeak:  0,
		CP:       ChestPainOf(3),
	}

	out := FromSentinels(in)

	assert.Equal(t, int64(4), out.ID)
	assert.Nil(t, out.Age)
	assert.Nil(t, out.Dataset)
	assert.Nil(t, out.Chol)
	assert.Nil(t, out.Thalch)
	assert.Nil(t, out.Oldpeak)
	assert.Nil(t, out.Sex)
	assert.Nil(t, out.RestECG)
	require.NotNil(t, out.Trestbps)
	assert.Equal(t, 130.0, *out.Trestbps)
	require.NotNil(t, out.CP)
	assert.Equal(t, ChestPain(3), *out.CP)
	assert.True(t, out.Fbs)
	assert.False(t, out.Exang)
}

func TestParseSex(t *testing.T) {
	s, err := ParseSex("1")
	require.NoError(t, err)
	assert.Equal(t, SexMale, s)
	assert.Equal(t, "Homme", s.Label())

	s, err = ParseSex(" 0 ")
	require.NoError(t, err)
	assert.Equal(t, SexFemale, s)
	assert.Equal(t, "Femme", s.Label())

	_, err = ParseSex("2")
	assert.Error(t, err)
}

func TestParseRestECG(t *testing.T) {
	r, err := ParseRestECG("abnormal")
	require.NoError(t, err)
	assert.Equal(t, RestECGAbnormal, r)

	_, err = ParseRestECG("lv hypertrophy")
	assert.Error(t, err)
}

func TestChestPainValid(t *testing.T) {
	for _, cp := range ChestPainTypes {
		assert.True(t, cp.Valid(), "cp %d", cp)
	}
	assert.False(t, ChestPain(0).Valid())
	assert.False(t, ChestPain(5).Valid())
}
