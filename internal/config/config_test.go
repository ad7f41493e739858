package config

import (
	"testing"
	"time"

	"heartdash/domain/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"PORT", "GIN_MODE", "PREDICTION_API_URL", "PREDICTION_TIMEOUT", "PAYLOAD_MODE",
	"DATASET_FILE", "DATABASE_URL", "DATASET_TABLE", "LOG_LEVEL", "STUB_PORT", "STUB_NEIGHBOURS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "http://127.0.0.1:8000/predict", cfg.Prediction.URL)
	assert.Equal(t, time.Duration(0), cfg.Prediction.Timeout)
	assert.Equal(t, payload.ModeNullTolerant, cfg.Prediction.Mode)
	assert.Equal(t, "heart_disease_uci.csv", cfg.Data.File)
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, "8000", cfg.Stub.Port)
	assert.Equal(t, 5, cfg.Stub.Neighbours)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PAYLOAD_MODE", "strict")
	t.Setenv("PREDICTION_API_URL", "http://predict.internal:8000/predict")
	t.Setenv("PREDICTION_TIMEOUT", "2s")
	t.Setenv("DATABASE_URL", "postgres://localhost/heart?sslmode=disable")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STUB_NEIGHBOURS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, payload.ModeStrict, cfg.Prediction.Mode)
	assert.Equal(t, "http://predict.internal:8000/predict", cfg.Prediction.URL)
	assert.Equal(t, 2*time.Second, cfg.Prediction.Timeout)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "heart_disease_uci", cfg.Data.Table)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Stub.Neighbours)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown mode", "PAYLOAD_MODE", "lenient"},
		{"bad url", "PREDICTION_API_URL", "not a url"},
		{"non numeric port", "PORT", "http"},
		{"bad gin mode", "GIN_MODE", "verbose"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"no neighbours", "STUB_NEIGHBOURS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}
