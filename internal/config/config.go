package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"heartdash/domain/payload"
)

// ErrConfigInvalid is wrapped by every validation failure returned from Load
var ErrConfigInvalid = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `validate:"required"`
	Prediction PredictionConfig `validate:"required"`
	Data       DataConfig       `validate:"required"`
	Log        LogConfig
	Stub       StubConfig `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// PredictionConfig holds the prediction service settings
type PredictionConfig struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"`
	Mode    payload.Mode  `validate:"oneof=strict null-tolerant"`
}

// DataConfig holds the dataset source settings. DatabaseURL wins over File.
type DataConfig struct {
	File        string `validate:"required_without=DatabaseURL"`
	DatabaseURL string
	Table       string `validate:"required_with=DatabaseURL"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// StubConfig holds the reference prediction service settings
type StubConfig struct {
	Port       string `validate:"required,numeric"`
	Neighbours int    `validate:"gte=1"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	mode, err := payload.ParseMode(os.Getenv("PAYLOAD_MODE"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Prediction: PredictionConfig{
			URL:     getEnvOrDefault("PREDICTION_API_URL", "http://127.0.0.1:8000/predict"),
			Timeout: getEnvDurationOrDefault("PREDICTION_TIMEOUT", 0),
			Mode:    mode,
		},
		Data: DataConfig{
			File:        getEnvOrDefault("DATASET_FILE", "heart_disease_uci.csv"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Table:       getEnvOrDefault("DATASET_TABLE", "heart_disease_uci"),
		},
		Log: LogConfig{
			Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		},
		Stub: StubConfig{
			Port:       getEnvOrDefault("STUB_PORT", "8000"),
			Neighbours: getEnvIntOrDefault("STUB_NEIGHBOURS", 5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// UsesDatabase reports whether the dataset is read from Postgres
func (c *Config) UsesDatabase() bool {
	return c.Data.DatabaseURL != ""
}

func validateConfig(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
