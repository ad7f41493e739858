package container

import (
	"context"
	"time"

	"heartdash/adapters/excel"
	"heartdash/adapters/postgres"
	"heartdash/adapters/predictapi"
	"heartdash/domain/dataset"
	"heartdash/internal"
	"heartdash/internal/config"
	"heartdash/internal/errors"
	"heartdash/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds the application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure, only set when the dataset lives in Postgres
	DB *sqlx.DB

	DatasetSource ports.DatasetSource
	Predictor     *predictapi.Client
}

// New creates a container with the prediction client ready. The dataset
// source is opened separately by InitDataSource.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	client, err := predictapi.NewClient(cfg.Prediction.URL, cfg.Prediction.Timeout, logger)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err, "failed to create prediction client")
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Predictor: client,
	}, nil
}

// InitDataSource selects the dataset source: the Postgres table when a
// database URL is configured, the dataset file otherwise
func (c *Container) InitDataSource(ctx context.Context) error {
	if !c.Config.UsesDatabase() {
		c.DatasetSource = excel.NewDataReader(c.Config.Data.File, c.Logger)
		c.Logger.Info("Using dataset file %s", c.Config.Data.File)
		return nil
	}

	db, err := postgres.Connect(ctx, c.Config.Data.DatabaseURL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err, "failed to open dataset source")
	}
	c.DB = db
	c.DatasetSource = postgres.NewDatasetRepository(db, c.Config.Data.Table, c.Logger)
	c.Logger.Info("Using dataset table %s", c.Config.Data.Table)
	return nil
}

// LoadDataset reads the display dataset once
func (c *Container) LoadDataset(ctx context.Context) (*dataset.Table, error) {
	if c.DatasetSource == nil {
		if err := c.InitDataSource(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	table, err := c.DatasetSource.Load(ctx)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatasetUnavailable, err, "failed to load dataset")
	}
	c.Logger.Info("Loaded %d rows x %d columns from %s in %v",
		table.Len(), len(table.Headers), table.Source, time.Since(start).Round(time.Millisecond))
	return table, nil
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
