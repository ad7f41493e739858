package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heartdash/internal"
	"heartdash/internal/config"
	"heartdash/internal/container"
	"heartdash/internal/errors"
	"heartdash/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := run(); err != nil {
		log.Fatalf("Dashboard stopped [%s]: %v", errors.GetCode(err), err)
	}
}

// run owns every deferred cleanup, so main only exits once they have run.
func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	level, _ := internal.ParseLogLevel(appConfig.Log.Level)
	logger := internal.NewLogger(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create application container")
	}
	defer appContainer.Shutdown(context.Background())

	// The analysis pages need the dataset; prediction does not. A load
	// failure is reported on those pages instead of stopping the dashboard.
	table, datasetErr := appContainer.LoadDataset(ctx)
	if datasetErr != nil {
		logger.Warn("Dataset unavailable [%s], analysis pages disabled: %v", errors.GetCode(datasetErr), datasetErr)
	}

	server, err := ui.NewServer(ui.Options{
		Predictor:  appContainer.Predictor,
		Mode:       appConfig.Prediction.Mode,
		Endpoint:   appContainer.Predictor.Endpoint(),
		Dataset:    table,
		DatasetErr: datasetErr,
		Logger:     logger,
		GinMode:    appConfig.Server.GinMode,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	logger.Info("Prediction endpoint %s, payload mode %s", appContainer.Predictor.Endpoint(), appConfig.Prediction.Mode)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(":" + appConfig.Server.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down dashboard")
		return server.Shutdown(shutdownCtx)
	})

	return errors.Wrap(g.Wait(), "server error")
}
