// Command predictstub runs a local stand-in for the prediction service. It
// answers GET /predict with the majority disease level of the nearest rows
// of the dataset.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heartdash/internal"
	"heartdash/internal/config"
	"heartdash/internal/container"
	apperrors "heartdash/internal/errors"
	"heartdash/internal/reference"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := run(); err != nil {
		log.Fatalf("Prediction stub stopped [%s]: %v", apperrors.GetCode(err), err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return apperrors.Wrap(err, "failed to load configuration")
	}
	level, _ := internal.ParseLogLevel(cfg.Log.Level)
	logger := internal.NewLogger(level, os.Stderr).WithComponent("PredictStub")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(cfg, logger)
	if err != nil {
		return apperrors.Wrap(err, "failed to create application container")
	}
	defer appContainer.Shutdown(context.Background())

	var index *reference.Index
	if table, err := appContainer.LoadDataset(ctx); err != nil {
		logger.Warn("Dataset unavailable, /predict will answer 503: %v", err)
	} else if index, err = reference.NewIndex(table, reference.DefaultLabelColumn); err != nil {
		logger.Warn("Cannot index dataset: %v", err)
	} else {
		logger.Info("Indexed %d labelled rows, k=%d", index.Len(), cfg.Stub.Neighbours)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Stub.Port,
		Handler:           reference.NewService(index, cfg.Stub.Neighbours, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening on http://127.0.0.1:%s/predict", cfg.Stub.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return apperrors.Wrap(g.Wait(), "server error")
}
