package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/api"
	"github.com/jengzang/geowell-backend-go/internal/database"
	"github.com/jengzang/geowell-backend-go/internal/handler"
	"github.com/jengzang/geowell-backend-go/internal/ingest"
	"github.com/jengzang/geowell-backend-go/internal/repository"
	"github.com/jengzang/geowell-backend-go/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		loads, wells, err := newServices(db)
		if err != nil {
			return err
		}

		gin.SetMode(cfg.Server.Mode)
		router := api.SetupRouter(cfg, api.Handlers{
			Loads: handler.NewLoadHandler(loads),
			Wells: handler.NewWellHandler(wells),
		}, logger)

		srv := &http.Server{Addr: cfg.Server.Port, Handler: router}
		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", zap.String("addr", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	},
}

func openDatabase(ctx context.Context) (*sql.DB, error) {
	return database.Open(ctx, database.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.BusyTimeout(),
	}, logger)
}

func newServices(db *sql.DB) (*service.LoadService, *service.WellService, error) {
	opts, err := ingest.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	boundary, err := analysis.ParseBoundary(cfg.Segmentation.Boundary)
	if err != nil {
		return nil, nil, err
	}

	wellRepo := repository.NewWellRepository(db)
	trajRepo := repository.NewTrajectoryRepository(db)
	lasRepo := repository.NewLASRepository(db)

	loads := service.NewLoadService(
		ingest.NewLoader(opts, logger),
		wellRepo, trajRepo, lasRepo,
		service.PersistOptions{
			Concurrency: cfg.Database.MaxOpenConns,
			Retries:     cfg.Database.WriteRetries,
		},
		logger,
	)
	wells := service.NewWellService(wellRepo, trajRepo, lasRepo, service.WellOptions{
		Mapping:      opts.Mapping,
		Boundary:     boundary,
		ResampleStep: cfg.Mapping.ResampleStep,
	})
	return loads, wells, nil
}
