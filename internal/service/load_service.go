package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/geowell-backend-go/internal/ingest"
	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/repository"
)

// minSuccessRate is the share of saved records a load needs to count as successful
const minSuccessRate = 50.0

// PersistOptions bound the bulk writes of a load
type PersistOptions struct {
	Concurrency int // Parallel per-well writes, usually the pool size
	Retries     int // Extra attempts per well after a failed write
}

// LoadService runs loads and persists their results
type LoadService struct {
	loader   *ingest.Loader
	wellRepo *repository.WellRepository
	trajRepo *repository.TrajectoryRepository
	lasRepo  *repository.LASRepository
	opts     PersistOptions
	logger   *zap.Logger

	mu   sync.RWMutex
	last *models.LoadSummary
}

// NewLoadService creates a new load service
func NewLoadService(
	loader *ingest.Loader,
	wellRepo *repository.WellRepository,
	trajRepo *repository.TrajectoryRepository,
	lasRepo *repository.LASRepository,
	opts PersistOptions,
	logger *zap.Logger,
) *LoadService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadService{
		loader:   loader,
		wellRepo: wellRepo,
		trajRepo: trajRepo,
		lasRepo:  lasRepo,
		opts:     opts,
		logger:   logger,
	}
}

// Run loads every configured source and persists the result. Only the
// summary of the latest run is retained.
func (s *LoadService) Run(ctx context.Context) (*models.LoadSummary, error) {
	bundle := s.loader.Load()

	summary, err := s.Persist(ctx, bundle)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = &summary
	s.mu.Unlock()

	return &summary, nil
}

// Last returns the summary of the most recent run
func (s *LoadService) Last() (*models.LoadSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil, false
	}
	summary := *s.last
	return &summary, true
}

// Persist writes wells, then trajectories, then log samples. Each well is
// an independent upsert, a failure costs only that record. An error is
// returned only when ctx is cancelled.
func (s *LoadService) Persist(ctx context.Context, b *ingest.Bundle) (models.LoadSummary, error) {
	summary := b.Summary
	summary.Warnings = append([]models.Warning(nil), b.Summary.Warnings...)
	log := s.logger.With(zap.String("load_id", b.LoadID))

	var failed int64
	var warnMu sync.Mutex
	fail := func(well, stage string, err error) {
		atomic.AddInt64(&failed, 1)
		log.Warn("Failed to save record", zap.String("well", well), zap.String("stage", stage), zap.Error(err))
		warnMu.Lock()
		summary.Warnings = append(summary.Warnings, models.Warning{
			Well:    well,
			Message: fmt.Sprintf("failed to save %s: %v", stage, err),
		})
		warnMu.Unlock()
	}

	// Wells
	var wellsSaved int64
	err := s.forEach(ctx, b.Wells.Names(), func(ctx context.Context, name string) error {
		w, _ := b.Wells.Get(name)
		_, err := s.wellRepo.Upsert(ctx, w)
		return err
	}, func(name string, err error) {
		if err != nil {
			fail(name, "well", err)
			return
		}
		atomic.AddInt64(&wellsSaved, 1)
	})
	if err != nil {
		return summary, err
	}

	// Trajectories, may create wells missing from the thickness tables
	var trajSaved int64
	err = s.forEach(ctx, b.TrajectoryNames(), func(ctx context.Context, name string) error {
		_, err := s.trajRepo.Replace(ctx, name, b.Trajectories[name])
		return err
	}, func(name string, err error) {
		if err != nil {
			fail(name, "trajectory", err)
			return
		}
		atomic.AddInt64(&trajSaved, 1)
	})
	if err != nil {
		return summary, err
	}

	// Log samples, the well must exist by now
	var logsSaved int64
	err = s.forEach(ctx, b.LogNames(), func(ctx context.Context, name string) error {
		_, err := s.lasRepo.Replace(ctx, b.Logs[name])
		return err
	}, func(name string, err error) {
		if err != nil {
			fail(name, "log samples", err)
			return
		}
		atomic.AddInt64(&logsSaved, 1)
	})
	if err != nil {
		return summary, err
	}

	summary.Persisted = true
	summary.WellsSaved = int(wellsSaved)
	summary.TrajectoriesSaved = int(trajSaved)
	summary.LogSeriesSaved = int(logsSaved)
	summary.Failed = int(failed)
	summary.SuccessRatePercent = SuccessRate(summary)
	summary.Succeeded = summary.SuccessRatePercent >= minSuccessRate
	summary.FinishedAt = time.Now()

	log.Info("Load persisted",
		zap.String("wells", fmt.Sprintf("%d/%d", summary.WellsSaved, summary.Wells)),
		zap.String("trajectories", fmt.Sprintf("%d/%d", summary.TrajectoriesSaved, summary.Trajectories)),
		zap.String("log_series", fmt.Sprintf("%d/%d", summary.LogSeriesSaved, summary.LogSeries)),
		zap.Float64("success_rate", summary.SuccessRatePercent))

	return summary, nil
}

// SuccessRate returns saved records as a percentage of expected ones,
// 0 when nothing was expected
func SuccessRate(s models.LoadSummary) float64 {
	expected := s.Wells + s.Trajectories + s.LogSeries
	if expected == 0 {
		return 0
	}
	saved := s.WellsSaved + s.TrajectoriesSaved + s.LogSeriesSaved
	return float64(saved) / float64(expected) * 100
}

// forEach runs write for every name with bounded parallelism and retries,
// reporting each outcome through done
func (s *LoadService) forEach(
	ctx context.Context,
	names []string,
	write func(context.Context, string) error,
	done func(string, error),
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, name := range names {
		name := name
		g.Go(func() error {
			err := s.retry(gctx, func() error { return write(gctx, name) })
			if gctx.Err() != nil {
				return gctx.Err()
			}
			done(name, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load persistence interrupted: %w", err)
	}
	return nil
}

func (s *LoadService) retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || errors.Is(err, repository.ErrWellNotFound) || attempt >= s.opts.Retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
}
