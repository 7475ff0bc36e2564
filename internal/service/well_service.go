package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/repository"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
	"github.com/jengzang/geowell-backend-go/internal/thickness"
)

// Service errors mapped to HTTP status codes by the handlers
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoTrajectory    = errors.New("well has no trajectory")
)

// WellOptions configure mapping and segmentation of stored wells
type WellOptions struct {
	Mapping      spatial.Options
	Boundary     analysis.Boundary
	ResampleStep float64 // Default step of trajectory resampling, 0 returns stations
}

// WellService handles business logic for wells and their derived geometry
type WellService struct {
	wellRepo *repository.WellRepository
	trajRepo *repository.TrajectoryRepository
	lasRepo  *repository.LASRepository
	opts     WellOptions
}

// NewWellService creates a new well service
func NewWellService(
	wellRepo *repository.WellRepository,
	trajRepo *repository.TrajectoryRepository,
	lasRepo *repository.LASRepository,
	opts WellOptions,
) *WellService {
	if opts.Boundary == "" {
		opts.Boundary = analysis.BoundarySample
	}
	return &WellService{
		wellRepo: wellRepo,
		trajRepo: trajRepo,
		lasRepo:  lasRepo,
		opts:     opts,
	}
}

// List retrieves wells with filtering and pagination
func (s *WellService) List(ctx context.Context, filter models.WellFilter) (*models.WellsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	if err := validateRatioBounds(filter.MinRatio, filter.MaxRatio); err != nil {
		return nil, err
	}

	wells, total, err := s.wellRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get wells: %w", err)
	}

	return &models.WellsResponse{
		Data:       wells,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// Get retrieves a single well
func (s *WellService) Get(ctx context.Context, name string) (*models.Well, error) {
	return s.wellRepo.GetByName(ctx, name)
}

// Stats summarises collector ratios over all wells
func (s *WellService) Stats(ctx context.Context) (*models.RatioStats, error) {
	wells, err := s.wellRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get wells: %w", err)
	}
	stats := thickness.RatioStats(wells)
	return &stats, nil
}

// Trajectory returns the stations of a well, resampled every step of md
// when step is positive. A negative step selects the configured default.
func (s *WellService) Trajectory(ctx context.Context, name string, step float64) (*models.TrajectoryResponse, error) {
	points, err := s.trajRepo.GetByWell(ctx, name)
	if err != nil {
		return nil, err
	}

	resp := &models.TrajectoryResponse{
		Well:    name,
		Points:  points,
		Summary: spatial.Summarize(points),
	}
	if resp.Summary.Well == "" {
		resp.Summary.Well = name
	}

	if step < 0 {
		step = s.opts.ResampleStep
	}
	if step > 0 && len(points) > 0 {
		mapper, err := spatial.NewDepthMapper(points, s.opts.Mapping)
		if err != nil {
			return nil, fmt.Errorf("failed to build depth mapper: %w", err)
		}
		resampled, err := mapper.Resample(step)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		resp.Points = resampled
		resp.Resampled = true
		resp.Step = step
	}

	return resp, nil
}

// Map returns the 3D position of each measured depth
func (s *WellService) Map(ctx context.Context, name string, mds []float64) ([]models.DepthPoint, error) {
	if len(mds) == 0 {
		return nil, fmt.Errorf("%w: no measured depth given", ErrInvalidArgument)
	}

	mapper, err := s.mapper(ctx, name)
	if err != nil {
		return nil, err
	}

	out := make([]models.DepthPoint, len(mds))
	for i, md := range mds {
		p := mapper.Map(md)
		out[i] = models.DepthPoint{MD: md, Point: p.Point3(), OutOfRange: p.OutOfRange}
	}
	return out, nil
}

// Segments extracts the classified intervals of a well from its stored
// log samples and trajectory
func (s *WellService) Segments(ctx context.Context, name string, q models.SegmentQuery) (*models.SegmentsResponse, error) {
	boundary := s.opts.Boundary
	if q.Boundary != "" {
		b, err := analysis.ParseBoundary(q.Boundary)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		boundary = b
	}
	if q.MinDepth != nil && q.MaxDepth != nil && *q.MinDepth > *q.MaxDepth {
		return nil, fmt.Errorf("%w: minDepth exceeds maxDepth", ErrInvalidArgument)
	}

	series, err := s.lasRepo.GetByWell(ctx, name)
	if err != nil {
		return nil, err
	}
	mapper, err := s.mapper(ctx, name)
	if err != nil {
		return nil, err
	}

	result, err := analysis.NewSegmentExtractor(analysis.Options{Boundary: boundary}).
		Extract(analysis.Prepare(series, q.MinDepth, q.MaxDepth), mapper)
	if err != nil {
		return nil, fmt.Errorf("failed to extract segments: %w", err)
	}

	return &models.SegmentsResponse{
		Well:     name,
		Boundary: string(boundary),
		Segments: result.Segments,
		Summary:  analysis.Summarize(name, result.Segments),
		Warnings: result.Warnings,
	}, nil
}

func (s *WellService) mapper(ctx context.Context, name string) (*spatial.DepthMapper, error) {
	points, err := s.trajRepo.GetByWell(ctx, name)
	if err != nil {
		return nil, err
	}

	mapper, err := spatial.NewDepthMapper(points, s.opts.Mapping)
	if errors.Is(err, spatial.ErrEmptyTrajectory) {
		return nil, fmt.Errorf("%w: %s", ErrNoTrajectory, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build depth mapper: %w", err)
	}
	return mapper, nil
}

func validateRatioBounds(lo, hi *float64) error {
	if (lo != nil && *lo < 0) || (hi != nil && *hi < 0) {
		return fmt.Errorf("%w: negative ratio bound", ErrInvalidArgument)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%w: minRatio %g exceeds maxRatio %g", ErrInvalidArgument, *lo, *hi)
	}
	return nil
}
