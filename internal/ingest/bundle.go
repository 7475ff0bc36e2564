package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
	"github.com/jengzang/geowell-backend-go/internal/thickness"
)

// Lookup errors
var (
	ErrNoTrajectory = errors.New("ingest: well has no trajectory")
	ErrNoLog        = errors.New("ingest: well has no log series")
)

// Bundle is the immutable result of one load. Callers must not modify
// the maps or slices it exposes.
type Bundle struct {
	LoadID   string
	LoadedAt time.Time

	Wells        *thickness.Table
	Trajectories map[string][]models.TrajectoryPoint
	Logs         map[string]models.LogSeries
	Summary      models.LoadSummary

	trajectoryOrder []string
	logOrder        []string
	mappers         map[string]*spatial.DepthMapper
	segmentation    analysis.Options
}

// TrajectoryNames returns the wells with a trajectory in file order
func (b *Bundle) TrajectoryNames() []string {
	return append([]string(nil), b.trajectoryOrder...)
}

// LogNames returns the wells with a log series sorted by name
func (b *Bundle) LogNames() []string {
	return append([]string(nil), b.logOrder...)
}

// Mapper returns the depth mapper built for a well
func (b *Bundle) Mapper(well string) (*spatial.DepthMapper, error) {
	m, ok := b.mappers[well]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTrajectory, well)
	}
	return m, nil
}

// Segments extracts the segments of one well. A zero boundary uses the
// load's configured mode; nil depth bounds are open.
func (b *Bundle) Segments(well string, boundary analysis.Boundary, minDepth, maxDepth *float64) (analysis.Result, models.SegmentSummary, error) {
	series, ok := b.Logs[well]
	if !ok {
		return analysis.Result{}, models.SegmentSummary{}, fmt.Errorf("%w: %s", ErrNoLog, well)
	}
	mapper, err := b.Mapper(well)
	if err != nil {
		return analysis.Result{}, models.SegmentSummary{}, err
	}

	opts := b.segmentation
	if boundary != "" {
		opts.Boundary = boundary
	}
	result, err := analysis.NewSegmentExtractor(opts).Extract(analysis.Prepare(series, minDepth, maxDepth), mapper)
	if err != nil {
		return analysis.Result{}, models.SegmentSummary{}, fmt.Errorf("failed to extract segments for %s: %w", well, err)
	}
	return result, analysis.Summarize(well, result.Segments), nil
}
