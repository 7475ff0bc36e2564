// Package analysis turns classified well-log series into depth- and
// space-anchored intervals.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
	"github.com/jengzang/geowell-backend-go/internal/tabular"
)

// ErrNoMapper is returned when segments are requested without a trajectory
var ErrNoMapper = errors.New("analysis: no depth mapper")

// Boundary selects where a segment starts and ends
type Boundary string

const (
	// BoundarySample spans each run from its first to its last sample depth
	BoundarySample Boundary = "sample"
	// BoundaryContiguous closes the gaps between runs at the midpoint so
	// the segments tile the logged depth range
	BoundaryContiguous Boundary = "contiguous"
)

// ParseBoundary validates a boundary mode, empty means BoundarySample
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(strings.ToLower(strings.TrimSpace(s))) {
	case "", BoundarySample:
		return BoundarySample, nil
	case BoundaryContiguous:
		return BoundaryContiguous, nil
	default:
		return "", fmt.Errorf("unknown segment boundary %q", s)
	}
}

// Options configure a SegmentExtractor
type Options struct {
	Boundary Boundary
}

// Result holds the segments of one well and anything degraded on the way
type Result struct {
	Segments []models.Segment `json:"segments"`
	Warnings []models.Warning `json:"warnings,omitempty"`
}

// SegmentExtractor run-length encodes classified samples into segments
type SegmentExtractor struct {
	boundary Boundary
}

// NewSegmentExtractor creates an extractor, an unset boundary means sample mode
func NewSegmentExtractor(opts Options) *SegmentExtractor {
	b := opts.Boundary
	if b == "" {
		b = BoundarySample
	}
	return &SegmentExtractor{boundary: b}
}

// Prepare applies an optional inclusive depth window, removes null samples
// and sorts by depth
func Prepare(series models.LogSeries, minDepth, maxDepth *float64) models.LogSeries {
	return tabular.PrepareForSegmentation(tabular.FilterByDepth(series, minDepth, maxDepth))
}

// run is a maximal stretch of equally classified samples, first and last
// are sample indices
type run struct {
	class       models.Classification
	first, last int
}

// Extract builds the segments of series. Samples must already be cleaned
// and sorted by depth (see tabular.PrepareForSegmentation).
func (e *SegmentExtractor) Extract(series models.LogSeries, mapper *spatial.DepthMapper) (Result, error) {
	if mapper == nil {
		return Result{}, ErrNoMapper
	}

	samples := series.Samples
	runs := detectRuns(samples)
	if len(runs) == 0 {
		return Result{Segments: []models.Segment{}}, nil
	}

	well := series.Well
	if well == "" {
		well = mapper.Well()
	}

	result := Result{Segments: make([]models.Segment, 0, len(runs))}
	for i, r := range runs {
		mdStart, mdEnd := samples[r.first].Depth, samples[r.last].Depth
		if e.boundary == BoundaryContiguous {
			if i > 0 {
				mdStart = midpoint(samples[runs[i-1].last].Depth, samples[r.first].Depth)
			}
			if i < len(runs)-1 {
				mdEnd = midpoint(samples[r.last].Depth, samples[runs[i+1].first].Depth)
			}
		}

		start, end := mapper.Map(mdStart), mapper.Map(mdEnd)
		seg := models.Segment{
			Well:            well,
			Classification:  r.class,
			MDStart:         mdStart,
			MDEnd:           mdEnd,
			Start:           start.Point3(),
			End:             end.Point3(),
			SampleCount:     r.last - r.first + 1,
			StartOutOfRange: start.OutOfRange,
			EndOutOfRange:   end.OutOfRange,
		}
		result.Segments = append(result.Segments, seg)

		if seg.StartOutOfRange || seg.EndOutOfRange {
			min, max := mapper.Range()
			result.Warnings = append(result.Warnings, models.Warning{
				Source: series.Source,
				Well:   well,
				Message: fmt.Sprintf("%s segment [%.2f, %.2f] lies outside trajectory md range [%.2f, %.2f], clamped",
					seg.Classification, mdStart, mdEnd, min, max),
			})
		}
	}

	return result, nil
}

// detectRuns groups consecutive samples of the same classification
func detectRuns(samples []models.LogSample) []run {
	var runs []run
	for i, s := range samples {
		class := models.Classify(s.Value)
		if len(runs) > 0 && runs[len(runs)-1].class == class {
			runs[len(runs)-1].last = i
			continue
		}
		runs = append(runs, run{class: class, first: i, last: i})
	}
	return runs
}

func midpoint(a, b float64) float64 {
	return a + (b-a)/2
}

// Summarize aggregates segment counts and lengths per classification.
// CollectorFraction is the collector share of the total segment md length
// and stays nil when that length is zero.
func Summarize(well string, segments []models.Segment) models.SegmentSummary {
	summary := models.SegmentSummary{
		Well:     well,
		Segments: len(segments),
		Counts:   make(map[models.Classification]int),
		Lengths:  make(map[models.Classification]float64),
	}

	var total float64
	for _, seg := range segments {
		summary.Counts[seg.Classification]++
		summary.Lengths[seg.Classification] += seg.Length()
		summary.SpatialLength += spatial.Distance(seg.Start, seg.End)
		total += seg.Length()
	}

	if total > 0 {
		fraction := summary.Lengths[models.ClassCollector] / total
		summary.CollectorFraction = &fraction
	}
	return summary
}
