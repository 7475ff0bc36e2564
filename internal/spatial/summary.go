package spatial

import (
	"fmt"

	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/stats"
)

// verticalSigma is the largest horizontal spread (population standard
// deviation of x and of y) of a well still reported as vertical
const verticalSigma = 1.0

// DefaultCoverageTolerance is the md slack allowed between a log and its trajectory
const DefaultCoverageTolerance = 1.0

// Summarize describes the extent and shape of a trajectory
func Summarize(points []models.TrajectoryPoint) models.TrajectorySummary {
	summary := models.TrajectorySummary{Points: len(points), Valid: true}
	if len(points) == 0 {
		return summary
	}
	summary.Well = points[0].Well

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	mds := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i], mds[i] = p.X, p.Y, p.Z, p.MD
		if i > 0 && p.MD < points[i-1].MD {
			summary.Valid = false
		}
	}

	summary.MDMin, summary.MDMax = stats.Min(mds), stats.Max(mds)
	summary.XMin, summary.XMax = stats.Min(xs), stats.Max(xs)
	summary.YMin, summary.YMax = stats.Min(ys), stats.Max(ys)
	summary.ZMin, summary.ZMax = stats.Min(zs), stats.Max(zs)
	summary.SigmaX = stats.PopStdDev(xs)
	summary.SigmaY = stats.PopStdDev(ys)
	summary.IsVertical = summary.SigmaX < verticalSigma && summary.SigmaY < verticalSigma

	return summary
}

// CheckCoverage reports a warning when the depth range of series reaches
// beyond the mapper's md range by more than tolerance
func CheckCoverage(m *DepthMapper, series models.LogSeries, tolerance float64) (models.Warning, bool) {
	logMin, logMax, ok := series.DepthRange()
	if !ok {
		return models.Warning{}, false
	}
	mdMin, mdMax := m.Range()
	if logMin >= mdMin-tolerance && logMax <= mdMax+tolerance {
		return models.Warning{}, false
	}

	msg := fmt.Sprintf("log depth range [%.2f, %.2f] exceeds trajectory md range [%.2f, %.2f] (start offset %.2f, end offset %.2f)",
		logMin, logMax, mdMin, mdMax, logMin-mdMin, logMax-mdMax)
	return models.Warning{Source: series.Source, Well: series.Well, Message: msg}, true
}
