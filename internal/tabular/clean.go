package tabular

import (
	"sort"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

// Clean returns a copy of series without samples whose value is the
// series sentinel or NaN. A zero NullValue means the LAS default.
func Clean(series models.LogSeries) models.LogSeries {
	out := series
	out.Samples = make([]models.LogSample, 0, len(series.Samples))
	for _, s := range series.Samples {
		if series.IsNull(s.Value) {
			continue
		}
		out.Samples = append(out.Samples, s)
	}
	return out
}

// MissingCount returns how many samples carry the sentinel or NaN
func MissingCount(series models.LogSeries) int {
	n := 0
	for _, s := range series.Samples {
		if series.IsNull(s.Value) {
			n++
		}
	}
	return n
}

// FilterByDepth keeps samples with min <= depth <= max. A nil bound is open.
func FilterByDepth(series models.LogSeries, min, max *float64) models.LogSeries {
	out := series
	out.Samples = make([]models.LogSample, 0, len(series.Samples))
	for _, s := range series.Samples {
		if min != nil && s.Depth < *min {
			continue
		}
		if max != nil && s.Depth > *max {
			continue
		}
		out.Samples = append(out.Samples, s)
	}
	return out
}

// PrepareForSegmentation cleans series and sorts it by depth. Samples at
// equal depth keep their file order.
func PrepareForSegmentation(series models.LogSeries) models.LogSeries {
	out := Clean(series)
	sort.SliceStable(out.Samples, func(i, j int) bool {
		return out.Samples[i].Depth < out.Samples[j].Depth
	})
	return out
}
