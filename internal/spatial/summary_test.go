package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

func TestSummarize(t *testing.T) {
	vertical := Summarize(stations([4]float64{100, 200, 0, 0}, [4]float64{100.5, 200, -50, 50}))
	assert.Equal(t, "W", vertical.Well)
	assert.Equal(t, 2, vertical.Points)
	assert.True(t, vertical.IsVertical)
	assert.True(t, vertical.Valid)
	assert.InDelta(t, 0.25, vertical.SigmaX, 1e-12)
	assert.Equal(t, -50.0, vertical.ZMin)
	assert.Equal(t, 50.0, vertical.MDMax)

	deviated := Summarize(stations([4]float64{0, 0, 0, 10}, [4]float64{40, 0, -30, 5}))
	assert.False(t, deviated.IsVertical)
	assert.False(t, deviated.Valid)
	assert.Equal(t, 5.0, deviated.MDMin)

	empty := Summarize(nil)
	assert.Zero(t, empty.Points)
}

func TestCheckCoverage(t *testing.T) {
	m, err := NewDepthMapper(stations([4]float64{0, 0, 0, 0}, [4]float64{0, 0, -20, 20}), DefaultOptions())
	require.NoError(t, err)

	series := func(depths ...float64) models.LogSeries {
		s := models.LogSeries{Well: "W"}
		for _, d := range depths {
			s.Samples = append(s.Samples, models.LogSample{Depth: d, Value: 1})
		}
		return s
	}

	_, warn := CheckCoverage(m, series(-0.5, 20.5), DefaultCoverageTolerance)
	assert.False(t, warn)

	w, warn := CheckCoverage(m, series(0, 25), DefaultCoverageTolerance)
	assert.True(t, warn)
	assert.Equal(t, "W", w.Well)
	assert.Contains(t, w.Message, "exceeds trajectory md range")

	_, warn = CheckCoverage(m, series(), DefaultCoverageTolerance)
	assert.False(t, warn)
}
