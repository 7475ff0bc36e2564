package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/config"
	"github.com/jengzang/geowell-backend-go/internal/models"
)

const (
	fixtureTrajectories = `welltrack 'W1'
0 0 0 0
0 0 -10 10
/
welltrack 'W2'
5 5 0 0
`
	fixtureH = `X Y Z Well H
0 0 0 W1 10
5 5 0 W2 0
`
	fixtureEffH = `X Y Z Well EFF_H
0 0 0 W1 4
9 9 0 W3 2
`
	fixtureLAS = `~Version information
 VERS.   2.0 : version
 WRAP.   NO  : one line per step
~Well information
 NULL.   -999.25 : null value
 WELL.   W1 : well
~Curve information
 DEPT.M       : depth
 КриваяГИС1.  : collector flag
~A
0.0 1
1.0 1
2.0 0
2.5 -999.25
3.0 0
4.0 1
`
	fixtureOrphanLAS = `~Version information
 VERS.   2.0 : version
~Curve information
 DEPT.M : depth
 FLAG.  : flag
~A
0.0 1
`
)

// writeFixture lays out a data directory the way the default sources expect
func writeFixture(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("INKL/траектории", fixtureTrajectories)
	write("dot_dtv/H", fixtureH)
	write("dot_dtv/EFF_H", fixtureEffH)
	write("logs/W1.las", fixtureLAS)
	write("logs/W4.las", fixtureOrphanLAS)

	cfg := config.DefaultConfig()
	cfg.Sources.DataDir = dir
	cfg.Sources.LogsDir = "logs"
	return cfg
}

func newTestLoader(t *testing.T, cfg *config.Config) *Loader {
	t.Helper()
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	return NewLoader(opts, zaptest.NewLogger(t))
}

func hasWarning(warnings []models.Warning, well, fragment string) bool {
	for _, w := range warnings {
		if w.Well == well && strings.Contains(w.Message, fragment) {
			return true
		}
	}
	return false
}

func TestLoad(t *testing.T) {
	b := newTestLoader(t, writeFixture(t)).Load()

	assert.NotEmpty(t, b.LoadID)
	assert.Equal(t, b.LoadID, b.Summary.LoadID)
	assert.Equal(t, 3, b.Summary.Wells)
	assert.Equal(t, 2, b.Summary.Trajectories)
	assert.Equal(t, 2, b.Summary.LogSeries)
	assert.False(t, b.Summary.FinishedAt.Before(b.Summary.StartedAt))

	w1, ok := b.Wells.Get("W1")
	require.True(t, ok)
	require.NotNil(t, w1.CollectorRatio)
	assert.InDelta(t, 0.4, *w1.CollectorRatio, 1e-12)

	w2, ok := b.Wells.Get("W2")
	require.True(t, ok)
	assert.Nil(t, w2.CollectorRatio)

	w3, ok := b.Wells.Get("W3")
	require.True(t, ok)
	assert.Nil(t, w3.H)
	assert.Equal(t, 9.0, w3.X)

	assert.Equal(t, []string{"W1", "W2"}, b.TrajectoryNames())
	assert.Equal(t, []string{"W1", "W4"}, b.LogNames())

	assert.True(t, hasWarning(b.Summary.Warnings, "W2", "vertical well assumed"))
	assert.True(t, hasWarning(b.Summary.Warnings, "W4", "no trajectory"))
}

func TestLoad_NullValue(t *testing.T) {
	tests := []struct {
		name       string
		configured float64
		want       float64
	}{
		{"zero selects default", 0, models.DefaultNullValue},
		{"configured sentinel", -9999, -9999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeFixture(t)
			cfg.Parsing.NullValue = tt.configured
			b := newTestLoader(t, cfg).Load()

			// W4.las declares no NULL, W1.las declares -999.25
			assert.Equal(t, tt.want, b.Logs["W4"].NullValue)
			assert.Equal(t, models.DefaultNullValue, b.Logs["W1"].NullValue)
		})
	}
}

func TestLoad_Mapper(t *testing.T) {
	b := newTestLoader(t, writeFixture(t)).Load()

	m, err := b.Mapper("W1")
	require.NoError(t, err)
	assert.Equal(t, models.Point3{X: 0, Y: 0, Z: -5}, m.Map(5).Point3())

	m, err = b.Mapper("W2")
	require.NoError(t, err)
	assert.True(t, m.Degenerate())

	_, err = b.Mapper("W4")
	assert.True(t, errors.Is(err, ErrNoTrajectory))
}

func TestLoad_Segments(t *testing.T) {
	b := newTestLoader(t, writeFixture(t)).Load()

	res, summary, err := b.Segments("W1", "", nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Segments, 3)
	assert.Equal(t, models.ClassCollector, res.Segments[0].Classification)
	assert.Equal(t, 1.0, res.Segments[0].MDEnd)
	assert.Equal(t, 2, res.Segments[1].SampleCount)
	assert.Equal(t, 3, summary.Segments)

	res, _, err = b.Segments("W1", analysis.BoundaryContiguous, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.Segments[0].MDEnd)

	minDepth := 2.0
	res, _, err = b.Segments("W1", "", &minDepth, nil)
	require.NoError(t, err)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, models.ClassNonCollector, res.Segments[0].Classification)

	_, _, err = b.Segments("W4", "", nil, nil)
	assert.ErrorIs(t, err, ErrNoTrajectory)

	_, _, err = b.Segments("nope", "", nil, nil)
	assert.ErrorIs(t, err, ErrNoLog)
}

func TestLoad_MissingSources(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources.DataDir = t.TempDir()

	b := newTestLoader(t, cfg).Load()

	assert.Zero(t, b.Summary.Wells)
	assert.Zero(t, b.Summary.Trajectories)
	assert.Zero(t, b.Summary.LogSeries)
	assert.Len(t, b.Summary.Warnings, 3)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources.DataDir = "/data"
	cfg.Parsing.ValueCurves = []string{"LITH"}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "dot_dtv", "EFF_H"), opts.EffThicknessPath)
	assert.Equal(t, []string{"LITH"}, opts.Resolver.Preferred)
	assert.Equal(t, analysis.BoundarySample, opts.Segmentation.Boundary)

	cfg.Segmentation.Boundary = "bogus"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}
