// Package ingest runs one explicit load over the configured sources.
package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
	"github.com/jengzang/geowell-backend-go/internal/survey"
	"github.com/jengzang/geowell-backend-go/internal/tabular"
	"github.com/jengzang/geowell-backend-go/internal/thickness"
)

// Loader reads every configured source into a Bundle
type Loader struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewLoader creates a loader. A nil logger discards log output.
func NewLoader(opts Options, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{opts: opts, logger: logger, now: time.Now}
}

// Load reads trajectories, thickness tables and log traces. Source
// problems never abort the load, they end up in Summary.Warnings.
func (l *Loader) Load() *Bundle {
	started := l.now()
	b := &Bundle{
		LoadID:       uuid.NewString(),
		LoadedAt:     started,
		Trajectories: make(map[string][]models.TrajectoryPoint),
		Logs:         make(map[string]models.LogSeries),
		mappers:      make(map[string]*spatial.DepthMapper),
		segmentation: l.opts.Segmentation,
	}
	var warnings []models.Warning
	log := l.logger.With(zap.String("load_id", b.LoadID))

	// Trajectories
	parser := survey.NewParser(l.opts.TrajectoryDuplicates)
	traj, err := parser.ParseFile(l.opts.TrajectoryPath)
	if err != nil {
		warnings = append(warnings, sourceWarning(l.opts.TrajectoryPath, err))
	} else {
		warnings = append(warnings, traj.Warnings...)
		b.Trajectories = traj.Wells
		b.trajectoryOrder = traj.Order
	}
	log.Info("Trajectories parsed", zap.Int("wells", len(b.Trajectories)))

	// Thickness tables
	h := l.loadThickness(l.opts.ThicknessPath, tabular.KindTotal, &warnings)
	effH := l.loadThickness(l.opts.EffThicknessPath, tabular.KindEffective, &warnings)
	b.Wells = thickness.NewMerger(l.opts.ThicknessDuplicates).Merge(h, effH)
	warnings = append(warnings, b.Wells.Warnings...)
	log.Info("Thickness tables merged",
		zap.Int("h_rows", len(h)),
		zap.Int("eff_h_rows", len(effH)),
		zap.Int("wells", b.Wells.Len()))

	// Log traces
	loader := tabular.NewLogLoader(l.opts.Resolver)
	loader.NullValue = models.NullOrDefault(l.opts.NullValue)
	logs, err := loader.LoadDir(l.opts.LogsDir)
	if err != nil {
		warnings = append(warnings, sourceWarning(l.opts.LogsDir, err))
	} else {
		warnings = append(warnings, logs.Warnings...)
		b.Logs = logs.Series
		b.logOrder = logs.Order
	}
	log.Info("Log traces loaded", zap.Int("series", len(b.Logs)))

	warnings = append(warnings, l.buildMappers(b)...)

	for _, w := range warnings {
		log.Debug("Load warning",
			zap.String("source", w.Source),
			zap.Int("line", w.Line),
			zap.String("well", w.Well),
			zap.String("message", w.Message))
	}

	b.Summary = models.LoadSummary{
		LoadID:       b.LoadID,
		StartedAt:    started,
		FinishedAt:   l.now(),
		Wells:        b.Wells.Len(),
		Trajectories: len(b.Trajectories),
		LogSeries:    len(b.Logs),
		Warnings:     warnings,
	}
	if b.Summary.Warnings == nil {
		b.Summary.Warnings = []models.Warning{}
	}
	log.Info("Load completed",
		zap.Int("wells", b.Summary.Wells),
		zap.Int("trajectories", b.Summary.Trajectories),
		zap.Int("log_series", b.Summary.LogSeries),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", b.Summary.FinishedAt.Sub(started)))

	return b
}

func (l *Loader) loadThickness(path, kind string, warnings *[]models.Warning) []tabular.ThicknessRow {
	table, err := tabular.LoadThickness(path, kind)
	if err != nil {
		*warnings = append(*warnings, sourceWarning(path, err))
		return nil
	}
	*warnings = append(*warnings, table.Warnings...)
	return table.Rows
}

// buildMappers creates one depth mapper per trajectory and checks every
// log series against it
func (l *Loader) buildMappers(b *Bundle) []models.Warning {
	var warnings []models.Warning

	for _, name := range b.trajectoryOrder {
		points := b.Trajectories[name]
		m, err := spatial.NewDepthMapper(points, l.opts.Mapping)
		if err != nil {
			warnings = append(warnings, models.Warning{Well: name, Message: fmt.Sprintf("trajectory unusable: %v", err)})
			continue
		}
		if !m.Valid() {
			warnings = append(warnings, models.Warning{
				Well:    name,
				Message: fmt.Sprintf("measured depth decreases along the trajectory, %d station(s) ignored for mapping", m.DroppedKnots()),
			})
		}
		if m.Degenerate() {
			warnings = append(warnings, models.Warning{
				Well:    name,
				Message: "trajectory has no usable md span, vertical well assumed below the first station",
			})
		}
		b.mappers[name] = m
	}

	for _, name := range b.logOrder {
		series := b.Logs[name]
		m, ok := b.mappers[name]
		if !ok {
			warnings = append(warnings, models.Warning{
				Source:  series.Source,
				Well:    name,
				Message: "no trajectory for well, skipped for segmentation",
			})
			continue
		}
		if w, bad := spatial.CheckCoverage(m, tabular.Clean(series), l.opts.CoverageTolerance); bad {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

func sourceWarning(source string, err error) models.Warning {
	return models.Warning{Source: source, Message: fmt.Sprintf("source skipped: %v", err)}
}
