package ingest

import (
	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/config"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
	"github.com/jengzang/geowell-backend-go/internal/survey"
	"github.com/jengzang/geowell-backend-go/internal/tabular"
	"github.com/jengzang/geowell-backend-go/internal/thickness"
)

// Options describe where one load reads from and how it parses
type Options struct {
	TrajectoryPath   string
	ThicknessPath    string
	EffThicknessPath string
	LogsDir          string

	TrajectoryDuplicates survey.DuplicatePolicy
	ThicknessDuplicates  thickness.DuplicatePolicy
	Resolver             tabular.CurveResolver
	NullValue            float64

	Mapping           spatial.Options
	CoverageTolerance float64
	Segmentation      analysis.Options
}

// OptionsFromConfig resolves source paths and policies from the configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	trajectories, err := survey.ParseDuplicatePolicy(cfg.Parsing.TrajectoryDuplicates)
	if err != nil {
		return Options{}, err
	}
	thick, err := thickness.ParseDuplicatePolicy(cfg.Parsing.ThicknessDuplicates)
	if err != nil {
		return Options{}, err
	}
	boundary, err := analysis.ParseBoundary(cfg.Segmentation.Boundary)
	if err != nil {
		return Options{}, err
	}

	resolver := tabular.DefaultCurveResolver()
	if len(cfg.Parsing.IndexCurves) > 0 {
		resolver.IndexNames = cfg.Parsing.IndexCurves
	}
	if len(cfg.Parsing.ValueCurves) > 0 {
		resolver.Preferred = cfg.Parsing.ValueCurves
	}

	src := cfg.Sources
	return Options{
		TrajectoryPath:       src.Resolve(src.Trajectories),
		ThicknessPath:        src.Resolve(src.Thickness),
		EffThicknessPath:     src.Resolve(src.EffThickness),
		LogsDir:              src.Resolve(src.LogsDir),
		TrajectoryDuplicates: trajectories,
		ThicknessDuplicates:  thick,
		Resolver:             resolver,
		NullValue:            cfg.Parsing.NullValue,
		Mapping: spatial.Options{
			VerticalSign: cfg.Mapping.VerticalSign,
			MinSpan:      cfg.Mapping.MinSpan,
		},
		CoverageTolerance: cfg.Mapping.CoverageTolerance,
		Segmentation:      analysis.Options{Boundary: boundary},
	}, nil
}
