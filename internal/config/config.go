package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/survey"
	"github.com/jengzang/geowell-backend-go/internal/thickness"
)

// DefaultPath is the configuration file read when --config is not given
const DefaultPath = "geowell.yaml"

// Config holds all geowell configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Sources      SourcesConfig      `yaml:"sources"`
	Parsing      ParsingConfig      `yaml:"parsing"`
	Mapping      MappingConfig      `yaml:"mapping"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           string   `yaml:"port"`             // Listen address, e.g. ":8080"
	Mode           string   `yaml:"mode"`             // gin mode: debug, release, test
	LoadsPerMinute int      `yaml:"loads_per_minute"` // Rate limit of POST /loads per client
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	BusyTimeout  string `yaml:"busy_timeout"`
	WriteRetries int    `yaml:"write_retries"`
}

// SourcesConfig locates the input files. Relative paths are resolved
// against DataDir.
type SourcesConfig struct {
	DataDir      string `yaml:"data_dir"`
	Trajectories string `yaml:"trajectories"`
	Thickness    string `yaml:"thickness"`
	EffThickness string `yaml:"eff_thickness"`
	LogsDir      string `yaml:"logs_dir"`
}

// ParsingConfig tunes the file readers
type ParsingConfig struct {
	TrajectoryDuplicates string   `yaml:"trajectory_duplicates"` // append, replace, reject
	ThicknessDuplicates  string   `yaml:"thickness_duplicates"`  // last, first, sum, mean
	IndexCurves          []string `yaml:"index_curves"`
	ValueCurves          []string `yaml:"value_curves"`
	NullValue            float64  `yaml:"null_value"` // Sentinel for files without NULL; 0 selects -999.25 since 0 is a classified value
}

// MappingConfig tunes depth to 3D mapping
type MappingConfig struct {
	VerticalSign      float64 `yaml:"vertical_sign"`
	MinSpan           float64 `yaml:"min_span"`
	CoverageTolerance float64 `yaml:"coverage_tolerance"`
	ResampleStep      float64 `yaml:"resample_step"` // 0 keeps the surveyed stations
}

// SegmentationConfig tunes segment extraction
type SegmentationConfig struct {
	Boundary string `yaml:"boundary"` // sample, contiguous
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level       string `yaml:"level"`  // debug, info, warn, error
	Format      string `yaml:"format"` // json, console
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           ":8080",
			Mode:           "release",
			LoadsPerMinute: 6,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path:         "./data/geowell.db",
			MaxOpenConns: 10,
			MaxIdleConns: 1,
			BusyTimeout:  "5s",
			WriteRetries: 3,
		},
		Sources: SourcesConfig{
			DataDir:      "src_data",
			Trajectories: "INKL/траектории",
			Thickness:    "dot_dtv/H",
			EffThickness: "dot_dtv/EFF_H",
			LogsDir:      ".",
		},
		Parsing: ParsingConfig{
			TrajectoryDuplicates: string(survey.DuplicateAppend),
			ThicknessDuplicates:  string(thickness.DuplicateLast),
			IndexCurves:          []string{"DEPT", "DEPTH", "MD"},
			ValueCurves:          []string{"КриваяГИС1"},
			NullValue:            -999.25,
		},
		Mapping: MappingConfig{
			VerticalSign:      -1,
			MinSpan:           1e-6,
			CoverageTolerance: 1.0,
		},
		Segmentation: SegmentationConfig{
			Boundary: string(analysis.BoundarySample),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		c.Server.Port = port
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dir := os.Getenv("GEOWELL_DATA_DIR"); dir != "" {
		c.Sources.DataDir = dir
	}
	if level := os.Getenv("GEOWELL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// BusyTimeout returns the SQLite busy timeout as a duration
func (c *Config) BusyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Database.BusyTimeout)
	if err != nil || d < 0 {
		return 5 * time.Second
	}
	return d
}

// Resolve returns p relative to the data directory unless it is absolute
func (s SourcesConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.DataDir == "" {
		return p
	}
	return filepath.Join(s.DataDir, p)
}

// ValidLogLevels lists the accepted logging levels
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks policies, modes and limits
func (c *Config) Validate() error {
	if _, err := survey.ParseDuplicatePolicy(c.Parsing.TrajectoryDuplicates); err != nil {
		return err
	}
	if _, err := thickness.ParseDuplicatePolicy(c.Parsing.ThicknessDuplicates); err != nil {
		return err
	}
	if _, err := analysis.ParseBoundary(c.Segmentation.Boundary); err != nil {
		return err
	}

	if c.Mapping.VerticalSign != 1 && c.Mapping.VerticalSign != -1 {
		return fmt.Errorf("invalid mapping.vertical_sign: %v (valid: -1, 1)", c.Mapping.VerticalSign)
	}
	if c.Mapping.MinSpan < 0 || c.Mapping.CoverageTolerance < 0 || c.Mapping.ResampleStep < 0 {
		return fmt.Errorf("mapping values must not be negative")
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server.mode: %q (valid: debug, release, test)", c.Server.Mode)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path not configured")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("invalid database.max_open_conns: %d", c.Database.MaxOpenConns)
	}
	if c.Database.WriteRetries < 0 {
		return fmt.Errorf("invalid database.write_retries: %d", c.Database.WriteRetries)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if strings.EqualFold(c.Logging.Level, l) {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}
