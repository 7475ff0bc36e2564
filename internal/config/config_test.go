package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 1, cfg.Database.MaxIdleConns)
	assert.Equal(t, "append", cfg.Parsing.TrajectoryDuplicates)
	assert.Equal(t, "last", cfg.Parsing.ThicknessDuplicates)
	assert.Equal(t, "sample", cfg.Segmentation.Boundary)
	assert.Equal(t, -999.25, cfg.Parsing.NullValue)
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout())
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("GEOWELL_DATA_DIR", "")
	t.Setenv("GEOWELL_LOG_LEVEL", "")

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geowell.yaml")
		content := `
database:
  path: /var/lib/geowell.db
  write_retries: 5
parsing:
  trajectory_duplicates: replace
segmentation:
  boundary: contiguous
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/geowell.db", cfg.Database.Path)
		assert.Equal(t, 5, cfg.Database.WriteRetries)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, "replace", cfg.Parsing.TrajectoryDuplicates)
		assert.Equal(t, "contiguous", cfg.Segmentation.Boundary)
		require.NoError(t, cfg.Validate())
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("GEOWELL_DATA_DIR", "/data")
	t.Setenv("GEOWELL_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "/data", cfg.Sources.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("GEOWELL_DATA_DIR", "")
	t.Setenv("GEOWELL_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "conf", "geowell.yaml")
	cfg := DefaultConfig()
	cfg.Mapping.VerticalSign = 1
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, loaded.Mapping.VerticalSign)
	assert.Equal(t, "КриваяГИС1", loaded.Parsing.ValueCurves[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"trajectory policy", func(c *Config) { c.Parsing.TrajectoryDuplicates = "merge" }},
		{"thickness policy", func(c *Config) { c.Parsing.ThicknessDuplicates = "max" }},
		{"boundary", func(c *Config) { c.Segmentation.Boundary = "gap" }},
		{"vertical sign", func(c *Config) { c.Mapping.VerticalSign = 0 }},
		{"negative tolerance", func(c *Config) { c.Mapping.CoverageTolerance = -1 }},
		{"server mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"pool size", func(c *Config) { c.Database.MaxOpenConns = 0 }},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSourcesResolve(t *testing.T) {
	s := SourcesConfig{DataDir: "src_data"}
	assert.Equal(t, filepath.Join("src_data", "dot_dtv", "H"), s.Resolve("dot_dtv/H"))
	assert.Equal(t, "/abs/H", s.Resolve("/abs/H"))
	assert.Equal(t, "", s.Resolve(""))
}
