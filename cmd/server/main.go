// Command geowell serves and loads well geometry and log data.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/geowell-backend-go/internal/config"
	"github.com/jengzang/geowell-backend-go/internal/ingest"
	"github.com/jengzang/geowell-backend-go/internal/logging"
)

var (
	// Global flags
	configPath string
	dataDir    string
	verbose    bool

	// Set up in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geowell",
	Short: "Well trajectory, thickness and log data service",
	Long: `geowell loads well trajectories, thickness tables and LAS logs,
maps measured depth to 3D coordinates and extracts collector segments.

Commands that touch the database (serve, load) persist into SQLite;
segments and map work offline straight from the source files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			loaded.Sources.DataDir = dataDir
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		l, err := logging.New(loaded.Logging)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Source data directory (overrides sources.data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(mapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadBundle reads the configured sources without touching the database
func loadBundle() (*ingest.Bundle, error) {
	opts, err := ingest.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return ingest.NewLoader(opts, logger).Load(), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
