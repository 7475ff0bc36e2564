package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jengzang/geowell-backend-go/internal/analysis"
	"github.com/jengzang/geowell-backend-go/internal/models"
)

var (
	boundaryFlag string
	minDepthFlag float64
	maxDepthFlag float64
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the configured sources into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		loads, _, err := newServices(db)
		if err != nil {
			return err
		}

		summary, err := loads.Run(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(cmd, summary); err != nil {
			return err
		}
		if !summary.Succeeded {
			return fmt.Errorf("load saved only %.1f%% of the expected records", summary.SuccessRatePercent)
		}
		return nil
	},
}

var segmentsCmd = &cobra.Command{
	Use:   "segments <well>",
	Short: "Extract collector segments of one well from the source files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if boundaryFlag == "" {
			boundaryFlag = cfg.Segmentation.Boundary
		}
		boundary, err := analysis.ParseBoundary(boundaryFlag)
		if err != nil {
			return err
		}
		var minDepth, maxDepth *float64
		if cmd.Flags().Changed("min-depth") {
			minDepth = &minDepthFlag
		}
		if cmd.Flags().Changed("max-depth") {
			maxDepth = &maxDepthFlag
		}

		bundle, err := loadBundle()
		if err != nil {
			return err
		}
		result, summary, err := bundle.Segments(args[0], boundary, minDepth, maxDepth)
		if err != nil {
			return err
		}

		return printJSON(cmd, models.SegmentsResponse{
			Well:     args[0],
			Boundary: string(boundary),
			Segments: result.Segments,
			Summary:  summary,
			Warnings: result.Warnings,
		})
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <well> <md>...",
	Short: "Map measured depths of one well to 3D coordinates",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mds := make([]float64, 0, len(args)-1)
		for _, raw := range args[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid measured depth %q: %w", raw, err)
			}
			mds = append(mds, v)
		}

		bundle, err := loadBundle()
		if err != nil {
			return err
		}
		mapper, err := bundle.Mapper(args[0])
		if err != nil {
			return err
		}

		points := make([]models.DepthPoint, 0, len(mds))
		for _, md := range mds {
			p := mapper.Map(md)
			points = append(points, models.DepthPoint{MD: md, Point: p.Point3(), OutOfRange: p.OutOfRange})
		}
		return printJSON(cmd, points)
	},
}

func init() {
	segmentsCmd.Flags().StringVar(&boundaryFlag, "boundary", "", "Boundary mode: sample or contiguous (default from config)")
	segmentsCmd.Flags().Float64Var(&minDepthFlag, "min-depth", 0, "Lower depth bound")
	segmentsCmd.Flags().Float64Var(&maxDepthFlag, "max-depth", 0, "Upper depth bound")
}
