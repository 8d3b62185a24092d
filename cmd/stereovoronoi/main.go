// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Command stereovoronoi samples sites, builds their Voronoi diagram in the
// plane or on the sphere and writes the edges as WKT, GeoJSON, SVG or PNG.
package main

import (
	"io"
	"log"
	"os"

	"github.com/2dChan/stereovoronoi/emit"
	"github.com/2dChan/stereovoronoi/internal/config"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  = config.Default()
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "stereovoronoi",
		Short: "build Voronoi diagrams in the plane and on the sphere",
		Long: `stereovoronoi samples sites, triangulates them incrementally and writes
the dual Voronoi edges.

Modes:

  plane   random planar sites, planar diagram with rays cut at --ray-length
  stereo  sphere sites projected stereographically, diagram lifted back
          with --strategy (roundtrip or direct); a site at the projection
          pole (0,-1,0) has no planar image and its cell is left out
  sphere  closed spherical mesh with pole stitching

Flags override the values read from --config.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			overrides.Mode = config.Mode(mode)
			applyFlags(cmd, &cfg, overrides)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&mode, "mode", string(defaults.Mode), "pipeline: plane, stereo or sphere")
	flags.StringVar(&overrides.Sampler, "sampler", defaults.Sampler, "site sampler: random or fibonacci")
	flags.IntVarP(&overrides.Points, "points", "n", defaults.Points, "number of sites")
	flags.Int64Var(&overrides.Seed, "seed", defaults.Seed, "random sampler seed")
	flags.Float64Var(&overrides.Fibonacci.Offset, "offset", defaults.Fibonacci.Offset, "fibonacci sampler offset")
	flags.StringVar(&overrides.Strategy, "strategy", defaults.Strategy, "circumcenter lifting: roundtrip or direct")
	flags.Float64Var(&overrides.Radius, "radius", defaults.Radius, "sphere radius")
	flags.Float64Var(&overrides.RayLength, "ray-length", defaults.RayLength, "length of emitted rays")
	flags.Float64Var(&overrides.Tolerance, "tolerance", defaults.Tolerance, "duplicate site tolerance")
	flags.BoolVar(&overrides.SkipDuplicates, "skip-duplicates", defaults.SkipDuplicates, "skip duplicate sites instead of failing")
	flags.StringVarP(&overrides.Format, "format", "f", defaults.Format, "output format: wkt, geojson, svg or png")
	flags.StringVarP(&overrides.Output, "output", "o", defaults.Output, `output file, "-" for stdout`)
	flags.IntVar(&overrides.Width, "width", defaults.Width, "image width")
	flags.IntVar(&overrides.Height, "height", defaults.Height, "image height")
	return cmd
}

// applyFlags copies the explicitly set flags from src into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, src config.Config) {
	changed := cmd.Flags().Changed
	if changed("mode") {
		cfg.Mode = src.Mode
	}
	if changed("sampler") {
		cfg.Sampler = src.Sampler
	}
	if changed("points") {
		cfg.Points = src.Points
	}
	if changed("seed") {
		cfg.Seed = src.Seed
	}
	if changed("offset") {
		cfg.Fibonacci.Offset = src.Fibonacci.Offset
	}
	if changed("strategy") {
		cfg.Strategy = src.Strategy
	}
	if changed("radius") {
		cfg.Radius = src.Radius
	}
	if changed("ray-length") {
		cfg.RayLength = src.RayLength
	}
	if changed("tolerance") {
		cfg.Tolerance = src.Tolerance
	}
	if changed("skip-duplicates") {
		cfg.SkipDuplicates = src.SkipDuplicates
	}
	if changed("format") {
		cfg.Format = src.Format
	}
	if changed("output") {
		cfg.Output = src.Output
	}
	if changed("width") {
		cfg.Width = src.Width
	}
	if changed("height") {
		cfg.Height = src.Height
	}
}

func run(cmd *cobra.Command, cfg config.Config) (retErr error) {
	logger := log.New(cmd.ErrOrStderr(), "stereovoronoi: ", 0)

	format, err := cfg.ParseFormat()
	if err != nil {
		return err
	}
	res, err := runPipeline(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.warnings {
		logger.Printf("warning: %v", w)
	}
	for _, i := range res.poles {
		logger.Printf("site %d lies at the projection pole; its cell is left out, use --mode sphere to stitch it", i)
	}
	if len(res.skipped) > 0 {
		logger.Printf("skipped %d sites: %v", len(res.skipped), res.skipped)
	}

	var out io.Writer = cmd.OutOrStdout()
	if cfg.Output != "-" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer func() {
			if err := file.Close(); err != nil && retErr == nil {
				retErr = errors.Wrap(err, "closing output")
			}
		}()
		out = file
	}

	if err := emit.Write(out, format, res.drawing, emit.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
	}); err != nil {
		return err
	}

	segments, rays := res.drawing.Count()
	logger.Printf("%s: %d segments, %d rays", cfg.Mode, segments, rays)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
