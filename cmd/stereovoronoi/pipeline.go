// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"github.com/2dChan/stereovoronoi"
	"github.com/2dChan/stereovoronoi/delaunay"
	"github.com/2dChan/stereovoronoi/emit"
	"github.com/2dChan/stereovoronoi/internal/config"
	"github.com/2dChan/stereovoronoi/sphere"
	"github.com/2dChan/stereovoronoi/stereo"
	"github.com/2dChan/stereovoronoi/utils"
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// poleEps is the distance, measured as 1+y, within which a site is treated
// as the projection pole.
const poleEps = 1e-12

// result is everything a pipeline run hands back to the command.
type result struct {
	drawing  *emit.Drawing
	warnings []stereovoronoi.NumericalInstabilityWarning
	// skipped lists input indices left out as duplicates.
	skipped []int
	// poles lists stereo mode sites at the projection pole. They have no
	// planar image, so their cells are missing from the drawing.
	poles []int
}

func runPipeline(cfg config.Config) (*result, error) {
	switch cfg.Mode {
	case config.ModePlane:
		return runPlane(cfg)
	case config.ModeStereo:
		return runStereo(cfg, sampleSphere(cfg))
	case config.ModeSphere:
		return runSphere(cfg)
	}
	return nil, errors.Newf("unknown mode %q", cfg.Mode)
}

func sampleSphere(cfg config.Config) s2.PointVector {
	if cfg.Sampler == config.SamplerFibonacci {
		fib := cfg.Fibonacci
		return utils.GenerateFibonacciPoints(cfg.Points, fib.MinLat, fib.MaxLat, fib.MinLng, fib.MaxLng, fib.Offset)
	}
	return utils.GenerateRandomPoints(cfg.Points, cfg.Seed)
}

// triangulate inserts points in order. index maps a point to its input
// index for reporting.
func triangulate(cfg config.Config, points []r2.Point, index []int) (*delaunay.Triangulation, []int, error) {
	tri, err := delaunay.New(delaunay.WithTolerance(cfg.Tolerance))
	if err != nil {
		return nil, nil, err
	}
	var skipped []int
	for i, p := range points {
		if _, err := tri.Insert(p); err != nil {
			var dup *delaunay.DuplicatePointError
			if cfg.SkipDuplicates && errors.As(err, &dup) {
				skipped = append(skipped, index[i])
				continue
			}
			return nil, nil, errors.Wrapf(err, "point %d", index[i])
		}
	}
	return tri, skipped, nil
}

func runPlane(cfg config.Config) (*result, error) {
	points := utils.GenerateRandomPlanarPoints(cfg.Points, cfg.Seed)
	index := make([]int, len(points))
	for i := range index {
		index[i] = i
	}
	tri, skipped, err := triangulate(cfg, points, index)
	if err != nil {
		return nil, err
	}
	d, err := stereovoronoi.NewDiagram(tri)
	if err != nil {
		return nil, err
	}
	dr, err := emit.FromDiagram(d, cfg.RayLength)
	if err != nil {
		return nil, err
	}
	return &result{drawing: dr, warnings: d.Warnings, skipped: skipped}, nil
}

func runStereo(cfg config.Config, points s2.PointVector) (*result, error) {
	strategy, err := cfg.ParseStrategy()
	if err != nil {
		return nil, err
	}
	projected, index, poles, err := stereo.ForwardAll(points, poleEps)
	if err != nil {
		return nil, err
	}
	tri, skipped, err := triangulate(cfg, projected, index)
	if err != nil {
		return nil, err
	}
	d, err := stereovoronoi.NewDiagram(tri)
	if err != nil {
		return nil, err
	}
	r, err := sphere.Reconstruct(d,
		sphere.WithStrategy(strategy),
		sphere.WithRadius(cfg.Radius),
		sphere.WithRayLength(cfg.RayLength),
	)
	if err != nil {
		return nil, err
	}

	sites := make(s2.PointVector, len(d.Sites))
	for i, q := range d.Sites {
		sites[i] = stereo.Inverse(q)
	}
	return &result{
		drawing:  emit.FromChords(r.Chords, sites, cfg.Radius),
		warnings: r.Warnings,
		skipped:  skipped,
		poles:    poles,
	}, nil
}

func runSphere(cfg config.Config) (*result, error) {
	m, err := sphere.NewMesh(sampleSphere(cfg),
		sphere.WithTolerance(cfg.Tolerance),
		sphere.WithSkipDuplicates(cfg.SkipDuplicates),
	)
	if err != nil {
		return nil, err
	}
	r, err := m.Chords(cfg.Radius)
	if err != nil {
		return nil, err
	}
	return &result{
		drawing:  emit.FromChords(r.Chords, m.Sites, cfg.Radius),
		warnings: r.Warnings,
		skipped:  m.Skipped,
	}, nil
}
