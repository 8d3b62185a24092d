// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides point samplers for feeding triangulations and Voronoi diagrams.

package utils

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GenerateRandomPoints generates a vector of random points on the S2 sphere.
// The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	sites := make(s2.PointVector, cnt)

	for i := range cnt {
		sites[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle((random.Float64() - 0.5) * math.Pi),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		})
	}

	return sites
}

// GenerateRandomPlanarPoints generates random points uniformly distributed in
// the square [-1, 1) x [-1, 1). The seed parameter ensures reproducibility.
func GenerateRandomPlanarPoints(cnt int, seed int64) []r2.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make([]r2.Point, cnt)

	for i := range cnt {
		points[i] = r2.Point{
			X: random.Float64()*2 - 1,
			Y: random.Float64()*2 - 1,
		}
	}

	return points
}

// GenerateFibonacciPoints generates cnt points along a golden-angle spiral.
// Latitudes are spread evenly over [minLat, maxLat] and longitudes are
// rescaled into [minLng, maxLng], both in degrees. offset shifts the spiral
// parameter and acts as a seed: t = (i + offset) / cnt.
func GenerateFibonacciPoints(cnt int, minLat, maxLat, minLng, maxLng, offset float64) s2.PointVector {
	goldenRatio := (1 + math.Sqrt(5)) / 2
	angleIncrement := 2 * math.Pi * goldenRatio
	sites := make(s2.PointVector, cnt)

	for i := range cnt {
		t := (float64(i) + offset) / float64(cnt)
		lat := (maxLat-minLat)*t + minLat

		lng := math.Mod(angleIncrement*float64(i), 2*math.Pi) / math.Pi * 180
		lng = lng*(maxLng-minLng)/360 + minLng

		sites[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
	}

	return sites
}
