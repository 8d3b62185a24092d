// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package utils

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateRandomPoints_Length(t *testing.T) {
	tests := []struct {
		name string
		cnt  int
		seed int64
	}{
		{"zero points", 0, 42},
		{"one point", 1, 42},
		{"ten points", 10, 0},
		{"hundred points", 100, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := GenerateRandomPoints(tt.cnt, tt.seed)
			if len(points) != tt.cnt {
				t.Errorf("GenerateRandomPoints(%v, %v) len = %v, want %v", tt.cnt, tt.seed,
					len(points), tt.cnt)
			}
			planar := GenerateRandomPlanarPoints(tt.cnt, tt.seed)
			if len(planar) != tt.cnt {
				t.Errorf("GenerateRandomPlanarPoints(%v, %v) len = %v, want %v", tt.cnt, tt.seed,
					len(planar), tt.cnt)
			}
		})
	}
}

func TestGenerateRandomPoints_OnUnitSphere(t *testing.T) {
	const (
		cnt     = 100
		seed    = 0
		epsilon = 1e-12
	)
	points := GenerateRandomPoints(cnt, seed)
	for i, p := range points {
		norm := p.Norm()
		if math.Abs(norm-1.0) > epsilon {
			t.Errorf("GenerateRandomPoints(%v, %v)[%d]: point norm = %v, want ≈1", cnt, seed,
				i, norm)
		}
	}
}

func TestGenerateRandomPoints_Determinism(t *testing.T) {
	const (
		cnt  = 10
		seed = 0
	)
	a := GenerateRandomPoints(cnt, seed)
	b := GenerateRandomPoints(cnt, seed)
	if diff := cmp.Diff(b, a, cmp.AllowUnexported(s2.Point{})); diff != "" {
		t.Errorf("GenerateRandomPoints(%v, %v) mismatch (-want +got):\n%v", cnt, seed, diff)
	}

	c := GenerateRandomPlanarPoints(cnt, seed)
	d := GenerateRandomPlanarPoints(cnt, seed)
	if diff := cmp.Diff(c, d); diff != "" {
		t.Errorf("GenerateRandomPlanarPoints(%v, %v) mismatch (-want +got):\n%v", cnt, seed, diff)
	}
}

func TestGenerateRandomPlanarPoints_InSquare(t *testing.T) {
	for i, p := range GenerateRandomPlanarPoints(1000, 1) {
		if p.X < -1 || p.X >= 1 || p.Y < -1 || p.Y >= 1 {
			t.Errorf("GenerateRandomPlanarPoints(1000, 1)[%d] = %v, want within [-1, 1)", i, p)
		}
	}
}

func TestGenerateFibonacciPoints(t *testing.T) {
	tests := []struct {
		name                   string
		cnt                    int
		minLat, maxLat         float64
		minLng, maxLng, offset float64
	}{
		{"whole sphere", 256, -90, 90, -180, 180, 1},
		{"northern band", 100, 10, 60, -180, 180, 0},
		{"window", 50, -30, 30, 0, 90, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := GenerateFibonacciPoints(tt.cnt, tt.minLat, tt.maxLat, tt.minLng, tt.maxLng, tt.offset)
			if len(points) != tt.cnt {
				t.Fatalf("len(points) = %v, want %v", len(points), tt.cnt)
			}
			for i, p := range points {
				if n := p.Norm(); math.Abs(n-1) > 1e-12 {
					t.Errorf("points[%d] norm = %v, want ~1.0", i, n)
				}
				ll := s2.LatLngFromPoint(p)
				lat, lng := ll.Lat.Degrees(), ll.Lng.Degrees()
				// The offset may push the last latitude past maxLat by one step.
				step := (tt.maxLat - tt.minLat) / float64(tt.cnt)
				if lat < tt.minLat-1e-9 || lat > tt.maxLat+step*tt.offset+1e-9 {
					t.Errorf("points[%d] latitude = %v, want within [%v, %v]", i, lat, tt.minLat, tt.maxLat)
				}
				if tt.maxLng-tt.minLng < 360 && (lng < tt.minLng-1e-9 || lng > tt.maxLng+1e-9) {
					t.Errorf("points[%d] longitude = %v, want within [%v, %v]", i, lng, tt.minLng, tt.maxLng)
				}
			}
		})
	}
}
