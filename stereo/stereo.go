// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package stereo maps between the unit sphere and the plane by stereographic
// projection from the south pole.
//
// The convention is right-handed with Y as the up axis: the projection pole
// is (0, -1, 0), the north pole (0, 1, 0) maps to the origin and the equator
// maps to the unit circle. A sphere point (x, y, z) maps to
// (x/(1+y), -z/(1+y)).
package stereo

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

const defaultEps = 1e-12

// Pole is the projection pole. It has no finite image.
var Pole = s2.PointFromCoords(0, -1, 0)

// ErrPole is returned by Forward for points at the projection pole.
var ErrPole = errors.New("stereo: point is at the projection pole")

// IsPole reports whether p lies within eps of the projection pole, measured
// as 1+y.
func IsPole(p r3.Vector, eps float64) bool {
	return 1+p.Y <= eps
}

// Forward projects p, which should lie on the unit sphere, onto the plane.
func Forward(p r3.Vector) (r2.Point, error) {
	if !isFinite(p) {
		return r2.Point{}, errors.Newf("stereo: point %v has a non-finite coordinate", p)
	}
	if IsPole(p, defaultEps) {
		return r2.Point{}, errors.Wrapf(ErrPole, "stereo: cannot project %v", p)
	}
	scale := 1 / (1 + p.Y)
	return r2.Point{X: p.X * scale, Y: -p.Z * scale}, nil
}

// Inverse maps q back onto the unit sphere. It is the exact inverse of
// Forward away from the pole; the image never reaches the pole itself.
func Inverse(q r2.Point) s2.Point {
	d2 := q.X*q.X + q.Y*q.Y
	scale := 2 / (d2 + 1)
	return s2.Point{Vector: r3.Vector{
		X: q.X * scale,
		Y: (1 - d2) / (1 + d2),
		Z: -q.Y * scale,
	}}
}

// ForwardAll projects every point except those at the pole. poles lists the
// indices of the points that were held back.
func ForwardAll(points s2.PointVector, eps float64) (projected []r2.Point, index []int, poles []int, err error) {
	projected = make([]r2.Point, 0, len(points))
	index = make([]int, 0, len(points))
	for i, p := range points {
		if IsPole(p.Vector, eps) {
			poles = append(poles, i)
			continue
		}
		q, err := Forward(p.Vector)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "stereo: point %d", i)
		}
		projected = append(projected, q)
		index = append(index, i)
	}
	return projected, index, poles, nil
}

func isFinite(v r3.Vector) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
