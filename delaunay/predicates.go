// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Static error bounds for the floating-point filters, after Shewchuk's
// "Adaptive Precision Floating-Point Arithmetic and Fast Robust Geometric
// Predicates".
var (
	epsilon           = math.Nextafter(1, 2) - 1
	orientErrBound    = (3 + 16*epsilon) * epsilon
	inCircleErrBound  = (10 + 96*epsilon) * epsilon
	circumcenterFloor = 1e-300
)

// Orient reports the orientation of the triangle abc: +1 if the points are in
// counter-clockwise order, -1 if clockwise and 0 if they are collinear.
// The result is exact.
func Orient(a, b, c r2.Point) int {
	l := (b.X - a.X) * (c.Y - a.Y)
	r := (b.Y - a.Y) * (c.X - a.X)
	det := l - r
	bound := orientErrBound * (math.Abs(l) + math.Abs(r))
	if det > bound {
		return 1
	}
	if -det > bound {
		return -1
	}
	return exactOrient(a, b, c)
}

func exactOrient(a, b, c r2.Point) int {
	pa := precisePoint(a)
	ab := precisePoint(b).Sub(pa)
	ac := precisePoint(c).Sub(pa)
	return ab.Cross(ac).Z.Sign()
}

// InCircle reports whether d lies inside (+1), on (0) or outside (-1) the
// circle through a, b and c. The triangle abc must be counter-clockwise.
// The result is exact.
func InCircle(a, b, c, d r2.Point) int {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y

	alift := adx*adx + ady*ady
	blift := bdx*bdx + bdy*bdy
	clift := cdx*cdx + cdy*cdy

	bc := bdx*cdy - bdy*cdx
	ca := cdx*ady - cdy*adx
	ab := adx*bdy - ady*bdx
	det := alift*bc + blift*ca + clift*ab

	permanent := (math.Abs(bdx*cdy)+math.Abs(bdy*cdx))*alift +
		(math.Abs(cdx*ady)+math.Abs(cdy*adx))*blift +
		(math.Abs(adx*bdy)+math.Abs(ady*bdx))*clift
	bound := inCircleErrBound * permanent
	if det > bound {
		return 1
	}
	if -det > bound {
		return -1
	}
	return exactInCircle(a, b, c, d)
}

// exactInCircle evaluates the lifted orientation determinant
//
//	| ax-dx  ay-dy  (ax-dx)²+(ay-dy)² |
//	| bx-dx  by-dy  (bx-dx)²+(by-dy)² |
//	| cx-dx  cy-dy  (cx-dx)²+(cy-dy)² |
//
// as the triple product of its rows.
func exactInCircle(a, b, c, d r2.Point) int {
	pd := precisePoint(d)
	lift := func(p r2.Point) r3.PreciseVector {
		v := precisePoint(p).Sub(pd)
		v.Z = v.Norm2()
		return v
	}
	u, v, w := lift(a), lift(b), lift(c)
	return u.Dot(v.Cross(w)).Sign()
}

func precisePoint(p r2.Point) r3.PreciseVector {
	return r3.PreciseVectorFromVector(r3.Vector{X: p.X, Y: p.Y})
}

// Circumcenter returns the center of the circle through a, b and c using the
// closed determinant form relative to a. ok is false when the triangle's
// signed area is too small relative to its edge lengths (per eps) for the
// center to be meaningful; area is the signed area in either case.
func Circumcenter(a, b, c r2.Point, eps float64) (center r2.Point, area float64, ok bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	cross := ab.Cross(ac)
	area = cross / 2

	scale := ab.Norm() * ac.Norm()
	if math.Abs(cross) <= eps*scale || math.Abs(cross) < circumcenterFloor {
		return r2.Point{}, area, false
	}

	d := 2 * cross
	abLen2 := ab.Dot(ab)
	acLen2 := ac.Dot(ac)
	ux := (ac.Y*abLen2 - ab.Y*acLen2) / d
	uy := (ab.X*acLen2 - ac.X*abLen2) / d
	center = r2.Point{X: a.X + ux, Y: a.Y + uy}
	if !isFinite(center) {
		return r2.Point{}, area, false
	}
	return center, area, true
}

func isFinite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
