// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package sphere lifts planar Voronoi diagrams back onto a sphere and builds
// closed spherical meshes by stereographic projection and pole stitching.
//
// Voronoi edges are returned as straight chords between their reconstructed
// end points. A chord approximates the great-circle arc between the same
// points; it is not the arc itself.
package sphere

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/2dChan/stereovoronoi"
	"github.com/2dChan/stereovoronoi/delaunay"
	"github.com/2dChan/stereovoronoi/stereo"
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

const (
	defaultEps       = 1e-12
	defaultRadius    = 1.0
	defaultRayLength = 1.0
)

// Strategy selects how the circumcenter of a planar face is lifted onto the
// sphere.
type Strategy int

const (
	// RoundTrip maps the planar circumcenter through the inverse projection.
	RoundTrip Strategy = iota
	// Direct inverse-projects the face corners and takes the unit normal of
	// their plane, oriented towards the corners.
	Direct
)

func (s Strategy) String() string {
	switch s {
	case RoundTrip:
		return "roundtrip"
	case Direct:
		return "direct"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the strategy named by s, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "roundtrip", "round-trip":
		return RoundTrip, nil
	case "direct":
		return Direct, nil
	}
	return 0, errors.Newf("sphere: unknown strategy %q", s)
}

type Options struct {
	Strategy  Strategy
	Radius    float64
	RayLength float64
	Eps       float64
	// Tolerance and SkipDuplicates apply to NewMesh only.
	Tolerance      float64
	SkipDuplicates bool
}

type Option func(*Options) error

func WithStrategy(s Strategy) Option {
	return func(o *Options) error {
		if s != RoundTrip && s != Direct {
			return errors.Newf("WithStrategy: unknown strategy %v", s)
		}
		o.Strategy = s
		return nil
	}
}

func WithRadius(radius float64) Option {
	return func(o *Options) error {
		if !isPositiveFinite(radius) {
			return errors.Newf("WithRadius: radius must be positive and finite, got %v", radius)
		}
		o.Radius = radius
		return nil
	}
}

func WithRayLength(length float64) Option {
	return func(o *Options) error {
		if !isPositiveFinite(length) {
			return errors.Newf("WithRayLength: length must be positive and finite, got %v", length)
		}
		o.RayLength = length
		return nil
	}
}

func WithEps(eps float64) Option {
	return func(o *Options) error {
		if !(eps > 0) {
			return errors.Newf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

func WithTolerance(tol float64) Option {
	return func(o *Options) error {
		if !(tol >= 0) || math.IsInf(tol, 0) {
			return errors.Newf("WithTolerance: tolerance must be finite and non-negative, got %v", tol)
		}
		o.Tolerance = tol
		return nil
	}
}

// WithSkipDuplicates makes NewMesh leave out duplicate sites instead of
// failing on the first one.
func WithSkipDuplicates(skip bool) Option {
	return func(o *Options) error {
		o.SkipDuplicates = skip
		return nil
	}
}

func newOptions(setters []Option) (Options, error) {
	opts := Options{
		Strategy:  RoundTrip,
		Radius:    defaultRadius,
		RayLength: defaultRayLength,
		Eps:       defaultEps,
		Tolerance: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// Chord is a Voronoi edge in space. For a Ray, To is From moved by the ray
// length along the outward normal of the great circle through the hull edge.
type Chord struct {
	Kind  stereovoronoi.EdgeKind
	From  r3.Vector
	To    r3.Vector
	Sites [2]int
}

// Reconstruction holds the chords of a lifted diagram. Warnings starts with
// the warnings of the planar diagram and adds the faces whose spherical
// circumcenter or ray direction could not be computed; chords touching them
// are left out.
type Reconstruction struct {
	Chords   []Chord
	Warnings []stereovoronoi.NumericalInstabilityWarning
}

// Reconstruct lifts every edge of d onto the sphere of the configured
// radius. Planar sites are taken to be stereographic images of unit sphere
// points.
func Reconstruct(d *stereovoronoi.Diagram, setters ...Option) (*Reconstruction, error) {
	if d == nil {
		return nil, errors.New("sphere: nil diagram")
	}
	opts, err := newOptions(setters)
	if err != nil {
		return nil, err
	}

	tri := d.Triangulation()
	const (
		unknown = iota
		stable
		unstable
	)
	state := make([]uint8, tri.NumFaces())
	centers := make([]r3.Vector, tri.NumFaces())
	r := &Reconstruction{Warnings: slices.Clone(d.Warnings)}

	center := func(v stereovoronoi.InnerVertex) (r3.Vector, bool) {
		switch state[v.Face] {
		case stable:
			return centers[v.Face], true
		case unstable:
			return r3.Vector{}, false
		}
		var c s2.Point
		if opts.Strategy == RoundTrip {
			c = stereo.Inverse(v.Center)
		} else {
			a, b, cc := tri.TriangleVertices(v.Face)
			var area float64
			var ok bool
			c, area, ok = triangleCircumcenter(stereo.Inverse(a), stereo.Inverse(b), stereo.Inverse(cc), opts.Eps)
			if !ok {
				state[v.Face] = unstable
				r.Warnings = append(r.Warnings, stereovoronoi.NumericalInstabilityWarning{Face: v.Face, Area: area})
				return r3.Vector{}, false
			}
		}
		state[v.Face] = stable
		centers[v.Face] = c.Mul(opts.Radius)
		return centers[v.Face], true
	}

	for _, e := range d.Edges {
		from, ok := center(e.From)
		if !ok {
			continue
		}
		switch to := e.To.(type) {
		case stereovoronoi.InnerVertex:
			end, ok := center(to)
			if !ok {
				continue
			}
			r.Chords = append(r.Chords, Chord{Kind: stereovoronoi.Segment, From: from, To: end, Sites: e.Sites})
		case stereovoronoi.OuterVertex:
			far := delaunay.NextVertex(tri.Face(e.From.Face), to.Edge[1])
			n, area, ok := rayDirection(
				stereo.Inverse(d.Sites[to.Edge[0]]),
				stereo.Inverse(d.Sites[to.Edge[1]]),
				stereo.Inverse(d.Sites[far]),
				opts.Eps,
			)
			if !ok {
				r.Warnings = append(r.Warnings, stereovoronoi.NumericalInstabilityWarning{Face: e.From.Face, Area: area})
				continue
			}
			r.Chords = append(r.Chords, Chord{
				Kind:  stereovoronoi.Ray,
				From:  from,
				To:    from.Add(n.Mul(opts.RayLength)),
				Sites: e.Sites,
			})
		}
	}
	return r, nil
}

// rayDirection returns the unit normal of the great circle through u and v
// that points away from w, together with the area of the flat triangle
// spanned by the sphere center, u and v.
func rayDirection(u, v, w s2.Point, eps float64) (dir r3.Vector, area float64, ok bool) {
	n := u.Vector.Cross(v.Vector)
	norm := n.Norm()
	area = norm / 2
	if !(norm > eps) {
		return r3.Vector{}, area, false
	}
	if n.Dot(w.Vector) > 0 {
		n = n.Mul(-1)
	}
	return n.Mul(1 / norm), area, true
}

// triangleCircumcenter returns the unit normal of the plane through p1, p2
// and p3 on the side of their centroid, together with the area of the flat
// triangle. ok is false when the corners are too close to collinear.
func triangleCircumcenter(p1, p2, p3 s2.Point, eps float64) (center s2.Point, area float64, ok bool) {
	v1 := p1.Sub(p2.Vector)
	v2 := p2.Sub(p3.Vector)

	circumcenter := v1.Cross(v2)
	norm := circumcenter.Norm()
	area = norm / 2
	if !(norm > eps*v1.Norm()*v2.Norm()) || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return s2.Point{}, area, false
	}

	if circumcenter.Dot(p1.Vector.Add(p2.Vector).Add(p3.Vector)) < 0 {
		circumcenter = circumcenter.Mul(-1)
	}

	return s2.Point{Vector: circumcenter.Mul(1 / norm)}, area, true
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
