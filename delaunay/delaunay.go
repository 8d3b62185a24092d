// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package delaunay builds planar Delaunay triangulations by incremental
// insertion with local legalization.
package delaunay

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
)

const (
	defaultEps       = 1e-12
	defaultTolerance = 1e-12

	noFace = -1
)

// face is a triangle in the arena. v holds the corners in counter-clockwise
// order and n[i] is the face across the edge opposite v[i], or noFace on the
// convex hull.
type face struct {
	v [3]int
	n [3]int
}

func (f *face) index(v int) int {
	for i := range 3 {
		if f.v[i] == v {
			return i
		}
	}
	panic("index: vertex not in face")
}

func (f *face) neighborIndex(g int) int {
	for i := range 3 {
		if f.n[i] == g {
			return i
		}
	}
	panic("neighborIndex: faces are not adjacent")
}

// Triangulation is an incrementally built planar Delaunay triangulation.
// Vertex and face handles are indices into arenas owned by the
// Triangulation; vertex handles never change once assigned.
type Triangulation struct {
	Vertices []r2.Point

	faces []face
	// vertexFace[v] is some face incident to v, or noFace while v is held
	// in the collinear prefix.
	vertexFace []int
	// collinear holds the vertices inserted before the first non-degenerate
	// triangle could be formed.
	collinear []int
	hint      int

	// up is the next coarser level of the location hierarchy; down maps the
	// vertex handles of a coarser level to the level below it.
	up   *Triangulation
	down []int
	rng  *rand.Rand

	opts Options
}

type Options struct {
	// Eps is the relative threshold below which a triangle is treated as
	// numerically degenerate.
	Eps float64
	// Tolerance is the distance within which a new point is rejected as a
	// duplicate of an existing vertex.
	Tolerance float64
}

type Option func(*Options) error

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

// New returns an empty triangulation.
func New(setters ...Option) (*Triangulation, error) {
	opts := Options{
		Eps:       defaultEps,
		Tolerance: defaultTolerance,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	return &Triangulation{hint: noFace, rng: newLevelRand(), opts: opts}, nil
}

// Triangulate inserts points in order into a new triangulation. It stops at
// the first rejected point.
func Triangulate(points []r2.Point, setters ...Option) (*Triangulation, error) {
	t, err := New(setters...)
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		if _, err := t.Insert(p); err != nil {
			return nil, errors.Wrapf(err, "delaunay: point %d", i)
		}
	}
	return t, nil
}

func (t *Triangulation) Options() Options {
	return t.opts
}

func (t *Triangulation) NumVertices() int {
	return len(t.Vertices)
}

func (t *Triangulation) NumFaces() int {
	return len(t.faces)
}

// IsCollinear reports whether no triangle exists yet, that is whether every
// vertex inserted so far lies on a single line.
func (t *Triangulation) IsCollinear() bool {
	return len(t.faces) == 0
}

// Faces returns the corners of every face, counter-clockwise, indexed by face
// handle.
func (t *Triangulation) Faces() [][3]int {
	faces := make([][3]int, len(t.faces))
	for i := range t.faces {
		faces[i] = t.faces[i].v
	}
	return faces
}

func (t *Triangulation) Face(f int) [3]int {
	if f < 0 || f >= len(t.faces) {
		panic("Face: f out of range")
	}
	return t.faces[f].v
}

// Neighbors returns the faces across the edges opposite each corner of f;
// -1 marks a convex hull edge.
func (t *Triangulation) Neighbors(f int) [3]int {
	if f < 0 || f >= len(t.faces) {
		panic("Neighbors: f out of range")
	}
	return t.faces[f].n
}

func (t *Triangulation) TriangleVertices(f int) (r2.Point, r2.Point, r2.Point) {
	v := t.Face(f)
	return t.Vertices[v[0]], t.Vertices[v[1]], t.Vertices[v[2]]
}

// HullEdges returns the convex hull as directed edges in counter-clockwise
// order, with the triangulation on the left of each edge. It is empty while
// the triangulation is collinear.
func (t *Triangulation) HullEdges() [][2]int {
	start, ok := t.anyHullEdge()
	if !ok {
		return nil
	}
	var edges [][2]int
	e := start
	for {
		fc := &t.faces[e.face]
		edges = append(edges, [2]int{fc.v[(e.idx+1)%3], fc.v[(e.idx+2)%3]})
		e = t.nextHullEdge(e)
		if e == start {
			return edges
		}
	}
}

func (t *Triangulation) anyHullEdge() (hullEdge, bool) {
	for f := range t.faces {
		for i := range 3 {
			if t.faces[f].n[i] == noFace {
				return hullEdge{face: f, idx: i}, true
			}
		}
	}
	return hullEdge{}, false
}

func PrevVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[2]
	case t[1]:
		return t[0]
	case t[2]:
		return t[1]
	}
	panic("PrevVertex: vIdx not in triangle")
}

func NextVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[1]
	case t[1]:
		return t[2]
	case t[2]:
		return t[0]
	}
	panic("NextVertex: vIdx not in triangle")
}
