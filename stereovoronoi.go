// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package stereovoronoi extracts planar Voronoi diagrams from Delaunay
// triangulations, including the unbounded cells on the convex hull. The
// sphere package lifts them back onto the sphere.
package stereovoronoi

import (
	"fmt"

	"github.com/2dChan/stereovoronoi/delaunay"
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
)

const (
	defaultEps = 1e-12
)

// Vertex is a Voronoi vertex: either an InnerVertex or an OuterVertex.
type Vertex interface {
	isVertex()
}

// InnerVertex is the circumcenter of a Delaunay face.
type InnerVertex struct {
	Face   int
	Center r2.Point
}

// OuterVertex is the point at infinity reached through a convex hull edge.
// Direction is the outward unit normal of the edge.
type OuterVertex struct {
	Edge      [2]int
	Direction r2.Point
}

func (InnerVertex) isVertex() {}
func (OuterVertex) isVertex() {}

type EdgeKind int

const (
	// Segment joins the circumcenters of two faces sharing an edge.
	Segment EdgeKind = iota
	// Ray starts at a hull face circumcenter and leaves through a hull edge.
	Ray
)

func (k EdgeKind) String() string {
	switch k {
	case Segment:
		return "segment"
	case Ray:
		return "ray"
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// Edge is an undirected Voronoi edge. To is an InnerVertex for a Segment and
// an OuterVertex for a Ray. Sites are the two Delaunay vertices whose cells
// the edge separates.
type Edge struct {
	Kind  EdgeKind
	From  InnerVertex
	To    Vertex
	Sites [2]int
}

// NumericalInstabilityWarning reports a face whose circumcenter could not be
// computed reliably. Every Voronoi edge touching the face is left out of the
// diagram.
type NumericalInstabilityWarning struct {
	Face int
	Area float64
}

func (w NumericalInstabilityWarning) Error() string {
	return fmt.Sprintf("stereovoronoi: face %d is numerically degenerate (signed area %g)", w.Face, w.Area)
}

type Diagram struct {
	Sites    []r2.Point
	Edges    []Edge
	Warnings []NumericalInstabilityWarning

	// NOTE: Sorted by edge index per cell.
	CellEdges     []int
	CellNeighbors []int
	CellOffsets   []int

	tri  *delaunay.Triangulation
	hull []bool
}

type DiagramOptions struct {
	Eps float64
}

type DiagramOption func(*DiagramOptions) error

func WithEps(eps float64) DiagramOption {
	return func(o *DiagramOptions) error {
		if !(eps > 0) {
			return errors.Newf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

// NewDiagram extracts the Voronoi diagram dual to tri. Each undirected edge
// of tri yields at most one Voronoi edge. A collinear triangulation yields
// none, as does a lone triangle, which has no neighbour to bound a cell.
//
// tri must not be modified while the Diagram is in use.
func NewDiagram(tri *delaunay.Triangulation, setters ...DiagramOption) (*Diagram, error) {
	if tri == nil {
		return nil, errors.New("stereovoronoi: nil triangulation")
	}
	opts := DiagramOptions{
		Eps: tri.Options().Eps,
	}
	if opts.Eps <= 0 {
		opts.Eps = defaultEps
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	numFaces := tri.NumFaces()
	d := &Diagram{
		Sites: tri.Vertices,
		tri:   tri,
		hull:  make([]bool, len(tri.Vertices)),
	}

	centers := make([]r2.Point, numFaces)
	valid := make([]bool, numFaces)
	for f := range numFaces {
		a, b, c := tri.TriangleVertices(f)
		center, area, ok := delaunay.Circumcenter(a, b, c, opts.Eps)
		if !ok {
			d.Warnings = append(d.Warnings, NumericalInstabilityWarning{Face: f, Area: area})
			continue
		}
		centers[f] = center
		valid[f] = true
	}

	for f := range numFaces {
		v := tri.Face(f)
		n := tri.Neighbors(f)
		isolated := n == [3]int{-1, -1, -1}
		for i := range 3 {
			g := n[i]
			sites := [2]int{v[(i+1)%3], v[(i+2)%3]}
			switch {
			case g < 0:
				d.hull[sites[0]] = true
				d.hull[sites[1]] = true
				if isolated || !valid[f] {
					continue
				}
				d.Edges = append(d.Edges, Edge{
					Kind: Ray,
					From: InnerVertex{Face: f, Center: centers[f]},
					To: OuterVertex{
						Edge:      sites,
						Direction: outwardNormal(tri, f, sites),
					},
					Sites: sites,
				})
			case f < g:
				if !valid[f] || !valid[g] {
					continue
				}
				d.Edges = append(d.Edges, Edge{
					Kind:  Segment,
					From:  InnerVertex{Face: f, Center: centers[f]},
					To:    InnerVertex{Face: g, Center: centers[g]},
					Sites: sites,
				})
			}
		}
	}
	if numFaces == 0 {
		for i := range d.hull {
			d.hull[i] = true
		}
	}

	d.buildCells()
	return d, nil
}

// outwardNormal rotates the hull edge of f clockwise, away from the face
// interior, and checks the result against the face centroid.
func outwardNormal(tri *delaunay.Triangulation, f int, edge [2]int) r2.Point {
	a, b := tri.Vertices[edge[0]], tri.Vertices[edge[1]]
	e := b.Sub(a)
	dir := r2.Point{X: e.Y, Y: -e.X}.Normalize()

	p0, p1, p2 := tri.TriangleVertices(f)
	centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
	mid := a.Add(b).Mul(0.5)
	if dir.Dot(mid.Sub(centroid)) < 0 {
		dir = dir.Mul(-1)
	}
	return dir
}

func (d *Diagram) buildCells() {
	numSites := len(d.Sites)
	d.CellOffsets = make([]int, numSites+1)
	for _, e := range d.Edges {
		d.CellOffsets[e.Sites[0]+1]++
		d.CellOffsets[e.Sites[1]+1]++
	}
	for i := range numSites {
		d.CellOffsets[i+1] += d.CellOffsets[i]
	}

	d.CellEdges = make([]int, 2*len(d.Edges))
	d.CellNeighbors = make([]int, 2*len(d.Edges))
	nxt := make([]int, numSites)
	copy(nxt, d.CellOffsets[:numSites])
	for i, e := range d.Edges {
		for k, s := range e.Sites {
			d.CellEdges[nxt[s]] = i
			d.CellNeighbors[nxt[s]] = e.Sites[1-k]
			nxt[s]++
		}
	}
}

// Triangulation returns the triangulation the diagram was extracted from.
func (d *Diagram) Triangulation() *delaunay.Triangulation {
	return d.tri
}

func (d *Diagram) NumCells() int {
	return len(d.Sites)
}

// Cell returns the cell of the site at index i.
// It returns an error if the index is out of range.
func (d *Diagram) Cell(i int) (Cell, error) {
	if i < 0 || i >= d.NumCells() {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, d.NumCells())
	}
	return Cell{idx: i, d: d}, nil
}

// Count returns the number of segments and rays in the diagram.
func (d *Diagram) Count() (segments, rays int) {
	for _, e := range d.Edges {
		if e.Kind == Segment {
			segments++
		} else {
			rays++
		}
	}
	return segments, rays
}
