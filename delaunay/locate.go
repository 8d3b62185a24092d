// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"github.com/golang/geo/r2"
)

type locationKind int

const (
	inFace locationKind = iota
	onEdge
	onVertex
	outsideHull
)

// location is the result of point location. For onEdge and outsideHull, idx
// is the index of the corner opposite the edge in face; for onVertex, vertex
// is the coincident vertex.
type location struct {
	kind   locationKind
	face   int
	idx    int
	vertex int
}

// hullEdge is the convex hull edge opposite corner idx of face.
type hullEdge struct {
	face int
	idx  int
}

// locate walks from the most recently touched face towards p, crossing any
// edge that separates the current face from p. On a Delaunay triangulation
// the walk cannot cycle; the step limit only guards against misuse.
func (t *Triangulation) locate(p r2.Point) location {
	f := t.hint
	if f < 0 || f >= len(t.faces) {
		f = 0
	}
	for range 2*len(t.faces) + 8 {
		loc, next, done := t.classify(f, p)
		if done {
			return loc
		}
		f = next
	}
	return t.scan(p)
}

// classify tests p against the edges of f. It either reports a final
// location or the next face of the walk.
func (t *Triangulation) classify(f int, p r2.Point) (location, int, bool) {
	fc := &t.faces[f]
	zeros, zeroIdx := 0, -1
	for i := range 3 {
		a, b := t.Vertices[fc.v[(i+1)%3]], t.Vertices[fc.v[(i+2)%3]]
		switch Orient(a, b, p) {
		case -1:
			if fc.n[i] == noFace {
				return location{kind: outsideHull, face: f, idx: i}, noFace, true
			}
			return location{}, fc.n[i], false
		case 0:
			zeros++
			zeroIdx = i
		}
	}
	switch zeros {
	case 0:
		return location{kind: inFace, face: f}, noFace, true
	case 1:
		return location{kind: onEdge, face: f, idx: zeroIdx}, noFace, true
	}
	// p lies on two edge lines, so it is the corner they share.
	for i := range 3 {
		if p == t.Vertices[fc.v[i]] {
			return location{kind: onVertex, face: f, vertex: fc.v[i]}, noFace, true
		}
	}
	panic("classify: degenerate face")
}

func (t *Triangulation) scan(p r2.Point) location {
	for f := range t.faces {
		if loc, _, done := t.classify(f, p); done && loc.kind != outsideHull {
			return loc
		}
	}
	for f := range t.faces {
		fc := &t.faces[f]
		for i := range 3 {
			if fc.n[i] != noFace {
				continue
			}
			a, b := t.Vertices[fc.v[(i+1)%3]], t.Vertices[fc.v[(i+2)%3]]
			if Orient(a, b, p) < 0 {
				return location{kind: outsideHull, face: f, idx: i}
			}
		}
	}
	panic("scan: point not located")
}

// nearestVertex descends greedily over the Delaunay graph from the given
// vertex. Every vertex that is not the nearest to p has a Delaunay neighbour
// strictly closer to p, so the descent ends at the nearest vertex.
func (t *Triangulation) nearestVertex(p r2.Point, from int) (int, float64) {
	best := from
	bestDist := t.Vertices[from].Sub(p).Norm()
	for {
		cur := best
		t.eachNeighbor(cur, func(u int) {
			if d := t.Vertices[u].Sub(p).Norm(); d < bestDist {
				best, bestDist = u, d
			}
		})
		if best == cur {
			return best, bestDist
		}
	}
}

// eachNeighbor calls fn for every vertex sharing an edge with v, possibly
// more than once.
func (t *Triangulation) eachNeighbor(v int, fn func(u int)) {
	start := t.vertexFace[v]
	f := start
	for {
		fc := &t.faces[f]
		k := fc.index(v)
		fn(fc.v[(k+1)%3])
		fn(fc.v[(k+2)%3])
		f = fc.n[(k+1)%3]
		if f == start {
			return
		}
		if f == noFace {
			break
		}
	}
	// v is on the hull: sweep the other way from start.
	f = start
	for f != noFace {
		fc := &t.faces[f]
		k := fc.index(v)
		fn(fc.v[(k+1)%3])
		fn(fc.v[(k+2)%3])
		f = fc.n[(k+2)%3]
	}
}

// nextHullEdge returns the hull edge that starts where e ends.
func (t *Triangulation) nextHullEdge(e hullEdge) hullEdge {
	w := t.faces[e.face].v[(e.idx+2)%3]
	f := e.face
	for {
		fc := &t.faces[f]
		i := (fc.index(w) + 2) % 3
		if fc.n[i] == noFace {
			return hullEdge{face: f, idx: i}
		}
		f = fc.n[i]
	}
}

// prevHullEdge returns the hull edge that ends where e starts.
func (t *Triangulation) prevHullEdge(e hullEdge) hullEdge {
	w := t.faces[e.face].v[(e.idx+1)%3]
	f := e.face
	for {
		fc := &t.faces[f]
		i := (fc.index(w) + 1) % 3
		if fc.n[i] == noFace {
			return hullEdge{face: f, idx: i}
		}
		f = fc.n[i]
	}
}

func (t *Triangulation) hullEdgeVisible(e hullEdge, p r2.Point) bool {
	fc := &t.faces[e.face]
	a, b := t.Vertices[fc.v[(e.idx+1)%3]], t.Vertices[fc.v[(e.idx+2)%3]]
	return Orient(a, b, p) < 0
}
