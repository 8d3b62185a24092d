// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"cmp"
	"slices"

	"github.com/golang/geo/r2"
)

// Insert adds p to the triangulation and returns its vertex handle.
//
// It fails with *DegenerateInputError if p has a non-finite coordinate and
// with *DuplicatePointError if p lies within the tolerance of an existing
// vertex. A failed insertion leaves the triangulation unchanged.
//
// Exactly cocircular configurations keep the existing diagonal.
func (t *Triangulation) Insert(p r2.Point) (int, error) {
	v, err := t.insert(p)
	if err != nil {
		return -1, err
	}
	t.promote(v)
	return v, nil
}

func (t *Triangulation) insert(p r2.Point) (int, error) {
	if !isFinite(p) {
		return -1, &DegenerateInputError{Point: p}
	}
	if len(t.faces) == 0 {
		return t.insertCollinear(p)
	}

	t.seek(p)
	loc := t.locate(p)
	if err := t.checkDuplicate(p, loc); err != nil {
		return -1, err
	}

	v := t.addVertex(p)
	switch loc.kind {
	case inFace:
		t.splitFace(loc.face, v)
	case onEdge:
		t.splitEdge(loc.face, loc.idx, v)
	case outsideHull:
		t.extendHull(hullEdge{face: loc.face, idx: loc.idx}, v)
	}
	return v, nil
}

func (t *Triangulation) checkDuplicate(p r2.Point, loc location) error {
	if loc.kind == onVertex {
		return &DuplicatePointError{Point: p, Existing: loc.vertex}
	}
	if t.opts.Tolerance == 0 {
		return nil
	}
	v, d := t.nearestVertex(p, t.nearestCorner(loc, p))
	if d <= t.opts.Tolerance {
		return &DuplicatePointError{Point: p, Existing: v, Distance: d}
	}
	return nil
}

func (t *Triangulation) addVertex(p r2.Point) int {
	t.Vertices = append(t.Vertices, p)
	t.vertexFace = append(t.vertexFace, noFace)
	return len(t.Vertices) - 1
}

// insertCollinear handles insertion while no triangle exists. Vertices are
// held until a point strictly off their common line arrives, which is then
// fanned to the sorted chain.
func (t *Triangulation) insertCollinear(p r2.Point) (int, error) {
	for _, u := range t.collinear {
		if d := t.Vertices[u].Sub(p).Norm(); d <= t.opts.Tolerance {
			return -1, &DuplicatePointError{Point: p, Existing: u, Distance: d}
		}
	}

	v := t.addVertex(p)
	if len(t.collinear) < 2 ||
		Orient(t.Vertices[t.collinear[0]], t.Vertices[t.collinear[1]], p) == 0 {
		t.collinear = append(t.collinear, v)
		return v, nil
	}

	chain := t.collinear
	slices.SortFunc(chain, func(i, j int) int {
		a, b := t.Vertices[i], t.Vertices[j]
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	fan := make([]int, 0, len(chain)-1)
	for k := 1; k < len(chain); k++ {
		corners := [3]int{v, chain[k-1], chain[k]}
		if Orient(p, t.Vertices[chain[k-1]], t.Vertices[chain[k]]) < 0 {
			corners[1], corners[2] = corners[2], corners[1]
		}
		f := t.allocFace()
		t.setFace(f, corners, [3]int{noFace, noFace, noFace})
		fan = append(fan, f)
	}
	t.linkFaces(fan)
	t.collinear = nil
	t.legalize(v, fan)
	return v, nil
}

// linkFaces connects the faces in fs that share an edge.
func (t *Triangulation) linkFaces(fs []int) {
	type side struct{ face, idx int }
	open := make(map[[2]int]side, 3*len(fs))
	for _, f := range fs {
		fc := &t.faces[f]
		for i := range 3 {
			a, b := fc.v[(i+1)%3], fc.v[(i+2)%3]
			if s, ok := open[[2]int{b, a}]; ok {
				fc.n[i] = s.face
				t.faces[s.face].n[s.idx] = f
				continue
			}
			open[[2]int{a, b}] = side{face: f, idx: i}
		}
	}
}

func (t *Triangulation) allocFace() int {
	t.faces = append(t.faces, face{})
	return len(t.faces) - 1
}

func (t *Triangulation) setFace(f int, v, n [3]int) {
	t.faces[f] = face{v: v, n: n}
	for _, u := range v {
		t.vertexFace[u] = f
	}
	t.hint = f
}

func (t *Triangulation) replaceNeighbor(f, old, repl int) {
	if f == noFace {
		return
	}
	fc := &t.faces[f]
	fc.n[fc.neighborIndex(old)] = repl
}

// splitFace fans p, strictly inside f, to the three corners of f.
func (t *Triangulation) splitFace(f, p int) {
	fc := t.faces[f]
	a, b, c := fc.v[0], fc.v[1], fc.v[2]
	na, nb, nc := fc.n[0], fc.n[1], fc.n[2]

	f0 := f
	f1 := t.allocFace()
	f2 := t.allocFace()
	t.setFace(f0, [3]int{p, b, c}, [3]int{na, f1, f2})
	t.setFace(f1, [3]int{p, c, a}, [3]int{nb, f2, f0})
	t.setFace(f2, [3]int{p, a, b}, [3]int{nc, f0, f1})
	t.replaceNeighbor(nb, f, f1)
	t.replaceNeighbor(nc, f, f2)

	t.legalize(p, []int{f0, f1, f2})
}

// splitEdge inserts p on the edge opposite corner i of f, splitting f and
// the face across the edge, if any, in two.
func (t *Triangulation) splitEdge(f, i, p int) {
	fc := t.faces[f]
	a, b, c := fc.v[i], fc.v[(i+1)%3], fc.v[(i+2)%3]
	g := fc.n[i]
	nca := fc.n[(i+1)%3]
	nab := fc.n[(i+2)%3]

	f1 := f
	f2 := t.allocFace()
	if g == noFace {
		t.setFace(f1, [3]int{a, b, p}, [3]int{noFace, f2, nab})
		t.setFace(f2, [3]int{a, p, c}, [3]int{noFace, nca, f1})
		t.replaceNeighbor(nca, f, f2)
		t.legalize(p, []int{f1, f2})
		return
	}

	gc := t.faces[g]
	j := gc.neighborIndex(f)
	d := gc.v[j]
	nbd := gc.n[(j+1)%3]
	ndc := gc.n[(j+2)%3]

	g1 := g
	g2 := t.allocFace()
	t.setFace(f1, [3]int{a, b, p}, [3]int{g2, f2, nab})
	t.setFace(f2, [3]int{a, p, c}, [3]int{g1, nca, f1})
	t.setFace(g1, [3]int{d, c, p}, [3]int{f2, g2, ndc})
	t.setFace(g2, [3]int{d, p, b}, [3]int{f1, nbd, g1})
	t.replaceNeighbor(nca, f, f2)
	t.replaceNeighbor(nbd, g, g2)

	t.legalize(p, []int{f1, f2, g1, g2})
}

// extendHull connects p, outside the convex hull, to every hull edge visible
// from it. e is one visible edge.
func (t *Triangulation) extendHull(e hullEdge, p int) {
	chain := []hullEdge{e}
	for prev := t.prevHullEdge(e); prev != e && t.hullEdgeVisible(prev, t.Vertices[p]); prev = t.prevHullEdge(prev) {
		chain = append(chain, prev)
	}
	slices.Reverse(chain)
	for next := t.nextHullEdge(e); next != chain[0] && t.hullEdgeVisible(next, t.Vertices[p]); next = t.nextHullEdge(next) {
		chain = append(chain, next)
	}

	// Hull edge m runs from w[m] to w[m+1]; its new face is [p, w[m+1], w[m]].
	fan := make([]int, len(chain))
	for m := range chain {
		fan[m] = t.allocFace()
	}
	for m, he := range chain {
		hc := &t.faces[he.face]
		from, to := hc.v[(he.idx+1)%3], hc.v[(he.idx+2)%3]
		hc.n[he.idx] = fan[m]

		n := [3]int{he.face, noFace, noFace}
		if m > 0 {
			n[1] = fan[m-1]
		}
		if m+1 < len(chain) {
			n[2] = fan[m+1]
		}
		t.setFace(fan[m], [3]int{p, to, from}, n)
	}

	t.legalize(p, fan)
}

// legalize restores the Delaunay property around p. Every face on the stack
// contains p; the edge opposite p is flipped while the neighbour's far corner
// lies strictly inside the face's circumcircle.
func (t *Triangulation) legalize(p int, stack []int) {
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fc := &t.faces[f]
		i := fc.index(p)
		g := fc.n[i]
		if g == noFace {
			continue
		}
		gc := &t.faces[g]
		j := gc.neighborIndex(f)
		d := gc.v[j]
		if InCircle(t.Vertices[fc.v[0]], t.Vertices[fc.v[1]], t.Vertices[fc.v[2]], t.Vertices[d]) <= 0 {
			continue
		}
		t.flip(f, i, g, j)
		stack = append(stack, f, g)
	}
}

// flip replaces the diagonal shared by f and g. Corner i of f and corner j
// of g are opposite the shared edge. Both slots are reused: f becomes
// [a, b, d] and g becomes [a, d, c].
func (t *Triangulation) flip(f, i, g, j int) {
	fc, gc := t.faces[f], t.faces[g]
	a, b, c := fc.v[i], fc.v[(i+1)%3], fc.v[(i+2)%3]
	d := gc.v[j]
	nca := fc.n[(i+1)%3]
	nab := fc.n[(i+2)%3]
	nbd := gc.n[(j+1)%3]
	ndc := gc.n[(j+2)%3]

	t.setFace(f, [3]int{a, b, d}, [3]int{nbd, g, nab})
	t.setFace(g, [3]int{a, d, c}, [3]int{ndc, nca, f})
	t.replaceNeighbor(nbd, g, f)
	t.replaceNeighbor(nca, f, g)
}
