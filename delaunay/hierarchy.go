// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// Every inserted vertex is copied into the next coarser level with
// probability 1/levelRatio, up to maxLevels levels in total. Locating a
// point walks each level from the top, starting next to the vertex found one
// level up, which keeps the expected location cost logarithmic whatever the
// insertion order.
const (
	levelRatio = 30
	maxLevels  = 5
	levelSeed  = 1
)

// seek points the walk hint at a face near p, found by locating p in the
// coarser levels from the top down.
func (t *Triangulation) seek(p r2.Point) {
	up := t.up
	if up == nil || len(up.faces) == 0 {
		return
	}
	up.seek(p)
	u := up.nearestCorner(up.locate(p), p)
	if f := t.vertexFace[up.down[u]]; f != noFace {
		t.hint = f
	}
}

// nearestCorner returns the corner of the located face closest to p.
func (t *Triangulation) nearestCorner(loc location, p r2.Point) int {
	if loc.kind == onVertex {
		return loc.vertex
	}
	fc := &t.faces[loc.face]
	best := fc.v[0]
	for _, v := range fc.v[1:] {
		if t.Vertices[v].Sub(p).Norm() < t.Vertices[best].Sub(p).Norm() {
			best = v
		}
	}
	return best
}

// promote copies vertex v into a random number of coarser levels. The draw
// uses a fixed seed, so the levels depend only on the insertion sequence.
func (t *Triangulation) promote(v int) {
	p := t.Vertices[v]
	below, handle := t, v
	for k := 1; k < maxLevels && t.rng.Intn(levelRatio) == 0; k++ {
		if below.up == nil {
			below.up = &Triangulation{hint: noFace, opts: below.opts}
		}
		u, err := below.up.insert(p)
		if err != nil {
			// Coarser levels hold a subset of the vertices below, which
			// already accepted p.
			return
		}
		below.up.down = append(below.up.down, handle)
		below, handle = below.up, u
	}
}

func newLevelRand() *rand.Rand {
	return rand.New(rand.NewSource(levelSeed))
}
