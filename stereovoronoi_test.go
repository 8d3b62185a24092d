// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stereovoronoi

import (
	"cmp"
	"fmt"
	"math"
	"testing"

	"github.com/2dChan/stereovoronoi/delaunay"
	"github.com/2dChan/stereovoronoi/utils"
	"github.com/golang/geo/r2"
	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DiagramOptions

func TestWithEps(t *testing.T) {
	tests := []struct {
		name    string
		eps     float64
		wantErr bool
	}{
		{"eps positive", 0.5, false},
		{"eps zero", 0, true},
		{"eps negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &DiagramOptions{Eps: defaultEps}
			opt := WithEps(tt.eps)
			err := opt(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithEps(%v) error = %v, wantErr %v", tt.eps, err, tt.wantErr)
			}
			if err == nil && opts.Eps != tt.eps {
				t.Errorf("WithEps(%v) opts.Eps = %v, want %v", tt.eps, opts.Eps, tt.eps)
			}
		})
	}
}

// Diagram

func TestNewDiagram_NilTriangulation(t *testing.T) {
	if _, err := NewDiagram(nil); err == nil {
		t.Errorf("NewDiagram(nil) error = nil, want non-nil")
	}
}

func TestNewDiagram_InvalidOption(t *testing.T) {
	tri := mustTriangulate(t, utils.GenerateRandomPlanarPoints(10, 0))
	if _, err := NewDiagram(tri, WithEps(-1)); err == nil {
		t.Errorf("NewDiagram(..., WithEps(-1)) error = nil, want non-nil")
	}
}

func TestNewDiagram_SmallInputs(t *testing.T) {
	tests := []struct {
		name         string
		points       []r2.Point
		wantFaces    int
		wantSegments int
		wantRays     int
	}{
		{"collinear", []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, 0, 0, 0},
		{"triangle", []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 1, 0, 0},
		{"square", []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, 2, 1, 4},
		{"triangle with center", []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 1, Y: 1}}, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri := mustTriangulate(t, tt.points)
			if got := tri.NumFaces(); got != tt.wantFaces {
				t.Errorf("tri.NumFaces() = %v, want %v", got, tt.wantFaces)
			}
			vd := mustNewDiagram(t, tri)
			segments, rays := vd.Count()
			if segments != tt.wantSegments || rays != tt.wantRays {
				t.Errorf("vd.Count() = (%v, %v), want (%v, %v)", segments, rays, tt.wantSegments, tt.wantRays)
			}
			if len(vd.Warnings) != 0 {
				t.Errorf("vd.Warnings = %v, want none", vd.Warnings)
			}
		})
	}
}

func TestNewDiagram_Counts(t *testing.T) {
	tri := mustTriangulate(t, utils.GenerateRandomPlanarPoints(500, 1))
	vd := mustNewDiagram(t, tri)

	hull := len(tri.HullEdges())
	wantSegments := (3*tri.NumFaces() - hull) / 2
	segments, rays := vd.Count()
	if segments != wantSegments {
		t.Errorf("segments = %v, want %v", segments, wantSegments)
	}
	if rays != hull {
		t.Errorf("rays = %v, want %v", rays, hull)
	}
}

func TestNewDiagram_EdgesOnBisectors(t *testing.T) {
	vd := mustNewDiagram(t, mustTriangulate(t, utils.GenerateRandomPlanarPoints(300, 2)))
	for i, e := range vd.Edges {
		s0, s1 := vd.Sites[e.Sites[0]], vd.Sites[e.Sites[1]]
		d0 := e.From.Center.Sub(s0).Norm()
		d1 := e.From.Center.Sub(s1).Norm()
		if math.Abs(d0-d1) > 1e-9*math.Max(1, d0) {
			t.Errorf("Edges[%d].From is not equidistant from its sites: %v vs %v", i, d0, d1)
		}
		switch to := e.To.(type) {
		case InnerVertex:
			if e.Kind != Segment {
				t.Errorf("Edges[%d] has inner end but kind %v", i, e.Kind)
			}
			d0 := to.Center.Sub(s0).Norm()
			d1 := to.Center.Sub(s1).Norm()
			if math.Abs(d0-d1) > 1e-9*math.Max(1, d0) {
				t.Errorf("Edges[%d].To is not equidistant from its sites: %v vs %v", i, d0, d1)
			}
		case OuterVertex:
			if e.Kind != Ray {
				t.Errorf("Edges[%d] has outer end but kind %v", i, e.Kind)
			}
			if n := to.Direction.Norm(); math.Abs(n-1) > 1e-12 {
				t.Errorf("Edges[%d] direction norm = %v, want 1", i, n)
			}
			edge := s1.Sub(s0)
			if dot := to.Direction.Dot(edge); math.Abs(dot) > 1e-9*edge.Norm() {
				t.Errorf("Edges[%d] direction is not perpendicular to its hull edge", i)
			}
			// The far corner of the hull face lies on the inner side.
			f := vd.Triangulation().Face(e.From.Face)
			far := delaunay.NextVertex(f, e.Sites[1])
			if to.Direction.Dot(vd.Sites[far].Sub(s0)) >= 0 {
				t.Errorf("Edges[%d] direction points into the triangulation", i)
			}
		default:
			t.Fatalf("Edges[%d].To has type %T", i, e.To)
		}
	}
}

func TestNewDiagram_Idempotent(t *testing.T) {
	tri := mustTriangulate(t, utils.GenerateRandomPlanarPoints(200, 4))
	a := mustNewDiagram(t, tri)
	b := mustNewDiagram(t, tri)

	sortEdges := cmpopts.SortSlices(func(x, y Edge) bool {
		if c := cmp.Compare(x.Sites[0], y.Sites[0]); c != 0 {
			return c < 0
		}
		return x.Sites[1] < y.Sites[1]
	})
	if diff := gocmp.Diff(a.Edges, b.Edges, sortEdges); diff != "" {
		t.Errorf("NewDiagram(...) edges mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDiagram_NumericalInstability(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1e-15}, {X: 1, Y: -5}}
	tri := mustTriangulate(t, points)
	vd := mustNewDiagram(t, tri)

	if len(vd.Warnings) != 1 {
		t.Fatalf("len(vd.Warnings) = %v, want 1", len(vd.Warnings))
	}
	w := vd.Warnings[0]
	if w.Error() == "" {
		t.Errorf("w.Error() is empty")
	}
	for i, e := range vd.Edges {
		if e.From.Face == w.Face {
			t.Errorf("Edges[%d] starts at degenerate face %d", i, w.Face)
		}
		if in, ok := e.To.(InnerVertex); ok && in.Face == w.Face {
			t.Errorf("Edges[%d] ends at degenerate face %d", i, w.Face)
		}
		if math.IsNaN(e.From.Center.X) || math.IsInf(e.From.Center.X, 0) {
			t.Errorf("Edges[%d] has non-finite center %v", i, e.From.Center)
		}
	}
	if len(vd.Edges) == 0 {
		t.Errorf("len(vd.Edges) = 0, want the stable faces to contribute edges")
	}
}

func TestEdgeKind_String(t *testing.T) {
	tests := []struct {
		kind EdgeKind
		want string
	}{
		{Segment, "segment"},
		{Ray, "ray"},
		{EdgeKind(7), "EdgeKind(7)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EdgeKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

// Benchmarks

func BenchmarkNewDiagram(b *testing.B) {
	sizes := []int{1e+2, 1e+3, 1e+4, 1e+5}
	for _, pointsCnt := range sizes {
		b.Run(fmt.Sprintf("N%d", pointsCnt), func(b *testing.B) {
			tri, err := delaunay.Triangulate(utils.GenerateRandomPlanarPoints(pointsCnt, 0))
			if err != nil {
				b.Fatalf("delaunay.Triangulate(...) error = %v, want nil", err)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := NewDiagram(tri); err != nil {
					b.Fatalf("NewDiagram(...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustTriangulate(t *testing.T, points []r2.Point) *delaunay.Triangulation {
	t.Helper()
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		t.Fatalf("delaunay.Triangulate(...) error = %v, want nil", err)
	}
	return tri
}

func mustNewDiagram(t *testing.T, tri *delaunay.Triangulation) *Diagram {
	t.Helper()
	vd, err := NewDiagram(tri)
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	return vd
}
