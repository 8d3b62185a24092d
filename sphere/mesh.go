// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sphere

import (
	"fmt"

	"github.com/2dChan/stereovoronoi"
	"github.com/2dChan/stereovoronoi/delaunay"
	"github.com/2dChan/stereovoronoi/stereo"
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Mesh is the Delaunay triangulation of a set of unit sphere sites. The
// sites other than the projection pole are triangulated in the plane; the
// hull of the planar triangulation is then closed with a fan of triangles
// around the pole, which is appended to Sites when no site lies there.
type Mesh struct {
	Sites s2.PointVector
	// NOTE: CCW looking out of the sphere.
	Triangles [][3]int
	// NOTE: Sorted in CCW per site (looking out of sphere).
	IncidentTriangleIndices []int
	IncidentTriangleOffsets []int
	// Circumcenters holds the unit spherical circumcenter of each triangle;
	// entries listed in Warnings are zero.
	Circumcenters []s2.Point
	Warnings      []stereovoronoi.NumericalInstabilityWarning

	Pole      int
	PoleAdded bool
	// Skipped lists the duplicate sites left out of the mesh.
	Skipped []int
	Planar  *delaunay.Triangulation

	unstable []bool
}

// NewMesh triangulates sites, which must lie on the unit sphere. Duplicate
// sites fail the build unless WithSkipDuplicates is set. A site within the
// tolerance of the pole is used as the pole instead of a synthetic one.
func NewMesh(sites s2.PointVector, setters ...Option) (*Mesh, error) {
	opts, err := newOptions(setters)
	if err != nil {
		return nil, err
	}

	projected, index, poles, err := stereo.ForwardAll(sites, opts.Eps)
	if err != nil {
		return nil, err
	}

	// Sites within the tolerance of the pole, measured along the chord, are
	// duplicates of it. The closest stands in for the pole when no site lies
	// exactly there.
	var near []int
	kept := 0
	for k, q := range projected {
		i := index[k]
		if sites[i].Sub(stereo.Pole.Vector).Norm() <= opts.Tolerance {
			near = append(near, i)
			continue
		}
		projected[kept], index[kept] = q, i
		kept++
	}
	projected, index = projected[:kept], index[:kept]
	if len(poles) == 0 && len(near) > 0 {
		closest := 0
		for k, i := range near {
			if sites[i].Sub(stereo.Pole.Vector).Norm() < sites[near[closest]].Sub(stereo.Pole.Vector).Norm() {
				closest = k
			}
		}
		near[0], near[closest] = near[closest], near[0]
	}
	poles = append(poles, near...)

	m := &Mesh{
		Sites: sites,
	}
	switch {
	case len(poles) == 0:
		m.Pole = len(sites)
		m.PoleAdded = true
		m.Sites = append(sites[:len(sites):len(sites)], stereo.Pole)
	default:
		m.Pole = poles[0]
		for _, p := range poles[1:] {
			if !opts.SkipDuplicates {
				return nil, errors.Newf("sphere: sites %d and %d both lie at the pole", m.Pole, p)
			}
			m.Skipped = append(m.Skipped, p)
		}
	}

	m.Planar, err = delaunay.New(delaunay.WithEps(opts.Eps), delaunay.WithTolerance(opts.Tolerance))
	if err != nil {
		return nil, err
	}
	siteOf := make([]int, 0, len(projected))
	for i, q := range projected {
		if _, err := m.Planar.Insert(q); err != nil {
			var dup *delaunay.DuplicatePointError
			if opts.SkipDuplicates && errors.As(err, &dup) {
				m.Skipped = append(m.Skipped, index[i])
				continue
			}
			return nil, errors.Wrapf(err, "sphere: site %d", index[i])
		}
		siteOf = append(siteOf, index[i])
	}
	if m.Planar.NumFaces() == 0 {
		return nil, errors.Newf("sphere: %d sites do not span a mesh", len(siteOf))
	}

	faces := m.Planar.Faces()
	hull := m.Planar.HullEdges()
	m.Triangles = make([][3]int, 0, len(faces)+len(hull))
	for _, f := range faces {
		m.Triangles = append(m.Triangles, [3]int{siteOf[f[0]], siteOf[f[1]], siteOf[f[2]]})
	}
	for _, e := range hull {
		m.Triangles = append(m.Triangles, [3]int{siteOf[e[1]], siteOf[e[0]], m.Pole})
	}

	inside := m.Sites[m.Pole].Vector
	for _, s := range siteOf {
		inside = inside.Add(m.Sites[s].Vector)
	}
	inside = inside.Mul(1 / float64(len(siteOf)+1))
	for i := range m.Triangles {
		sortTriangleVerticesCCW(&m.Triangles[i], m.Sites, inside)
	}

	m.buildIncidentTriangles()
	m.buildCircumcenters(opts.Eps)
	return m, nil
}

func (m *Mesh) buildIncidentTriangles() {
	numSites := len(m.Sites)
	numTriangles := len(m.Triangles)
	m.IncidentTriangleIndices = make([]int, numTriangles*3)
	m.IncidentTriangleOffsets = make([]int, numSites+1)

	for _, t := range m.Triangles {
		for _, v := range t {
			m.IncidentTriangleOffsets[v+1]++
		}
	}
	for i := range numSites {
		m.IncidentTriangleOffsets[i+1] += m.IncidentTriangleOffsets[i]
	}

	nxt := make([]int, numSites)
	copy(nxt, m.IncidentTriangleOffsets[:numSites])
	for i, t := range m.Triangles {
		for _, v := range t {
			m.IncidentTriangleIndices[nxt[v]] = i
			nxt[v]++
		}
	}

	for i := range numSites {
		sortIncidentTriangleIndicesCCW(i, m.IncidentTriangles(i), m.Triangles)
	}
}

// buildCircumcenters orients each center by the triangle winding, so a
// triangle whose empty cap is larger than a hemisphere still gets the
// center of that cap.
func (m *Mesh) buildCircumcenters(eps float64) {
	m.Circumcenters = make([]s2.Point, len(m.Triangles))
	m.unstable = make([]bool, len(m.Triangles))
	for i := range m.Triangles {
		a, b, c := m.TriangleVertices(i)
		center, area, ok := triangleCircumcenter(a, b, c, eps)
		if !ok {
			m.unstable[i] = true
			m.Warnings = append(m.Warnings, stereovoronoi.NumericalInstabilityWarning{Face: i, Area: area})
			continue
		}
		outward := b.Sub(a.Vector).Cross(c.Sub(a.Vector))
		if center.Dot(outward) < 0 {
			center = s2.Point{Vector: center.Mul(-1)}
		}
		m.Circumcenters[i] = center
	}
}

func (m *Mesh) IncidentTriangles(site int) []int {
	if site < 0 || site+1 >= len(m.IncidentTriangleOffsets) {
		panic("IncidentTriangles: site out of range")
	}
	start := m.IncidentTriangleOffsets[site]
	end := m.IncidentTriangleOffsets[site+1]
	return m.IncidentTriangleIndices[start:end]
}

func (m *Mesh) TriangleVertices(t int) (s2.Point, s2.Point, s2.Point) {
	if t < 0 || t >= len(m.Triangles) {
		panic("TriangleVertices: triangle out of range")
	}
	tri := m.Triangles[t]
	return m.Sites[tri[0]], m.Sites[tri[1]], m.Sites[tri[2]]
}

// CellVertices returns the Voronoi vertices of a site in CCW order. Centers
// of numerically degenerate triangles are left out.
func (m *Mesh) CellVertices(site int) ([]s2.Point, error) {
	if site < 0 || site >= len(m.Sites) {
		return nil, fmt.Errorf("CellVertices: index %d out of range [0 %d)", site, len(m.Sites))
	}
	incident := m.IncidentTriangles(site)
	vertices := make([]s2.Point, 0, len(incident))
	for _, t := range incident {
		if !m.unstable[t] {
			vertices = append(vertices, m.Circumcenters[t])
		}
	}
	return vertices, nil
}

// Chords returns the Voronoi edges of the mesh scaled to radius. The mesh is
// closed, so every chord is a Segment.
func (m *Mesh) Chords(radius float64) (*Reconstruction, error) {
	if !isPositiveFinite(radius) {
		return nil, errors.Newf("sphere: radius must be positive and finite, got %v", radius)
	}

	across := make(map[[2]int]int, 3*len(m.Triangles))
	for i, t := range m.Triangles {
		for k := range 3 {
			across[[2]int{t[k], t[(k+1)%3]}] = i
		}
	}

	r := &Reconstruction{Warnings: m.Warnings}
	for i, t := range m.Triangles {
		for k := range 3 {
			a, b := t[k], t[(k+1)%3]
			j, ok := across[[2]int{b, a}]
			if !ok || j < i || m.unstable[i] || m.unstable[j] {
				continue
			}
			r.Chords = append(r.Chords, Chord{
				Kind:  stereovoronoi.Segment,
				From:  m.Circumcenters[i].Mul(radius),
				To:    m.Circumcenters[j].Mul(radius),
				Sites: [2]int{a, b},
			})
		}
	}
	return r, nil
}

// sortTriangleVerticesCCW winds t so that its normal points away from
// inside, a point in the interior of the hull.
func sortTriangleVerticesCCW(t *[3]int, v s2.PointVector, inside r3.Vector) {
	p0, p1, p2 := v[t[0]], v[t[1]], v[t[2]]
	norm := p1.Sub(p0.Vector).Cross(p2.Sub(p0.Vector))
	if norm.Dot(p0.Sub(inside)) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

func sortIncidentTriangleIndicesCCW(vIdx int, incidentTris []int, tris [][3]int) {
	n := len(incidentTris)
	for i := 1; i < n; i++ {
		nxt := delaunay.NextVertex(tris[incidentTris[i-1]], vIdx)
		for j := i; j < n; j++ {
			prv := delaunay.PrevVertex(tris[incidentTris[j]], vIdx)
			if nxt == prv {
				incidentTris[i], incidentTris[j] = incidentTris[j], incidentTris[i]
				break
			}
		}
	}
}
