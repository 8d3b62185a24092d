// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package emit serializes and renders Voronoi edges. Planar diagrams are
// emitted in 2D and spherical chords in 3D; segments are drawn red and rays
// blue.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/2dChan/stereovoronoi"
	"github.com/2dChan/stereovoronoi/sphere"
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

const defaultMaxDecimalDigits = 9

// Line is a single emitted edge with two end points in the drawing layout.
type Line struct {
	Kind   stereovoronoi.EdgeKind
	Sites  [2]int
	Coords []float64
}

// Drawing is the geometry handed to the writers. Layout is geom.XY for
// planar drawings and geom.XYZ for spherical ones.
type Drawing struct {
	Layout geom.Layout
	Lines  []Line
	// Sites holds the flat site coordinates.
	Sites []float64
}

// FromDiagram converts the edges of d to a planar drawing. Rays are cut at
// rayLength from their circumcenter.
func FromDiagram(d *stereovoronoi.Diagram, rayLength float64) (*Drawing, error) {
	if !(rayLength > 0) {
		return nil, errors.Newf("emit: ray length must be positive, got %v", rayLength)
	}
	dr := &Drawing{
		Layout: geom.XY,
		Lines:  make([]Line, 0, len(d.Edges)),
		Sites:  make([]float64, 0, 2*len(d.Sites)),
	}
	for _, s := range d.Sites {
		dr.Sites = append(dr.Sites, s.X, s.Y)
	}
	for _, e := range d.Edges {
		from := e.From.Center
		to := from
		switch v := e.To.(type) {
		case stereovoronoi.InnerVertex:
			to = v.Center
		case stereovoronoi.OuterVertex:
			to = from.Add(v.Direction.Mul(rayLength))
		}
		dr.Lines = append(dr.Lines, Line{
			Kind:   e.Kind,
			Sites:  e.Sites,
			Coords: []float64{from.X, from.Y, to.X, to.Y},
		})
	}
	return dr, nil
}

// FromChords converts spherical chords to a 3D drawing. sites are scaled to
// radius so that they lie on the same sphere as the chords.
func FromChords(chords []sphere.Chord, sites s2.PointVector, radius float64) *Drawing {
	dr := &Drawing{
		Layout: geom.XYZ,
		Lines:  make([]Line, 0, len(chords)),
		Sites:  make([]float64, 0, 3*len(sites)),
	}
	for _, s := range sites {
		p := s.Mul(radius)
		dr.Sites = append(dr.Sites, p.X, p.Y, p.Z)
	}
	for _, c := range chords {
		dr.Lines = append(dr.Lines, Line{
			Kind:   c.Kind,
			Sites:  c.Sites,
			Coords: []float64{c.From.X, c.From.Y, c.From.Z, c.To.X, c.To.Y, c.To.Z},
		})
	}
	return dr
}

// MultiLineString returns the lines of the drawing as one geometry.
func (dr *Drawing) MultiLineString() (*geom.MultiLineString, error) {
	mls := geom.NewMultiLineString(dr.Layout)
	for i, l := range dr.Lines {
		if err := mls.Push(geom.NewLineStringFlat(dr.Layout, l.Coords)); err != nil {
			return nil, errors.Wrapf(err, "emit: line %d", i)
		}
	}
	return mls, nil
}

// Count returns the number of segments and rays in the drawing.
func (dr *Drawing) Count() (segments, rays int) {
	for _, l := range dr.Lines {
		if l.Kind == stereovoronoi.Segment {
			segments++
		} else {
			rays++
		}
	}
	return segments, rays
}

// WriteWKT writes the lines as a single MULTILINESTRING.
func WriteWKT(w io.Writer, dr *Drawing, maxDecimalDigits int) error {
	mls, err := dr.MultiLineString()
	if err != nil {
		return err
	}
	s, err := wkt.Marshal(mls, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
	if err != nil {
		return errors.Wrap(err, "emit: encoding WKT")
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

// WriteGeoJSON writes a FeatureCollection with one LineString feature per
// line and one Point feature per site. Every feature carries a "kind"
// property: "segment", "ray" or "site".
func WriteGeoJSON(w io.Writer, dr *Drawing) error {
	stride := dr.Layout.Stride()
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(dr.Lines)+len(dr.Sites)/stride),
	}
	for _, l := range dr.Lines {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewLineStringFlat(dr.Layout, l.Coords),
			Properties: map[string]interface{}{
				"kind":  l.Kind.String(),
				"sites": []int{l.Sites[0], l.Sites[1]},
			},
		})
	}
	for i := 0; i+stride <= len(dr.Sites); i += stride {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(dr.Layout, dr.Sites[i:i+stride]),
			Properties: map[string]interface{}{
				"kind":  "site",
				"index": i / stride,
			},
		})
	}
	b, err := json.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "emit: encoding GeoJSON")
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

type Format int

const (
	WKT Format = iota
	GeoJSON
	SVG
	PNG
)

func (f Format) String() string {
	switch f {
	case WKT:
		return "wkt"
	case GeoJSON:
		return "geojson"
	case SVG:
		return "svg"
	case PNG:
		return "png"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "wkt":
		return WKT, nil
	case "geojson", "json":
		return GeoJSON, nil
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	}
	return 0, errors.Newf("emit: unknown format %q", s)
}

type Options struct {
	Width            int
	Height           int
	MaxDecimalDigits int
}

// Write emits dr in format f. Width and Height apply to the image formats
// only.
func Write(w io.Writer, f Format, dr *Drawing, opts Options) error {
	if opts.MaxDecimalDigits <= 0 {
		opts.MaxDecimalDigits = defaultMaxDecimalDigits
	}
	switch f {
	case WKT:
		return WriteWKT(w, dr, opts.MaxDecimalDigits)
	case GeoJSON:
		return WriteGeoJSON(w, dr)
	case SVG:
		return WriteSVG(w, dr, opts.Width, opts.Height)
	case PNG:
		return WritePNG(w, dr, opts.Width, opts.Height)
	}
	return errors.Newf("emit: unknown format %v", f)
}
