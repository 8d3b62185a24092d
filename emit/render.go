// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package emit

import (
	"io"
	"math"

	"github.com/2dChan/stereovoronoi"
	svg "github.com/ajstarks/svgo"
	"github.com/cockroachdb/errors"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-geom"
)

const (
	defaultWidth  = 1500
	defaultHeight = 750
	padding       = 20
	siteRadius    = 3

	backgroundStyle = "fill:rgb(255,255,255)"
	segmentStyle    = "stroke:rgb(255,0,0);stroke-width:1"
	rayStyle        = "stroke:rgb(0,0,255);stroke-width:1"
	siteStyle       = "fill:rgb(0,0,0)"
)

type screenLine struct {
	kind   stereovoronoi.EdgeKind
	x0, y0 float64
	x1, y1 float64
}

type screen struct {
	width, height int
	lines         []screenLine
	sites         []r2.Point
}

// WriteSVG renders dr as an SVG image. Planar drawings are fitted to the
// image; spherical drawings use a plate carrée projection and leave out
// lines that cross the antimeridian.
func WriteSVG(w io.Writer, dr *Drawing, width, height int) error {
	sc, err := newScreen(dr, width, height)
	if err != nil {
		return err
	}

	canvas := svg.New(w)
	canvas.Start(sc.width, sc.height)
	canvas.Rect(0, 0, sc.width, sc.height, backgroundStyle)
	for _, l := range sc.lines {
		style := segmentStyle
		if l.kind == stereovoronoi.Ray {
			style = rayStyle
		}
		canvas.Line(round(l.x0), round(l.y0), round(l.x1), round(l.y1), style)
	}
	for _, p := range sc.sites {
		canvas.Circle(round(p.X), round(p.Y), siteRadius, siteStyle)
	}
	canvas.End()
	return nil
}

// WritePNG renders dr like WriteSVG, as a PNG image.
func WritePNG(w io.Writer, dr *Drawing, width, height int) error {
	sc, err := newScreen(dr, width, height)
	if err != nil {
		return err
	}

	c := gg.NewContext(sc.width, sc.height)
	c.SetRGB(1, 1, 1)
	c.Clear()

	c.SetLineWidth(1)
	for _, l := range sc.lines {
		if l.kind == stereovoronoi.Ray {
			c.SetRGB(0, 0, 1)
		} else {
			c.SetRGB(1, 0, 0)
		}
		c.DrawLine(l.x0, l.y0, l.x1, l.y1)
		c.Stroke()
	}
	c.SetRGB(0, 0, 0)
	for _, p := range sc.sites {
		c.DrawCircle(p.X, p.Y, siteRadius)
		c.Fill()
	}

	if err := c.EncodePNG(w); err != nil {
		return errors.Wrap(err, "emit: encoding PNG")
	}
	return nil
}

func newScreen(dr *Drawing, width, height int) (*screen, error) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	sc := &screen{width: width, height: height}
	switch dr.Layout {
	case geom.XY:
		sc.fitPlanar(dr)
	case geom.XYZ:
		sc.projectSpherical(dr)
	default:
		return nil, errors.Newf("emit: unsupported layout %v", dr.Layout)
	}
	return sc, nil
}

func (sc *screen) fitPlanar(dr *Drawing) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(coords []float64) {
		for i := 0; i+1 < len(coords); i += 2 {
			minX = math.Min(minX, coords[i])
			maxX = math.Max(maxX, coords[i])
			minY = math.Min(minY, coords[i+1])
			maxY = math.Max(maxY, coords[i+1])
		}
	}
	extend(dr.Sites)
	for _, l := range dr.Lines {
		extend(l.Coords)
	}
	if minX > maxX {
		return
	}

	scale := math.Min(
		float64(sc.width-2*padding)/math.Max(maxX-minX, 1e-12),
		float64(sc.height-2*padding)/math.Max(maxY-minY, 1e-12),
	)
	// The image Y axis points down.
	toScreen := func(x, y float64) (float64, float64) {
		return padding + (x-minX)*scale, float64(sc.height) - padding - (y-minY)*scale
	}
	for _, l := range dr.Lines {
		x0, y0 := toScreen(l.Coords[0], l.Coords[1])
		x1, y1 := toScreen(l.Coords[2], l.Coords[3])
		sc.lines = append(sc.lines, screenLine{kind: l.Kind, x0: x0, y0: y0, x1: x1, y1: y1})
	}
	for i := 0; i+1 < len(dr.Sites); i += 2 {
		x, y := toScreen(dr.Sites[i], dr.Sites[i+1])
		sc.sites = append(sc.sites, r2.Point{X: x, Y: y})
	}
}

func (sc *screen) projectSpherical(dr *Drawing) {
	const xScale = 180
	proj := s2.NewPlateCarreeProjection(xScale)
	toScreen := func(x, y, z float64) r2.Point {
		p := proj.Project(s2.PointFromCoords(x, y, z))
		return r2.Point{
			X: (p.X + xScale) / (2 * xScale) * float64(sc.width),
			Y: (xScale/2 - p.Y) / xScale * float64(sc.height),
		}
	}
	for _, l := range dr.Lines {
		p0 := toScreen(l.Coords[0], l.Coords[1], l.Coords[2])
		p1 := toScreen(l.Coords[3], l.Coords[4], l.Coords[5])
		// Skip lines that may cross the antimeridian to avoid rendering issues
		if math.Abs(p0.X-p1.X) > float64(sc.width)/2 {
			continue
		}
		sc.lines = append(sc.lines, screenLine{kind: l.Kind, x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y})
	}
	for i := 0; i+2 < len(dr.Sites); i += 3 {
		sc.sites = append(sc.sites, toScreen(dr.Sites[i], dr.Sites[i+1], dr.Sites[i+2]))
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
