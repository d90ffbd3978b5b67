/*
Copyright © 2023 the sunbc authors.
This file is part of sunbc.

sunbc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

sunbc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with sunbc.  If not, see <http://www.gnu.org/licenses/>.
*/

package sunbc

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// markerColors maps boundary marker classes to plot colors. Markers
// without an entry draw in orange.
var markerColors = map[int]color.NRGBA{
	MarkerInterior:  {R: 200, G: 200, B: 200, A: 255},
	MarkerClosed:    {A: 255},
	MarkerFlux:      {R: 255, A: 255},
	MarkerElevation: {B: 255, A: 255},
}

// PlotBoundaryMarkers renders the grid edges colored by boundary marker
// class, with the reclassification polygon outlines overlaid, to a PNG
// at filename. It is a visual QA aid only.
func PlotBoundaryMarkers(g *Grid, polys []BoundaryPolygon, filename string) error {
	const width = 1000
	b := g.Bounds()
	if b.Empty() {
		return fmt.Errorf("sunbc: plotting boundary markers: empty grid")
	}
	N, S, E, W := b.Max.Y, b.Min.Y, b.Max.X, b.Min.X
	// Pad the frame so exterior edges are not clipped.
	dx, dy := (E-W)*0.02, (N-S)*0.02
	N, S, E, W = N+dy, S-dy, E+dx, W-dx
	height := int(float64(width) * (N - S) / (E - W))

	img := draw.Image(image.NewRGBA(image.Rect(0, 0, width, height)))
	c := vgimg.NewWith(vgimg.UseImage(img))
	dc := vgdraw.New(c)
	m := carto.NewCanvas(N, S, E, W, dc)

	for i, e := range g.Edges {
		col, ok := markerColors[g.Mark[i]]
		if !ok {
			col = color.NRGBA{R: 255, G: 165, A: 255}
		}
		w := 0.1 * vg.Millimeter
		if g.Mark[i] != MarkerInterior {
			w = 0.5 * vg.Millimeter
		}
		ls := vgdraw.LineStyle{Width: w, Color: col}
		line := geom.LineString{
			{X: g.Xp[e[0]], Y: g.Yp[e[0]]},
			{X: g.Xp[e[1]], Y: g.Yp[e[1]]},
		}
		if err := m.DrawVector(line, col, ls, vgdraw.GlyphStyle{}); err != nil {
			return fmt.Errorf("sunbc: plotting boundary markers: %v", err)
		}
	}
	polyStyle := vgdraw.LineStyle{
		Width: 0.5 * vg.Millimeter,
		Color: color.NRGBA{R: 255, B: 255, A: 255},
	}
	noFill := color.NRGBA{}
	for _, p := range polys {
		if err := m.DrawVector(p.Geom, noFill, polyStyle, vgdraw.GlyphStyle{}); err != nil {
			return fmt.Errorf("sunbc: plotting boundary polygons: %v", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("sunbc: saving boundary marker plot: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("sunbc: saving boundary marker plot to %s: %v", filename, err)
	}
	return f.Close()
}
