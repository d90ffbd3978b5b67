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
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spf13/cast"
)

// A BoundaryPolygon pairs a polygon with the boundary marker value to
// assign to edges whose midpoints it contains.
type BoundaryPolygon struct {
	Geom   geom.Polygonal
	Marker int
}

// ReadBoundaryPolygons reads the polygons in shapefile fname, taking
// marker values from the integer attribute named field. Polygons are
// returned in file order; that order decides which polygon wins when
// several contain the same edge midpoint.
func ReadBoundaryPolygons(fname, field string) ([]BoundaryPolygon, error) {
	fname = strings.TrimSuffix(fname, ".shp")
	d, err := shp.NewDecoder(fname + ".shp")
	if err != nil {
		return nil, fmt.Errorf("sunbc: reading boundary polygon shapefile '%s': %v", fname, err)
	}
	defer d.Close()
	var polys []BoundaryPolygon
	for {
		g, fields, more := d.DecodeRowFields(field)
		if err := d.Error(); err != nil {
			return nil, fmt.Errorf("sunbc: reading boundary polygon shapefile '%s': %v", fname, err)
		}
		if !more {
			break
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("sunbc: shapefile '%s' row %d: got %T; need a polygon",
				fname, len(polys), g)
		}
		m, err := cast.ToIntE(strings.TrimSpace(strings.Trim(fields[field], "\x00")))
		if err != nil {
			return nil, fmt.Errorf("sunbc: shapefile '%s' field %s: %v", fname, field, err)
		}
		polys = append(polys, BoundaryPolygon{Geom: p, Marker: m})
	}
	return polys, nil
}

// ModifyBCMarkers reassigns the boundary markers of g from polys.
// The candidate set is fixed up front: every edge currently carrying a
// nonzero marker. Each polygon in turn overwrites the marker of every
// candidate whose midpoint it contains, so an edge inside several
// polygons ends up with the marker of the last one that contains it.
// Interior (marker 0) edges are never touched. Status updates are sent
// on c if it is non-nil.
func ModifyBCMarkers(g *Grid, polys []BoundaryPolygon, c chan string) {
	mids := g.EdgeMidpoints()
	var candidates []int
	for i, m := range g.Mark {
		if m != MarkerInterior {
			candidates = append(candidates, i)
		}
	}
	for _, p := range polys {
		n := 0
		for _, i := range candidates {
			if mids[i].Within(p.Geom) != geom.Outside {
				g.Mark[i] = p.Marker
				n++
			}
		}
		if c != nil {
			c <- fmt.Sprintf("Assigned marker %d to %d boundary edges.", p.Marker, n)
		}
	}
}

// ModifyBCMarkerFile reclassifies the boundary markers of the grid in
// directory gridPath from the polygons in shapefile bcFile and writes
// the result back to the grid's edges.dat, along with a marker plot
// (BoundaryMarkerTypes.png) and a QA shapefile (BoundaryMarkerTypes.shp)
// for inspection. field names the integer polygon attribute holding the
// new marker values. The grid files are left untouched if no usable
// polygons are found.
func ModifyBCMarkerFile(gridPath, bcFile, field string, c chan string) error {
	g, err := ReadGrid(gridPath)
	if err != nil {
		return err
	}
	polys, err := ReadBoundaryPolygons(bcFile, field)
	if err != nil {
		return err
	}
	if len(polys) == 0 {
		return fmt.Errorf("sunbc: no polygons with the field '%s' in shapefile: %s", field, bcFile)
	}
	ModifyBCMarkers(g, polys, c)

	edgeFile := filepath.Join(gridPath, "edges.dat")
	if err := g.SaveEdges(edgeFile); err != nil {
		return err
	}
	if c != nil {
		c <- fmt.Sprintf("Updated markers written to: %s.", edgeFile)
	}
	shpFile := filepath.Join(gridPath, "BoundaryMarkerTypes.shp")
	if err := WriteMarkerShapefile(g, shpFile); err != nil {
		return err
	}
	figFile := filepath.Join(gridPath, "BoundaryMarkerTypes.png")
	if err := PlotBoundaryMarkers(g, polys, figFile); err != nil {
		return err
	}
	if c != nil {
		c <- fmt.Sprintf("Marker plot saved to: %s.", figFile)
	}
	return nil
}
