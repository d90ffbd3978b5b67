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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// rect returns a closed rectangular polygon ring.
func rect(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}}
}

// stripGrid returns a grid of three marked edges whose midpoints lie at
// x = 0.5, 1.5 and 2.5 on the line y = 0.5.
func stripGrid() *Grid {
	return &Grid{
		Xp:    []float64{0, 1, 1, 2, 2, 3},
		Yp:    []float64{0, 1, 0, 1, 0, 1},
		Edges: [][2]int{{0, 1}, {2, 3}, {4, 5}},
		Mark:  []int{1, 1, 1},
		Grad:  [][2]int{{0, -1}, {1, -1}, {2, -1}},
	}
}

func TestModifyBCMarkersOrder(t *testing.T) {
	p1 := BoundaryPolygon{Geom: rect(0, 0, 2, 1), Marker: 5} // covers edges 0 and 1
	p2 := BoundaryPolygon{Geom: rect(1, 0, 3, 1), Marker: 7} // covers edges 1 and 2

	g := stripGrid()
	ModifyBCMarkers(g, []BoundaryPolygon{p1, p2}, nil)
	if want := []int{5, 7, 7}; !reflect.DeepEqual(g.Mark, want) {
		t.Errorf("order [p1 p2]: got %v; want %v", g.Mark, want)
	}

	g = stripGrid()
	ModifyBCMarkers(g, []BoundaryPolygon{p2, p1}, nil)
	if want := []int{5, 5, 7}; !reflect.DeepEqual(g.Mark, want) {
		t.Errorf("order [p2 p1]: got %v; want %v", g.Mark, want)
	}
}

func TestModifyBCMarkersInterior(t *testing.T) {
	g := stripGrid()
	g.Mark = []int{0, 0, 2}
	covering := BoundaryPolygon{Geom: rect(-1, -1, 4, 2), Marker: 9}
	ModifyBCMarkers(g, []BoundaryPolygon{covering}, nil)
	if want := []int{0, 0, 9}; !reflect.DeepEqual(g.Mark, want) {
		t.Errorf("got %v; want %v: interior edges must never be promoted", g.Mark, want)
	}
}

func TestModifyBCMarkersOutside(t *testing.T) {
	g := stripGrid()
	elsewhere := BoundaryPolygon{Geom: rect(10, 10, 11, 11), Marker: 9}
	ModifyBCMarkers(g, []BoundaryPolygon{elsewhere}, nil)
	if want := []int{1, 1, 1}; !reflect.DeepEqual(g.Mark, want) {
		t.Errorf("got %v; want %v: uncovered edges must keep their markers", g.Mark, want)
	}
}

// writeTestPolygons writes a shapefile holding the given polygons with
// their markers in an integer attribute named "marker".
func writeTestPolygons(t *testing.T, fname string, polys []BoundaryPolygon) {
	t.Helper()
	e, err := shp.NewEncoderFromFields(fname, goshp.POLYGON,
		goshp.NumberField("marker", 10))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range polys {
		if err := e.EncodeFields(p.Geom.(geom.Polygon), p.Marker); err != nil {
			t.Fatal(err)
		}
	}
	e.Close()
}

func TestReadBoundaryPolygons(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bc.shp")
	writeTestPolygons(t, fname, []BoundaryPolygon{
		{Geom: rect(0, 0, 2, 1), Marker: 5},
		{Geom: rect(1, 0, 3, 1), Marker: 7},
	})

	polys, err := ReadBoundaryPolygons(fname, "marker")
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 2 {
		t.Fatalf("got %d polygons; want 2", len(polys))
	}
	if polys[0].Marker != 5 || polys[1].Marker != 7 {
		t.Errorf("markers: got [%d %d]; want [5 7]", polys[0].Marker, polys[1].Marker)
	}
	mid := geom.Point{X: 0.5, Y: 0.5}
	if mid.Within(polys[0].Geom) == geom.Outside {
		t.Error("polygon 0 does not contain a point it was built around")
	}
}

func TestReadBoundaryPolygonsMissingField(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bc.shp")
	writeTestPolygons(t, fname, []BoundaryPolygon{
		{Geom: rect(0, 0, 2, 1), Marker: 5},
	})
	if _, err := ReadBoundaryPolygons(fname, "bogus"); err == nil {
		t.Error("want error for missing attribute field")
	}
}

func TestModifyBCMarkerFile(t *testing.T) {
	dir := t.TempDir()
	writeTestGrid(t, dir)
	shpFile := filepath.Join(dir, "bc.shp")
	// One polygon covering the whole grid, reassigning every boundary
	// edge to type 2.
	writeTestPolygons(t, shpFile, []BoundaryPolygon{
		{Geom: rect(-1, -1, 2, 2), Marker: 2},
	})

	c := make(chan string)
	go func() {
		for range c {
		}
	}()
	if err := ModifyBCMarkerFile(dir, shpFile, "marker", c); err != nil {
		t.Fatal(err)
	}
	close(c)

	g, err := ReadGrid(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 2, 0, 2, 2}; !reflect.DeepEqual(g.Mark, want) {
		t.Errorf("markers after reclassification: got %v; want %v", g.Mark, want)
	}
	for _, name := range []string{"BoundaryMarkerTypes.png", "BoundaryMarkerTypes.shp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing QA output %s: %v", name, err)
		}
	}
}

func TestModifyBCMarkerFileAbort(t *testing.T) {
	dir := t.TempDir()
	writeTestGrid(t, dir)
	shpFile := filepath.Join(dir, "bc.shp")
	writeTestPolygons(t, shpFile, []BoundaryPolygon{
		{Geom: rect(-1, -1, 2, 2), Marker: 2},
	})
	edgeFile := filepath.Join(dir, "edges.dat")
	before, err := os.ReadFile(edgeFile)
	if err != nil {
		t.Fatal(err)
	}

	err = ModifyBCMarkerFile(dir, shpFile, "bogus", nil)
	if err == nil {
		t.Fatal("want error for missing attribute field")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error %q does not name the missing field", err)
	}

	after, err := os.ReadFile(edgeFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("edges.dat was modified by an aborted reclassification")
	}
}
