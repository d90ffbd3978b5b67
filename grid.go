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

// Package sunbc prepares boundary-condition input for the SUNTANS
// unstructured-grid hydrodynamic model: it extracts the grid subsets
// belonging to flux (type-2) and elevation (type-3) open boundaries and
// allocates the time-varying field arrays for them, and it reclassifies
// edge boundary markers from polygon shapefiles.
package sunbc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// Boundary marker classes used in SUNTANS edges.dat files.
const (
	MarkerInterior  = 0 // computational edge
	MarkerClosed    = 1 // closed (no-flux) wall
	MarkerFlux      = 2 // type-2: velocity/flux specified at the edge
	MarkerElevation = 3 // type-3: free-surface elevation specified at the cell
)

// noNeighbor is the adjacency sentinel meaning an edge has no cell
// on that side (the edge lies on the grid exterior).
const noNeighbor = -1

// Grid holds the SUNTANS unstructured triangular grid as read from an
// ASCII grid directory (points.dat, cells.dat, edges.dat, vertspace.dat).
type Grid struct {
	// Xp and Yp are the vertex coordinates.
	Xp, Yp []float64

	// Edges holds the two vertex indices of each edge.
	Edges [][2]int

	// Mark is the boundary marker of each edge.
	Mark []int

	// Grad holds the two cell indices adjacent to each edge;
	// noNeighbor means the edge has no cell on that side.
	Grad [][2]int

	// Xv and Yv are the cell-center (voronoi point) coordinates.
	Xv, Yv []float64

	// Cells holds the three vertex indices of each cell.
	Cells [][3]int

	// Neigh holds the three neighbor-cell indices of each cell.
	Neigh [][3]int

	// Dz is the thickness of each vertical layer and Z the mid-layer
	// depth, both top down. Nkmax == len(Dz).
	Dz, Z []float64
	Nkmax int
}

// ReadGrid reads a SUNTANS grid from the ASCII files in directory path.
func ReadGrid(path string) (*Grid, error) {
	g := new(Grid)
	if err := g.readPoints(filepath.Join(path, "points.dat")); err != nil {
		return nil, err
	}
	if err := g.readCells(filepath.Join(path, "cells.dat")); err != nil {
		return nil, err
	}
	if err := g.readEdges(filepath.Join(path, "edges.dat")); err != nil {
		return nil, err
	}
	if err := g.readVertSpace(filepath.Join(path, "vertspace.dat")); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) readPoints(filename string) error {
	return readRows(filename, func(fields []float64) error {
		if len(fields) < 2 {
			return fmt.Errorf("expected at least 2 columns, got %d", len(fields))
		}
		g.Xp = append(g.Xp, fields[0])
		g.Yp = append(g.Yp, fields[1])
		return nil
	})
}

func (g *Grid) readCells(filename string) error {
	return readRows(filename, func(fields []float64) error {
		if len(fields) != 8 {
			return fmt.Errorf("expected 8 columns, got %d", len(fields))
		}
		g.Xv = append(g.Xv, fields[0])
		g.Yv = append(g.Yv, fields[1])
		g.Cells = append(g.Cells,
			[3]int{int(fields[2]), int(fields[3]), int(fields[4])})
		g.Neigh = append(g.Neigh,
			[3]int{int(fields[5]), int(fields[6]), int(fields[7])})
		return nil
	})
}

func (g *Grid) readEdges(filename string) error {
	return readRows(filename, func(fields []float64) error {
		if len(fields) != 5 {
			return fmt.Errorf("expected 5 columns, got %d", len(fields))
		}
		g.Edges = append(g.Edges, [2]int{int(fields[0]), int(fields[1])})
		g.Mark = append(g.Mark, int(fields[2]))
		g.Grad = append(g.Grad, [2]int{int(fields[3]), int(fields[4])})
		return nil
	})
}

// readVertSpace reads the layer thicknesses and derives the mid-layer
// depths: z[k] is the cumulative thickness down to layer k minus half
// the layer's own thickness.
func (g *Grid) readVertSpace(filename string) error {
	err := readRows(filename, func(fields []float64) error {
		if len(fields) != 1 {
			return fmt.Errorf("expected 1 column, got %d", len(fields))
		}
		g.Dz = append(g.Dz, fields[0])
		return nil
	})
	if err != nil {
		return err
	}
	g.Nkmax = len(g.Dz)
	g.Z = make([]float64, g.Nkmax)
	floats.CumSum(g.Z, g.Dz)
	for k, dz := range g.Dz {
		g.Z[k] -= dz / 2
	}
	return nil
}

// readRows applies row to the whitespace-separated numeric fields of
// each non-empty line in filename.
func readRows(filename string, row func(fields []float64) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("sunbc: reading grid: %w", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.Fields(scanner.Text())
		if len(s) == 0 {
			continue
		}
		fields := make([]float64, len(s))
		for i, v := range s {
			if fields[i], err = strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("sunbc: %s line %d: %v", filename, line, err)
			}
		}
		if err := row(fields); err != nil {
			return fmt.Errorf("sunbc: %s line %d: %v", filename, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("sunbc: reading %s: %v", filename, err)
	}
	return nil
}

// SaveEdges writes the grid's edge table, including the current
// boundary markers, to filename in the edges.dat layout.
func (g *Grid) SaveEdges(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("sunbc: saving edges: %w", err)
	}
	w := bufio.NewWriter(f)
	for i, e := range g.Edges {
		fmt.Fprintf(w, "%d %d %d %d %d\n",
			e[0], e[1], g.Mark[i], g.Grad[i][0], g.Grad[i][1])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("sunbc: saving edges to %s: %v", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sunbc: saving edges to %s: %v", filename, err)
	}
	return nil
}

// EdgeMidpoints returns the midpoint of every edge, computed as the
// mean of its two endpoint coordinates.
func (g *Grid) EdgeMidpoints() []geom.Point {
	mids := make([]geom.Point, len(g.Edges))
	for i, e := range g.Edges {
		mids[i] = geom.Point{
			X: (g.Xp[e[0]] + g.Xp[e[1]]) / 2,
			Y: (g.Yp[e[0]] + g.Yp[e[1]]) / 2,
		}
	}
	return mids
}

// Bounds returns the rectangular extent of the grid vertices.
func (g *Grid) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for i := range g.Xp {
		b.Extend(geom.NewBoundsPoint(geom.Point{X: g.Xp[i], Y: g.Yp[i]}))
	}
	return b
}
