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
	"time"

	"github.com/ctessum/sparse"
)

// TimeLayout is the timestamp form accepted on the command line and by
// NewBoundary, e.g. "20120101.0000".
const TimeLayout = "20060102.1504"

// ncEpoch is the reference instant for the "time" variable in the
// boundary dataset.
var ncEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// A TopologyError reports a boundary edge whose edge-to-cell adjacency
// is inconsistent with its marker: a type-3 edge must have exactly one
// neighboring cell.
type TopologyError struct {
	Edge     int // index of the offending edge
	NumCells int // number of valid neighboring cells found (0 or 2)
}

func (err *TopologyError) Error() string {
	return fmt.Sprintf("sunbc: type-3 boundary edge %d has %d neighboring cells; want 1",
		err.Edge, err.NumCells)
}

// Boundary holds the open-boundary subset of a grid together with
// zero-initialized time-varying fields for both boundary types.
// The fields are placeholders to be filled by a separate data-assignment
// step before the dataset is written.
type Boundary struct {
	// Edgep holds the grid edge index of each type-2 boundary point,
	// ascending, and Xe, Ye the corresponding edge midpoints.
	Edgep  []int
	Xe, Ye []float64
	N2     int

	// Cellp holds the grid cell index of each type-3 boundary point,
	// in type-3 edge order, and Xv, Yv the corresponding cell centers.
	Cellp  []int
	Xv, Yv []float64
	N3     int

	// Time is the output time axis; Nt == len(Time).
	Time []time.Time
	Nt   int

	// Nk vertical layers with mid-layer depths Z.
	Nk int
	Z  []float64

	// Type-2 fields, each shaped [Nt, Nk, N2]: eastward, northward and
	// vertical velocity, temperature and salinity at edge midpoints.
	BoundaryU, BoundaryV, BoundaryW, BoundaryT, BoundaryS *sparse.DenseArray

	// Type-3 fields at cell centers: velocities, temperature and
	// salinity shaped [Nt, Nk, N3], and free-surface elevation H
	// shaped [Nt, N3].
	Uc, Vc, Wc, T, S *sparse.DenseArray
	H                *sparse.DenseArray
}

// NewBoundary extracts the type-2 and type-3 boundary subsets of g and
// allocates zero-filled field arrays on a uniform time axis running
// from start (inclusive) to end (exclusive) in steps of dt seconds.
// start and end use TimeLayout. An empty time window (end <= start) is
// valid and yields Nt == 0.
func NewBoundary(g *Grid, start, end string, dt float64) (*Boundary, error) {
	t1, err := ParseTime(start)
	if err != nil {
		return nil, err
	}
	t2, err := ParseTime(end)
	if err != nil {
		return nil, err
	}
	b := &Boundary{
		Nk: g.Nkmax,
		Z:  g.Z,
	}
	if err := b.loadBoundary(g); err != nil {
		return nil, err
	}
	b.Time = TimeAxis(t1, t2, dt)
	b.Nt = len(b.Time)
	b.initArrays()
	return b, nil
}

// loadBoundary collects the boundary indices and coordinates from the
// marker and adjacency tables.
func (b *Boundary) loadBoundary(g *Grid) error {
	mids := g.EdgeMidpoints()
	for i, m := range g.Mark {
		switch m {
		case MarkerFlux:
			b.Edgep = append(b.Edgep, i)
			b.Xe = append(b.Xe, mids[i].X)
			b.Ye = append(b.Ye, mids[i].Y)
		case MarkerElevation:
			c, err := resolveCell(i, g.Grad[i])
			if err != nil {
				return err
			}
			b.Cellp = append(b.Cellp, c)
			b.Xv = append(b.Xv, g.Xv[c])
			b.Yv = append(b.Yv, g.Yv[c])
		}
	}
	b.N2 = len(b.Edgep)
	b.N3 = len(b.Cellp)
	return nil
}

// resolveCell returns the single valid cell of a boundary edge's
// adjacency pair. Anything other than exactly one valid cell violates
// the boundary invariant and is reported rather than skipped, since a
// silently shrunken cell list would desynchronize downstream indices.
func resolveCell(edge int, grad [2]int) (int, error) {
	switch {
	case grad[0] == noNeighbor && grad[1] != noNeighbor:
		return grad[1], nil
	case grad[1] == noNeighbor && grad[0] != noNeighbor:
		return grad[0], nil
	case grad[0] == noNeighbor && grad[1] == noNeighbor:
		return 0, &TopologyError{Edge: edge, NumCells: 0}
	default:
		return 0, &TopologyError{Edge: edge, NumCells: 2}
	}
}

func (b *Boundary) initArrays() {
	b.BoundaryU = sparse.ZerosDense(b.Nt, b.Nk, b.N2)
	b.BoundaryV = sparse.ZerosDense(b.Nt, b.Nk, b.N2)
	b.BoundaryW = sparse.ZerosDense(b.Nt, b.Nk, b.N2)
	b.BoundaryT = sparse.ZerosDense(b.Nt, b.Nk, b.N2)
	b.BoundaryS = sparse.ZerosDense(b.Nt, b.Nk, b.N2)

	b.Uc = sparse.ZerosDense(b.Nt, b.Nk, b.N3)
	b.Vc = sparse.ZerosDense(b.Nt, b.Nk, b.N3)
	b.Wc = sparse.ZerosDense(b.Nt, b.Nk, b.N3)
	b.T = sparse.ZerosDense(b.Nt, b.Nk, b.N3)
	b.S = sparse.ZerosDense(b.Nt, b.Nk, b.N3)
	b.H = sparse.ZerosDense(b.Nt, b.N3)
}

// NCTime returns the time axis as seconds elapsed since
// 1990-01-01T00:00:00 UTC.
func (b *Boundary) NCTime() []float64 {
	nctime := make([]float64, len(b.Time))
	for i, t := range b.Time {
		nctime[i] = t.Sub(ncEpoch).Seconds()
	}
	return nctime
}

// ParseTime parses a timestamp in TimeLayout form, interpreted as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sunbc: parsing time %q: %v", s, err)
	}
	return t, nil
}

// TimeAxis returns the instants from start (inclusive) to end
// (exclusive) at steps of dt seconds. end <= start gives an empty axis.
func TimeAxis(start, end time.Time, dt float64) []time.Time {
	var times []time.Time
	step := time.Duration(dt * float64(time.Second))
	if step <= 0 {
		return nil
	}
	for t := start; t.Before(end); t = t.Add(step) {
		times = append(times, t)
	}
	return times
}
