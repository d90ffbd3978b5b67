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
	"os"

	"github.com/ctessum/cdf"
)

// ncVar describes one variable of the boundary dataset.
type ncVar struct {
	name        string
	dims        []string
	archetype   interface{}
	longName    string
	units       string
	data        func(b *Boundary) interface{}
	whenPresent func(b *Boundary) bool // nil means always
}

func whenType2(b *Boundary) bool { return b.N2 > 0 }
func whenType3(b *Boundary) bool { return b.N3 > 0 }

var ncVars = []ncVar{
	// Coordinate variables.
	{"xv", []string{"Ntype3"}, []float64{0},
		"Easting of type-3 boundary points", "metres",
		func(b *Boundary) interface{} { return b.Xv }, whenType3},
	{"yv", []string{"Ntype3"}, []float64{0},
		"Northing of type-3 boundary points", "metres",
		func(b *Boundary) interface{} { return b.Yv }, whenType3},
	{"cellp", []string{"Ntype3"}, []int32{0},
		"Index of grid cell corresponding to type-3 boundary", "",
		func(b *Boundary) interface{} { return toInt32(b.Cellp) }, whenType3},
	{"xe", []string{"Ntype2"}, []float64{0},
		"Easting of type-2 boundary points", "metres",
		func(b *Boundary) interface{} { return b.Xe }, whenType2},
	{"ye", []string{"Ntype2"}, []float64{0},
		"Northing of type-2 boundary points", "metres",
		func(b *Boundary) interface{} { return b.Ye }, whenType2},
	{"edgep", []string{"Ntype2"}, []int32{0},
		"Index of grid edge corresponding to type-2 boundary", "",
		func(b *Boundary) interface{} { return toInt32(b.Edgep) }, whenType2},
	{"z", []string{"Nk"}, []float64{0},
		"Vertical grid mid-layer depth", "metres",
		func(b *Boundary) interface{} { return b.Z }, nil},
	{"time", []string{"Nt"}, []float64{0},
		"Boundary time", "seconds since 1990-01-01 00:00:00",
		func(b *Boundary) interface{} { return b.NCTime() }, nil},

	// Type-2 boundary data.
	{"boundary_u", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
		"Eastward velocity at type-2 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.BoundaryU.Elements }, whenType2},
	{"boundary_v", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
		"Northward velocity at type-2 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.BoundaryV.Elements }, whenType2},
	{"boundary_w", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
		"Vertical velocity at type-2 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.BoundaryW.Elements }, whenType2},
	{"boundary_T", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
		"Water temperature at type-2 boundary point", "degrees C",
		func(b *Boundary) interface{} { return b.BoundaryT.Elements }, whenType2},
	{"boundary_S", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
		"Salinity at type-2 boundary point", "psu",
		func(b *Boundary) interface{} { return b.BoundaryS.Elements }, whenType2},

	// Type-3 boundary data.
	{"uc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
		"Eastward velocity at type-3 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.Uc.Elements }, whenType3},
	{"vc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
		"Northward velocity at type-3 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.Vc.Elements }, whenType3},
	{"wc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
		"Vertical velocity at type-3 boundary point", "metre second-1",
		func(b *Boundary) interface{} { return b.Wc.Elements }, whenType3},
	{"T", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
		"Water temperature at type-3 boundary point", "degrees C",
		func(b *Boundary) interface{} { return b.T.Elements }, whenType3},
	{"S", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
		"Salinity at type-3 boundary point", "psu",
		func(b *Boundary) interface{} { return b.S.Elements }, whenType3},
	{"h", []string{"Nt", "Ntype3"}, []float64{0},
		"Water surface elevation at type-3 boundary point", "metres",
		func(b *Boundary) interface{} { return b.H.Elements }, whenType3},
}

// WriteNC writes b to filename as a NetCDF classic boundary-condition
// dataset with an unlimited time dimension.
func (b *Boundary) WriteNC(filename string) error {
	dims := []string{"Nt", "Nk"}
	lengths := []int{0, b.Nk} // Nt is the record dimension
	if b.N2 > 0 {
		dims = append(dims, "Ntype2")
		lengths = append(lengths, b.N2)
	}
	if b.N3 > 0 {
		dims = append(dims, "Ntype3")
		lengths = append(lengths, b.N3)
	}
	h := cdf.NewHeader(dims, lengths)
	for _, v := range ncVars {
		if v.whenPresent != nil && !v.whenPresent(b) {
			continue
		}
		h.AddVariable(v.name, v.dims, v.archetype)
		h.AddAttribute(v.name, "long_name", v.longName)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("sunbc: creating boundary netcdf header: %v", err)
	}

	ff, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("sunbc: creating boundary netcdf file: %w", err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		ff.Close()
		return fmt.Errorf("sunbc: creating boundary netcdf file %s: %v", filename, err)
	}
	for _, v := range ncVars {
		if v.whenPresent != nil && !v.whenPresent(b) {
			continue
		}
		// Fixed-size variables need explicit bounds: with a nil end the
		// writer reports EOF the moment the variable is exactly filled.
		// Record variables grow along the unlimited dimension and take
		// nil bounds.
		var w cdf.Writer
		if f.Header.IsRecordVariable(v.name) {
			w = f.Writer(v.name, nil, nil)
		} else {
			end := f.Header.Lengths(v.name)
			begin := make([]int, len(end))
			w = f.Writer(v.name, begin, end)
		}
		if _, err := w.Write(v.data(b)); err != nil {
			ff.Close()
			return fmt.Errorf("sunbc: writing %s to boundary netcdf file %s: %v",
				v.name, filename, err)
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		ff.Close()
		return fmt.Errorf("sunbc: finalizing boundary netcdf file %s: %v", filename, err)
	}
	if err := ff.Close(); err != nil {
		return fmt.Errorf("sunbc: writing boundary netcdf file %s: %v", filename, err)
	}
	return nil
}

func toInt32(d []int) []int32 {
	o := make([]int32, len(d))
	for i, v := range d {
		o[i] = int32(v)
	}
	return o
}
