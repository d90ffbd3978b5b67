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

package sunbcutil

import (
	"fmt"

	"github.com/spatialmodel/sunbc"
)

// ModifyBC reclassifies the boundary markers of the grid in gridPath
// from the polygons in shapefile bcFile and persists the result.
// Status updates are sent on c; a nil c means run silently.
func ModifyBC(gridPath, bcFile, field string, c chan string) error {
	if c != nil {
		c <- fmt.Sprintf("Modifying the boundary markers for grid in folder: %s.", gridPath)
		defer close(c)
	}
	return sunbc.ModifyBCMarkerFile(gridPath, bcFile, field, c)
}

// GenBC builds the boundary subset of the grid in gridPath on a time
// axis from start to end at dt-second steps and writes it to outFile as
// a boundary-condition netcdf dataset with zero-filled fields. A nil c
// means run silently.
func GenBC(gridPath, start, end string, dt float64, outFile string, c chan string) error {
	if c != nil {
		defer close(c)
	}
	g, err := sunbc.ReadGrid(gridPath)
	if err != nil {
		return err
	}
	b, err := sunbc.NewBoundary(g, start, end, dt)
	if err != nil {
		return err
	}
	if c != nil {
		c <- fmt.Sprintf("Found %d type-2 and %d type-3 boundary points.", b.N2, b.N3)
	}
	if err := b.WriteNC(outFile); err != nil {
		return err
	}
	if c != nil {
		c <- fmt.Sprintf("Boundary data successfully written to: %s.", outFile)
	}
	return nil
}
