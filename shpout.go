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
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// WriteMarkerShapefile writes every boundary (nonzero-marker) edge of g
// to filename as a two-point polyline with "marker" and "edge"
// attributes, so reclassified markers can be inspected in GIS next to
// the polygons that produced them.
func WriteMarkerShapefile(g *Grid, filename string) error {
	filename = strings.TrimSuffix(filename, ".shp")
	e, err := shp.NewEncoderFromFields(filename+".shp", goshp.POLYLINE,
		goshp.NumberField("marker", 10),
		goshp.NumberField("edge", 10),
	)
	if err != nil {
		return fmt.Errorf("sunbc: creating marker shapefile %s: %v", filename, err)
	}
	for i, edge := range g.Edges {
		if g.Mark[i] == MarkerInterior {
			continue
		}
		line := geom.LineString{
			{X: g.Xp[edge[0]], Y: g.Yp[edge[0]]},
			{X: g.Xp[edge[1]], Y: g.Yp[edge[1]]},
		}
		if err := e.EncodeFields(line, g.Mark[i], i); err != nil {
			e.Close()
			return fmt.Errorf("sunbc: writing edge %d to marker shapefile %s: %v",
				i, filename, err)
		}
	}
	e.Close()
	return nil
}
