/*
Copyright © 2026 the ncbrowse authors.
This file is part of ncbrowse.

ncbrowse is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncbrowse is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncbrowse.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncbrowse

// A DimensionControl describes the picker the GUI shell should show for
// one non-plotted dimension: its current index, its extent, and the
// coordinate labels the original dimension table displays (first,
// current, last, units).
type DimensionControl struct {
	Dim  string
	Role string // X, Y, Z, T, or empty

	Index int
	Size  int

	Label string // coordinate value at Index
	First string // coordinate value at index 0
	Last  string // coordinate value at Size-1
	Units string
}

// Controls derives the full dimension-control set from a selection.
// One control is produced per non-axis dimension, in the variable's
// array order. The set must be regenerated, not patched, when the axis
// pair changes, because the controlled dimensions themselves change;
// use UpdateControl for index-only changes.
func Controls(sel *Selection) []DimensionControl {
	var out []DimensionControl
	for _, d := range sel.Dimensions() {
		if d.Name == sel.X || d.Name == sel.Y {
			continue
		}
		i := sel.Fixed[d.Name]
		out = append(out, DimensionControl{
			Dim:   d.Name,
			Role:  axisRole(d),
			Index: i,
			Size:  d.Size,
			Label: coordLabel(d, i),
			First: coordLabel(d, 0),
			Last:  coordLabel(d, d.Size-1),
			Units: d.Units,
		})
	}
	return out
}

// UpdateControl refreshes the index and current-value label of the
// control for dim after an index change, leaving the rest of the set
// untouched. It reports whether a control for dim was found.
func UpdateControl(controls []DimensionControl, sel *Selection, dim string) bool {
	d, ok := sel.Dim(dim)
	if !ok {
		return false
	}
	for k := range controls {
		if controls[k].Dim == dim {
			controls[k].Index = sel.Fixed[dim]
			controls[k].Label = coordLabel(d, sel.Fixed[dim])
			return true
		}
	}
	return false
}
