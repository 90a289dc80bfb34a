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

import "fmt"

// DimensionMismatchErr is returned when the dimensions requested for a
// slice are inconsistent with the dimensions of the variable being
// sliced: the axes are not both dimensions of the variable, or the
// fixed-index set does not cover exactly the remaining dimensions.
type DimensionMismatchErr struct {
	Variable string
	Detail   string
}

func (e DimensionMismatchErr) Error() string {
	return fmt.Sprintf("ncbrowse: dimension mismatch for variable %s: %s", e.Variable, e.Detail)
}

// InvalidAxisChoiceErr is returned when a requested plot-axis assignment
// is degenerate (x == y) or names a dimension the active variable
// doesn't have.
type InvalidAxisChoiceErr struct {
	X, Y   string
	Reason string
}

func (e InvalidAxisChoiceErr) Error() string {
	return fmt.Sprintf("ncbrowse: invalid axis choice (%s, %s): %s", e.X, e.Y, e.Reason)
}

// IndexOutOfRangeErr is returned when an index for dimension Dim is
// outside [0, Size).
type IndexOutOfRangeErr struct {
	Dim         string
	Index, Size int
}

func (e IndexOutOfRangeErr) Error() string {
	return fmt.Sprintf("ncbrowse: index %d out of range for dimension %s (size %d)", e.Index, e.Dim, e.Size)
}

// InternalInconsistencyErr is returned when slice resolution fails for a
// selection that passed validation. It indicates the selection state and
// the underlying array have gotten out of sync, which is a bug; the
// wrapped error is retained for diagnosis.
type InternalInconsistencyErr struct {
	Variable string
	Err      error
}

func (e InternalInconsistencyErr) Error() string {
	return fmt.Sprintf("ncbrowse: internal inconsistency resolving variable %s: %v", e.Variable, e.Err)
}

func (e InternalInconsistencyErr) Unwrap() error { return e.Err }
