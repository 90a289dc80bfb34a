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

// Package ncbrowse implements the data-selection core of a quick-look
// viewer for netCDF datasets: it reduces N-dimensional variables to 2-D
// (or 1-D) slices according to an interactively mutated selection state,
// and keeps the rendered plot, the dimension controls, and the
// underlying lazily-loaded arrays consistent with each other.
package ncbrowse

import (
	"github.com/ctessum/sparse"
)

// A Dimension describes one axis of a variable's array.
type Dimension struct {
	Name string
	Size int

	// Coord holds the values of the coordinate variable associated
	// with this dimension, or is nil if the dimension has none.
	Coord []float64

	// Units is the units attribute of the coordinate variable, if any.
	// Time coordinates use the CF convention ("days since 2000-01-01").
	Units string
}

// An ArraySource provides lazy access to the array underlying one
// variable of a dataset. Implementations must only read the sub-block
// of data that a Slice call requires rather than materializing the full
// array, and must be safe for use from a goroutine other than the one
// that created them.
type ArraySource interface {
	// Name returns the variable name.
	Name() string

	// Dimensions returns the variable's dimensions in array order.
	// The returned slice must not change over the lifetime of the
	// source.
	Dimensions() []Dimension

	// Attributes returns descriptive metadata for the variable
	// (e.g. "units", "long_name"). May be nil.
	Attributes() map[string]string

	// Slice reduces the array to two dimensions by fixing the index
	// of every dimension in fixed and ranging over dimX and dimY.
	// If dimY is empty, the result is one-dimensional and is returned
	// as a single-row array. It returns a DimensionMismatchErr if
	// dimX and dimY are not dimensions of the variable or fixed does
	// not cover exactly the remaining dimensions, and an
	// IndexOutOfRangeErr if a fixed index is outside its dimension.
	Slice(fixed map[string]int, dimX, dimY string) (*Slice, error)
}

// A Dataset is a read-only collection of variables sharing dimensions,
// typically backed by a file opened by one of the format-specific
// subpackages.
type Dataset interface {
	// Variables returns the names of the plottable variables in the
	// dataset, excluding coordinate variables.
	Variables() []string

	// Source returns an ArraySource for the named variable.
	Source(name string) (ArraySource, error)

	Close() error
}

// A FixedDim records the index a non-plotted dimension was held at when
// a slice was realized, for labeling.
type FixedDim struct {
	Name  string
	Index int

	// Label is the coordinate value at Index rendered as text, or the
	// index itself if the dimension has no coordinate.
	Label string
}

// A Slice is a realized two-dimensional view of a variable, produced by
// fixing all but (at most) two of its dimensions. It is immutable once
// produced.
type Slice struct {
	Variable string

	// Data has shape [Y.Size, X.Size], or [1, X.Size] for a
	// one-dimensional slice.
	Data *sparse.DenseArray

	// X and Y describe the two plotted dimensions. Y is the zero
	// value for one-dimensional slices.
	X, Y Dimension

	// Fixed lists the held dimensions in the variable's array order.
	Fixed []FixedDim

	// Attrs carries the variable attributes for titling.
	Attrs map[string]string
}

// OneDimensional reports whether s ranges over a single dimension.
func (s *Slice) OneDimensional() bool { return s.Y.Name == "" }

// A PlotSink consumes realized slices and draws them. The rendering
// engine behind it is not ncbrowse's concern.
type PlotSink interface {
	Render(*Slice) error
}
