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

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// A ReadFunc reads len(out) consecutive (in array storage order)
// elements of a variable starting at the multi-dimensional index begin,
// widening them to float64. Backends supply this; it is the only part
// of slicing that touches storage.
type ReadFunc func(begin []int, out []float64) error

// dimIndex returns the position of the named dimension in dims, or -1.
func dimIndex(dims []Dimension, name string) int {
	for i, d := range dims {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// validateSliceArgs checks a slicing request against the variable's
// dimensions, returning a DimensionMismatchErr or IndexOutOfRangeErr
// as specified for ArraySource.Slice.
func validateSliceArgs(varName string, dims []Dimension, fixed map[string]int, dimX, dimY string) error {
	if dimIndex(dims, dimX) < 0 {
		return DimensionMismatchErr{Variable: varName,
			Detail: fmt.Sprintf("x-axis dimension %q is not a dimension of the variable", dimX)}
	}
	if dimY != "" {
		if dimY == dimX {
			return DimensionMismatchErr{Variable: varName,
				Detail: fmt.Sprintf("x and y axes are both %q", dimX)}
		}
		if dimIndex(dims, dimY) < 0 {
			return DimensionMismatchErr{Variable: varName,
				Detail: fmt.Sprintf("y-axis dimension %q is not a dimension of the variable", dimY)}
		}
	}
	for _, d := range dims {
		if d.Name == dimX || d.Name == dimY {
			if _, ok := fixed[d.Name]; ok {
				return DimensionMismatchErr{Variable: varName,
					Detail: fmt.Sprintf("axis dimension %q also has a fixed index", d.Name)}
			}
			continue
		}
		i, ok := fixed[d.Name]
		if !ok {
			return DimensionMismatchErr{Variable: varName,
				Detail: fmt.Sprintf("no fixed index for dimension %q", d.Name)}
		}
		if i < 0 || i >= d.Size {
			return IndexOutOfRangeErr{Dim: d.Name, Index: i, Size: d.Size}
		}
	}
	for name := range fixed {
		if dimIndex(dims, name) < 0 {
			return DimensionMismatchErr{Variable: varName,
				Detail: fmt.Sprintf("fixed index given for %q, which is not a dimension of the variable", name)}
		}
	}
	return nil
}

// BuildSlice realizes a 2-D (or, when dimY is empty, 1-D) slice of a
// variable by decomposing the request into runs that are contiguous in
// the variable's storage order and fetching each run with read. Axis
// dimensions that form a suffix of the dimension order are read in a
// single ranged request; otherwise one request is issued per contiguous
// run, down to single elements when the innermost dimension is fixed.
func BuildSlice(varName string, dims []Dimension, attrs map[string]string,
	fixed map[string]int, dimX, dimY string, read ReadFunc) (*Slice, error) {

	if err := validateSliceArgs(varName, dims, fixed, dimX, dimY); err != nil {
		return nil, err
	}

	posX := dimIndex(dims, dimX)
	posY := -1
	if dimY != "" {
		posY = dimIndex(dims, dimY)
	}

	nx := dims[posX].Size
	ny := 1
	if posY >= 0 {
		ny = dims[posY].Size
	}
	out := sparse.ZerosDense(ny, nx)

	varying := func(p int) bool { return p == posX || p == posY }

	// tail counts the axis dimensions that form a suffix of the
	// dimension order; they can be read contiguously.
	tail := 0
	for p := len(dims) - 1; p >= 0 && varying(p); p-- {
		tail++
	}
	runLen := 1
	for p := len(dims) - tail; p < len(dims); p++ {
		runLen *= dims[p].Size
	}

	// The remaining axis dimensions are iterated over, one read per
	// combination.
	var outer []int
	for p := 0; p < len(dims)-tail; p++ {
		if varying(p) {
			outer = append(outer, p)
		}
	}

	idx := make([]int, len(dims))
	for name, i := range fixed {
		idx[dimIndex(dims, name)] = i
	}
	counts := make([]int, len(outer))
	scratch := make([]float64, runLen)
	for {
		for k, p := range outer {
			idx[p] = counts[k]
		}
		for p := len(dims) - tail; p < len(dims); p++ {
			idx[p] = 0
		}
		if err := read(idx, scratch); err != nil {
			return nil, err
		}
		for j := 0; j < runLen; j++ {
			rem := j
			for p := len(dims) - 1; p >= len(dims)-tail; p-- {
				idx[p] = rem % dims[p].Size
				rem /= dims[p].Size
			}
			iy := 0
			if posY >= 0 {
				iy = idx[posY]
			}
			out.Set(scratch[j], iy, idx[posX])
		}
		k := len(outer) - 1
		for ; k >= 0; k-- {
			counts[k]++
			if counts[k] < dims[outer[k]].Size {
				break
			}
			counts[k] = 0
		}
		if k < 0 {
			break
		}
	}

	s := &Slice{
		Variable: varName,
		Data:     out,
		X:        dims[posX],
		Attrs:    attrs,
	}
	if posY >= 0 {
		s.Y = dims[posY]
	}
	for _, d := range dims {
		if varying(dimIndex(dims, d.Name)) {
			continue
		}
		i := fixed[d.Name]
		s.Fixed = append(s.Fixed, FixedDim{Name: d.Name, Index: i, Label: coordLabel(d, i)})
	}
	return s, nil
}
