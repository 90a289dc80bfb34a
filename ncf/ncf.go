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

// Package ncf reads classic-format (CDF-1/CDF-2) netCDF files as
// ncbrowse datasets. Variable data is read lazily, one hyperslab per
// request, so arbitrarily large files can be browsed without loading
// them into memory.
package ncf

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/ncbrowse"
)

// A File is an open classic netCDF file. It implements
// ncbrowse.Dataset.
type File struct {
	cdf  *cdf.File
	f    *os.File
	path string

	vars    []string // plottable variables, in header order
	coords  map[string]bool
	numRecs int
}

// Open opens the netCDF file at path for reading.
func Open(path string) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	cf, err := cdf.Open(osf)
	if err != nil {
		osf.Close()
		return nil, fmt.Errorf("ncf: opening %s: %v", path, err)
	}
	fi, err := osf.Stat()
	if err != nil {
		osf.Close()
		return nil, err
	}
	f := &File{
		cdf:     cf,
		f:       osf,
		path:    path,
		coords:  make(map[string]bool),
		numRecs: int(cf.Header.NumRecs(fi.Size())),
	}
	for _, v := range cf.Header.Variables() {
		dims := cf.Header.Dimensions(v)
		if len(dims) == 1 && dims[0] == v {
			f.coords[v] = true
		}
	}
	for _, v := range cf.Header.Variables() {
		if !f.coords[v] && len(cf.Header.Dimensions(v)) > 0 {
			f.vars = append(f.vars, v)
		}
	}
	return f, nil
}

// Path returns the name of the underlying file.
func (f *File) Path() string { return f.path }

// Variables implements ncbrowse.Dataset. Coordinate variables are not
// included.
func (f *File) Variables() []string { return f.vars }

// Close implements ncbrowse.Dataset.
func (f *File) Close() error { return f.f.Close() }

// Source implements ncbrowse.Dataset.
func (f *File) Source(name string) (ncbrowse.ArraySource, error) {
	dimNames := f.cdf.Header.Dimensions(name)
	if len(dimNames) == 0 {
		return nil, fmt.Errorf("ncf: %s has no variable %q", f.path, name)
	}
	lengths := f.cdf.Header.Lengths(name)
	dims := make([]ncbrowse.Dimension, len(dimNames))
	for i, dn := range dimNames {
		size := lengths[i]
		if size == 0 { // the record dimension
			size = f.numRecs
		}
		d := ncbrowse.Dimension{Name: dn, Size: size}
		if f.coords[dn] {
			coord, err := f.readFull(dn, size)
			if err != nil {
				return nil, fmt.Errorf("ncf: reading coordinate %s: %v", dn, err)
			}
			d.Coord = coord
			d.Units = f.attrString(dn, "units")
		}
		dims[i] = d
	}

	attrs := make(map[string]string)
	for _, a := range []string{"units", "long_name", "standard_name"} {
		if s := f.attrString(name, a); s != "" {
			attrs[a] = s
		}
	}

	src := &source{f: f, name: name, dims: dims, attrs: attrs, scale: 1}
	if v, ok := f.attrFloat(name, "scale_factor"); ok {
		src.scale = v
	}
	if v, ok := f.attrFloat(name, "add_offset"); ok {
		src.offset = v
	}
	if v, ok := f.attrFloat(name, "_FillValue"); ok {
		src.fill, src.hasFill = v, true
	}
	src.sizes = make([]int, len(dims))
	for i, d := range dims {
		src.sizes[i] = d.Size
	}
	return src, nil
}

// readFull reads the entirety of a (small) variable, widening to
// float64.
func (f *File) readFull(name string, size int) ([]float64, error) {
	out := make([]float64, size)
	begin := make([]int, len(f.cdf.Header.Dimensions(name)))
	end := make([]int, len(begin))
	end[0] = size - 1
	if err := f.read(name, begin, end, out); err != nil {
		return nil, err
	}
	return out, nil
}

// read reads the contiguous range [begin, end] (inclusive corners) of
// the named variable into out.
func (f *File) read(name string, begin, end []int, out []float64) error {
	r := f.cdf.Reader(name, begin, end)
	if r == nil {
		return fmt.Errorf("no variable %q", name)
	}
	buf := r.Zero(len(out))
	if _, err := r.Read(buf); err != nil {
		return err
	}
	switch b := buf.(type) {
	case []float64:
		copy(out, b)
	case []float32:
		for i, v := range b {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			out[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			out[i] = float64(v)
		}
	case []int8:
		for i, v := range b {
			out[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			out[i] = float64(v)
		}
	default:
		return fmt.Errorf("unsupported data type %T for variable %q", buf, name)
	}
	return nil
}

// attrString returns a text attribute of the named variable, or "".
func (f *File) attrString(varName, attr string) string {
	switch v := f.cdf.Header.GetAttribute(varName, attr).(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// attrFloat returns a numeric attribute of the named variable.
func (f *File) attrFloat(varName, attr string) (float64, bool) {
	switch v := f.cdf.Header.GetAttribute(varName, attr).(type) {
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

// A source is a lazy ncbrowse.ArraySource over one variable of a File.
// It is safe for use from a background goroutine: all reads go through
// ReadAt on the underlying file.
type source struct {
	f     *File
	name  string
	dims  []ncbrowse.Dimension
	sizes []int
	attrs map[string]string

	scale, offset float64
	fill          float64
	hasFill       bool
}

// Name implements ncbrowse.ArraySource.
func (s *source) Name() string { return s.name }

// Dimensions implements ncbrowse.ArraySource.
func (s *source) Dimensions() []ncbrowse.Dimension { return s.dims }

// Attributes implements ncbrowse.ArraySource.
func (s *source) Attributes() map[string]string { return s.attrs }

// Slice implements ncbrowse.ArraySource. Only the requested sub-block
// is read from the file: each contiguous run of the slice becomes one
// ranged read.
func (s *source) Slice(fixed map[string]int, dimX, dimY string) (*ncbrowse.Slice, error) {
	return ncbrowse.BuildSlice(s.name, s.dims, s.attrs, fixed, dimX, dimY,
		func(begin []int, out []float64) error {
			raw := make([]float64, len(out))
			if err := s.f.read(s.name, begin, s.endCorner(begin, len(out)), raw); err != nil {
				return err
			}
			for i, v := range raw {
				if s.hasFill && v == s.fill {
					out[i] = math.NaN()
					continue
				}
				out[i] = v*s.scale + s.offset
			}
			return nil
		})
}

// endCorner returns the multi-dimensional index of the last element of
// a contiguous run of length n starting at begin.
func (s *source) endCorner(begin []int, n int) []int {
	flat := 0
	for i, b := range begin {
		flat = flat*s.sizes[i] + b
	}
	flat += n - 1
	end := make([]int, len(s.sizes))
	for i := len(s.sizes) - 1; i >= 0; i-- {
		end[i] = flat % s.sizes[i]
		flat /= s.sizes[i]
	}
	return end
}
