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

// Package nc4 reads netCDF-4 (HDF5-backed) and CDF-5 files as ncbrowse
// datasets, using the pure-Go go-native-netcdf reader. Data is fetched
// lazily in slabs along the outermost dimension.
package nc4

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/spatialmodel/ncbrowse"
)

// A File is an open netCDF-4 file. It implements ncbrowse.Dataset.
type File struct {
	mu   sync.Mutex // go-native-netcdf getters seek; serialize reads
	g    api.Group
	path string
	vars []string
}

// Open opens the netCDF-4 (or CDF) file at path for reading.
func Open(path string) (*File, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nc4: opening %s: %v", path, err)
	}
	f := &File{g: g, path: path}
	for _, v := range g.ListVariables() {
		vg, err := g.GetVarGetter(v)
		if err != nil {
			continue
		}
		dims := vg.Dimensions()
		if len(dims) == 0 {
			// Scalar variables (grid mappings and the like) cannot
			// be plotted.
			continue
		}
		if len(dims) == 1 && dims[0] == v {
			continue // coordinate variable
		}
		f.vars = append(f.vars, v)
	}
	return f, nil
}

// Path returns the name of the underlying file.
func (f *File) Path() string { return f.path }

// Variables implements ncbrowse.Dataset.
func (f *File) Variables() []string { return f.vars }

// Close implements ncbrowse.Dataset.
func (f *File) Close() error {
	f.g.Close()
	return nil
}

// Source implements ncbrowse.Dataset.
func (f *File) Source(name string) (ncbrowse.ArraySource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vg, err := f.g.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("nc4: %s has no variable %q: %v", f.path, name, err)
	}
	dimNames := vg.Dimensions()
	if len(dimNames) == 0 {
		return nil, fmt.Errorf("nc4: variable %q is a scalar", name)
	}
	sizes, err := varShape(vg)
	if err != nil {
		return nil, fmt.Errorf("nc4: variable %q: %v", name, err)
	}

	dims := make([]ncbrowse.Dimension, len(dimNames))
	for i, dn := range dimNames {
		d := ncbrowse.Dimension{Name: dn, Size: sizes[i]}
		if cg, err := f.g.GetVarGetter(dn); err == nil {
			cdims := cg.Dimensions()
			if len(cdims) == 1 && cdims[0] == dn {
				vals, err := cg.Values()
				if err != nil {
					return nil, fmt.Errorf("nc4: reading coordinate %s: %v", dn, err)
				}
				d.Coord = toFloats(vals)
				d.Units = attrString(cg.Attributes(), "units")
			}
		}
		dims[i] = d
	}

	attrs := make(map[string]string)
	for _, a := range []string{"units", "long_name", "standard_name"} {
		if s := attrString(vg.Attributes(), a); s != "" {
			attrs[a] = s
		}
	}

	src := &source{f: f, vg: vg, name: name, dims: dims, sizes: sizes, attrs: attrs, scale: 1}
	if v, ok := attrFloat(vg.Attributes(), "scale_factor"); ok {
		src.scale = v
	}
	if v, ok := attrFloat(vg.Attributes(), "add_offset"); ok {
		src.offset = v
	}
	if v, ok := attrFloat(vg.Attributes(), "_FillValue"); ok {
		src.fill, src.hasFill = v, true
	}
	return src, nil
}

// varShape determines the full shape of a variable. Inner lengths come
// from the header shape; the outermost length comes from Len so record
// dimensions report their record count.
func varShape(vg api.VarGetter) ([]int, error) {
	sh := vg.Shape()
	n := len(vg.Dimensions())
	if len(sh) != n {
		return nil, fmt.Errorf("%d dimension lengths reported for %d dimensions", len(sh), n)
	}
	sizes := make([]int, n)
	for i, v := range sh {
		sizes[i] = int(v)
	}
	sizes[0] = int(vg.Len())
	return sizes, nil
}

// A source is a lazy ncbrowse.ArraySource over one variable of a File.
type source struct {
	f     *File
	vg    api.VarGetter
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

// Slice implements ncbrowse.ArraySource. Reads fetch one
// outermost-dimension slab at a time; slabs are cached for the duration
// of the call so runs crossing the same slab do not re-read it.
func (s *source) Slice(fixed map[string]int, dimX, dimY string) (*ncbrowse.Slice, error) {
	slabs := make(map[int]reflect.Value)
	return ncbrowse.BuildSlice(s.name, s.dims, s.attrs, fixed, dimX, dimY,
		func(begin []int, out []float64) error {
			idx := make([]int, len(begin))
			copy(idx, begin)
			for j := range out {
				slab, ok := slabs[idx[0]]
				if !ok {
					s.f.mu.Lock()
					raw, err := s.vg.GetSlice(int64(idx[0]), int64(idx[0])+1)
					s.f.mu.Unlock()
					if err != nil {
						return err
					}
					slab = reflect.ValueOf(raw)
					if slab.Kind() != reflect.Slice || slab.Len() != 1 {
						return fmt.Errorf("nc4: unexpected slab shape for variable %q", s.name)
					}
					slab = slab.Index(0)
					slabs[idx[0]] = slab
				}
				v := slab
				for _, i := range idx[1:] {
					v = v.Index(i)
				}
				raw := numeric(v)
				if s.hasFill && raw == s.fill {
					out[j] = math.NaN()
				} else {
					out[j] = raw*s.scale + s.offset
				}
				incIndex(idx, s.sizes)
			}
			return nil
		})
}

// incIndex advances a multi-dimensional index by one element in storage
// order.
func incIndex(idx, sizes []int) {
	for k := len(idx) - 1; k >= 0; k-- {
		idx[k]++
		if idx[k] < sizes[k] {
			return
		}
		idx[k] = 0
	}
}

// numeric widens any numeric reflect value to float64.
func numeric(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	}
	return math.NaN()
}

// toFloats converts a coordinate-variable value slice to []float64.
func toFloats(vals interface{}) []float64 {
	v := reflect.ValueOf(vals)
	if v.Kind() != reflect.Slice {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = numeric(v.Index(i))
	}
	return out
}

// attrString returns a text attribute from m, or "".
func attrString(m api.AttributeMap, key string) string {
	if m == nil {
		return ""
	}
	val, ok := m.Get(key)
	if !ok {
		return ""
	}
	switch s := val.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

// attrFloat returns a numeric attribute from m.
func attrFloat(m api.AttributeMap, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	val, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Slice {
		if v.Len() == 0 {
			return 0, false
		}
		v = v.Index(0)
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	}
	return 0, false
}
