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

// An InMemorySource is an ArraySource over an array that is already
// resident in memory. It is the adapter for data that arrives
// materialized, and the workhorse of the test suite.
type InMemorySource struct {
	name  string
	data  *sparse.DenseArray
	dims  []Dimension
	attrs map[string]string
}

// NewInMemorySource wraps data as an ArraySource. dims must describe
// data's shape exactly.
func NewInMemorySource(name string, data *sparse.DenseArray, dims []Dimension, attrs map[string]string) (*InMemorySource, error) {
	if len(dims) != len(data.Shape) {
		return nil, fmt.Errorf("ncbrowse: variable %s: %d dimensions given for a %d-dimensional array",
			name, len(dims), len(data.Shape))
	}
	for i, d := range dims {
		if d.Size != data.Shape[i] {
			return nil, fmt.Errorf("ncbrowse: variable %s: dimension %s has size %d but the array's axis %d has length %d",
				name, d.Name, d.Size, i, data.Shape[i])
		}
	}
	return &InMemorySource{name: name, data: data, dims: dims, attrs: attrs}, nil
}

// Name implements ArraySource.
func (s *InMemorySource) Name() string { return s.name }

// Dimensions implements ArraySource.
func (s *InMemorySource) Dimensions() []Dimension { return s.dims }

// Attributes implements ArraySource.
func (s *InMemorySource) Attributes() map[string]string { return s.attrs }

// Slice implements ArraySource.
func (s *InMemorySource) Slice(fixed map[string]int, dimX, dimY string) (*Slice, error) {
	return BuildSlice(s.name, s.dims, s.attrs, fixed, dimX, dimY, func(begin []int, out []float64) error {
		off := s.data.Index1d(begin...)
		copy(out, s.data.Elements[off:off+len(out)])
		return nil
	})
}

// A MapDataset is a Dataset assembled from in-memory sources.
type MapDataset struct {
	names   []string
	sources map[string]ArraySource
}

// NewMapDataset creates a Dataset serving the given sources, in order.
func NewMapDataset(sources ...ArraySource) *MapDataset {
	d := &MapDataset{sources: make(map[string]ArraySource)}
	for _, s := range sources {
		d.names = append(d.names, s.Name())
		d.sources[s.Name()] = s
	}
	return d
}

// Variables implements Dataset.
func (d *MapDataset) Variables() []string { return d.names }

// Source implements Dataset.
func (d *MapDataset) Source(name string) (ArraySource, error) {
	s, ok := d.sources[name]
	if !ok {
		return nil, fmt.Errorf("ncbrowse: dataset has no variable %q", name)
	}
	return s, nil
}

// Close implements Dataset.
func (d *MapDataset) Close() error { return nil }
