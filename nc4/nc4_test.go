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

package nc4

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/spatialmodel/ncbrowse"
)

func newAttrs(t *testing.T, keys []string, vals map[string]interface{}) api.AttributeMap {
	t.Helper()
	am, err := util.NewOrderedMap(keys, vals)
	if err != nil {
		t.Fatal(err)
	}
	return am
}

func tVal(it, j, i int) float32 { return float32(it*100 + j*10 + i) }

// writeTestFile creates a small netCDF file holding a 3-D variable with
// a CF time coordinate, a packed 2-D variable, and a scalar
// grid-mapping variable.
func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nc")
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	err = cw.AddVar("time", api.Variable{
		Values:     []float64{0, 24, 48},
		Dimensions: []string{"time"},
		Attributes: newAttrs(t, []string{"units"},
			map[string]interface{}{"units": "hours since 2001-01-01 00:00"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := cw.AddVar("crs", api.Variable{Values: int32(4326)}); err != nil {
		t.Fatal(err)
	}
	tVals := make([][][]float32, 3)
	for it := range tVals {
		tVals[it] = make([][]float32, 2)
		for j := range tVals[it] {
			tVals[it][j] = make([]float32, 4)
			for i := range tVals[it][j] {
				tVals[it][j][i] = tVal(it, j, i)
			}
		}
	}
	err = cw.AddVar("T", api.Variable{
		Values:     tVals,
		Dimensions: []string{"time", "lat", "lon"},
		Attributes: newAttrs(t, []string{"units", "long_name"},
			map[string]interface{}{"units": "K", "long_name": "air temperature"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	err = cw.AddVar("P", api.Variable{
		Values:     [][]int16{{2, 4, 6, 8}, {10, -999, 14, 16}},
		Dimensions: []string{"lat", "lon"},
		Attributes: newAttrs(t, []string{"scale_factor", "add_offset", "_FillValue"},
			map[string]interface{}{
				"scale_factor": 0.5,
				"add_offset":   100.0,
				"_FillValue":   int16(-999),
			}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := cw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Coordinate and scalar variables are not plottable.
	if got, want := f.Variables(), []string{"T", "P"}; !reflect.DeepEqual(got, want) {
		t.Errorf("variables: got %v, want %v", got, want)
	}

	src, err := f.Source("T")
	if err != nil {
		t.Fatal(err)
	}
	wantDims := []ncbrowse.Dimension{
		{Name: "time", Size: 3, Coord: []float64{0, 24, 48},
			Units: "hours since 2001-01-01 00:00"},
		{Name: "lat", Size: 2},
		{Name: "lon", Size: 4},
	}
	if got := src.Dimensions(); !reflect.DeepEqual(got, wantDims) {
		t.Errorf("dimensions: got %+v, want %+v", got, wantDims)
	}
	wantAttrs := map[string]string{"units": "K", "long_name": "air temperature"}
	if got := src.Attributes(); !reflect.DeepEqual(got, wantAttrs) {
		t.Errorf("attributes: got %v, want %v", got, wantAttrs)
	}

	if _, err := f.Source("crs"); err == nil {
		t.Error("expected error for scalar variable")
	}
	if _, err := f.Source("missing"); err == nil {
		t.Error("expected error for unknown variable")
	}
}

func TestSlice(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	src, err := f.Source("T")
	if err != nil {
		t.Fatal(err)
	}

	s, err := src.Slice(map[string]int{"time": 1}, "lon", "lat")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Data.Shape, []int{2, 4}) {
		t.Fatalf("shape: got %v, want [2 4]", s.Data.Shape)
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 4; i++ {
			if got, want := s.Data.Get(j, i), float64(tVal(1, j, i)); got != want {
				t.Errorf("element (%d,%d): got %g, want %g", j, i, got, want)
			}
		}
	}
	wantFixed := []ncbrowse.FixedDim{{Name: "time", Index: 1, Label: "2001-01-02 00:00"}}
	if !reflect.DeepEqual(s.Fixed, wantFixed) {
		t.Errorf("fixed: got %+v, want %+v", s.Fixed, wantFixed)
	}

	// A 1-D slice along the outermost dimension touches every slab.
	s, err = src.Slice(map[string]int{"lat": 1, "lon": 2}, "time", "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Data.Shape, []int{1, 3}) {
		t.Fatalf("shape: got %v, want [1 3]", s.Data.Shape)
	}
	for it := 0; it < 3; it++ {
		if got, want := s.Data.Get(0, it), float64(tVal(it, 1, 2)); got != want {
			t.Errorf("element %d: got %g, want %g", it, got, want)
		}
	}
}

func TestSlicePacked(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	src, err := f.Source("P")
	if err != nil {
		t.Fatal(err)
	}
	s, err := src.Slice(nil, "lon", "lat")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(s.Data.Get(1, 1)) {
		t.Errorf("fill value not converted to NaN: got %g", s.Data.Get(1, 1))
	}
	if got := s.Data.Get(0, 2); got != 6*0.5+100 {
		t.Errorf("unpacked value: got %g, want %g", got, 6*0.5+100.0)
	}
	if got := s.Data.Get(1, 3); got != 16*0.5+100 {
		t.Errorf("unpacked value: got %g, want %g", got, 16*0.5+100.0)
	}
}

func TestIncIndex(t *testing.T) {
	sizes := []int{2, 3, 2}
	idx := []int{0, 0, 0}
	var got [][]int
	for i := 0; i < 2*3*2; i++ {
		c := make([]int, len(idx))
		copy(c, idx)
		got = append(got, c)
		incIndex(idx, sizes)
	}
	// After a full cycle the index is back at the origin.
	if !reflect.DeepEqual(idx, []int{0, 0, 0}) {
		t.Errorf("after full cycle: got %v, want origin", idx)
	}
	want := [][]int{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {0, 2, 0}, {0, 2, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1}, {1, 2, 0}, {1, 2, 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("storage-order walk:\ngot  %v\nwant %v", got, want)
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{float32(1.5), 1.5},
		{float64(-2), -2},
		{int8(-3), -3},
		{int16(300), 300},
		{int32(-40), -40},
		{int64(7), 7},
		{uint8(200), 200},
		{uint16(50000), 50000},
	}
	for _, test := range tests {
		if got := numeric(reflect.ValueOf(test.in)); got != test.want {
			t.Errorf("numeric(%T %v): got %g, want %g", test.in, test.in, got, test.want)
		}
	}
	if got := numeric(reflect.ValueOf("text")); !math.IsNaN(got) {
		t.Errorf("numeric of non-numeric value: got %g, want NaN", got)
	}
}

func TestToFloats(t *testing.T) {
	if got := toFloats([]float32{1, 2.5, 3}); !reflect.DeepEqual(got, []float64{1, 2.5, 3}) {
		t.Errorf("got %v", got)
	}
	if got := toFloats([]int32{-1, 0, 1}); !reflect.DeepEqual(got, []float64{-1, 0, 1}) {
		t.Errorf("got %v", got)
	}
	if got := toFloats(42); got != nil {
		t.Errorf("non-slice input: got %v, want nil", got)
	}
}
