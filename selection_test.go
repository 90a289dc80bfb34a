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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestSelectionDefaults(t *testing.T) {
	src := testSource(t)

	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(src); err != nil {
		t.Fatal(err)
	}
	if sel.X != "lon" || sel.Y != "lat" {
		t.Errorf("default axes: got (%s,%s), want (lon,lat)", sel.X, sel.Y)
	}
	if want := map[string]int{"time": 0, "lev": 0}; !reflect.DeepEqual(sel.Fixed, want) {
		t.Errorf("default fixed: got %v, want %v", sel.Fixed, want)
	}
	if err := sel.Validate(); err != nil {
		t.Errorf("default selection should be valid: %v", err)
	}

	// Centering policy: time and vertical dimensions start at their
	// middle index.
	sel = NewSelection(DefaultPolicy{CenterRoles: []string{RoleT, RoleZ}})
	if err := sel.SetVariable(src); err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"time": 2, "lev": 2}; !reflect.DeepEqual(sel.Fixed, want) {
		t.Errorf("centered fixed: got %v, want %v", sel.Fixed, want)
	}
}

func TestSelectionOneDimensionalVariable(t *testing.T) {
	// A plain 1-D variable gets a single x axis and no fixed dims.
	src1, err := NewInMemorySource("profile", sparse.ZerosDense(5),
		[]Dimension{{Name: "lev", Size: 5}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(src1); err != nil {
		t.Fatal(err)
	}
	if sel.X != "lev" || sel.Y != "" {
		t.Errorf("1-D axes: got (%q,%q), want (lev,\"\")", sel.X, sel.Y)
	}
	if len(sel.Fixed) != 0 {
		t.Errorf("1-D fixed: got %v, want empty", sel.Fixed)
	}
	if err := sel.Validate(); err != nil {
		t.Errorf("1-D selection should be valid: %v", err)
	}
}

func TestSetAxesPreservesHistory(t *testing.T) {
	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(testSource(t)); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetIndex("time", 3); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetIndex("lev", 1); err != nil {
		t.Fatal(err)
	}

	// Swap time onto the x axis; lon becomes fixed at its default.
	if err := sel.SetAxes("time", "lat"); err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"lev": 1, "lon": 0}; !reflect.DeepEqual(sel.Fixed, want) {
		t.Errorf("after swap: got %v, want %v", sel.Fixed, want)
	}

	// Swapping back restores time's last known index.
	if err := sel.SetAxes("lon", "lat"); err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"time": 3, "lev": 1}; !reflect.DeepEqual(sel.Fixed, want) {
		t.Errorf("after swap back: got %v, want %v", sel.Fixed, want)
	}
	if err := sel.Validate(); err != nil {
		t.Error(err)
	}
}

func TestSetAxesErrors(t *testing.T) {
	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(testSource(t)); err != nil {
		t.Fatal(err)
	}
	before := sel.Clone()
	tests := []struct{ x, y string }{
		{"lon", "lon"},      // degenerate
		{"height", "lat"},   // unknown x
		{"lon", "pressure"}, // unknown y
	}
	for _, test := range tests {
		err := sel.SetAxes(test.x, test.y)
		if err == nil {
			t.Errorf("SetAxes(%q,%q): expected error", test.x, test.y)
			continue
		}
		if _, ok := err.(InvalidAxisChoiceErr); !ok {
			t.Errorf("SetAxes(%q,%q): got error type %T, want InvalidAxisChoiceErr", test.x, test.y, err)
		}
		if !sel.Equal(before) {
			t.Errorf("SetAxes(%q,%q): failed mutation changed the selection", test.x, test.y)
		}
	}
}

func TestSetIndexErrors(t *testing.T) {
	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(testSource(t)); err != nil {
		t.Fatal(err)
	}
	before := sel.Clone()

	if err := sel.SetIndex("time", 4); err == nil {
		t.Error("expected error for out-of-range index")
	} else if _, ok := err.(IndexOutOfRangeErr); !ok {
		t.Errorf("got error type %T, want IndexOutOfRangeErr", err)
	}
	if err := sel.SetIndex("time", -1); err == nil {
		t.Error("expected error for negative index")
	}
	if err := sel.SetIndex("lon", 0); err == nil {
		t.Error("expected error for indexing an axis dimension")
	} else if _, ok := err.(DimensionMismatchErr); !ok {
		t.Errorf("got error type %T, want DimensionMismatchErr", err)
	}
	if err := sel.SetIndex("height", 0); err == nil {
		t.Error("expected error for unknown dimension")
	}
	if !sel.Equal(before) {
		t.Error("failed mutations changed the selection")
	}
}

func TestSetVariableCarryOver(t *testing.T) {
	a := testSource(t)
	b, err := NewInMemorySource("Q", testData(), testDims(),
		map[string]string{"units": "kg kg-1"})
	if err != nil {
		t.Fatal(err)
	}

	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(a); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetIndex("time", 2); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetAxes("lev", "lat"); err != nil {
		t.Fatal(err)
	}

	// Same dimensions: the whole selection carries over.
	if err := sel.SetVariable(b); err != nil {
		t.Fatal(err)
	}
	if sel.Variable != "Q" {
		t.Errorf("variable: got %s, want Q", sel.Variable)
	}
	if sel.X != "lev" || sel.Y != "lat" {
		t.Errorf("axes not carried over: got (%s,%s)", sel.X, sel.Y)
	}
	if sel.Fixed["time"] != 2 {
		t.Errorf("fixed index not carried over: got %v", sel.Fixed)
	}

	// Different dimensions: rebuilt from defaults.
	c, err := NewInMemorySource("ps", sparse.ZerosDense(3, 4), []Dimension{
		{Name: "lat", Size: 3},
		{Name: "lon", Size: 4},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := sel.SetVariable(c); err != nil {
		t.Fatal(err)
	}
	if sel.X != "lon" || sel.Y != "lat" || len(sel.Fixed) != 0 {
		t.Errorf("selection not rebuilt: axes (%s,%s), fixed %v", sel.X, sel.Y, sel.Fixed)
	}
}

func TestSetVariableRejectsScalar(t *testing.T) {
	sel := NewSelection(DefaultPolicy{})
	err := sel.SetVariable(&scalarSource{})
	if err == nil {
		t.Fatal("expected error for zero-dimensional variable")
	}
	if _, ok := err.(DimensionMismatchErr); !ok {
		t.Errorf("got error type %T, want DimensionMismatchErr", err)
	}
	if sel.Variable != "" {
		t.Error("failed SetVariable changed the selection")
	}
}

type scalarSource struct{}

func (s *scalarSource) Name() string                  { return "scalar" }
func (s *scalarSource) Dimensions() []Dimension       { return nil }
func (s *scalarSource) Attributes() map[string]string { return nil }
func (s *scalarSource) Slice(map[string]int, string, string) (*Slice, error) {
	return nil, DimensionMismatchErr{Variable: "scalar", Detail: "scalar"}
}
