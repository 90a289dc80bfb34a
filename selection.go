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

// DefaultPolicy configures the heuristics used when a variable is first
// selected. The zero value plots the last two dimensions and holds all
// other dimensions at index zero.
type DefaultPolicy struct {
	// CenterRoles lists axis roles (RoleT, RoleZ, ...) whose
	// dimensions default to their center index instead of zero.
	CenterRoles []string
}

func (p DefaultPolicy) defaultIndex(d Dimension) int {
	role := axisRole(d)
	for _, r := range p.CenterRoles {
		if r == role {
			return d.Size / 2
		}
	}
	return 0
}

// defaultAxes chooses the plot axes for a newly selected variable: the
// last two dimensions in array order, so that the x axis is the
// innermost (usually longitude) dimension. One-dimensional variables
// get a single axis.
func (p DefaultPolicy) defaultAxes(dims []Dimension) (x, y string) {
	switch len(dims) {
	case 0:
		return "", ""
	case 1:
		return dims[0].Name, ""
	default:
		return dims[len(dims)-1].Name, dims[len(dims)-2].Name
	}
}

// A Selection is the state of the interactive session for one variable:
// which variable is active, which two of its dimensions are mapped to
// the plot axes, and the index every other dimension is held at.
//
// All mutations are atomic: a method either succeeds and leaves the
// selection satisfying its invariants, or fails with a typed error and
// leaves the selection exactly as it was. A Selection must only be
// mutated from a single goroutine.
type Selection struct {
	// Variable is the active variable name, or empty if none is
	// selected.
	Variable string

	// X and Y name the dimensions mapped to the plot axes. Y is empty
	// when a one-dimensional variable is selected.
	X, Y string

	// Fixed maps every non-axis dimension of the active variable to
	// its held index.
	Fixed map[string]int

	dims    []Dimension
	history map[string]int // last known index per dimension, across axis swaps
	policy  DefaultPolicy
}

// NewSelection returns an empty selection using policy for defaults.
func NewSelection(policy DefaultPolicy) *Selection {
	return &Selection{policy: policy, history: make(map[string]int)}
}

// Dimensions returns the dimensions of the active variable in array
// order, or nil if no variable is selected.
func (s *Selection) Dimensions() []Dimension { return s.dims }

// Dim returns the named dimension of the active variable.
func (s *Selection) Dim(name string) (Dimension, bool) {
	if i := dimIndex(s.dims, name); i >= 0 {
		return s.dims[i], true
	}
	return Dimension{}, false
}

// SetVariable makes src's variable the active one. If the new variable
// has the same dimensions as the current one, the axis assignment and
// fixed indices carry over; otherwise the selection is rebuilt from the
// default policy. Zero-dimensional variables are rejected with a
// DimensionMismatchErr.
func (s *Selection) SetVariable(src ArraySource) error {
	dims := src.Dimensions()
	if len(dims) == 0 {
		return DimensionMismatchErr{Variable: src.Name(),
			Detail: "zero-dimensional variables cannot be plotted"}
	}
	if s.Variable != "" && sameDims(dims, s.dims) {
		s.Variable = src.Name()
		s.dims = dims
		return nil
	}
	x, y := s.policy.defaultAxes(dims)
	fixed := make(map[string]int)
	for _, d := range dims {
		if d.Name == x || d.Name == y {
			continue
		}
		fixed[d.Name] = s.policy.defaultIndex(d)
	}
	s.Variable = src.Name()
	s.X, s.Y = x, y
	s.Fixed = fixed
	s.dims = dims
	s.history = make(map[string]int)
	return nil
}

func sameDims(a, b []Dimension) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Size != b[i].Size {
			return false
		}
	}
	return true
}

// SetAxes maps dimensions x and y to the plot axes. y may be empty to
// request a one-dimensional slice. Dimensions leaving the axes are
// fixed at their last known index (or the policy default if they never
// had one); dimensions becoming axes leave the fixed-index mapping.
func (s *Selection) SetAxes(x, y string) error {
	if s.Variable == "" {
		return InvalidAxisChoiceErr{X: x, Y: y, Reason: "no variable selected"}
	}
	if x == y {
		return InvalidAxisChoiceErr{X: x, Y: y, Reason: "axes must be distinct"}
	}
	if dimIndex(s.dims, x) < 0 {
		return InvalidAxisChoiceErr{X: x, Y: y,
			Reason: "x is not a dimension of variable " + s.Variable}
	}
	if y != "" && dimIndex(s.dims, y) < 0 {
		return InvalidAxisChoiceErr{X: x, Y: y,
			Reason: "y is not a dimension of variable " + s.Variable}
	}
	for name, i := range s.Fixed {
		s.history[name] = i
	}
	fixed := make(map[string]int)
	for _, d := range s.dims {
		if d.Name == x || d.Name == y {
			continue
		}
		if i, ok := s.history[d.Name]; ok {
			fixed[d.Name] = i
		} else {
			fixed[d.Name] = s.policy.defaultIndex(d)
		}
	}
	s.X, s.Y = x, y
	s.Fixed = fixed
	return nil
}

// SetIndex holds the named non-axis dimension at index i.
func (s *Selection) SetIndex(dim string, i int) error {
	d, ok := s.Dim(dim)
	if !ok || dim == s.X || dim == s.Y {
		return DimensionMismatchErr{Variable: s.Variable,
			Detail: dim + " is not a fixable dimension of the active variable"}
	}
	if i < 0 || i >= d.Size {
		return IndexOutOfRangeErr{Dim: dim, Index: i, Size: d.Size}
	}
	s.Fixed[dim] = i
	s.history[dim] = i
	return nil
}

// Validate re-checks the selection invariants against the dimension
// metadata captured at SetVariable time.
func (s *Selection) Validate() error {
	if s.Variable == "" {
		return DimensionMismatchErr{Detail: "no variable selected"}
	}
	return validateSliceArgs(s.Variable, s.dims, s.Fixed, s.X, s.Y)
}

// Clone returns an independent deep copy of s.
func (s *Selection) Clone() *Selection {
	c := &Selection{
		Variable: s.Variable,
		X:        s.X,
		Y:        s.Y,
		dims:     s.dims,
		policy:   s.policy,
		Fixed:    make(map[string]int, len(s.Fixed)),
		history:  make(map[string]int, len(s.history)),
	}
	for k, v := range s.Fixed {
		c.Fixed[k] = v
	}
	for k, v := range s.history {
		c.history[k] = v
	}
	return c
}

// Equal reports whether s and o describe the same variable, axes, and
// fixed indices.
func (s *Selection) Equal(o *Selection) bool {
	if s.Variable != o.Variable || s.X != o.X || s.Y != o.Y || len(s.Fixed) != len(o.Fixed) {
		return false
	}
	for k, v := range s.Fixed {
		if ov, ok := o.Fixed[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
