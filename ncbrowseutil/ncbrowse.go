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

package ncbrowseutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spatialmodel/ncbrowse"
	"github.com/spatialmodel/ncbrowse/nc4"
	"github.com/spatialmodel/ncbrowse/ncf"
	"github.com/spatialmodel/ncbrowse/render"

	"gonum.org/v1/plot/vg"
)

// OpenDataset opens the netCDF file at path with the backend matching
// its on-disk format: the classic reader for CDF-1/CDF-2 files, the
// netCDF-4 reader for HDF5-backed and CDF-5 files.
func OpenDataset(path string) (ncbrowse.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var magic [4]byte
	_, err = io.ReadFull(f, magic[:])
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("ncbrowse: reading %s: %v", path, err)
	}
	if magic[0] == 'C' && magic[1] == 'D' && magic[2] == 'F' && magic[3] <= 2 {
		return ncf.Open(path)
	}
	return nc4.Open(path)
}

// Vars prints the plottable variables of the netCDF file at path to w,
// one per line, with their shapes and descriptive attributes.
func Vars(path string, w io.Writer) error {
	ds, err := OpenDataset(path)
	if err != nil {
		return err
	}
	defer ds.Close()
	for _, name := range ds.Variables() {
		src, err := ds.Source(name)
		if err != nil {
			return err
		}
		var shape []string
		for _, d := range src.Dimensions() {
			shape = append(shape, fmt.Sprintf("%s(%d)", d.Name, d.Size))
		}
		attrs := src.Attributes()
		desc := attrs["long_name"]
		if u := attrs["units"]; u != "" {
			desc = strings.TrimSpace(desc + " [" + u + "]")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(shape, " "), desc)
	}
	return nil
}

// A PlotSpec describes one slice-rendering request.
type PlotSpec struct {
	Path     string // netCDF file
	Variable string // empty selects the first plottable variable
	XDim     string // empty keeps the default axes
	YDim     string
	At       map[string]int // held indices; others get policy defaults
	Output   string         // output PNG path
	Width    float64        // inches
	Height   float64
	Policy   ncbrowse.DefaultPolicy
	Cache    int
}

// Plot renders the slice described by spec to spec.Output.
func Plot(spec PlotSpec) error {
	sink := &render.PNG{
		Image: render.Image{
			Width:  vg.Length(spec.Width) * vg.Inch,
			Height: vg.Length(spec.Height) * vg.Inch,
		},
		Path: spec.Output,
	}
	ctrl, err := setup(spec, sink)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	ctrl.Sync()
	if ctrl.LastSlice() == nil {
		return fmt.Errorf("ncbrowse: no slice could be rendered for %s", spec.Path)
	}
	logger.WithField("output", spec.Output).Info("ncbrowse: wrote plot")
	return nil
}

// An AnimateSpec describes a frame-sequence request.
type AnimateSpec struct {
	PlotSpec
	Dim      string // dimension to step; empty picks the time-like one
	Frames   int    // 0 means one full cycle of Dim
	Backward bool
	OutDir   string
}

// Animate writes the frame sequence described by spec and returns the
// number of frames written.
func Animate(spec AnimateSpec) (int, error) {
	sink := &render.FrameSeq{
		Image: render.Image{
			Width:  vg.Length(spec.Width) * vg.Inch,
			Height: vg.Length(spec.Height) * vg.Inch,
		},
		Dir:    spec.OutDir,
		Prefix: "frame",
	}
	ctrl, err := setup(spec.PlotSpec, sink)
	if err != nil {
		return 0, err
	}
	defer ctrl.Close()
	ctrl.Sync()
	if ctrl.LastSlice() == nil {
		return 0, fmt.Errorf("ncbrowse: no slice could be rendered for %s", spec.Path)
	}

	sel := ctrl.Selection()
	dim := spec.Dim
	if dim == "" {
		dim = ncbrowse.DefaultAnimationDim(sel)
	}
	if dim == "" {
		return sink.Frames(), nil // nothing to animate; the single frame stands
	}
	d, ok := sel.Dim(dim)
	if !ok {
		return 0, fmt.Errorf("ncbrowse: variable %s has no dimension %q", sel.Variable, dim)
	}
	frames := spec.Frames
	if frames <= 0 {
		frames = d.Size // one full cycle back to the starting index
	}
	delta := 1
	if spec.Backward {
		delta = -1
	}
	anim := ncbrowse.NewAnimator(ctrl)
	for i := 0; i < frames-1; i++ {
		if err := anim.Step(dim, delta); err != nil {
			return sink.Frames(), err
		}
		ctrl.Sync()
	}
	return sink.Frames(), nil
}

// setup opens the dataset, applies the selection described by spec, and
// waits for nothing: callers Sync when they need the render.
func setup(spec PlotSpec, sink ncbrowse.PlotSink) (*ncbrowse.Controller, error) {
	ds, err := OpenDataset(spec.Path)
	if err != nil {
		return nil, err
	}
	ctrl := ncbrowse.NewController(ds, sink, spec.Policy)
	ctrl.Log = logger
	if spec.Cache > 0 {
		ctrl.CacheSize = spec.Cache
	}
	go drainStatus(ctrl)

	variable := spec.Variable
	if variable == "" {
		vars := ds.Variables()
		if len(vars) == 0 {
			ctrl.Close()
			return nil, fmt.Errorf("ncbrowse: %s contains no plottable variables", spec.Path)
		}
		variable = vars[0]
	}
	if err := ctrl.SelectVariable(variable); err != nil {
		ctrl.Close()
		return nil, err
	}
	if spec.XDim != "" || spec.YDim != "" {
		x, y := spec.XDim, spec.YDim
		if x == "" { // --ydim alone keeps the default x axis
			x = ctrl.Selection().X
		}
		if err := ctrl.SetAxes(x, y); err != nil {
			ctrl.Close()
			return nil, err
		}
	}
	for dim, i := range spec.At {
		if err := ctrl.SetIndex(dim, i); err != nil {
			ctrl.Close()
			return nil, err
		}
	}
	return ctrl, nil
}

// drainStatus logs controller statuses so the status channel never
// fills up in batch mode.
func drainStatus(ctrl *ncbrowse.Controller) {
	for st := range ctrl.Status() {
		if st.Err != nil {
			logger.WithError(st.Err).WithField("variable", st.Variable).Warn("ncbrowse: status")
		} else {
			logger.WithField("variable", st.Variable).Debugf("ncbrowse: %v", st.State)
		}
	}
}
