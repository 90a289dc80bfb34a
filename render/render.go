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

// Package render draws realized slices as PNG images: heatmaps for 2-D
// slices, line plots for 1-D slices. It is the reference
// ncbrowse.PlotSink implementation used by the command-line interface;
// a GUI would substitute its own.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spatialmodel/ncbrowse"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Image holds the output geometry shared by the PNG sinks.
type Image struct {
	// Width and Height of the output image. Zero values default to
	// 6x4 inches.
	Width, Height vg.Length

	// Colors is the palette size for heatmaps. Zero defaults to 255.
	Colors int
}

func (im *Image) geometry() (w, h vg.Length, colors int) {
	w, h, colors = im.Width, im.Height, im.Colors
	if w == 0 {
		w = 6 * vg.Inch
	}
	if h == 0 {
		h = 4 * vg.Inch
	}
	if colors == 0 {
		colors = 255
	}
	return
}

// Draw renders s as a PNG image to w.
func (im *Image) Draw(s *ncbrowse.Slice, w io.Writer) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title(s)
	p.X.Label.Text = axisLabel(s.X)

	if s.OneDimensional() {
		xs := axisValues(s.X, s.Data.Shape[1])
		pts := make(plotter.XYs, s.Data.Shape[1])
		for i := range pts {
			pts[i].X = xs[i]
			pts[i].Y = s.Data.Get(0, i)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Y.Label.Text = valueLabel(s)
	} else {
		_, _, colors := im.geometry()
		pal := moreland.SmoothBlueRed().Palette(colors)
		h := plotter.NewHeatMap(sliceGrid{s: s}, pal)
		// Fill values are NaN; compute the color scale from the
		// finite data only.
		if min, max, ok := dataRange(s); ok {
			h.Min, h.Max = min, max
		}
		p.Add(h)
		p.Y.Label.Text = axisLabel(s.Y)
	}

	width, height, _ := im.geometry()
	c := vgimg.New(width, height)
	p.Draw(vgdraw.New(c))
	png := vgimg.PngCanvas{Canvas: c}
	_, err = png.WriteTo(w)
	return err
}

// A PNG is a PlotSink that overwrites a single image file on every
// render, the way an on-screen plot window replaces its contents.
type PNG struct {
	Image
	Path string
}

// Render implements ncbrowse.PlotSink.
func (p *PNG) Render(s *ncbrowse.Slice) error {
	f, err := os.Create(p.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.Draw(s, f)
}

// A FrameSeq is a PlotSink that writes every render to a new
// sequentially numbered file, for assembling animations.
type FrameSeq struct {
	Image
	Dir    string
	Prefix string

	mu sync.Mutex
	n  int
}

// Render implements ncbrowse.PlotSink.
func (f *FrameSeq) Render(s *ncbrowse.Slice) error {
	f.mu.Lock()
	n := f.n
	f.n++
	f.mu.Unlock()
	name := filepath.Join(f.Dir, fmt.Sprintf("%s_%04d.png", f.Prefix, n))
	w, err := os.Create(name)
	if err != nil {
		return err
	}
	defer w.Close()
	return f.Draw(s, w)
}

// Frames returns the number of frames written so far.
func (f *FrameSeq) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

// dataRange returns the finite extent of the slice data. ok is false
// when every element is NaN.
func dataRange(s *ncbrowse.Slice) (min, max float64, ok bool) {
	vals := make([]float64, 0, len(s.Data.Elements))
	for _, v := range s.Data.Elements {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// sliceGrid adapts a realized slice to plotter.GridXYZ.
type sliceGrid struct {
	s *ncbrowse.Slice
}

func (g sliceGrid) Dims() (c, r int) { return g.s.Data.Shape[1], g.s.Data.Shape[0] }

func (g sliceGrid) Z(c, r int) float64 { return g.s.Data.Get(r, c) }

func (g sliceGrid) X(c int) float64 { return axisValue(g.s.X, c) }

func (g sliceGrid) Y(r int) float64 { return axisValue(g.s.Y, r) }

// axisValues returns plot positions for a dimension: its coordinate
// values when they are strictly increasing, bare indices otherwise
// (plotter.HeatMap requires increasing positions).
func axisValues(d ncbrowse.Dimension, n int) []float64 {
	out := make([]float64, n)
	if monotonicIncreasing(d.Coord) && len(d.Coord) == n {
		copy(out, d.Coord)
		return out
	}
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func axisValue(d ncbrowse.Dimension, i int) float64 {
	if monotonicIncreasing(d.Coord) && i < len(d.Coord) {
		return d.Coord[i]
	}
	return float64(i)
}

func monotonicIncreasing(v []float64) bool {
	if len(v) < 2 {
		return len(v) == 1
	}
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}

// axisLabel formats a dimension name with its units for an axis label.
func axisLabel(d ncbrowse.Dimension) string {
	if d.Units != "" && !strings.Contains(d.Units, " since ") {
		return fmt.Sprintf("%s (%s)", d.Name, d.Units)
	}
	return d.Name
}

// valueLabel describes the plotted quantity, preferring the long_name
// attribute as the original viewer does.
func valueLabel(s *ncbrowse.Slice) string {
	name := s.Variable
	if ln, ok := s.Attrs["long_name"]; ok {
		name = ln
	}
	if u, ok := s.Attrs["units"]; ok {
		return fmt.Sprintf("%s (%s)", name, u)
	}
	return name
}

// title builds the plot title from the variable description and the
// held dimensions, e.g. "air temperature (K), time = 2001-01-02".
func title(s *ncbrowse.Slice) string {
	parts := []string{valueLabel(s)}
	for _, fd := range s.Fixed {
		parts = append(parts, fmt.Sprintf("%s = %s", fd.Name, fd.Label))
	}
	return strings.Join(parts, ", ")
}
