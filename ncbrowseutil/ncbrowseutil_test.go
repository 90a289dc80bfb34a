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
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/ncbrowse"
)

func TestParseAt(t *testing.T) {
	at, err := parseAt([]string{"time=3", "lev=0"})
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"time": 3, "lev": 0}; !reflect.DeepEqual(at, want) {
		t.Errorf("got %v, want %v", at, want)
	}
	if at, err := parseAt(nil); err != nil || at != nil {
		t.Errorf("empty input: got %v, %v", at, err)
	}
	for _, bad := range []string{"time", "=3", "time=three"} {
		if _, err := parseAt([]string{bad}); err == nil {
			t.Errorf("parseAt(%q): expected error", bad)
		}
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Defaults.CenterRoles", []string{"T", "Z"})
	policy, err := policyFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{ncbrowse.RoleT, ncbrowse.RoleZ}; !reflect.DeepEqual(policy.CenterRoles, want) {
		t.Errorf("got %v, want %v", policy.CenterRoles, want)
	}

	cfg.Set("Defaults.CenterRoles", []string{"Q"})
	if _, err := policyFromConfig(cfg); err == nil {
		t.Error("expected error for unknown axis role")
	}
}

func TestBookmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.toml")
	err := os.WriteFile(path, []byte(`
[bookmark.temps]
path = "era5.nc"
variable = "t2m"
xdim = "longitude"
ydim = "latitude"
[bookmark.temps.at]
time = 6
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	bms, err := LoadBookmarks(path)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := bms["temps"]
	if !ok {
		t.Fatalf("bookmark not found: %v", bms)
	}
	want := Bookmark{Path: "era5.nc", Variable: "t2m",
		XDim: "longitude", YDim: "latitude", At: map[string]int{"time": 6}}
	if !reflect.DeepEqual(b, want) {
		t.Errorf("got %+v, want %+v", b, want)
	}

	// Explicit flag values win over the bookmark.
	spec := PlotSpec{Variable: "sst", At: map[string]int{"time": 0}}
	applyBookmark(&spec, b)
	if spec.Path != "era5.nc" || spec.Variable != "sst" || spec.XDim != "longitude" {
		t.Errorf("applied spec: %+v", spec)
	}
	if spec.At["time"] != 0 {
		t.Errorf("bookmark overrode an explicit index: %v", spec.At)
	}
}

// writeTestFile creates a small classic netCDF file with one 3-D
// variable.
func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nc")
	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{3, 4, 5})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "hours since 2001-01-01 00:00")
	h.AddVariable("T", []string{"time", "lat", "lon"}, []float32{0})
	h.AddAttribute("T", "units", "K")
	h.AddAttribute("T", "long_name", "air temperature")
	h.Define()
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	vals := make([]float32, 3*4*5)
	for i := range vals {
		vals[i] = float32(i)
	}
	if _, err := f.Writer("T", nil, nil).Write(vals); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Writer("time", nil, nil).Write([]float64{0, 24, 48}); err != nil {
		t.Fatal(err)
	}
	if err := ff.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVars(t *testing.T) {
	var buf bytes.Buffer
	if err := Vars(writeTestFile(t), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "T\t") {
		t.Errorf("output does not start with the variable name: %q", out)
	}
	for _, want := range []string{"time(3)", "lat(4)", "lon(5)", "air temperature [K]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "time\t") {
		t.Errorf("coordinate variable listed as plottable: %q", out)
	}
}

func TestPlot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.png")
	err := Plot(PlotSpec{
		Path:   writeTestFile(t),
		At:     map[string]int{"time": 2},
		Output: out,
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("output is not a PNG image")
	}
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	n, err := Animate(AnimateSpec{
		PlotSpec: PlotSpec{Path: writeTestFile(t)},
		OutDir:   dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	// One full cycle of the 3-step time dimension.
	if n != 3 {
		t.Errorf("frames: got %d, want 3", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("files written: got %d, want 3", len(entries))
	}
}
