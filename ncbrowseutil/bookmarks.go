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
	"os"

	"github.com/BurntSushi/toml"
)

// A Bookmark is a saved view: a file, a variable, an axis assignment,
// and held indices, named so it can be recalled from the command line.
//
// Bookmarks live in a TOML file of the form:
//
//	[bookmark.januaryTemps]
//	path = "era5.nc"
//	variable = "t2m"
//	xdim = "longitude"
//	ydim = "latitude"
//	[bookmark.januaryTemps.at]
//	time = 0
type Bookmark struct {
	Path     string
	Variable string
	XDim     string `toml:"xdim"`
	YDim     string `toml:"ydim"`
	At       map[string]int
}

type bookmarkFile struct {
	Bookmark map[string]Bookmark
}

// LoadBookmarks reads the bookmark file at path.
func LoadBookmarks(path string) (map[string]Bookmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var bf bookmarkFile
	if _, err := toml.DecodeReader(f, &bf); err != nil {
		return nil, fmt.Errorf("ncbrowse: reading bookmark file %s: %v", path, err)
	}
	return bf.Bookmark, nil
}

// applyBookmark fills the empty fields of spec from b. Explicit
// command-line flags win over the bookmark; bookmark At indices are
// used only for dimensions --at did not mention.
func applyBookmark(spec *PlotSpec, b Bookmark) {
	if spec.Path == "" {
		spec.Path = b.Path
	}
	if spec.Variable == "" {
		spec.Variable = b.Variable
	}
	if spec.XDim == "" {
		spec.XDim = b.XDim
	}
	if spec.YDim == "" {
		spec.YDim = b.YDim
	}
	for dim, i := range b.At {
		if _, ok := spec.At[dim]; !ok {
			if spec.At == nil {
				spec.At = make(map[string]int)
			}
			spec.At[dim] = i
		}
	}
}
