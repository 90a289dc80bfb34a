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
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/ncbrowse"
	"github.com/spf13/cast"
)

// parseAt parses --at dim=index pairs into a map.
func parseAt(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	at := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("ncbrowse: invalid --at value %q; want dim=index", pair)
		}
		i, err := cast.ToIntE(kv[1])
		if err != nil {
			return nil, fmt.Errorf("ncbrowse: invalid --at index in %q: %v", pair, err)
		}
		at[kv[0]] = i
	}
	return at, nil
}

// plotSpecFromConfig assembles the slice-rendering request shared by
// the plot and animate commands from flags, configuration, and (if
// requested) a bookmark.
func plotSpecFromConfig(args []string) (PlotSpec, error) {
	at, err := parseAt(Cfg.GetStringSlice("at"))
	if err != nil {
		return PlotSpec{}, err
	}
	policy, err := policyFromConfig(Cfg)
	if err != nil {
		return PlotSpec{}, err
	}
	spec := PlotSpec{
		Variable: Cfg.GetString("variable"),
		XDim:     Cfg.GetString("xdim"),
		YDim:     Cfg.GetString("ydim"),
		At:       at,
		Width:    Cfg.GetFloat64("width"),
		Height:   Cfg.GetFloat64("height"),
		Policy:   policy,
		Cache:    Cfg.GetInt("CacheSize"),
	}
	if len(args) > 0 {
		spec.Path = args[0]
	}
	if name := Cfg.GetString("bookmark"); name != "" {
		bmPath := Cfg.GetString("bookmarks")
		if bmPath == "" {
			return PlotSpec{}, fmt.Errorf("ncbrowse: the bookmark flag requires a bookmarks file; see the bookmarks flag")
		}
		bms, err := LoadBookmarks(bmPath)
		if err != nil {
			return PlotSpec{}, err
		}
		b, ok := bms[name]
		if !ok {
			return PlotSpec{}, fmt.Errorf("ncbrowse: %s contains no bookmark %q", bmPath, name)
		}
		applyBookmark(&spec, b)
	}
	if spec.Path == "" {
		return PlotSpec{}, fmt.Errorf("ncbrowse: no input file given")
	}
	return spec, nil
}

// policyFromConfig builds the selection-default policy from the
// configuration.
func policyFromConfig(cfg *viper.Viper) (ncbrowse.DefaultPolicy, error) {
	roles, err := cast.ToStringSliceE(cfg.Get("Defaults.CenterRoles"))
	if err != nil {
		return ncbrowse.DefaultPolicy{}, fmt.Errorf("ncbrowse: Defaults.CenterRoles: %v", err)
	}
	for _, r := range roles {
		switch r {
		case ncbrowse.RoleX, ncbrowse.RoleY, ncbrowse.RoleZ, ncbrowse.RoleT:
		default:
			return ncbrowse.DefaultPolicy{}, fmt.Errorf(
				"ncbrowse: Defaults.CenterRoles: unknown axis role %q", r)
		}
	}
	return ncbrowse.DefaultPolicy{CenterRoles: roles}, nil
}
