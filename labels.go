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
	"strconv"
	"strings"
	"time"
)

// parseCFTime interprets a CF time-units attribute of the form
// "<interval> since <timestamp>", returning the reference time and the
// duration of one coordinate unit.
func parseCFTime(units string) (time.Time, time.Duration, bool) {
	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, false
	}
	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "seconds", "second", "s":
		step = time.Second
	case "minutes", "minute", "min":
		step = time.Minute
	case "hours", "hour", "h":
		step = time.Hour
	case "days", "day", "d":
		step = 24 * time.Hour
	default:
		return time.Time{}, 0, false
	}
	ref := strings.TrimSpace(parts[1])
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, ref); err == nil {
			return t, step, true
		}
	}
	return time.Time{}, 0, false
}

// TimeLabel renders the coordinate value v as a timestamp according to
// the CF time-units attribute units. It returns false if units is not a
// parseable CF time specification.
func TimeLabel(units string, v float64) (string, bool) {
	ref, step, ok := parseCFTime(units)
	if !ok {
		return "", false
	}
	t := ref.Add(time.Duration(v * float64(step)))
	return t.Format("2006-01-02 15:04"), true
}

// coordLabel renders the i'th coordinate value of d as text for use in
// dimension controls and slice titles. Dimensions without coordinates
// are labeled by index.
func coordLabel(d Dimension, i int) string {
	if i < 0 || i >= len(d.Coord) {
		return strconv.Itoa(i)
	}
	v := d.Coord[i]
	if s, ok := TimeLabel(d.Units, v); ok {
		return s
	}
	return fmt.Sprintf("%.4g", v)
}

// Axis roles assigned to recognized dimension types, following the
// usual netCDF naming and units conventions.
const (
	RoleX = "X" // longitude-like
	RoleY = "Y" // latitude-like
	RoleZ = "Z" // vertical
	RoleT = "T" // time
)

// axisRole classifies d as one of the axis roles above, or returns an
// empty string if the dimension is unrecognized.
func axisRole(d Dimension) string {
	name := strings.ToLower(d.Name)
	units := strings.ToLower(d.Units)
	switch {
	case name == "time" || name == "t" || strings.Contains(units, " since "):
		return RoleT
	case name == "lev" || name == "level" || name == "plev" || name == "height" ||
		name == "depth" || name == "z" || units == "pa" || units == "hpa" ||
		units == "millibar" || units == "sigma_level":
		return RoleZ
	case name == "lat" || name == "latitude" || name == "y" ||
		strings.HasPrefix(units, "degrees_n") || strings.HasPrefix(units, "degree_n"):
		return RoleY
	case name == "lon" || name == "longitude" || name == "x" ||
		strings.HasPrefix(units, "degrees_e") || strings.HasPrefix(units, "degree_e"):
		return RoleX
	}
	return ""
}
