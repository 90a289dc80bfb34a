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
	"testing"
	"time"
)

func TestAnimatorStepWraps(t *testing.T) {
	sink := &countSink{}
	c := NewController(NewMapDataset(testSource(t)), sink, DefaultPolicy{})
	defer c.Close()
	if err := c.SelectVariable("T"); err != nil {
		t.Fatal(err)
	}
	c.Sync()

	a := NewAnimator(c)

	// Forward through the whole time dimension and around: 0,1,2,3,0.
	want := []int{1, 2, 3, 0}
	for _, w := range want {
		if err := a.Step("time", 1); err != nil {
			t.Fatal(err)
		}
		if got := c.Selection().Fixed["time"]; got != w {
			t.Errorf("forward step: got index %d, want %d", got, w)
		}
	}

	// Backward from 0 wraps to the last index.
	if err := a.Step("time", -1); err != nil {
		t.Fatal(err)
	}
	if got := c.Selection().Fixed["time"]; got != 3 {
		t.Errorf("backward step from 0: got index %d, want 3", got)
	}

	// Axis dimensions cannot be stepped.
	if err := a.Step("lon", 1); err == nil {
		t.Error("stepping an axis dimension should fail")
	}
	if err := a.Step("height", 1); err == nil {
		t.Error("stepping an unknown dimension should fail")
	}
}

func TestAnimatorStartStop(t *testing.T) {
	sink := &countSink{}
	c := NewController(NewMapDataset(testSource(t)), sink, DefaultPolicy{})
	defer c.Close()
	if err := c.SelectVariable("T"); err != nil {
		t.Fatal(err)
	}
	c.Sync()

	a := NewAnimator(c)
	if err := a.Start("time", true, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !a.Running() {
		t.Error("animator should be running")
	}

	deadline := time.Now().Add(5 * time.Second)
	for c.Selection().Fixed["time"] == 0 {
		if time.Now().After(deadline) {
			t.Fatal("animation never advanced the index")
		}
		time.Sleep(time.Millisecond)
	}

	a.Stop()
	if a.Running() {
		t.Error("animator should have stopped")
	}
	a.Stop() // stopping again is a no-op

	if err := a.Start("lon", true, time.Millisecond); err == nil {
		t.Error("starting an animation on an axis dimension should fail")
	}
}

func TestDefaultAnimationDim(t *testing.T) {
	sel := NewSelection(DefaultPolicy{})
	if err := sel.SetVariable(testSource(t)); err != nil {
		t.Fatal(err)
	}
	if got := DefaultAnimationDim(sel); got != "time" {
		t.Errorf("got %q, want time", got)
	}

	// With time on an axis, the first remaining fixed dimension wins.
	if err := sel.SetAxes("time", "lat"); err != nil {
		t.Fatal(err)
	}
	if got := DefaultAnimationDim(sel); got != "lev" {
		t.Errorf("got %q, want lev", got)
	}

	// With both time and lev plotted, lat is first in array order.
	if err := sel.SetAxes("time", "lev"); err != nil {
		t.Fatal(err)
	}
	if got := DefaultAnimationDim(sel); got != "lat" {
		t.Errorf("got %q, want lat", got)
	}
}
