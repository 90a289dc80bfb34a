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
	"sync"
	"time"
)

// An Animator steps one non-plotted dimension of the active selection
// through its indices, wrapping at the ends, the way the viewer's
// play/step buttons do. All stepping funnels through the controller, so
// coalescing and error handling apply to animation frames the same as
// to any other mutation.
type Animator struct {
	ctrl *Controller

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewAnimator creates an animator driving c.
func NewAnimator(c *Controller) *Animator {
	return &Animator{ctrl: c}
}

// Step moves the index of dim by delta, wrapping: stepping forward past
// the last index returns to the first, and stepping backward past the
// first returns to the last.
func (a *Animator) Step(dim string, delta int) error {
	sel := a.ctrl.Selection()
	d, ok := sel.Dim(dim)
	if !ok {
		return DimensionMismatchErr{Variable: sel.Variable,
			Detail: dim + " is not a dimension of the active variable"}
	}
	i, ok := sel.Fixed[dim]
	if !ok {
		return DimensionMismatchErr{Variable: sel.Variable,
			Detail: dim + " is a plot axis and cannot be stepped"}
	}
	i = (i + delta) % d.Size
	if i < 0 {
		i += d.Size
	}
	return a.ctrl.SetIndex(dim, i)
}

// Start begins stepping dim once per interval, forward or backward,
// until Stop is called. Starting while already running restarts with
// the new parameters.
func (a *Animator) Start(dim string, forward bool, interval time.Duration) error {
	sel := a.ctrl.Selection()
	if _, ok := sel.Fixed[dim]; !ok {
		return DimensionMismatchErr{Variable: sel.Variable,
			Detail: dim + " is not an animatable dimension"}
	}
	delta := 1
	if !forward {
		delta = -1
	}
	a.Stop()
	a.mu.Lock()
	stop := make(chan struct{})
	a.stop = stop
	a.running = true
	a.mu.Unlock()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := a.Step(dim, delta); err != nil {
					a.ctrl.Log.WithError(err).Warn("ncbrowse: animation stopped")
					a.Stop()
					return
				}
			}
		}
	}()
	return nil
}

// Stop halts a running animation. It is safe to call when not running.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		close(a.stop)
		a.running = false
	}
}

// Running reports whether an animation is in progress.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// DefaultAnimationDim chooses the dimension the play buttons should
// animate: the time-like fixed dimension if there is one, otherwise the
// first fixed dimension in array order.
func DefaultAnimationDim(sel *Selection) string {
	first := ""
	for _, d := range sel.Dimensions() {
		if _, ok := sel.Fixed[d.Name]; !ok {
			continue
		}
		if axisRole(d) == RoleT {
			return d.Name
		}
		if first == "" {
			first = d.Name
		}
	}
	return first
}
