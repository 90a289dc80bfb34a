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
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the synchronization state of a Controller.
type State int

const (
	// Idle means no variable is selected (or the controller is
	// closed).
	Idle State = iota
	// Pending means the selection has been mutated and a slice
	// resolution is in flight.
	Pending
	// Ready means the last rendered slice matches the selection.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// A Status is sent to the GUI shell whenever the controller changes
// state or surfaces an error.
type Status struct {
	State    State
	Variable string
	Err      error
}

// A Controller keeps the plot, the dimension controls, and the
// selection state consistent. All selection mutations must come from a
// single foreground goroutine; slice resolution runs on a background
// goroutine so lazy reads do not block the interactive surface.
//
// At most one resolution is in flight at a time. A mutation arriving
// while a resolution is in flight supersedes it: the in-flight result
// is discarded when it arrives and the latest selection is resolved
// instead, so rapid successive mutations (a slider drag) coalesce into
// a single render of the final state. Resolution and render errors
// never escape the controller; the previously rendered slice is
// retained so the plot does not go blank.
type Controller struct {
	// Log receives diagnostic output. Defaults to the logrus standard
	// logger.
	Log *logrus.Logger

	// CacheSize is passed through to the per-variable slice resolver.
	CacheSize int

	mu     sync.Mutex
	cond   *sync.Cond
	ds     Dataset
	sink   PlotSink
	policy DefaultPolicy

	sel      *Selection
	resolver *Resolver
	state    State
	gen      uint64 // bumped on every accepted mutation
	inFlight bool
	last     *Slice
	closed   bool
	status   chan Status
}

// NewController creates a controller for ds that forwards realized
// slices to sink and uses policy when selecting defaults.
func NewController(ds Dataset, sink PlotSink, policy DefaultPolicy) *Controller {
	c := &Controller{
		Log:       logrus.StandardLogger(),
		CacheSize: 100,
		ds:        ds,
		sink:      sink,
		policy:    policy,
		sel:       NewSelection(policy),
		state:     Idle,
		status:    make(chan Status, 16),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Status returns the channel carrying state changes and surfaced
// errors. Statuses are dropped, not blocked on, if the receiver falls
// behind.
func (c *Controller) Status() <-chan Status { return c.status }

// State returns the current synchronization state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selection returns a copy of the current selection state.
func (c *Controller) Selection() *Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.Clone()
}

// Controls derives the dimension-control set for the current selection.
func (c *Controller) Controls() []DimensionControl {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Controls(c.sel)
}

// LastSlice returns the most recently rendered slice, or nil.
func (c *Controller) LastSlice() *Slice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Variables lists the plottable variables of the underlying dataset.
func (c *Controller) Variables() []string { return c.ds.Variables() }

// SelectVariable makes the named variable active and schedules a
// render.
func (c *Controller) SelectVariable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	src, err := c.ds.Source(name)
	if err != nil {
		c.surfaceLocked(err)
		return err
	}
	if err := c.sel.SetVariable(src); err != nil {
		c.surfaceLocked(err)
		return err
	}
	r := NewResolver(src)
	r.CacheSize = c.CacheSize
	c.resolver = r
	c.scheduleLocked()
	return nil
}

// SetAxes maps the named dimensions to the plot axes and schedules a
// render. On failure the selection, the dimension controls, and the
// plot are unchanged.
func (c *Controller) SetAxes(x, y string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	if err := c.sel.SetAxes(x, y); err != nil {
		c.surfaceLocked(err)
		return err
	}
	c.scheduleLocked()
	return nil
}

// SetIndex holds the named dimension at index i and schedules a render.
func (c *Controller) SetIndex(dim string, i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	if err := c.sel.SetIndex(dim, i); err != nil {
		c.surfaceLocked(err)
		return err
	}
	c.scheduleLocked()
	return nil
}

// Reload re-reads the active variable's metadata from the dataset (for
// datasets that have been rewritten in place) and schedules a render.
func (c *Controller) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	if c.sel.Variable == "" {
		return nil
	}
	src, err := c.ds.Source(c.sel.Variable)
	if err != nil {
		c.surfaceLocked(err)
		return err
	}
	if err := c.sel.SetVariable(src); err != nil {
		c.surfaceLocked(err)
		return err
	}
	r := NewResolver(src)
	r.CacheSize = c.CacheSize
	c.resolver = r
	c.scheduleLocked()
	return nil
}

// Close releases the dataset and moves the controller to its terminal
// Idle state. Any in-flight resolution result is discarded.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.state = Idle
	c.cond.Broadcast()
	c.mu.Unlock()
	return c.ds.Close()
}

// Sync blocks until no resolution is in flight. It is mostly useful in
// tests and batch (non-interactive) use.
func (c *Controller) Sync() {
	c.mu.Lock()
	for c.inFlight && !c.closed {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

// scheduleLocked records a mutation and ensures a resolution is
// running. Must be called with c.mu held.
func (c *Controller) scheduleLocked() {
	c.gen++
	c.state = Pending
	c.surfaceStateLocked()
	if !c.inFlight && c.resolver != nil {
		c.inFlight = true
		go c.resolveLoop()
	}
}

// resolveLoop resolves the latest selection, re-running whenever the
// result it produced was superseded by a newer mutation.
func (c *Controller) resolveLoop() {
	for {
		c.mu.Lock()
		if c.closed {
			c.finishLocked()
			c.mu.Unlock()
			return
		}
		gen := c.gen
		sel := c.sel.Clone()
		resolver := c.resolver
		sink := c.sink
		c.mu.Unlock()

		slice, err := resolver.Resolve(context.Background(), sel)

		c.mu.Lock()
		if c.closed {
			c.finishLocked()
			c.mu.Unlock()
			return
		}
		if gen != c.gen {
			// Superseded while resolving; discard and go again with
			// the latest selection.
			c.Log.WithField("variable", sel.Variable).Debug("ncbrowse: discarding superseded slice")
			c.mu.Unlock()
			continue
		}
		if err != nil {
			// Prior valid slice stays on screen.
			c.state = Ready
			c.finishLocked()
			c.surfaceLocked(err)
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		rerr := sink.Render(slice)

		c.mu.Lock()
		if c.closed {
			c.finishLocked()
			c.mu.Unlock()
			return
		}
		if gen != c.gen {
			c.mu.Unlock()
			continue
		}
		if rerr == nil {
			c.last = slice
		}
		c.state = Ready
		c.finishLocked()
		if rerr != nil {
			c.surfaceLocked(rerr)
		} else {
			c.surfaceStateLocked()
		}
		c.mu.Unlock()
		return
	}
}

// finishLocked marks the background resolution as done. Must be called
// with c.mu held.
func (c *Controller) finishLocked() {
	c.inFlight = false
	c.cond.Broadcast()
}

// surfaceLocked reports an error to the status channel and the log.
// Must be called with c.mu held.
func (c *Controller) surfaceLocked(err error) {
	c.Log.WithError(err).WithField("variable", c.sel.Variable).Warn("ncbrowse: operation failed")
	c.sendLocked(Status{State: c.state, Variable: c.sel.Variable, Err: err})
}

// surfaceStateLocked reports a state change to the status channel.
// Must be called with c.mu held.
func (c *Controller) surfaceStateLocked() {
	c.sendLocked(Status{State: c.state, Variable: c.sel.Variable})
}

func (c *Controller) sendLocked(st Status) {
	select {
	case c.status <- st:
	default:
		c.Log.Debug("ncbrowse: status receiver fell behind; dropping status")
	}
}

var errClosed = errors.New("ncbrowse: controller is closed")
