// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"image"
	"math"
	"sync/atomic"
	"time"

	"waywin.org/io/event"
	"waywin.org/io/system"
)

// Config is a window configuration.
type Config struct {
	// Size is the logical size of the window.
	Size image.Point
	// Scale is the number of physical pixels per logical unit.
	Scale float64
}

// DefaultSize is the size windows assume until the platform proposes
// one.
var DefaultSize = image.Pt(800, 600)

// frameTimeout bounds how long a paint waits for an outstanding frame
// callback. Compositors stop sending frame callbacks for hidden
// surfaces.
const frameTimeout = 200 * time.Millisecond

// Window is the platform independent state of a window: its pending
// and committed configuration and its redraw flag.
//
// Except for RequestRedraw, the methods of Window must only be called
// from the loop goroutine.
type Window struct {
	id   event.WindowID
	loop *Loop

	pending   Config
	proposed  bool
	committed Config
	// announced is the configuration the application was last told
	// about through events.
	announced  Config
	configured bool

	redraw atomic.Bool
	dead   bool

	frame struct {
		pending  bool
		deadline time.Time
	}

	// BeforePaint, if set, is called right before a PaintEvent is
	// delivered.
	BeforePaint func()
}

// Physical returns the size in physical pixels.
func (c Config) Physical() image.Point {
	return image.Point{
		X: int(math.Round(float64(c.Size.X) * c.Scale)),
		Y: int(math.Round(float64(c.Size.Y) * c.Scale)),
	}
}

// ID returns the window identifier.
func (w *Window) ID() event.WindowID {
	return w.id
}

// Config returns the committed configuration.
func (w *Window) Config() Config {
	return w.committed
}

// Pending returns the latest proposed configuration.
func (w *Window) Pending() Config {
	return w.pending
}

// Configured reports whether the window has acknowledged at least one
// configure sequence.
func (w *Window) Configured() bool {
	return w.configured
}

// Propose records a size proposed by the platform. The proposal takes
// effect at the next Ack. Degenerate sizes are ignored.
func (w *Window) Propose(size image.Point) {
	if w.dead {
		return
	}
	if size.X <= 0 || size.Y <= 0 {
		w.loop.log.Debug("ignoring degenerate size", "window", w.id, "size", size)
		return
	}
	w.pending.Size = size
	w.proposed = true
}

// Ack completes a configure sequence by promoting the pending
// configuration. It reports whether the committed configuration
// changed.
func (w *Window) Ack() bool {
	if w.dead {
		return false
	}
	first := !w.configured
	w.configured = true
	if first {
		w.redraw.Store(true)
	}
	if !w.proposed {
		return false
	}
	w.proposed = false
	if w.pending.Size == w.committed.Size {
		return false
	}
	w.committed.Size = w.pending.Size
	w.redraw.Store(true)
	w.announce()
	return true
}

// SetScale applies a new scale. Scale changes need no
// acknowledgment.
func (w *Window) SetScale(s float64) {
	if w.dead || s <= 0 || s == w.committed.Scale {
		return
	}
	w.committed.Scale = s
	w.pending.Scale = s
	w.redraw.Store(true)
	w.announce()
}

// announce queues the events describing the difference between the
// committed and the announced configuration.
func (w *Window) announce() {
	c, a := w.committed, w.announced
	if c == a {
		return
	}
	w.announced = c
	q := &w.loop.queue
	if c.Scale != a.Scale {
		q.Push(w.id, system.ScaleEvent{Scale: c.Scale})
	}
	if c.Size != a.Size || c.Physical() != a.Physical() {
		q.Push(w.id, system.ResizeEvent{Size: c.Size, PhysicalSize: c.Physical()})
	}
}

// RequestRedraw marks the window for repaint and wakes the loop. It is
// safe to call from any goroutine.
func (w *Window) RequestRedraw() {
	if !w.redraw.Swap(true) {
		w.loop.wakeup()
	}
}

// Invalidate marks the window for repaint without waking the loop.
// Platform callbacks use it from the loop goroutine.
func (w *Window) Invalidate() {
	w.redraw.Store(true)
}

// RedrawPending reports whether the redraw flag is set.
func (w *Window) RedrawPending() bool {
	return w.redraw.Load()
}

// FramePending records an outstanding frame callback. Paint is
// deferred until FrameDone or a timeout.
func (w *Window) FramePending() {
	w.frame.pending = true
	w.frame.deadline = w.loop.timers.Now().Add(frameTimeout)
}

// FrameDone records the completion of a frame callback.
func (w *Window) FrameDone() {
	w.frame.pending = false
}

// paintDelay returns how long a paint must wait for the frame
// callback, or zero if it may happen now.
func (w *Window) paintDelay(now time.Time) time.Duration {
	if !w.frame.pending {
		return 0
	}
	if d := w.frame.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Dead reports whether the window was destroyed.
func (w *Window) Dead() bool {
	return w.dead
}

// Destroy marks the window dead. No events are delivered to it
// afterwards, not even those already queued.
func (w *Window) Destroy() {
	if w.dead {
		return
	}
	w.dead = true
	w.loop.registry.remove(w.id)
}
