// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"log/slog"

	"waywin.org/app/internal/wm"
	"waywin.org/io/event"
	"waywin.org/io/pointer"
)

// Pointer tracks pointer focus and accumulates scrolling for one
// pointer device. It must only be used from the loop goroutine.
type Pointer struct {
	loop  *wm.Loop
	log   *slog.Logger
	focus event.WindowID
	x, y  float64

	// framed devices group axis events and deliver them at Frame.
	framed bool
	scroll struct {
		source pointer.Source
		axes   [2]axisState
	}
}

type axisState struct {
	value    float64
	steps    float64
	hasValue bool
	hasSteps bool
}

// NewPointer returns a pointer delivering to loop.
func NewPointer(loop *wm.Loop) *Pointer {
	return &Pointer{loop: loop, log: loop.Log()}
}

// SetFramed selects whether scrolling is delivered at Frame or
// immediately at Axis.
func (p *Pointer) SetFramed(framed bool) {
	p.framed = framed
}

// Focused returns the window with pointer focus, or zero.
func (p *Pointer) Focused() event.WindowID {
	return p.focus
}

// Position returns the last known position in the focused window.
func (p *Pointer) Position() (x, y float64) {
	return p.x, p.y
}

// Enter gives the pointer focus to the window id at the position (x,
// y).
func (p *Pointer) Enter(id event.WindowID, x, y float64) {
	if id == p.focus {
		p.Motion(x, y)
		return
	}
	if !p.loop.Registry().Alive(id) {
		p.log.Warn("pointer enter for unknown window", "window", id)
		return
	}
	if p.focus != 0 {
		p.leave()
	}
	p.focus = id
	p.x, p.y = x, y
	q := p.loop.Queue()
	q.Push(id, pointer.EnterEvent{})
	q.Push(id, pointer.MoveEvent{X: x, Y: y})
}

// Leave removes the pointer focus from the window id.
func (p *Pointer) Leave(id event.WindowID) {
	if id == 0 || id != p.focus {
		p.log.Warn("pointer leave for unfocused window", "window", id, "focus", p.focus)
		return
	}
	p.leave()
}

func (p *Pointer) leave() {
	p.loop.Queue().Push(p.focus, pointer.LeaveEvent{})
	p.focus = 0
	p.resetScroll()
}

func (p *Pointer) focused(what string) bool {
	if p.focus == 0 {
		p.log.Warn("pointer event without focus", "event", what)
		return false
	}
	return true
}

// Motion moves the pointer within the focused window.
func (p *Pointer) Motion(x, y float64) {
	if !p.focused("motion") {
		return
	}
	p.x, p.y = x, y
	p.loop.Queue().Push(p.focus, pointer.MoveEvent{X: x, Y: y})
}

// Button delivers a button press or release. code is the platform
// code of the button.
func (p *Pointer) Button(b pointer.Button, code uint32, down bool) {
	if !p.focused("button") {
		return
	}
	p.loop.Queue().Push(p.focus, pointer.ButtonEvent{Down: down, Button: b, Code: code})
}

// Axis records continuous scrolling in logical pixels. Positive values
// move content down or right.
func (p *Pointer) Axis(axis pointer.Axis, value float64) {
	if !p.focused("axis") || int(axis) >= len(p.scroll.axes) {
		return
	}
	if !p.framed {
		p.Scroll(axis, value, pointer.ScrollPixels, p.scroll.source)
		p.scroll.source = pointer.SourceUnknown
		return
	}
	a := &p.scroll.axes[axis]
	a.value += value
	a.hasValue = true
}

// AxisSteps records discrete scrolling in wheel detents for the
// current frame.
func (p *Pointer) AxisSteps(axis pointer.Axis, steps float64) {
	if p.focus == 0 || int(axis) >= len(p.scroll.axes) {
		return
	}
	a := &p.scroll.axes[axis]
	a.steps += steps
	a.hasSteps = true
}

// AxisSource records the source of the scrolling in the current
// frame.
func (p *Pointer) AxisSource(s pointer.Source) {
	p.scroll.source = s
}

// Frame delivers the scrolling accumulated since the last frame.
// Detents take precedence over pixels when both were reported.
func (p *Pointer) Frame() {
	defer p.resetScroll()
	if p.focus == 0 {
		return
	}
	for i, a := range p.scroll.axes {
		axis := pointer.Axis(i)
		switch {
		case a.hasSteps:
			p.Scroll(axis, a.steps, pointer.ScrollSteps, p.scroll.source)
		case a.hasValue:
			p.Scroll(axis, a.value, pointer.ScrollPixels, p.scroll.source)
		}
	}
}

func (p *Pointer) resetScroll() {
	p.scroll.source = pointer.SourceUnknown
	p.scroll.axes = [2]axisState{}
}

// Scroll delivers a scroll event immediately.
func (p *Pointer) Scroll(axis pointer.Axis, value float64, unit pointer.ScrollUnit, src pointer.Source) {
	if !p.focused("scroll") || value == 0 {
		return
	}
	p.loop.Queue().Push(p.focus, pointer.ScrollEvent{
		Axis:   axis,
		Value:  value,
		Unit:   unit,
		Source: src,
	})
}

// Relative delivers unaccelerated relative motion as a device event.
func (p *Pointer) Relative(dx, dy, udx, udy float64) {
	p.loop.Queue().Push(0, pointer.RelativeEvent{
		DX:        dx,
		DY:        dy,
		UnaccelDX: udx,
		UnaccelDY: udy,
	})
}

// Forget drops the focus of the destroyed window id without events.
func (p *Pointer) Forget(id event.WindowID) {
	if p.focus == id {
		p.focus = 0
		p.resetScroll()
	}
}

// Release is called when the pointer device goes away.
func (p *Pointer) Release() {
	if p.focus != 0 {
		p.leave()
	}
}
