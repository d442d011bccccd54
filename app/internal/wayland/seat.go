// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package wayland

import (
	"golang.org/x/sys/unix"

	"waywin.org/app/internal/evdev"
	"waywin.org/app/internal/input"
	"waywin.org/app/internal/xkb"
	"waywin.org/internal/wl"
	"waywin.org/io/pointer"
)

// seat tracks the input devices of a wl_seat.
type seat struct {
	s    *Session
	name uint32
	seat *wl.Seat

	pointer  *wl.Pointer
	relative *wl.RelativePointer
	cursor   *wl.CursorShapeDevice
	keyboard *wl.Keyboard

	ptr *input.Pointer
	kbd *input.Keyboard
}

func newSeat(s *Session, name uint32, ws *wl.Seat) *seat {
	st := &seat{
		s:    s,
		name: name,
		seat: ws,
		ptr:  input.NewPointer(s.loop),
		kbd:  input.NewKeyboard(s.loop, evdev.Physical),
	}
	ws.OnCapabilities = st.capabilities
	ws.OnName = func(name string) {
		s.log.Debug("wayland: seat", "name", name)
	}
	return st
}

func (st *seat) capabilities(caps uint32) {
	hasPointer := caps&wl.SeatCapabilityPointer != 0
	hasKeyboard := caps&wl.SeatCapabilityKeyboard != 0
	switch {
	case hasPointer && st.pointer == nil:
		st.bindPointer()
	case !hasPointer && st.pointer != nil:
		st.releasePointer()
	}
	switch {
	case hasKeyboard && st.keyboard == nil:
		st.bindKeyboard()
	case !hasKeyboard && st.keyboard != nil:
		st.releaseKeyboard()
	}
}

func (st *seat) bindPointer() {
	s := st.s
	p := st.seat.GetPointer()
	st.pointer = p
	// Frames group pointer events from version 5.
	st.ptr.SetFramed(p.Version() >= 5)
	if s.relPointers != nil {
		st.relative = s.relPointers.GetRelativePointer(p)
		st.relative.OnRelativeMotion = func(utime uint64, dx, dy, udx, udy float64) {
			st.ptr.Relative(dx, dy, udx, udy)
		}
	}
	if s.cursorShape != nil {
		st.cursor = s.cursorShape.GetPointer(p)
	}
	p.OnEnter = func(serial uint32, sf *wl.Surface, x, y float64) {
		if st.cursor != nil {
			st.cursor.SetShape(serial, wl.CursorShapeDefault)
		}
		st.ptr.Enter(s.windowID(sf), x, y)
	}
	p.OnLeave = func(serial uint32, sf *wl.Surface) {
		st.ptr.Leave(s.windowID(sf))
	}
	p.OnMotion = func(time uint32, x, y float64) {
		st.ptr.Motion(x, y)
	}
	p.OnButton = func(serial, time, button, state uint32) {
		st.ptr.Button(evdev.Button(button), button, state == wl.PointerButtonStatePressed)
	}
	// Wayland axis values are positive when the content moves up or
	// left.
	p.OnAxis = func(time, axis uint32, value float64) {
		if a, ok := scrollAxis(axis); ok {
			st.ptr.Axis(a, -value)
		}
	}
	p.OnAxisDiscrete = func(axis uint32, discrete int32) {
		if a, ok := scrollAxis(axis); ok {
			st.ptr.AxisSteps(a, -float64(discrete))
		}
	}
	p.OnAxisValue120 = func(axis uint32, value120 int32) {
		if a, ok := scrollAxis(axis); ok {
			st.ptr.AxisSteps(a, -float64(value120)/120)
		}
	}
	p.OnAxisSource = func(src uint32) {
		st.ptr.AxisSource(scrollSource(src))
	}
	p.OnFrame = st.ptr.Frame
}

func scrollAxis(axis uint32) (pointer.Axis, bool) {
	switch axis {
	case wl.PointerAxisVerticalScroll:
		return pointer.Vertical, true
	case wl.PointerAxisHorizontalScroll:
		return pointer.Horizontal, true
	}
	return 0, false
}

func scrollSource(src uint32) pointer.Source {
	switch src {
	case wl.PointerAxisSourceWheel:
		return pointer.SourceWheel
	case wl.PointerAxisSourceFinger:
		return pointer.SourceFinger
	case wl.PointerAxisSourceContinuous:
		return pointer.SourceContinuous
	case wl.PointerAxisSourceWheelTilt:
		return pointer.SourceWheelTilt
	}
	return pointer.SourceUnknown
}

func (st *seat) bindKeyboard() {
	s := st.s
	k := st.seat.GetKeyboard()
	st.keyboard = k
	// Compositors announce the repeat parameters from version 4.
	st.kbd.SetRepeat(input.DefaultRepeatRate, input.DefaultRepeatDelay)
	k.OnKeymap = func(format uint32, fd int, size uint32) {
		defer unix.Close(fd)
		if format != wl.KeyboardKeymapFormatXKBV1 {
			s.log.Warn("wayland: unsupported keymap format", "format", format)
			st.kbd.SetKeymap(nil)
			return
		}
		km, err := xkb.New(fd, int(size))
		if err != nil {
			s.log.Warn("wayland: failed to load keymap", "error", err)
			st.kbd.SetKeymap(nil)
			return
		}
		st.kbd.SetKeymap(km)
	}
	k.OnEnter = func(serial uint32, sf *wl.Surface, keys []uint32) {
		st.kbd.Enter(s.windowID(sf))
	}
	k.OnLeave = func(serial uint32, sf *wl.Surface) {
		st.kbd.Leave(s.windowID(sf))
	}
	k.OnKey = func(serial, time, key, state uint32) {
		st.kbd.Key(key, state == wl.KeyboardKeyStatePressed)
	}
	k.OnModifiers = func(serial, depressed, latched, locked, group uint32) {
		st.kbd.Modifiers(depressed, latched, locked, group)
	}
	k.OnRepeatInfo = st.kbd.SetRepeat
}

func (st *seat) releasePointer() {
	st.ptr.Release()
	st.s.eachWindow((*Window).dropConstraints)
	if st.relative != nil {
		st.relative.Destroy()
		st.relative = nil
	}
	if st.cursor != nil {
		st.cursor.Destroy()
		st.cursor = nil
	}
	st.pointer.Release()
	st.pointer = nil
}

func (st *seat) releaseKeyboard() {
	st.kbd.Release()
	st.keyboard.Release()
	st.keyboard = nil
}

// forget drops the device focus of a destroyed window.
func (st *seat) forget(w *Window) {
	st.kbd.Forget(w.win.ID())
	st.ptr.Forget(w.win.ID())
}

func (st *seat) destroy() {
	if st.pointer != nil {
		st.releasePointer()
	}
	if st.keyboard != nil {
		st.releaseKeyboard()
	}
	st.seat.Release()
}
