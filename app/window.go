// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"runtime"

	"waywin.org/app/internal/wm"
	"waywin.org/io/event"
)

// Window is a native window. Its methods must be called from the
// goroutine that called Init, except RequestRedraw.
type Window struct {
	s       *Session
	win     *wm.Window
	res     *windowResources
	cleanup runtime.Cleanup
}

// windowResources are the native resources of a window. They are
// released by Close, or on the loop goroutine after the Window becomes
// unreachable.
type windowResources struct {
	win    *wm.Window
	native nativeWindow
	done   bool
}

func newWindow(s *Session, win *wm.Window, nw nativeWindow) *Window {
	res := &windowResources{win: win, native: nw}
	w := &Window{s: s, win: win, res: res}
	loop := s.loop
	w.cleanup = runtime.AddCleanup(w, func(res *windowResources) {
		loop.Post(res.release)
	}, res)
	return w
}

func (r *windowResources) release() {
	if r.done {
		return
	}
	r.done = true
	r.native.Destroy()
	r.win.Destroy()
}

// ID returns the identifier of the window in events.
func (w *Window) ID() event.WindowID {
	return w.win.ID()
}

// LogicalSize returns the committed size in logical units.
func (w *Window) LogicalSize() image.Point {
	return w.win.Config().Size
}

// PhysicalSize returns the committed size in pixels.
func (w *Window) PhysicalSize() image.Point {
	return w.win.Config().Physical()
}

// Scale returns the number of pixels per logical unit.
func (w *Window) Scale() float64 {
	return w.win.Config().Scale
}

// RequestRedraw schedules a system.PaintEvent. Requests are coalesced
// until the event is delivered. RequestRedraw is safe for concurrent
// use.
func (w *Window) RequestRedraw() {
	w.win.RequestRedraw()
}

func (w *Window) SetTitle(title string) {
	w.s.checkThread("SetTitle")
	w.res.native.SetTitle(title)
}

// SetFullscreen asks the platform to enter or leave fullscreen. The
// change is reported by a system.ResizeEvent.
func (w *Window) SetFullscreen(fullscreen bool) {
	w.s.checkThread("SetFullscreen")
	w.res.native.SetFullscreen(fullscreen)
}

// Fullscreen reports whether the window is fullscreen.
func (w *Window) Fullscreen() bool {
	return w.res.native.Fullscreen()
}

// LockPointer keeps the pointer in place while the window has focus.
// Movement is then reported by pointer.RelativeEvent only.
func (w *Window) LockPointer() error {
	w.s.checkThread("LockPointer")
	return w.res.native.LockPointer()
}

func (w *Window) UnlockPointer() {
	w.s.checkThread("UnlockPointer")
	w.res.native.UnlockPointer()
}

// ConfinePointer keeps the pointer inside the window while it has
// focus.
func (w *Window) ConfinePointer() error {
	w.s.checkThread("ConfinePointer")
	return w.res.native.ConfinePointer()
}

func (w *Window) UnconfinePointer() {
	w.s.checkThread("UnconfinePointer")
	w.res.native.UnconfinePointer()
}

// Present copies img to the window. The image should have the
// physical size of the window.
func (w *Window) Present(img *image.RGBA) error {
	w.s.checkThread("Present")
	return w.res.native.Present(img)
}

// Handle returns the native window handle.
func (w *Window) Handle() WindowHandle {
	return w.s.backend.WindowHandle(w.res.native)
}

// Close destroys the window. No events are delivered to it afterwards.
func (w *Window) Close() {
	w.s.checkThread("Close")
	w.cleanup.Stop()
	w.res.release()
}
