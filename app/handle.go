// SPDX-License-Identifier: Unlicense OR MIT

package app

// DisplayHandle identifies the display connection of a session for
// renderers. It is one of the *DisplayHandle types of this package.
type DisplayHandle interface {
	implementsDisplayHandle()
}

// WindowHandle identifies the native surface of a window for
// renderers. It is one of the *WindowHandle types of this package.
type WindowHandle interface {
	implementsWindowHandle()
}

// WaylandDisplayHandle is the socket of the compositor connection.
// The connection is implemented in Go; there is no wl_display pointer.
type WaylandDisplayHandle struct {
	Fd int
}

// WaylandWindowHandle is the wl_surface object ID of the window on the
// connection of its session.
type WaylandWindowHandle struct {
	Surface uint32
}

// WindowsDisplayHandle is the display of Win32 windows. Win32 has no
// display connection.
type WindowsDisplayHandle struct{}

// Win32WindowHandle is a HWND and the module instance that owns its
// window class.
type Win32WindowHandle struct {
	HWND      uintptr
	HInstance uintptr
}

func (WaylandDisplayHandle) implementsDisplayHandle() {}
func (WindowsDisplayHandle) implementsDisplayHandle() {}
func (WaylandWindowHandle) implementsWindowHandle()   {}
func (Win32WindowHandle) implementsWindowHandle()     {}
