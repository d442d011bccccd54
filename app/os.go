// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"log/slog"

	"waywin.org/app/internal/wm"
)

// config is the configuration of a session or window.
type config struct {
	Size      image.Point
	Logger    *slog.Logger
	Display   string
	Decorated bool
	AppID     string
}

// backend is the native window system of a session.
type backend interface {
	NewWindow(w *wm.Window, title, appID string) (nativeWindow, error)
	DisplayHandle() DisplayHandle
	WindowHandle(w nativeWindow) WindowHandle
	Close()
}

// nativeWindow is the native side of a Window.
type nativeWindow interface {
	SetTitle(title string)
	SetFullscreen(fullscreen bool)
	Fullscreen() bool
	LockPointer() error
	UnlockPointer()
	ConfinePointer() error
	UnconfinePointer()
	Present(img *image.RGBA) error
	Destroy()
}

// newBackend connects to the window system of the platform. The loop
// uses the backend as its event source.
var newBackend func(loop *wm.Loop, cfg config) (backend, error)
