// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package app

import (
	"waywin.org/app/internal/wayland"
	"waywin.org/app/internal/wm"
)

type waylandBackend struct {
	s *wayland.Session
}

func init() {
	newBackend = newWaylandBackend
}

func newWaylandBackend(loop *wm.Loop, cfg config) (backend, error) {
	s, err := wayland.Connect(loop, wayland.Config{
		Display:   cfg.Display,
		AppID:     cfg.AppID,
		Decorated: cfg.Decorated,
	})
	if err != nil {
		return nil, err
	}
	return &waylandBackend{s: s}, nil
}

func (b *waylandBackend) NewWindow(w *wm.Window, title, appID string) (nativeWindow, error) {
	nw, err := b.s.NewWindow(w, title, appID)
	if err != nil {
		return nil, err
	}
	return nw, nil
}

func (b *waylandBackend) DisplayHandle() DisplayHandle {
	return WaylandDisplayHandle{Fd: b.s.Fd()}
}

func (b *waylandBackend) WindowHandle(w nativeWindow) WindowHandle {
	return WaylandWindowHandle{Surface: w.(*wayland.Window).SurfaceID()}
}

func (b *waylandBackend) Close() {
	b.s.Close()
}
