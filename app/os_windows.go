// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"waywin.org/app/internal/windows"
	"waywin.org/app/internal/wm"
)

type win32Backend struct {
	s *windows.Session
}

func init() {
	newBackend = newWin32Backend
}

func newWin32Backend(loop *wm.Loop, cfg config) (backend, error) {
	s, err := windows.Connect(loop, windows.Config{
		AppID:     cfg.AppID,
		Decorated: cfg.Decorated,
	})
	if err != nil {
		return nil, err
	}
	return &win32Backend{s: s}, nil
}

func (b *win32Backend) NewWindow(w *wm.Window, title, appID string) (nativeWindow, error) {
	nw, err := b.s.NewWindow(w, title, appID)
	if err != nil {
		return nil, err
	}
	return nw, nil
}

func (b *win32Backend) DisplayHandle() DisplayHandle {
	return WindowsDisplayHandle{}
}

func (b *win32Backend) WindowHandle(w nativeWindow) WindowHandle {
	return Win32WindowHandle{
		HWND:      w.(*windows.Window).HWND(),
		HInstance: b.s.HInstance(),
	}
}

func (b *win32Backend) Close() {
	b.s.Close()
}
