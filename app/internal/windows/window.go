// SPDX-License-Identifier: Unlicense OR MIT

//go:build windows

package windows

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"waywin.org/app/internal/wm"
	"waywin.org/io/pointer"
	"waywin.org/io/system"
)

// Window is a top level HWND.
type Window struct {
	s    *Session
	win  *wm.Window
	hwnd syscall.Handle
	hdc  syscall.Handle

	// style is the window style outside fullscreen.
	style      uint32
	fullscreen bool
	placement  *WindowPlacement

	// tracking is set while a WM_MOUSELEAVE is requested.
	tracking bool
	locked   bool
	confined bool

	bmi       BitmapInfoHeader
	bits      []byte
	destroyed bool
}

// NewWindow creates a visible window for the platform independent
// state win. The initial size is the logical size of win scaled to the
// DPI of the monitor.
func (s *Session) NewWindow(win *wm.Window, title, appID string) (*Window, error) {
	if appID == "" {
		appID = s.cfg.AppID
	}
	cls, err := s.class(appID)
	if err != nil {
		return nil, fmt.Errorf("windows: %w: %v", wm.ErrWindowCreation, err)
	}
	style := uint32(_WS_OVERLAPPEDWINDOW)
	if !s.cfg.Decorated {
		style = _WS_POPUP | _WS_THICKFRAME | _WS_SYSMENU | _WS_MINIMIZEBOX | _WS_MAXIMIZEBOX
	}
	style |= _WS_CLIPSIBLINGS | _WS_CLIPCHILDREN
	hwnd, err := createWindowEx(
		_WS_EX_APPWINDOW|_WS_EX_WINDOWEDGE,
		cls,
		title,
		style,
		_CW_USEDEFAULT, _CW_USEDEFAULT,
		_CW_USEDEFAULT, _CW_USEDEFAULT,
		0,
		0,
		s.hInst,
		0)
	if err != nil {
		return nil, fmt.Errorf("windows: %w: %v", wm.ErrWindowCreation, err)
	}
	w := &Window{
		s:     s,
		win:   win,
		hwnd:  hwnd,
		style: style,
	}
	w.hdc, err = getDC(hwnd)
	if err != nil {
		destroyWindow(hwnd)
		return nil, fmt.Errorf("windows: %w: %v", wm.ErrWindowCreation, err)
	}
	winMap.Store(hwnd, w)
	dpi := getDpiForWindow(hwnd, w.hdc)
	win.SetScale(float64(dpi) / _USER_DEFAULT_SCREEN_DPI)
	w.resize(win.Config().Physical())
	showWindow(hwnd, _SW_SHOWDEFAULT)
	setForegroundWindow(hwnd)
	setFocus(hwnd)
	// WM_SIZE during ShowWindow normally configured the window already.
	w.configure()
	return w, nil
}

// resize sets the client area to size physical pixels.
func (w *Window) resize(size image.Point) {
	r := Rect{Right: int32(size.X), Bottom: int32(size.Y)}
	adjustWindowRectEx(&r, getWindowStyle(w.hwnd), 0, _WS_EX_APPWINDOW|_WS_EX_WINDOWEDGE)
	setWindowPos(w.hwnd, 0, 0, r.Right-r.Left, r.Bottom-r.Top,
		_SWP_NOMOVE|_SWP_NOZORDER|_SWP_NOACTIVATE)
}

// configure proposes and acknowledges the current client size.
func (w *Window) configure() {
	r := getClientRect(w.hwnd)
	scale := w.win.Config().Scale
	size := image.Point{
		X: int(math.Round(float64(r.Right-r.Left) / scale)),
		Y: int(math.Round(float64(r.Bottom-r.Top) / scale)),
	}
	w.win.Propose(size)
	w.win.Ack()
}

// logical converts client coordinates to logical units.
func (w *Window) logical(lParam uintptr) (x, y float64) {
	scale := w.win.Config().Scale
	px := int16(lParam & 0xffff)
	py := int16((lParam >> 16) & 0xffff)
	return float64(px) / scale, float64(py) / scale
}

func windowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	v, exists := winMap.Load(hwnd)
	if !exists {
		return defWindowProc(hwnd, msg, wParam, lParam)
	}
	w := v.(*Window)
	s := w.s
	id := w.win.ID()
	switch msg {
	case _WM_SIZE:
		if wParam == _SIZE_MINIMIZED {
			w.win.Propose(image.Point{})
			return 0
		}
		w.configure()
		if w.confined {
			w.clip()
		}
		return 0
	case _WM_DPICHANGED:
		dpi := wParam & 0xffff
		w.win.SetScale(float64(dpi) / _USER_DEFAULT_SCREEN_DPI)
		r := (*Rect)(unsafe.Pointer(lParam))
		setWindowPos(hwnd, r.Left, r.Top, r.Right-r.Left, r.Bottom-r.Top,
			_SWP_NOZORDER|_SWP_NOACTIVATE)
		return 0
	case _WM_PAINT:
		validateRect(hwnd)
		w.win.Invalidate()
		return 0
	case _WM_CLOSE:
		s.loop.Queue().Push(id, system.CloseEvent{})
		return 0
	case _WM_SETFOCUS:
		s.kbd.Enter(id)
		if w.locked || w.confined {
			w.clip()
		}
		return 0
	case _WM_KILLFOCUS:
		s.kbd.Leave(id)
		clipCursor(nil)
		return 0
	case _WM_KEYDOWN, _WM_SYSKEYDOWN:
		s.kbd.Key(nativeCode(lParam), true)
		if msg == _WM_KEYDOWN {
			return 0
		}
	case _WM_KEYUP, _WM_SYSKEYUP:
		s.kbd.Key(nativeCode(lParam), false)
		if msg == _WM_KEYUP {
			return 0
		}
	case _WM_MOUSEMOVE:
		x, y := w.logical(lParam)
		if s.ptr.Focused() != id {
			if !w.tracking {
				trackMouseLeave(hwnd)
				w.tracking = true
			}
			s.ptr.Enter(id, x, y)
			return 0
		}
		s.ptr.Motion(x, y)
		return 0
	case _WM_MOUSELEAVE:
		w.tracking = false
		s.ptr.Leave(id)
		return 0
	case _WM_LBUTTONDOWN, _WM_LBUTTONUP:
		w.button(pointer.ButtonLeft, _VK_LBUTTON, msg == _WM_LBUTTONDOWN)
		return 0
	case _WM_RBUTTONDOWN, _WM_RBUTTONUP:
		w.button(pointer.ButtonRight, _VK_RBUTTON, msg == _WM_RBUTTONDOWN)
		return 0
	case _WM_MBUTTONDOWN, _WM_MBUTTONUP:
		w.button(pointer.ButtonMiddle, _VK_MBUTTON, msg == _WM_MBUTTONDOWN)
		return 0
	case _WM_XBUTTONDOWN, _WM_XBUTTONUP:
		b, code := pointer.ButtonBack, uint32(_VK_XBUTTON1)
		if (wParam>>16)&0xffff == _XBUTTON2 {
			b, code = pointer.ButtonForward, _VK_XBUTTON2
		}
		w.button(b, code, msg == _WM_XBUTTONDOWN)
		return 1
	case _WM_MOUSEWHEEL:
		// Positive deltas rotate the wheel away from the user.
		delta := float64(int16(wParam >> 16))
		s.ptr.Scroll(pointer.Vertical, delta/_WHEEL_DELTA, pointer.ScrollSteps, pointer.SourceWheel)
		return 0
	case _WM_MOUSEHWHEEL:
		// Positive deltas tilt the wheel to the right.
		delta := float64(int16(wParam >> 16))
		s.ptr.Scroll(pointer.Horizontal, -delta/_WHEEL_DELTA, pointer.ScrollSteps, pointer.SourceWheelTilt)
		return 0
	case _WM_INPUT:
		if raw, ok := getRawMouse(lParam); ok && raw.Mouse.Flags&_MOUSE_MOVE_ABSOLUTE == 0 {
			dx, dy := float64(raw.Mouse.LastX), float64(raw.Mouse.LastY)
			if dx != 0 || dy != 0 {
				// Raw input is never accelerated.
				s.ptr.Relative(dx, dy, dx, dy)
			}
		}
	case _WM_SETCURSOR:
		if lParam&0xffff == _HTCLIENT {
			setCursor(s.cursor)
			return 1
		}
	}
	return defWindowProc(hwnd, msg, wParam, lParam)
}

// button reports a button and captures the mouse while a button is
// held so the release is reported.
func (w *Window) button(b pointer.Button, code uint32, down bool) {
	if down {
		setCapture(w.hwnd)
	} else {
		releaseCapture()
	}
	w.s.ptr.Button(b, code, down)
}

// HWND returns the window handle.
func (w *Window) HWND() uintptr {
	return uintptr(w.hwnd)
}

func (w *Window) SetTitle(title string) {
	setWindowText(w.hwnd, title)
}

// SetFullscreen swaps the window style and covers the monitor, or
// restores the previous placement.
func (w *Window) SetFullscreen(fullscreen bool) {
	if fullscreen == w.fullscreen {
		return
	}
	w.fullscreen = fullscreen
	if fullscreen {
		w.placement = getWindowPlacement(w.hwnd)
		style := getWindowStyle(w.hwnd)
		setWindowStyle(w.hwnd, style&^_WS_OVERLAPPEDWINDOW)
		mi := getMonitorInfo(w.hwnd)
		m := mi.Monitor
		setWindowPos(w.hwnd, m.Left, m.Top, m.Right-m.Left, m.Bottom-m.Top,
			_SWP_NOOWNERZORDER|_SWP_FRAMECHANGED)
		return
	}
	setWindowStyle(w.hwnd, w.style)
	if w.placement != nil {
		setWindowPlacement(w.hwnd, w.placement)
	}
	setWindowPos(w.hwnd, 0, 0, 0, 0,
		_SWP_NOMOVE|_SWP_NOSIZE|_SWP_NOZORDER|_SWP_NOOWNERZORDER|_SWP_FRAMECHANGED)
}

func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// LockPointer pins the cursor at its current position. Motion is then
// only reported as relative events.
func (w *Window) LockPointer() error {
	w.confined = false
	w.locked = true
	w.clip()
	return nil
}

func (w *Window) UnlockPointer() {
	if w.locked {
		w.locked = false
		clipCursor(nil)
	}
}

// ConfinePointer confines the cursor to the client area.
func (w *Window) ConfinePointer() error {
	w.locked = false
	w.confined = true
	w.clip()
	return nil
}

func (w *Window) UnconfinePointer() {
	if w.confined {
		w.confined = false
		clipCursor(nil)
	}
}

// clip applies the pointer constraint. The system drops the clip
// rectangle when the window loses focus.
func (w *Window) clip() {
	switch {
	case w.locked:
		p := getCursorPos()
		clipCursor(&Rect{Left: p.X, Top: p.Y, Right: p.X + 1, Bottom: p.Y + 1})
	case w.confined:
		r := getClientRect(w.hwnd)
		tl := Point{X: r.Left, Y: r.Top}
		br := Point{X: r.Right, Y: r.Bottom}
		clientToScreen(w.hwnd, &tl)
		clientToScreen(w.hwnd, &br)
		clipCursor(&Rect{Left: tl.X, Top: tl.Y, Right: br.X, Bottom: br.Y})
	}
}

// Present copies img to the client area.
func (w *Window) Present(img *image.RGBA) error {
	size := img.Rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("windows: empty image")
	}
	n := size.X * size.Y * 4
	if cap(w.bits) < n {
		w.bits = make([]byte, n)
	}
	w.bits = w.bits[:n]
	for y := 0; y < size.Y; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+size.X*4]
		dst := w.bits[y*size.X*4:]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	w.bmi = BitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(BitmapInfoHeader{})),
		Width:       int32(size.X),
		Height:      -int32(size.Y), // Top down.
		Planes:      1,
		BitCount:    32,
		Compression: _BI_RGB,
	}
	setDIBitsToDevice(w.hdc, int32(size.X), int32(size.Y), w.bits, &w.bmi)
	return nil
}

// Destroy destroys the window.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	s := w.s
	id := w.win.ID()
	s.kbd.Forget(id)
	s.ptr.Forget(id)
	if w.locked || w.confined {
		clipCursor(nil)
	}
	winMap.Delete(w.hwnd)
	releaseDC(w.hwnd, w.hdc)
	destroyWindow(w.hwnd)
}
