// SPDX-License-Identifier: Unlicense OR MIT

//go:build windows

package windows

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"waywin.org/app/internal/input"
	"waywin.org/app/internal/wm"
)

// Config describes a session.
type Config struct {
	// AppID is the default window class name.
	AppID string
	// Decorated selects windows with a caption and borders.
	Decorated bool
}

// Session is the message queue of the thread that created it and the
// window classes registered for its windows.
type Session struct {
	loop     *wm.Loop
	log      *slog.Logger
	cfg      Config
	hInst    syscall.Handle
	cursor   syscall.Handle
	threadID uint32

	classes map[string]uint16

	kbd *input.Keyboard
	ptr *input.Pointer

	// woken is set while a wakeup message is in flight, and after
	// Close.
	woken  atomic.Bool
	closed bool
}

// _WM_WAKEUP is the thread message of Wakeup.
const _WM_WAKEUP = _WM_USER + 1

const defaultClass = "WaywinWindow"

// winMap maps HWNDs to their windows for windowProc.
var winMap sync.Map // map[syscall.Handle]*Window

var (
	dpiAwareOnce sync.Once
	wndProc      = sync.OnceValue(func() uintptr {
		return syscall.NewCallback(windowProc)
	})
)

// Connect prepares the calling thread for windows. The session
// becomes the event source of loop and must only be used from the
// thread that called Connect.
func Connect(loop *wm.Loop, cfg Config) (*Session, error) {
	dpiAwareOnce.Do(setProcessDPIAware)
	hInst, err := getModuleHandle()
	if err != nil {
		return nil, fmt.Errorf("windows: %w: %v", wm.ErrConnection, err)
	}
	curs, err := loadCursor(_IDC_ARROW)
	if err != nil {
		return nil, fmt.Errorf("windows: %w: %v", wm.ErrConnection, err)
	}
	s := &Session{
		loop:     loop,
		log:      loop.Log(),
		cfg:      cfg,
		hInst:    hInst,
		cursor:   curs,
		threadID: syscall.GetCurrentThreadId(),
		classes:  make(map[string]uint16),
	}
	// Relative motion arrives as WM_INPUT for the focused window.
	mouse := RawInputDevice{UsagePage: 0x01, Usage: 0x02}
	if err := registerRawInputDevices(mouse); err != nil {
		s.log.Warn("windows: no raw mouse input", "error", err)
	}
	s.kbd = input.NewKeyboard(loop, physical)
	s.kbd.SetKeymap(new(keymap))
	s.ptr = input.NewPointer(loop)
	loop.SetSource(s)
	return s, nil
}

// class returns the window class named name, registering it on first
// use.
func (s *Session) class(name string) (uint16, error) {
	if name == "" {
		name = defaultClass
	}
	if c, ok := s.classes[name]; ok {
		return c, nil
	}
	wcls := WndClassEx{
		CbSize:        uint32(unsafe.Sizeof(WndClassEx{})),
		Style:         _CS_HREDRAW | _CS_VREDRAW | _CS_OWNDC,
		LpfnWndProc:   wndProc(),
		HInstance:     s.hInst,
		HCursor:       s.cursor,
		LpszClassName: syscall.StringToUTF16Ptr(name),
	}
	c, err := registerClassEx(&wcls)
	if err != nil {
		return 0, err
	}
	s.classes[name] = c
	return c, nil
}

// HInstance returns the module instance owning the window classes.
func (s *Session) HInstance() uintptr {
	return uintptr(s.hInst)
}

// Dispatch waits at most timeout for messages and dispatches them. A
// negative timeout waits indefinitely.
func (s *Session) Dispatch(timeout time.Duration) error {
	if s.pump() {
		return nil
	}
	if s.loop.Queue().Len() > 0 {
		return nil
	}
	ms := uint32(_INFINITE)
	if timeout >= 0 {
		ms = uint32(math.Ceil(float64(timeout) / float64(time.Millisecond)))
	}
	if ms == 0 {
		return nil
	}
	if _, err := msgWaitForMultipleObjectsEx(0, 0, ms, _QS_ALLINPUT, _MWMO_INPUTAVAILABLE); err != nil {
		return fmt.Errorf("windows: %v", err)
	}
	s.pump()
	return nil
}

// pump dispatches the queued messages and reports whether there were
// any.
func (s *Session) pump() bool {
	s.woken.Store(false)
	var m Msg
	got := false
	for peekMessage(&m, 0, 0, 0, _PM_REMOVE) {
		got = true
		if m.Hwnd == 0 && m.Message == _WM_WAKEUP {
			continue
		}
		dispatchMessage(&m)
	}
	return got
}

// Wakeup interrupts a waiting Dispatch. It is safe to call from any
// goroutine.
func (s *Session) Wakeup() {
	if !s.woken.CompareAndSwap(false, true) {
		return
	}
	if err := postThreadMessage(s.threadID, _WM_WAKEUP, 0, 0); err != nil {
		s.woken.Store(false)
		s.log.Warn("windows: wakeup failed", "error", err)
	}
}

// Stop is called when the loop stops running.
func (s *Session) Stop() {
	clipCursor(nil)
}

// Close destroys the remaining windows and unregisters the window
// classes.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	// Block Wakeup, the thread ID may be reused.
	s.woken.Store(true)
	winMap.Range(func(k, v any) bool {
		if w := v.(*Window); w.s == s {
			w.Destroy()
		}
		return true
	})
	s.kbd.Release()
	s.ptr.Release()
	for name, c := range s.classes {
		unregisterClass(c, s.hInst)
		delete(s.classes, name)
	}
}
