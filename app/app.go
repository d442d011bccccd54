// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"waywin.org/app/internal/wm"
	"waywin.org/io/event"
)

// Session is a connection to the display system.
type Session struct {
	cfg     config
	log     *slog.Logger
	loop    *wm.Loop
	backend backend
	// thread is the OS thread of Init, or zero if unknown.
	thread uint64
	closed bool
}

// active is set while a Session is open.
var active atomic.Bool

// Init connects to the display system. appID identifies the
// application to the platform; AppID overrides it per window.
//
// Init locks the calling goroutine to its OS thread until Close.
func Init(appID string, opts ...Option) (*Session, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("app: %w", ErrAlreadyInitialized)
	}
	cfg := config{
		Decorated: true,
		AppID:     appID,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	runtime.LockOSThread()
	s := &Session{
		cfg:    cfg,
		log:    cfg.Logger,
		loop:   wm.NewLoop(cfg.Logger),
		thread: threadID(),
	}
	b, err := newBackend(s.loop, cfg)
	if err != nil {
		runtime.UnlockOSThread()
		active.Store(false)
		return nil, err
	}
	s.backend = b
	return s, nil
}

func (s *Session) checkThread(op string) {
	if s.thread == 0 {
		return
	}
	if id := threadID(); id != s.thread {
		panic(fmt.Sprintf("app: %s called from thread %d, want %d", op, id, s.thread))
	}
}

// NewWindow creates and shows a window. The options override the
// options of Init for this window.
func (s *Session) NewWindow(title string, opts ...Option) (*Window, error) {
	s.checkThread("NewWindow")
	if s.closed {
		return nil, fmt.Errorf("app: %w: session closed", ErrWindowCreation)
	}
	cfg := s.cfg
	for _, o := range opts {
		o(&cfg)
	}
	win := s.loop.NewWindow(wm.Config{Size: cfg.Size})
	nw, err := s.backend.NewWindow(win, title, cfg.AppID)
	if err != nil {
		win.Destroy()
		return nil, err
	}
	return newWindow(s, win, nw), nil
}

// Run delivers the events of all windows to handler until Exit is
// called or the connection to the display system is lost. Run must not
// be called from handler.
func (s *Session) Run(handler func(e event.WindowEvent)) {
	s.checkThread("Run")
	if s.closed {
		return
	}
	s.loop.Run(handler)
}

// Exit makes Run return after the event being handled. It is safe for
// concurrent use.
func (s *Session) Exit() {
	s.loop.Exit()
}

// Err returns the error that ended the connection to the display
// system, or nil.
func (s *Session) Err() error {
	return s.loop.Err()
}

// DisplayHandle returns the native display handle.
func (s *Session) DisplayHandle() DisplayHandle {
	return s.backend.DisplayHandle()
}

// Close destroys the remaining windows and disconnects from the display
// system. Another Session may be opened afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.checkThread("Close")
	s.closed = true
	s.loop.Close()
	s.backend.Close()
	runtime.UnlockOSThread()
	active.Store(false)
}
