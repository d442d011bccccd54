// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

/*
Package wayland implements the window system on Wayland compositors.

A Session binds the globals of one compositor connection, translates
their events into the state machines of the wm and input packages and
serves as the native event source of a wm.Loop.
*/
package wayland

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
	"weak"

	"golang.org/x/sys/unix"

	"waywin.org/app/internal/wm"
	"waywin.org/internal/wl"
	"waywin.org/io/event"
)

// Config describes a connection.
type Config struct {
	// Display overrides the display name from the environment.
	Display string
	// AppID is the default application ID of windows.
	AppID string
	// Decorated requests server side decorations.
	Decorated bool
}

// Session is a connection to a compositor.
type Session struct {
	loop *wm.Loop
	log  *slog.Logger
	conn *wl.Conn
	cfg  Config

	registry    *wl.Registry
	compositor  *wl.Compositor
	shm         *wl.Shm
	decor       *wl.DecorationManager
	viewporter  *wl.Viewporter
	fracScale   *wl.FractionalScaleManager
	constraints *wl.PointerConstraints
	relPointers *wl.RelativePointerManager
	cursorShape *wl.CursorShapeManager

	// wmBase is shared by the session and its windows and destroyed
	// with the last reference.
	wmBase *wl.WmBase
	wmRefs int

	seat    *seat
	outputs map[uint32]*output

	surfaces map[*wl.Surface]surfaceRef

	// notify is the pipe waking up Dispatch.
	notify struct {
		read int
		// mu guards write, which is -1 after Close.
		mu    sync.Mutex
		write int
	}
	closed bool
}

type surfaceRef struct {
	id     event.WindowID
	window weak.Pointer[Window]
}

type output struct {
	name  uint32
	out   *wl.Output
	scale int32
}

// Binding versions.
const (
	compositorVersion  = 6
	wmBaseVersion      = 5
	seatVersion        = 9
	outputVersion      = 4
	decorationVersion  = 1
	constraintsVersion = 1
)

// Connect connects to the compositor and binds its globals. The
// session becomes the event source of loop.
func Connect(loop *wm.Loop, cfg Config) (*Session, error) {
	conn, err := wl.Connect(cfg.Display, loop.Log())
	if err != nil {
		return nil, fmt.Errorf("wayland: %w: %v", wm.ErrConnection, err)
	}
	s := &Session{
		loop:     loop,
		log:      loop.Log(),
		conn:     conn,
		cfg:      cfg,
		outputs:  make(map[uint32]*output),
		surfaces: make(map[*wl.Surface]surfaceRef),
	}
	s.notify.read, s.notify.write = -1, -1
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	loop.SetSource(s)
	return s, nil
}

func (s *Session) init() error {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fmt.Errorf("wayland: failed to create notify pipe: %v", err)
	}
	s.notify.read, s.notify.write = p[0], p[1]
	s.registry = s.conn.Display().GetRegistry()
	s.registry.OnGlobal = s.global
	s.registry.OnGlobalRemove = s.globalRemove
	// The first roundtrip announces the globals, the second their
	// initial state such as seat capabilities and output scales.
	for range 2 {
		if err := s.conn.Roundtrip(); err != nil {
			return fmt.Errorf("wayland: %w: %v", wm.ErrConnection, err)
		}
		if err := s.checkRequired(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) checkRequired() error {
	switch {
	case s.compositor == nil:
		return fmt.Errorf("wayland: %w", &wm.CapabilityError{Name: "wl_compositor"})
	case s.wmBase == nil:
		return fmt.Errorf("wayland: %w", &wm.CapabilityError{Name: "xdg_wm_base"})
	case s.seat == nil:
		return fmt.Errorf("wayland: %w", &wm.CapabilityError{Name: "wl_seat"})
	}
	return nil
}

func (s *Session) global(name uint32, iface string, version uint32) {
	s.log.Debug("wayland: global", "name", name, "interface", iface, "version", version)
	switch iface {
	case "wl_compositor":
		s.compositor = new(wl.Compositor)
		s.registry.Bind(name, s.compositor, min(version, compositorVersion))
	case "xdg_wm_base":
		s.wmBase = new(wl.WmBase)
		s.registry.Bind(name, s.wmBase, min(version, wmBaseVersion))
		s.wmRefs = 1
		base := s.wmBase
		base.OnPing = func(serial uint32) {
			base.Pong(serial)
		}
	case "wl_seat":
		if s.seat != nil {
			// Only the first seat is used.
			return
		}
		ws := new(wl.Seat)
		s.registry.Bind(name, ws, min(version, seatVersion))
		s.seat = newSeat(s, name, ws)
	case "wl_output":
		o := &output{name: name, out: new(wl.Output), scale: 1}
		s.registry.Bind(name, o.out, min(version, outputVersion))
		o.out.OnScale = func(factor int32) {
			o.scale = factor
		}
		o.out.OnDone = s.updateScales
		s.outputs[name] = o
	case "wl_shm":
		s.shm = new(wl.Shm)
		s.registry.Bind(name, s.shm, 1)
	case "zxdg_decoration_manager_v1":
		s.decor = new(wl.DecorationManager)
		s.registry.Bind(name, s.decor, decorationVersion)
	case "wp_viewporter":
		s.viewporter = new(wl.Viewporter)
		s.registry.Bind(name, s.viewporter, 1)
	case "wp_fractional_scale_manager_v1":
		s.fracScale = new(wl.FractionalScaleManager)
		s.registry.Bind(name, s.fracScale, 1)
	case "zwp_pointer_constraints_v1":
		s.constraints = new(wl.PointerConstraints)
		s.registry.Bind(name, s.constraints, constraintsVersion)
	case "zwp_relative_pointer_manager_v1":
		s.relPointers = new(wl.RelativePointerManager)
		s.registry.Bind(name, s.relPointers, 1)
	case "wp_cursor_shape_manager_v1":
		s.cursorShape = new(wl.CursorShapeManager)
		s.registry.Bind(name, s.cursorShape, 1)
	}
}

func (s *Session) globalRemove(name uint32) {
	if o, ok := s.outputs[name]; ok {
		delete(s.outputs, name)
		s.eachWindow(func(w *Window) {
			w.leaveOutput(o.out)
		})
		o.out.Release()
		return
	}
	if s.seat != nil && s.seat.name == name {
		s.seat.destroy()
		s.seat = nil
	}
}

// updateScales recomputes the scales of all windows after an output
// changed.
func (s *Session) updateScales() {
	s.eachWindow((*Window).updateScale)
}

func (s *Session) eachWindow(f func(w *Window)) {
	for _, ref := range s.surfaces {
		if w := ref.window.Value(); w != nil {
			f(w)
		}
	}
}

// outputScale returns the integer scale of the output.
func (s *Session) outputScale(out *wl.Output) int32 {
	for _, o := range s.outputs {
		if o.out == out {
			return o.scale
		}
	}
	return 1
}

// windowID returns the id of the window owning surface sf, or zero.
func (s *Session) windowID(sf *wl.Surface) event.WindowID {
	if sf == nil {
		return 0
	}
	return s.surfaces[sf].id
}

func (s *Session) acquireWmBase() *wl.WmBase {
	s.wmRefs++
	return s.wmBase
}

func (s *Session) releaseWmBase() {
	if s.wmRefs == 0 {
		return
	}
	s.wmRefs--
	if s.wmRefs == 0 {
		s.wmBase.Destroy()
		s.wmBase = nil
	}
}

// Fd returns the file descriptor of the compositor connection.
func (s *Session) Fd() int {
	return s.conn.Fd()
}

// Dispatch waits at most timeout for compositor events or a wakeup and
// dispatches them. A negative timeout waits indefinitely.
func (s *Session) Dispatch(timeout time.Duration) error {
	if err := s.conn.DispatchPending(); err != nil {
		return err
	}
	if s.loop.Queue().Len() > 0 {
		timeout = 0
	}
	if err := s.conn.Flush(); err != nil {
		return err
	}
	pollfds := []unix.PollFd{
		{Fd: int32(s.conn.Fd()), Events: unix.POLLIN},
		{Fd: int32(s.notify.read), Events: unix.POLLIN},
	}
	ms := -1
	if timeout >= 0 {
		ms = int(math.Ceil(float64(timeout) / float64(time.Millisecond)))
	}
	if _, err := unix.Poll(pollfds, ms); err != nil && !errors.Is(err, unix.EINTR) {
		return fmt.Errorf("wayland: poll failed: %v", err)
	}
	if pollfds[1].Revents&unix.POLLIN != 0 {
		s.drainNotify()
	}
	if pollfds[0].Revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0 {
		if err := s.conn.ReadEvents(); err != nil {
			return err
		}
	}
	if err := s.conn.DispatchPending(); err != nil {
		return err
	}
	return s.conn.Flush()
}

func (s *Session) drainNotify() {
	var buf [100]byte
	for {
		n, err := unix.Read(s.notify.read, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Wakeup interrupts a blocking Dispatch. It is safe to call from any
// goroutine.
func (s *Session) Wakeup() {
	s.notify.mu.Lock()
	defer s.notify.mu.Unlock()
	if s.notify.write == -1 {
		return
	}
	// EAGAIN means a wakeup is already pending.
	unix.Write(s.notify.write, []byte{0})
}

// Stop is called when the loop stops running.
func (s *Session) Stop() {
	if err := s.conn.Flush(); err != nil {
		s.log.Debug("wayland: flush failed", "error", err)
	}
}

// Close destroys the remaining windows and globals and disconnects.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.eachWindow((*Window).Destroy)
	if s.seat != nil {
		s.seat.destroy()
		s.seat = nil
	}
	for name, o := range s.outputs {
		o.out.Release()
		delete(s.outputs, name)
	}
	if s.shm != nil {
		s.shm.Release()
	}
	if s.decor != nil {
		s.decor.Destroy()
	}
	if s.viewporter != nil {
		s.viewporter.Destroy()
	}
	if s.fracScale != nil {
		s.fracScale.Destroy()
	}
	if s.constraints != nil {
		s.constraints.Destroy()
	}
	if s.relPointers != nil {
		s.relPointers.Destroy()
	}
	if s.cursorShape != nil {
		s.cursorShape.Destroy()
	}
	s.releaseWmBase()
	if s.conn.Err() == nil {
		s.conn.Flush()
	}
	s.conn.Close()
	s.notify.mu.Lock()
	if s.notify.write != -1 {
		unix.Close(s.notify.write)
		s.notify.write = -1
	}
	s.notify.mu.Unlock()
	if s.notify.read != -1 {
		unix.Close(s.notify.read)
		s.notify.read = -1
	}
}
