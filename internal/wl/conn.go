// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

/*
Package wl implements the client side of the Wayland wire protocol and
bindings for the protocol objects used by the window system.

A Conn is driven by its user: Flush sends buffered requests,
ReadEvents reads what is available on the socket without blocking and
DispatchPending calls the event handlers of the addressed objects. The
socket file descriptor is exposed so the user can wait for it together
with other sources.

Event handlers are the On* fields of each object. A nil handler drops
the event.
*/
package wl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// ObjectID identifies a protocol object on a connection.
type ObjectID uint32

// Object is a protocol object.
type Object interface {
	ID() ObjectID
	// Interface returns the protocol interface name.
	Interface() string
	proxy() *Proxy
	dispatch(opcode uint16, d *decoder)
	// eventFds returns the number of file descriptors carried by
	// the event.
	eventFds(opcode uint16) int
}

// Proxy is the client side state common to all objects.
type Proxy struct {
	conn    *Conn
	id      ObjectID
	version uint32
}

// ID returns the object id, or zero for a destroyed object.
func (p *Proxy) ID() ObjectID {
	return p.id
}

// Version returns the negotiated interface version.
func (p *Proxy) Version() uint32 {
	return p.version
}

// Conn returns the connection of the object.
func (p *Proxy) Conn() *Conn {
	return p.conn
}

func (p *Proxy) proxy() *Proxy {
	return p
}

func (p *Proxy) dispatch(opcode uint16, d *decoder) {
	p.conn.log.Warn("wl: event for interface without events", "object", p.id, "opcode", opcode)
}

func (p *Proxy) eventFds(opcode uint16) int {
	return 0
}

// send queues a request from the object.
func (p *Proxy) send(opcode uint16, args ...any) {
	if p.id == 0 {
		p.conn.log.Warn("wl: request on destroyed object", "opcode", opcode)
		return
	}
	p.conn.send(p.id, opcode, args...)
}

// ProtocolError is a fatal error reported by the compositor.
type ProtocolError struct {
	Object  ObjectID
	Code    uint32
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wl: protocol error %d on object %d: %s", e.Code, e.Object, e.Message)
}

const (
	maxClientID = 0xfeffffff
	// maxFdsOut is the number of file descriptors libwayland accepts
	// in one message.
	maxFdsOut = 28
	// flushThreshold bounds the requests buffered before an implicit
	// flush.
	flushThreshold = 4096
)

// Conn is a client connection to a compositor. It is not safe for
// concurrent use.
type Conn struct {
	fd  int
	log *slog.Logger
	err error

	objects map[ObjectID]Object
	// zombies are objects destroyed by the client whose id the
	// compositor has not released yet.
	zombies map[ObjectID]Object
	free    []ObjectID
	lastID  ObjectID

	out    []byte
	outFds []int
	in     []byte
	inFds  []int

	display *Display
}

// Connect connects to the compositor. If name is empty the display is
// taken from the environment: WAYLAND_SOCKET, then WAYLAND_DISPLAY,
// then "wayland-0". Relative names are resolved in XDG_RUNTIME_DIR.
func Connect(name string, log *slog.Logger) (*Conn, error) {
	if name == "" {
		if s := os.Getenv("WAYLAND_SOCKET"); s != "" {
			fd, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("wl: invalid WAYLAND_SOCKET %q", s)
			}
			os.Unsetenv("WAYLAND_SOCKET")
			unix.CloseOnExec(fd)
			if err := unix.SetNonblock(fd, true); err != nil {
				unix.Close(fd)
				return nil, fmt.Errorf("wl: WAYLAND_SOCKET: %w", err)
			}
			return NewConn(fd, log), nil
		}
		name = os.Getenv("WAYLAND_DISPLAY")
	}
	if name == "" {
		name = "wayland-0"
	}
	path := name
	if !filepath.IsAbs(path) {
		dir := os.Getenv("XDG_RUNTIME_DIR")
		if dir == "" {
			return nil, errors.New("wl: XDG_RUNTIME_DIR not set in the environment")
		}
		path = filepath.Join(dir, name)
	}
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("wl: socket: %w", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wl: connect %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wl: %w", err)
	}
	return NewConn(fd, log), nil
}

// NewConn returns a connection over the connected, non-blocking
// socket fd. The connection owns fd.
func NewConn(fd int, log *slog.Logger) *Conn {
	if log == nil {
		log = slog.Default()
	}
	c := &Conn{
		fd:      fd,
		log:     log,
		objects: make(map[ObjectID]Object),
		zombies: make(map[ObjectID]Object),
	}
	c.display = &Display{}
	c.display.Proxy = Proxy{conn: c, id: 1, version: 1}
	c.objects[1] = c.display
	c.lastID = 1
	return c
}

// Fd returns the socket file descriptor.
func (c *Conn) Fd() int {
	return c.fd
}

// Display returns the wl_display singleton.
func (c *Conn) Display() *Display {
	return c.display
}

// Err returns the fatal error of the connection, if any.
func (c *Conn) Err() error {
	return c.err
}

func (c *Conn) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Close closes the connection and every file descriptor it holds.
func (c *Conn) Close() error {
	if c.fd == -1 {
		return nil
	}
	for _, fd := range c.outFds {
		unix.Close(fd)
	}
	for _, fd := range c.inFds {
		unix.Close(fd)
	}
	c.outFds, c.inFds = nil, nil
	err := unix.Close(c.fd)
	c.fd = -1
	c.setErr(errors.New("wl: connection closed"))
	return err
}

// register allocates an id for the new object o.
func (c *Conn) register(o Object, version uint32) {
	var id ObjectID
	if n := len(c.free); n > 0 {
		id = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		if c.lastID == maxClientID {
			panic("wl: out of object ids")
		}
		c.lastID++
		id = c.lastID
	}
	p := o.proxy()
	p.conn = c
	p.id = id
	p.version = version
	c.objects[id] = o
}

// destroy marks o destroyed after its destructor request was sent.
func (c *Conn) destroy(o Object) {
	p := o.proxy()
	if p.id == 0 {
		return
	}
	delete(c.objects, p.id)
	c.zombies[p.id] = o
	p.id = 0
}

// lookup returns the live object with the id, or nil.
func (c *Conn) lookup(id ObjectID) Object {
	return c.objects[id]
}

func (c *Conn) deleteID(id ObjectID) {
	if o, ok := c.objects[id]; ok {
		// Compositor destroyed objects such as wl_callback.
		o.proxy().id = 0
		delete(c.objects, id)
	} else if _, ok := c.zombies[id]; ok {
		delete(c.zombies, id)
	} else {
		c.log.Warn("wl: delete_id for unknown object", "object", id)
		return
	}
	if id <= maxClientID {
		c.free = append(c.free, id)
	}
}

func (c *Conn) send(id ObjectID, opcode uint16, args ...any) {
	if c.err != nil {
		return
	}
	for _, a := range args {
		if fd, ok := a.(FD); ok {
			dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
			if err != nil {
				c.setErr(fmt.Errorf("wl: dup: %w", err))
				return
			}
			c.outFds = append(c.outFds, dup)
		}
	}
	c.out, _ = appendMessage(c.out, nil, id, opcode, args...)
	if len(c.out) >= flushThreshold || len(c.outFds) >= maxFdsOut {
		c.Flush()
	}
}

// Flush writes the buffered requests. It blocks while the socket is
// full.
func (c *Conn) Flush() error {
	if c.err != nil {
		return c.err
	}
	for len(c.out) > 0 {
		var oob []byte
		if len(c.outFds) > 0 {
			oob = unix.UnixRights(c.outFds...)
		}
		n, err := unix.SendmsgN(c.fd, c.out, oob, nil, unix.MSG_NOSIGNAL)
		if err == unix.EAGAIN || err == unix.EINTR {
			fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLOUT}}
			if _, err := unix.Poll(fds, -1); err != nil && err != unix.EINTR {
				c.setErr(fmt.Errorf("wl: poll: %w", err))
				return c.err
			}
			continue
		}
		if err != nil {
			c.setErr(fmt.Errorf("wl: sendmsg: %w", err))
			return c.err
		}
		for _, fd := range c.outFds {
			unix.Close(fd)
		}
		c.outFds = c.outFds[:0]
		c.out = c.out[n:]
	}
	c.out = c.out[:0]
	return nil
}

// ReadEvents reads the available events without blocking.
func (c *Conn) ReadEvents() error {
	if c.err != nil {
		return c.err
	}
	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(maxFdsOut*4))
	for {
		n, oobn, _, _, err := unix.Recvmsg(c.fd, buf, oob, unix.MSG_DONTWAIT|unix.MSG_CMSG_CLOEXEC)
		if err == unix.EAGAIN {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			c.setErr(fmt.Errorf("wl: recvmsg: %w", err))
			return c.err
		}
		if oobn > 0 {
			c.parseRights(oob[:oobn])
		}
		if n == 0 {
			c.setErr(fmt.Errorf("wl: connection closed by compositor: %w", io.EOF))
			return c.err
		}
		c.in = append(c.in, buf[:n]...)
	}
}

func (c *Conn) parseRights(oob []byte) {
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		c.log.Warn("wl: invalid control message", "err", err)
		return
	}
	for i := range scms {
		fds, err := unix.ParseUnixRights(&scms[i])
		if err != nil {
			continue
		}
		c.inFds = append(c.inFds, fds...)
	}
}

// DispatchPending dispatches the complete events read so far.
func (c *Conn) DispatchPending() error {
	for c.err == nil && len(c.in) >= headerSize {
		id, opcode, size := header(c.in)
		if size < headerSize {
			c.setErr(fmt.Errorf("wl: invalid message size %d", size))
			break
		}
		if len(c.in) < size {
			break
		}
		data := c.in[headerSize:size]
		c.in = c.in[size:]
		c.dispatch(id, opcode, data)
	}
	if len(c.in) == 0 {
		c.in = c.in[:0:0]
	}
	return c.err
}

func (c *Conn) dispatch(id ObjectID, opcode uint16, data []byte) {
	o, ok := c.objects[id]
	if !ok {
		if z, ok := c.zombies[id]; ok {
			c.closeFds(z.eventFds(opcode))
		} else {
			c.log.Warn("wl: event for unknown object", "object", id, "opcode", opcode)
		}
		return
	}
	d := &decoder{data: data, fds: &c.inFds}
	o.dispatch(opcode, d)
	if d.err != nil {
		c.log.Warn("wl: dropping malformed event", "interface", o.Interface(), "object", id, "opcode", opcode, "err", d.err)
	}
}

func (c *Conn) closeFds(n int) {
	for ; n > 0 && len(c.inFds) > 0; n-- {
		unix.Close(c.inFds[0])
		c.inFds = c.inFds[1:]
	}
}

// Roundtrip blocks until the compositor processed every request sent
// so far, dispatching events meanwhile.
func (c *Conn) Roundtrip() error {
	done := false
	cb := c.display.Sync()
	cb.OnDone = func(uint32) { done = true }
	for !done {
		if err := c.Flush(); err != nil {
			return err
		}
		fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, -1); err != nil && err != unix.EINTR {
			c.setErr(fmt.Errorf("wl: poll: %w", err))
			return c.err
		}
		if err := c.ReadEvents(); err != nil {
			return err
		}
		if err := c.DispatchPending(); err != nil {
			return err
		}
	}
	return nil
}
