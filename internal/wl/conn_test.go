// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package wl

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"golang.org/x/sys/unix"
)

// fakeServer is the compositor end of a socket pair.
type fakeServer struct {
	t   *testing.T
	fd  int
	buf []byte
	fds []int
}

func newTestConn(t *testing.T) (*Conn, *fakeServer) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		t.Fatal(err)
	}
	c := NewConn(fds[0], slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := &fakeServer{t: t, fd: fds[1]}
	t.Cleanup(func() {
		c.Close()
		s.close()
	})
	return c, s
}

func (s *fakeServer) close() {
	if s.fd != -1 {
		unix.Close(s.fd)
		s.fd = -1
	}
}

// send sends an event. It is safe to call from other goroutines than
// the test.
func (s *fakeServer) send(id ObjectID, opcode uint16, args ...any) error {
	msg, fds := appendMessage(nil, nil, id, opcode, args...)
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	_, err := unix.SendmsgN(s.fd, msg, oob, nil, 0)
	return err
}

// read blocks until a complete request arrives.
func (s *fakeServer) read() (ObjectID, uint16, *decoder, error) {
	for {
		if len(s.buf) >= headerSize {
			id, opcode, size := header(s.buf)
			if len(s.buf) >= size {
				data := s.buf[headerSize:size]
				s.buf = s.buf[size:]
				return id, opcode, &decoder{data: data, fds: &s.fds}, nil
			}
		}
		b := make([]byte, 4096)
		oob := make([]byte, unix.CmsgSpace(maxFdsOut*4))
		n, oobn, _, _, err := unix.Recvmsg(s.fd, b, oob, 0)
		if err != nil {
			return 0, 0, nil, err
		}
		if n == 0 {
			return 0, 0, nil, io.EOF
		}
		if oobn > 0 {
			scms, err := unix.ParseSocketControlMessage(oob[:oobn])
			if err != nil {
				return 0, 0, nil, err
			}
			for i := range scms {
				fds, err := unix.ParseUnixRights(&scms[i])
				if err != nil {
					return 0, 0, nil, err
				}
				s.fds = append(s.fds, fds...)
			}
		}
		s.buf = append(s.buf, b[:n]...)
	}
}

// expect reads a request and checks its target and opcode.
func (s *fakeServer) expect(id ObjectID, opcode uint16) *decoder {
	s.t.Helper()
	gotID, gotOp, d, err := s.read()
	if err != nil {
		s.t.Fatal(err)
	}
	if gotID != id || gotOp != opcode {
		s.t.Fatalf("got request %d on object %d, want %d on %d", gotOp, gotID, opcode, id)
	}
	return d
}

// pump reads and dispatches the events sent so far.
func pump(t *testing.T, c *Conn) {
	t.Helper()
	if err := c.ReadEvents(); err != nil {
		t.Fatal(err)
	}
	if err := c.DispatchPending(); err != nil {
		t.Fatal(err)
	}
}

func TestMessageEncoding(t *testing.T) {
	msg, fds := appendMessage(nil, nil, 7, 3, uint32(1), int32(-2), Fixed(1.5), "abc", "", Array{1, 2, 3, 4, 5}, ObjectID(9), FD(42))
	if len(msg)%4 != 0 {
		t.Fatalf("message length %d is not a multiple of 4", len(msg))
	}
	id, opcode, size := header(msg)
	if id != 7 || opcode != 3 || size != len(msg) {
		t.Fatalf("header = %d, %d, %d", id, opcode, size)
	}
	if !reflect.DeepEqual(fds, []int{42}) {
		t.Errorf("fds = %v", fds)
	}
	d := &decoder{data: msg[headerSize:], fds: new([]int)}
	if v := d.uint(); v != 1 {
		t.Errorf("uint = %d", v)
	}
	if v := d.int(); v != -2 {
		t.Errorf("int = %d", v)
	}
	if v := d.fixed(); v != 1.5 {
		t.Errorf("fixed = %v", v)
	}
	if v := d.string(); v != "abc" {
		t.Errorf("string = %q", v)
	}
	if v := d.string(); v != "" {
		t.Errorf("empty string = %q", v)
	}
	if v := d.array(); !reflect.DeepEqual(v, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("array = %v", v)
	}
	if v := d.object(); v != 9 {
		t.Errorf("object = %d", v)
	}
	if !d.ok() || len(d.data) != 0 {
		t.Errorf("decoder left %d bytes, err %v", len(d.data), d.err)
	}
	// Reading past the end is sticky.
	d.uint()
	if d.ok() {
		t.Error("reading past the end succeeded")
	}
	if v := d.uint(); v != 0 {
		t.Errorf("read after error = %d", v)
	}
}

func TestFixed(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.5, 123.25, -7.75} {
		if got := fromFixed(toFixed(v)); got != v {
			t.Errorf("fixed conversion of %v = %v", v, got)
		}
	}
}

func TestRoundtripAndRegistry(t *testing.T) {
	c, s := newTestConn(t)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- func() error {
			_, _, d, err := s.read()
			if err != nil {
				return err
			}
			reg := d.object()
			if err := s.send(reg, 0, uint32(1), "wl_compositor", uint32(6)); err != nil {
				return err
			}
			if err := s.send(reg, 0, uint32(2), "wl_seat", uint32(9)); err != nil {
				return err
			}
			_, _, d, err = s.read()
			if err != nil {
				return err
			}
			cb := d.object()
			if err := s.send(cb, 0, uint32(0)); err != nil {
				return err
			}
			return s.send(1, 1, uint32(cb))
		}()
	}()
	globals := make(map[string]uint32)
	reg := c.Display().GetRegistry()
	reg.OnGlobal = func(name uint32, iface string, version uint32) {
		globals[iface] = version
	}
	if err := c.Roundtrip(); err != nil {
		t.Fatal(err)
	}
	if err := <-serverErr; err != nil {
		t.Fatal(err)
	}
	want := map[string]uint32{"wl_compositor": 6, "wl_seat": 9}
	if !reflect.DeepEqual(globals, want) {
		t.Errorf("globals = %v, want %v", globals, want)
	}
	// The callback id was released by delete_id and is reused.
	cb := c.Display().Sync()
	if cb.ID() != 3 {
		t.Errorf("reused id = %d, want 3", cb.ID())
	}
}

func TestBindAndRequests(t *testing.T) {
	c, s := newTestConn(t)
	reg := c.Display().GetRegistry()
	comp := new(Compositor)
	reg.Bind(1, comp, 4)
	surf := comp.CreateSurface()
	surf.DamageBuffer(1, 2, 3, 4)
	surf.Commit()
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	s.expect(1, 1)
	d := s.expect(reg.ID(), 0)
	name, iface, version, id := d.uint(), d.string(), d.uint(), d.object()
	if name != 1 || iface != "wl_compositor" || version != 4 || id != comp.ID() {
		t.Errorf("bind(%d, %q, %d, %d)", name, iface, version, id)
	}
	d = s.expect(comp.ID(), 0)
	if id := d.object(); id != surf.ID() {
		t.Errorf("create_surface id %d, want %d", id, surf.ID())
	}
	if surf.Version() != 4 {
		t.Errorf("surface version %d, want 4", surf.Version())
	}
	d = s.expect(surf.ID(), 9)
	if x, y, w, h := d.int(), d.int(), d.int(), d.int(); x != 1 || y != 2 || w != 3 || h != 4 {
		t.Errorf("damage_buffer(%d, %d, %d, %d)", x, y, w, h)
	}
	s.expect(surf.ID(), 6)
}

func TestFileDescriptors(t *testing.T) {
	c, s := newTestConn(t)
	kb := new(Keyboard)
	c.register(kb, 7)
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatal(err)
	}
	defer unix.Close(p[0])
	received := -1
	kb.OnKeymap = func(format uint32, fd int, size uint32) {
		if format != KeyboardKeymapFormatXKBV1 || size != 5 {
			t.Errorf("keymap(%d, %d)", format, size)
		}
		received = fd
	}
	if err := s.send(kb.ID(), 0, uint32(KeyboardKeymapFormatXKBV1), FD(p[1]), uint32(5)); err != nil {
		t.Fatal(err)
	}
	unix.Close(p[1])
	pump(t, c)
	if received == -1 {
		t.Fatal("no keymap received")
	}
	if _, err := unix.Write(received, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	unix.Close(received)
	buf := make([]byte, 5)
	if n, err := unix.Read(p[0], buf); err != nil || string(buf[:n]) != "hello" {
		t.Errorf("read %q, %v", buf[:n], err)
	}
}

func TestZombieEvents(t *testing.T) {
	c, s := newTestConn(t)
	kb := new(Keyboard)
	c.register(kb, 7)
	id := kb.ID()
	called := false
	kb.OnKeymap = func(uint32, int, uint32) { called = true }
	kb.OnKey = func(serial, time, key, state uint32) { called = true }
	kb.Release()
	if kb.ID() != 0 {
		t.Error("released keyboard kept its id")
	}
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatal(err)
	}
	defer unix.Close(p[0])
	defer unix.Close(p[1])
	if err := s.send(id, 0, uint32(1), FD(p[1]), uint32(5)); err != nil {
		t.Fatal(err)
	}
	if err := s.send(id, 3, uint32(1), uint32(2), uint32(30), uint32(1)); err != nil {
		t.Fatal(err)
	}
	pump(t, c)
	if called {
		t.Error("handler called for a destroyed object")
	}
	if len(c.inFds) != 0 {
		t.Errorf("%d file descriptors left after zombie event", len(c.inFds))
	}
	// The id is not reused before delete_id.
	if cb := c.Display().Sync(); cb.ID() == id {
		t.Error("zombie id reused")
	}
	if err := s.send(1, 1, uint32(id)); err != nil {
		t.Fatal(err)
	}
	pump(t, c)
	if cb := c.Display().Sync(); cb.ID() != id {
		t.Errorf("released id %d not reused, got %d", id, cb.ID())
	}
}

func TestMalformedEvent(t *testing.T) {
	c, s := newTestConn(t)
	kb := new(Keyboard)
	c.register(kb, 7)
	var got []uint32
	kb.OnKey = func(serial, time, key, state uint32) {
		got = append(got, key)
	}
	// Missing arguments.
	if err := s.send(kb.ID(), 3, uint32(1), uint32(2)); err != nil {
		t.Fatal(err)
	}
	if err := s.send(kb.ID(), 3, uint32(1), uint32(2), uint32(30), uint32(1)); err != nil {
		t.Fatal(err)
	}
	// Unknown object.
	if err := s.send(99, 0); err != nil {
		t.Fatal(err)
	}
	pump(t, c)
	if !reflect.DeepEqual(got, []uint32{30}) {
		t.Errorf("got keys %v, want [30]", got)
	}
}

func TestProtocolError(t *testing.T) {
	c, s := newTestConn(t)
	if err := s.send(1, 0, ObjectID(3), uint32(2), "invalid serial"); err != nil {
		t.Fatal(err)
	}
	if err := c.ReadEvents(); err != nil {
		t.Fatal(err)
	}
	err := c.DispatchPending()
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("got error %v, want a protocol error", err)
	}
	if perr.Object != 3 || perr.Code != 2 || perr.Message != "invalid serial" {
		t.Errorf("got %+v", perr)
	}
	if c.Err() != err {
		t.Error("protocol error is not sticky")
	}
}

func TestServerHangup(t *testing.T) {
	c, s := newTestConn(t)
	s.close()
	err := c.ReadEvents()
	if !errors.Is(err, io.EOF) {
		t.Errorf("got %v, want EOF", err)
	}
}

func TestInterfaceEvents(t *testing.T) {
	c, s := newTestConn(t)
	tl := new(Toplevel)
	c.register(tl, 5)
	var states []uint32
	var size [2]int32
	closed := false
	tl.OnConfigure = func(w, h int32, st []uint32) {
		size = [2]int32{w, h}
		states = st
	}
	tl.OnClose = func() { closed = true }
	arr := make(Array, 8)
	order.PutUint32(arr, ToplevelStateFullscreen)
	order.PutUint32(arr[4:], ToplevelStateActivated)
	if err := s.send(tl.ID(), 0, int32(640), int32(480), arr); err != nil {
		t.Fatal(err)
	}
	if err := s.send(tl.ID(), 1); err != nil {
		t.Fatal(err)
	}
	ptr := new(Pointer)
	c.register(ptr, 9)
	surf := new(Surface)
	c.register(surf, 6)
	var enter struct {
		s    *Surface
		x, y float64
	}
	ptr.OnEnter = func(serial uint32, s *Surface, x, y float64) {
		enter.s, enter.x, enter.y = s, x, y
	}
	if err := s.send(ptr.ID(), 0, uint32(5), surf.ID(), Fixed(10.5), Fixed(-3)); err != nil {
		t.Fatal(err)
	}
	pump(t, c)
	if size != [2]int32{640, 480} {
		t.Errorf("configure size %v", size)
	}
	if !reflect.DeepEqual(states, []uint32{ToplevelStateFullscreen, ToplevelStateActivated}) {
		t.Errorf("configure states %v", states)
	}
	if !closed {
		t.Error("close not dispatched")
	}
	if enter.s != surf || enter.x != 10.5 || enter.y != -3 {
		t.Errorf("enter(%v, %v, %v)", enter.s, enter.x, enter.y)
	}
}
