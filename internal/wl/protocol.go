// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wl

import (
	"golang.org/x/sys/unix"
)

// Display is the wl_display singleton.
type Display struct {
	Proxy
}

func (*Display) Interface() string { return "wl_display" }

// Sync requests a callback done after every earlier request was
// processed.
func (d *Display) Sync() *Callback {
	cb := new(Callback)
	d.conn.register(cb, 1)
	d.send(0, cb.id)
	return cb
}

// GetRegistry creates the registry of globals.
func (d *Display) GetRegistry() *Registry {
	r := new(Registry)
	d.conn.register(r, 1)
	d.send(1, r.id)
	return r
}

func (d *Display) dispatch(opcode uint16, dec *decoder) {
	switch opcode {
	case 0:
		obj, code, msg := dec.object(), dec.uint(), dec.string()
		if dec.ok() {
			d.conn.setErr(&ProtocolError{Object: obj, Code: code, Message: msg})
		}
	case 1:
		id := dec.uint()
		if dec.ok() {
			d.conn.deleteID(ObjectID(id))
		}
	}
}

// Registry is the wl_registry of globals.
type Registry struct {
	Proxy
	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

func (*Registry) Interface() string { return "wl_registry" }

// Bind binds the global name to the new object o.
func (r *Registry) Bind(name uint32, o Object, version uint32) {
	r.conn.register(o, version)
	r.send(0, name, o.Interface(), version, o.ID())
}

func (r *Registry) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		name, iface, version := d.uint(), d.string(), d.uint()
		if h := r.OnGlobal; h != nil && d.ok() {
			h(name, iface, version)
		}
	case 1:
		name := d.uint()
		if h := r.OnGlobalRemove; h != nil && d.ok() {
			h(name)
		}
	}
}

// Callback is a wl_callback.
type Callback struct {
	Proxy
	OnDone func(data uint32)
}

func (*Callback) Interface() string { return "wl_callback" }

func (c *Callback) dispatch(opcode uint16, d *decoder) {
	data := d.uint()
	if h := c.OnDone; h != nil && opcode == 0 && d.ok() {
		h(data)
	}
}

// Compositor is the wl_compositor global.
type Compositor struct {
	Proxy
}

func (*Compositor) Interface() string { return "wl_compositor" }

// CreateSurface creates a surface.
func (c *Compositor) CreateSurface() *Surface {
	s := new(Surface)
	c.conn.register(s, c.version)
	c.send(0, s.id)
	return s
}

// Surface is a wl_surface.
type Surface struct {
	Proxy
	OnEnter                    func(o *Output)
	OnLeave                    func(o *Output)
	OnPreferredBufferScale     func(factor int32)
	OnPreferredBufferTransform func(transform uint32)
}

func (*Surface) Interface() string { return "wl_surface" }

func (s *Surface) Destroy() {
	s.send(0)
	s.conn.destroy(s)
}

// Attach attaches the buffer b, or detaches the current buffer if b is
// nil.
func (s *Surface) Attach(b *Buffer, x, y int32) {
	var id ObjectID
	if b != nil {
		id = b.id
	}
	s.send(1, id, x, y)
}

func (s *Surface) Damage(x, y, w, h int32) {
	s.send(2, x, y, w, h)
}

// Frame requests a callback when it is a good time to draw the next
// frame.
func (s *Surface) Frame() *Callback {
	cb := new(Callback)
	s.conn.register(cb, 1)
	s.send(3, cb.id)
	return cb
}

func (s *Surface) Commit() {
	s.send(6)
}

func (s *Surface) SetBufferScale(scale int32) {
	if s.version >= 3 {
		s.send(8, scale)
	}
}

// DamageBuffer damages a region in buffer coordinates. It falls back
// to Damage on old compositors.
func (s *Surface) DamageBuffer(x, y, w, h int32) {
	if s.version >= 4 {
		s.send(9, x, y, w, h)
		return
	}
	s.Damage(x, y, w, h)
}

func (s *Surface) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0, 1:
		o, _ := s.conn.lookup(d.object()).(*Output)
		h := s.OnEnter
		if opcode == 1 {
			h = s.OnLeave
		}
		if h != nil && d.ok() {
			h(o)
		}
	case 2:
		f := d.int()
		if h := s.OnPreferredBufferScale; h != nil && d.ok() {
			h(f)
		}
	case 3:
		t := d.uint()
		if h := s.OnPreferredBufferTransform; h != nil && d.ok() {
			h(t)
		}
	}
}

// Seat capabilities.
const (
	SeatCapabilityPointer  = 1
	SeatCapabilityKeyboard = 2
	SeatCapabilityTouch    = 4
)

// Seat is a wl_seat.
type Seat struct {
	Proxy
	OnCapabilities func(caps uint32)
	OnName         func(name string)
}

func (*Seat) Interface() string { return "wl_seat" }

func (s *Seat) GetPointer() *Pointer {
	p := new(Pointer)
	s.conn.register(p, s.version)
	s.send(0, p.id)
	return p
}

func (s *Seat) GetKeyboard() *Keyboard {
	k := new(Keyboard)
	s.conn.register(k, s.version)
	s.send(1, k.id)
	return k
}

func (s *Seat) Release() {
	if s.version >= 5 {
		s.send(3)
	}
	s.conn.destroy(s)
}

func (s *Seat) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		caps := d.uint()
		if h := s.OnCapabilities; h != nil && d.ok() {
			h(caps)
		}
	case 1:
		name := d.string()
		if h := s.OnName; h != nil && d.ok() {
			h(name)
		}
	}
}

// Pointer button states and axes.
const (
	PointerButtonStateReleased = 0
	PointerButtonStatePressed  = 1

	PointerAxisVerticalScroll   = 0
	PointerAxisHorizontalScroll = 1

	PointerAxisSourceWheel      = 0
	PointerAxisSourceFinger     = 1
	PointerAxisSourceContinuous = 2
	PointerAxisSourceWheelTilt  = 3
)

// Pointer is a wl_pointer.
type Pointer struct {
	Proxy
	OnEnter        func(serial uint32, s *Surface, x, y float64)
	OnLeave        func(serial uint32, s *Surface)
	OnMotion       func(time uint32, x, y float64)
	OnButton       func(serial, time, button, state uint32)
	OnAxis         func(time, axis uint32, value float64)
	OnFrame        func()
	OnAxisSource   func(source uint32)
	OnAxisStop     func(time, axis uint32)
	OnAxisDiscrete func(axis uint32, discrete int32)
	OnAxisValue120 func(axis uint32, value120 int32)
}

func (*Pointer) Interface() string { return "wl_pointer" }

// SetCursor sets the cursor image to the surface s, or hides the
// cursor if s is nil.
func (p *Pointer) SetCursor(serial uint32, s *Surface, hotspotX, hotspotY int32) {
	var id ObjectID
	if s != nil {
		id = s.id
	}
	p.send(0, serial, id, hotspotX, hotspotY)
}

func (p *Pointer) Release() {
	if p.version >= 3 {
		p.send(1)
	}
	p.conn.destroy(p)
}

func (p *Pointer) surface(id ObjectID) *Surface {
	s, _ := p.conn.lookup(id).(*Surface)
	return s
}

func (p *Pointer) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		serial, s, x, y := d.uint(), p.surface(d.object()), d.fixed(), d.fixed()
		if h := p.OnEnter; h != nil && d.ok() {
			h(serial, s, x, y)
		}
	case 1:
		serial, s := d.uint(), p.surface(d.object())
		if h := p.OnLeave; h != nil && d.ok() {
			h(serial, s)
		}
	case 2:
		t, x, y := d.uint(), d.fixed(), d.fixed()
		if h := p.OnMotion; h != nil && d.ok() {
			h(t, x, y)
		}
	case 3:
		serial, t, button, state := d.uint(), d.uint(), d.uint(), d.uint()
		if h := p.OnButton; h != nil && d.ok() {
			h(serial, t, button, state)
		}
	case 4:
		t, axis, v := d.uint(), d.uint(), d.fixed()
		if h := p.OnAxis; h != nil && d.ok() {
			h(t, axis, v)
		}
	case 5:
		if h := p.OnFrame; h != nil {
			h()
		}
	case 6:
		src := d.uint()
		if h := p.OnAxisSource; h != nil && d.ok() {
			h(src)
		}
	case 7:
		t, axis := d.uint(), d.uint()
		if h := p.OnAxisStop; h != nil && d.ok() {
			h(t, axis)
		}
	case 8:
		axis, v := d.uint(), d.int()
		if h := p.OnAxisDiscrete; h != nil && d.ok() {
			h(axis, v)
		}
	case 9:
		axis, v := d.uint(), d.int()
		if h := p.OnAxisValue120; h != nil && d.ok() {
			h(axis, v)
		}
	}
}

// Keyboard keymap formats and key states.
const (
	KeyboardKeymapFormatNoKeymap = 0
	KeyboardKeymapFormatXKBV1    = 1

	KeyboardKeyStateReleased = 0
	KeyboardKeyStatePressed  = 1
)

// Keyboard is a wl_keyboard.
type Keyboard struct {
	Proxy
	// OnKeymap receives ownership of fd. Without a handler the file
	// descriptor is closed.
	OnKeymap     func(format uint32, fd int, size uint32)
	OnEnter      func(serial uint32, s *Surface, keys []uint32)
	OnLeave      func(serial uint32, s *Surface)
	OnKey        func(serial, time, key, state uint32)
	OnModifiers  func(serial, depressed, latched, locked, group uint32)
	OnRepeatInfo func(rate, delay int32)
}

func (*Keyboard) Interface() string { return "wl_keyboard" }

func (k *Keyboard) Release() {
	if k.version >= 3 {
		k.send(0)
	}
	k.conn.destroy(k)
}

func (k *Keyboard) eventFds(opcode uint16) int {
	if opcode == 0 {
		return 1
	}
	return 0
}

func (k *Keyboard) surface(id ObjectID) *Surface {
	s, _ := k.conn.lookup(id).(*Surface)
	return s
}

func (k *Keyboard) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		format, fd, size := d.uint(), d.fd(), d.uint()
		if h := k.OnKeymap; h != nil && d.ok() {
			h(format, fd, size)
		} else if fd != -1 {
			unix.Close(fd)
		}
	case 1:
		serial, s, keys := d.uint(), k.surface(d.object()), d.uints()
		if h := k.OnEnter; h != nil && d.ok() {
			h(serial, s, keys)
		}
	case 2:
		serial, s := d.uint(), k.surface(d.object())
		if h := k.OnLeave; h != nil && d.ok() {
			h(serial, s)
		}
	case 3:
		serial, t, key, state := d.uint(), d.uint(), d.uint(), d.uint()
		if h := k.OnKey; h != nil && d.ok() {
			h(serial, t, key, state)
		}
	case 4:
		serial, dep, lat, lock, group := d.uint(), d.uint(), d.uint(), d.uint(), d.uint()
		if h := k.OnModifiers; h != nil && d.ok() {
			h(serial, dep, lat, lock, group)
		}
	case 5:
		rate, delay := d.int(), d.int()
		if h := k.OnRepeatInfo; h != nil && d.ok() {
			h(rate, delay)
		}
	}
}

// Output is a wl_output.
type Output struct {
	Proxy
	OnGeometry    func(x, y, physWidth, physHeight, subpixel int32, make, model string, transform int32)
	OnMode        func(flags uint32, width, height, refresh int32)
	OnDone        func()
	OnScale       func(factor int32)
	OnName        func(name string)
	OnDescription func(desc string)
}

func (*Output) Interface() string { return "wl_output" }

func (o *Output) Release() {
	if o.version >= 3 {
		o.send(0)
	}
	o.conn.destroy(o)
}

func (o *Output) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		x, y, pw, ph, sub := d.int(), d.int(), d.int(), d.int(), d.int()
		mk, model, transform := d.string(), d.string(), d.int()
		if h := o.OnGeometry; h != nil && d.ok() {
			h(x, y, pw, ph, sub, mk, model, transform)
		}
	case 1:
		flags, w, h, refresh := d.uint(), d.int(), d.int(), d.int()
		if f := o.OnMode; f != nil && d.ok() {
			f(flags, w, h, refresh)
		}
	case 2:
		if h := o.OnDone; h != nil {
			h()
		}
	case 3:
		f := d.int()
		if h := o.OnScale; h != nil && d.ok() {
			h(f)
		}
	case 4, 5:
		s := d.string()
		h := o.OnName
		if opcode == 5 {
			h = o.OnDescription
		}
		if h != nil && d.ok() {
			h(s)
		}
	}
}

// Shm formats.
const (
	ShmFormatARGB8888 = 0
	ShmFormatXRGB8888 = 1
)

// Shm is the wl_shm global.
type Shm struct {
	Proxy
	OnFormat func(format uint32)
}

func (*Shm) Interface() string { return "wl_shm" }

// CreatePool creates a pool backed by the first size bytes of fd.
func (s *Shm) CreatePool(fd int, size int32) *ShmPool {
	p := new(ShmPool)
	s.conn.register(p, s.version)
	s.send(0, p.id, FD(fd), size)
	return p
}

func (s *Shm) Release() {
	if s.version >= 2 {
		s.send(1)
	}
	s.conn.destroy(s)
}

func (s *Shm) dispatch(opcode uint16, d *decoder) {
	f := d.uint()
	if h := s.OnFormat; h != nil && opcode == 0 && d.ok() {
		h(f)
	}
}

// ShmPool is a wl_shm_pool.
type ShmPool struct {
	Proxy
}

func (*ShmPool) Interface() string { return "wl_shm_pool" }

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) *Buffer {
	b := new(Buffer)
	p.conn.register(b, 1)
	p.send(0, b.id, offset, width, height, stride, format)
	return b
}

func (p *ShmPool) Destroy() {
	p.send(1)
	p.conn.destroy(p)
}

func (p *ShmPool) Resize(size int32) {
	p.send(2, size)
}

// Buffer is a wl_buffer.
type Buffer struct {
	Proxy
	OnRelease func()
}

func (*Buffer) Interface() string { return "wl_buffer" }

func (b *Buffer) Destroy() {
	b.send(0)
	b.conn.destroy(b)
}

func (b *Buffer) dispatch(opcode uint16, d *decoder) {
	if h := b.OnRelease; h != nil && opcode == 0 {
		h()
	}
}
