// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wl

// Toplevel states from xdg-shell.
const (
	ToplevelStateMaximized  = 1
	ToplevelStateFullscreen = 2
	ToplevelStateResizing   = 3
	ToplevelStateActivated  = 4
)

// WmBase is the xdg_wm_base global.
type WmBase struct {
	Proxy
	OnPing func(serial uint32)
}

func (*WmBase) Interface() string { return "xdg_wm_base" }

func (w *WmBase) Destroy() {
	w.send(0)
	w.conn.destroy(w)
}

func (w *WmBase) GetXdgSurface(s *Surface) *XdgSurface {
	x := new(XdgSurface)
	w.conn.register(x, w.version)
	w.send(2, x.id, s.id)
	return x
}

func (w *WmBase) Pong(serial uint32) {
	w.send(3, serial)
}

func (w *WmBase) dispatch(opcode uint16, d *decoder) {
	serial := d.uint()
	if h := w.OnPing; h != nil && opcode == 0 && d.ok() {
		h(serial)
	}
}

// XdgSurface is an xdg_surface.
type XdgSurface struct {
	Proxy
	OnConfigure func(serial uint32)
}

func (*XdgSurface) Interface() string { return "xdg_surface" }

func (x *XdgSurface) Destroy() {
	x.send(0)
	x.conn.destroy(x)
}

func (x *XdgSurface) GetToplevel() *Toplevel {
	t := new(Toplevel)
	x.conn.register(t, x.version)
	x.send(1, t.id)
	return t
}

func (x *XdgSurface) SetWindowGeometry(px, py, w, h int32) {
	x.send(3, px, py, w, h)
}

func (x *XdgSurface) AckConfigure(serial uint32) {
	x.send(4, serial)
}

func (x *XdgSurface) dispatch(opcode uint16, d *decoder) {
	serial := d.uint()
	if h := x.OnConfigure; h != nil && opcode == 0 && d.ok() {
		h(serial)
	}
}

// Toplevel is an xdg_toplevel.
type Toplevel struct {
	Proxy
	OnConfigure       func(width, height int32, states []uint32)
	OnClose           func()
	OnConfigureBounds func(width, height int32)
	OnWMCapabilities  func(caps []uint32)
}

func (*Toplevel) Interface() string { return "xdg_toplevel" }

func (t *Toplevel) Destroy() {
	t.send(0)
	t.conn.destroy(t)
}

func (t *Toplevel) SetTitle(title string) {
	t.send(2, title)
}

func (t *Toplevel) SetAppID(id string) {
	t.send(3, id)
}

func (t *Toplevel) SetMaxSize(w, h int32) {
	t.send(7, w, h)
}

func (t *Toplevel) SetMinSize(w, h int32) {
	t.send(8, w, h)
}

func (t *Toplevel) SetMaximized() {
	t.send(9)
}

func (t *Toplevel) UnsetMaximized() {
	t.send(10)
}

// SetFullscreen requests fullscreen on the output o, or on an output
// of the compositor's choice if o is nil.
func (t *Toplevel) SetFullscreen(o *Output) {
	var id ObjectID
	if o != nil {
		id = o.id
	}
	t.send(11, id)
}

func (t *Toplevel) UnsetFullscreen() {
	t.send(12)
}

func (t *Toplevel) SetMinimized() {
	t.send(13)
}

func (t *Toplevel) dispatch(opcode uint16, d *decoder) {
	switch opcode {
	case 0:
		w, h, states := d.int(), d.int(), d.uints()
		if f := t.OnConfigure; f != nil && d.ok() {
			f(w, h, states)
		}
	case 1:
		if f := t.OnClose; f != nil {
			f()
		}
	case 2:
		w, h := d.int(), d.int()
		if f := t.OnConfigureBounds; f != nil && d.ok() {
			f(w, h)
		}
	case 3:
		caps := d.uints()
		if f := t.OnWMCapabilities; f != nil && d.ok() {
			f(caps)
		}
	}
}

// Decoration modes from xdg-decoration.
const (
	DecorationModeClientSide = 1
	DecorationModeServerSide = 2
)

// DecorationManager is the zxdg_decoration_manager_v1 global.
type DecorationManager struct {
	Proxy
}

func (*DecorationManager) Interface() string { return "zxdg_decoration_manager_v1" }

func (m *DecorationManager) Destroy() {
	m.send(0)
	m.conn.destroy(m)
}

func (m *DecorationManager) GetToplevelDecoration(t *Toplevel) *ToplevelDecoration {
	td := new(ToplevelDecoration)
	m.conn.register(td, m.version)
	m.send(1, td.id, t.id)
	return td
}

// ToplevelDecoration is a zxdg_toplevel_decoration_v1.
type ToplevelDecoration struct {
	Proxy
	OnConfigure func(mode uint32)
}

func (*ToplevelDecoration) Interface() string { return "zxdg_toplevel_decoration_v1" }

func (td *ToplevelDecoration) Destroy() {
	td.send(0)
	td.conn.destroy(td)
}

func (td *ToplevelDecoration) SetMode(mode uint32) {
	td.send(1, mode)
}

func (td *ToplevelDecoration) UnsetMode() {
	td.send(2)
}

func (td *ToplevelDecoration) dispatch(opcode uint16, d *decoder) {
	mode := d.uint()
	if h := td.OnConfigure; h != nil && opcode == 0 && d.ok() {
		h(mode)
	}
}
