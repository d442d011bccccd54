// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wl

// Viewporter is the wp_viewporter global.
type Viewporter struct {
	Proxy
}

func (*Viewporter) Interface() string { return "wp_viewporter" }

func (v *Viewporter) Destroy() {
	v.send(0)
	v.conn.destroy(v)
}

func (v *Viewporter) GetViewport(s *Surface) *Viewport {
	vp := new(Viewport)
	v.conn.register(vp, v.version)
	v.send(1, vp.id, s.id)
	return vp
}

// Viewport is a wp_viewport.
type Viewport struct {
	Proxy
}

func (*Viewport) Interface() string { return "wp_viewport" }

func (vp *Viewport) Destroy() {
	vp.send(0)
	vp.conn.destroy(vp)
}

func (vp *Viewport) SetSource(x, y, w, h float64) {
	vp.send(1, Fixed(x), Fixed(y), Fixed(w), Fixed(h))
}

// SetDestination sets the surface size in logical units. (-1, -1)
// unsets it.
func (vp *Viewport) SetDestination(w, h int32) {
	vp.send(2, w, h)
}

// FractionalScaleManager is the wp_fractional_scale_manager_v1 global.
type FractionalScaleManager struct {
	Proxy
}

func (*FractionalScaleManager) Interface() string { return "wp_fractional_scale_manager_v1" }

func (m *FractionalScaleManager) Destroy() {
	m.send(0)
	m.conn.destroy(m)
}

func (m *FractionalScaleManager) GetFractionalScale(s *Surface) *FractionalScale {
	fs := new(FractionalScale)
	m.conn.register(fs, m.version)
	m.send(1, fs.id, s.id)
	return fs
}

// FractionalScale is a wp_fractional_scale_v1.
type FractionalScale struct {
	Proxy
	// OnPreferredScale receives the scale multiplied by 120.
	OnPreferredScale func(scale uint32)
}

func (*FractionalScale) Interface() string { return "wp_fractional_scale_v1" }

func (fs *FractionalScale) Destroy() {
	fs.send(0)
	fs.conn.destroy(fs)
}

func (fs *FractionalScale) dispatch(opcode uint16, d *decoder) {
	scale := d.uint()
	if h := fs.OnPreferredScale; h != nil && opcode == 0 && d.ok() {
		h(scale)
	}
}
