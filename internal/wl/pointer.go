// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wl

// Constraint lifetimes from pointer-constraints.
const (
	ConstraintLifetimeOneshot    = 1
	ConstraintLifetimePersistent = 2
)

// Cursor shapes from cursor-shape.
const (
	CursorShapeDefault = 1
)

// RelativePointerManager is the zwp_relative_pointer_manager_v1 global.
type RelativePointerManager struct {
	Proxy
}

func (*RelativePointerManager) Interface() string { return "zwp_relative_pointer_manager_v1" }

func (m *RelativePointerManager) Destroy() {
	m.send(0)
	m.conn.destroy(m)
}

func (m *RelativePointerManager) GetRelativePointer(p *Pointer) *RelativePointer {
	rp := new(RelativePointer)
	m.conn.register(rp, m.version)
	m.send(1, rp.id, p.id)
	return rp
}

// RelativePointer is a zwp_relative_pointer_v1.
type RelativePointer struct {
	Proxy
	// OnRelativeMotion receives the motion in surface coordinates
	// and the unaccelerated device motion. The timestamp is in
	// microseconds.
	OnRelativeMotion func(utime uint64, dx, dy, dxUnaccel, dyUnaccel float64)
}

func (*RelativePointer) Interface() string { return "zwp_relative_pointer_v1" }

func (rp *RelativePointer) Destroy() {
	rp.send(0)
	rp.conn.destroy(rp)
}

func (rp *RelativePointer) dispatch(opcode uint16, d *decoder) {
	hi, lo := d.uint(), d.uint()
	dx, dy, ux, uy := d.fixed(), d.fixed(), d.fixed(), d.fixed()
	if h := rp.OnRelativeMotion; h != nil && opcode == 0 && d.ok() {
		h(uint64(hi)<<32|uint64(lo), dx, dy, ux, uy)
	}
}

// PointerConstraints is the zwp_pointer_constraints_v1 global.
type PointerConstraints struct {
	Proxy
}

func (*PointerConstraints) Interface() string { return "zwp_pointer_constraints_v1" }

func (pc *PointerConstraints) Destroy() {
	pc.send(0)
	pc.conn.destroy(pc)
}

// LockPointer locks the pointer p to its position on the surface s.
func (pc *PointerConstraints) LockPointer(s *Surface, p *Pointer, lifetime uint32) *LockedPointer {
	lp := new(LockedPointer)
	pc.conn.register(lp, pc.version)
	pc.send(1, lp.id, s.id, p.id, ObjectID(0), lifetime)
	return lp
}

// ConfinePointer confines the pointer p to the surface s.
func (pc *PointerConstraints) ConfinePointer(s *Surface, p *Pointer, lifetime uint32) *ConfinedPointer {
	cp := new(ConfinedPointer)
	pc.conn.register(cp, pc.version)
	pc.send(2, cp.id, s.id, p.id, ObjectID(0), lifetime)
	return cp
}

// LockedPointer is a zwp_locked_pointer_v1.
type LockedPointer struct {
	Proxy
	OnLocked   func()
	OnUnlocked func()
}

func (*LockedPointer) Interface() string { return "zwp_locked_pointer_v1" }

func (lp *LockedPointer) Destroy() {
	lp.send(0)
	lp.conn.destroy(lp)
}

func (lp *LockedPointer) dispatch(opcode uint16, d *decoder) {
	h := lp.OnLocked
	if opcode == 1 {
		h = lp.OnUnlocked
	}
	if h != nil {
		h()
	}
}

// ConfinedPointer is a zwp_confined_pointer_v1.
type ConfinedPointer struct {
	Proxy
	OnConfined   func()
	OnUnconfined func()
}

func (*ConfinedPointer) Interface() string { return "zwp_confined_pointer_v1" }

func (cp *ConfinedPointer) Destroy() {
	cp.send(0)
	cp.conn.destroy(cp)
}

func (cp *ConfinedPointer) dispatch(opcode uint16, d *decoder) {
	h := cp.OnConfined
	if opcode == 1 {
		h = cp.OnUnconfined
	}
	if h != nil {
		h()
	}
}

// CursorShapeManager is the wp_cursor_shape_manager_v1 global.
type CursorShapeManager struct {
	Proxy
}

func (*CursorShapeManager) Interface() string { return "wp_cursor_shape_manager_v1" }

func (m *CursorShapeManager) Destroy() {
	m.send(0)
	m.conn.destroy(m)
}

func (m *CursorShapeManager) GetPointer(p *Pointer) *CursorShapeDevice {
	dev := new(CursorShapeDevice)
	m.conn.register(dev, m.version)
	m.send(1, dev.id, p.id)
	return dev
}

// CursorShapeDevice is a wp_cursor_shape_device_v1.
type CursorShapeDevice struct {
	Proxy
}

func (*CursorShapeDevice) Interface() string { return "wp_cursor_shape_device_v1" }

func (dev *CursorShapeDevice) Destroy() {
	dev.send(0)
	dev.conn.destroy(dev)
}

func (dev *CursorShapeDevice) SetShape(serial, shape uint32) {
	dev.send(1, serial, shape)
}
