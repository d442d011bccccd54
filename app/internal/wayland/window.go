// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package wayland

import (
	"fmt"
	"image"
	"weak"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"waywin.org/app/internal/wm"
	"waywin.org/internal/wl"
	"waywin.org/io/system"
)

// Window is an xdg_toplevel window.
type Window struct {
	s   *Session
	win *wm.Window

	surf       *wl.Surface
	wmBase     *wl.WmBase
	xdgSurf    *wl.XdgSurface
	topLvl     *wl.Toplevel
	decoration *wl.ToplevelDecoration
	viewport   *wl.Viewport
	fracScale  *wl.FractionalScale
	locked     *wl.LockedPointer
	confined   *wl.ConfinedPointer

	// outputs is the set of outputs the surface is on.
	outputs map[*wl.Output]struct{}
	// preferredScale is the scale from preferred_buffer_scale, or 0.
	preferredScale int32
	// fractionalScale is the scale from fractional-scale times 120,
	// or 0.
	fractionalScale uint32
	// bufferScale is the integer buffer scale when no viewport scales
	// the surface.
	bufferScale int32

	fullscreen bool
	buffers    []*shmBuffer
	destroyed  bool
}

// NewWindow creates a toplevel window for the platform independent
// state win. It blocks until the compositor sent the initial
// configuration.
func (s *Session) NewWindow(win *wm.Window, title, appID string) (*Window, error) {
	if s.wmBase == nil {
		return nil, fmt.Errorf("wayland: %w: no xdg_wm_base", wm.ErrWindowCreation)
	}
	if appID == "" {
		appID = s.cfg.AppID
	}
	w := &Window{
		s:           s,
		win:         win,
		outputs:     make(map[*wl.Output]struct{}),
		bufferScale: 1,
	}
	wp := weak.Make(w)
	w.surf = s.compositor.CreateSurface()
	s.surfaces[w.surf] = surfaceRef{id: win.ID(), window: wp}
	w.surf.OnEnter = func(o *wl.Output) {
		if w := wp.Value(); w != nil && o != nil {
			w.outputs[o] = struct{}{}
			w.updateScale()
		}
	}
	w.surf.OnLeave = func(o *wl.Output) {
		if w := wp.Value(); w != nil {
			w.leaveOutput(o)
		}
	}
	w.surf.OnPreferredBufferScale = func(factor int32) {
		if w := wp.Value(); w != nil {
			w.preferredScale = factor
			w.updateScale()
		}
	}
	if s.viewporter != nil && s.fracScale != nil {
		w.viewport = s.viewporter.GetViewport(w.surf)
		w.fracScale = s.fracScale.GetFractionalScale(w.surf)
		w.fracScale.OnPreferredScale = func(scale uint32) {
			if w := wp.Value(); w != nil {
				w.fractionalScale = scale
				w.updateScale()
			}
		}
	}

	w.wmBase = s.acquireWmBase()
	w.xdgSurf = w.wmBase.GetXdgSurface(w.surf)
	w.xdgSurf.OnConfigure = func(serial uint32) {
		if w := wp.Value(); w != nil {
			w.configure(serial)
		}
	}
	w.topLvl = w.xdgSurf.GetToplevel()
	w.topLvl.OnConfigure = func(width, height int32, states []uint32) {
		if w := wp.Value(); w != nil {
			w.fullscreen = slices.Contains(states, wl.ToplevelStateFullscreen)
			w.win.Propose(image.Pt(int(width), int(height)))
		}
	}
	w.topLvl.OnClose = func() {
		if w := wp.Value(); w != nil {
			w.s.loop.Queue().Push(w.win.ID(), system.CloseEvent{})
		}
	}
	w.topLvl.SetTitle(title)
	if appID != "" {
		w.topLvl.SetAppID(appID)
	}
	if s.decor != nil {
		w.decoration = s.decor.GetToplevelDecoration(w.topLvl)
		mode := uint32(wl.DecorationModeClientSide)
		if s.cfg.Decorated {
			mode = wl.DecorationModeServerSide
		}
		w.decoration.SetMode(mode)
		w.decoration.OnConfigure = func(mode uint32) {
			s.log.Debug("wayland: decoration mode", "window", win.ID(), "mode", mode)
		}
	}
	win.BeforePaint = func() {
		if w := wp.Value(); w != nil {
			w.requestFrame()
		}
	}
	w.surf.Commit()
	if err := s.conn.Roundtrip(); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("wayland: %w: %v", wm.ErrWindowCreation, err)
	}
	return w, nil
}

// configure completes a configure sequence.
func (w *Window) configure(serial uint32) {
	w.xdgSurf.AckConfigure(serial)
	w.s.log.Debug("wayland: configure", "window", w.win.ID(), "serial", serial)
	w.win.Ack()
	w.updateViewport()
}

func (w *Window) updateViewport() {
	if w.viewport == nil {
		return
	}
	size := w.win.Config().Size
	w.viewport.SetDestination(int32(size.X), int32(size.Y))
}

func (w *Window) leaveOutput(o *wl.Output) {
	if _, ok := w.outputs[o]; ok {
		delete(w.outputs, o)
		w.updateScale()
	}
}

// updateScale applies the scale of the most precise source: the
// fractional scale, the preferred buffer scale or the largest scale
// of the outputs the surface is on. With fractional scaling the
// integer hints are ignored, even before the first fractional scale.
func (w *Window) updateScale() {
	if w.fracScale != nil {
		if w.fractionalScale != 0 {
			w.win.SetScale(float64(w.fractionalScale) / 120)
		}
		return
	}
	scale := w.preferredScale
	if scale <= 0 {
		scale = 1
		for _, o := range maps.Keys(w.outputs) {
			scale = max(scale, w.s.outputScale(o))
		}
	}
	if w.viewport == nil {
		w.bufferScale = scale
	}
	w.win.SetScale(float64(scale))
}

func (w *Window) requestFrame() {
	cb := w.surf.Frame()
	w.win.FramePending()
	wp := weak.Make(w)
	cb.OnDone = func(uint32) {
		if w := wp.Value(); w != nil {
			w.win.FrameDone()
		}
	}
}

// SurfaceID returns the wl_surface object id.
func (w *Window) SurfaceID() uint32 {
	return uint32(w.surf.ID())
}

func (w *Window) SetTitle(title string) {
	w.topLvl.SetTitle(title)
}

func (w *Window) SetFullscreen(fullscreen bool) {
	if fullscreen {
		w.topLvl.SetFullscreen(nil)
	} else {
		w.topLvl.UnsetFullscreen()
	}
}

// Fullscreen reports the fullscreen state of the latest configure.
func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// LockPointer locks the pointer in place. Motion is then only
// reported as relative events.
func (w *Window) LockPointer() error {
	if w.locked != nil {
		return nil
	}
	p, err := w.constrainable()
	if err != nil {
		return err
	}
	w.UnconfinePointer()
	w.locked = w.s.constraints.LockPointer(w.surf, p, wl.ConstraintLifetimePersistent)
	return nil
}

func (w *Window) UnlockPointer() {
	if w.locked != nil {
		w.locked.Destroy()
		w.locked = nil
	}
}

// ConfinePointer confines the pointer to the window.
func (w *Window) ConfinePointer() error {
	if w.confined != nil {
		return nil
	}
	p, err := w.constrainable()
	if err != nil {
		return err
	}
	w.UnlockPointer()
	w.confined = w.s.constraints.ConfinePointer(w.surf, p, wl.ConstraintLifetimePersistent)
	return nil
}

func (w *Window) UnconfinePointer() {
	if w.confined != nil {
		w.confined.Destroy()
		w.confined = nil
	}
}

func (w *Window) constrainable() (*wl.Pointer, error) {
	if w.s.constraints == nil {
		return nil, fmt.Errorf("wayland: pointer constraints: %w", wm.ErrNotSupported)
	}
	if w.s.seat == nil || w.s.seat.pointer == nil {
		return nil, fmt.Errorf("wayland: no pointer: %w", wm.ErrNotSupported)
	}
	return w.s.seat.pointer, nil
}

func (w *Window) dropConstraints() {
	w.UnlockPointer()
	w.UnconfinePointer()
}

// Destroy destroys the native objects of the window.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	s := w.s
	if s.seat != nil {
		s.seat.forget(w)
	}
	w.dropConstraints()
	for _, b := range w.buffers {
		b.destroy()
	}
	w.buffers = nil
	if w.viewport != nil {
		w.viewport.Destroy()
	}
	if w.fracScale != nil {
		w.fracScale.Destroy()
	}
	if w.decoration != nil {
		w.decoration.Destroy()
	}
	if w.topLvl != nil {
		w.topLvl.Destroy()
	}
	if w.xdgSurf != nil {
		w.xdgSurf.Destroy()
	}
	if w.wmBase != nil {
		s.releaseWmBase()
		w.wmBase = nil
	}
	delete(s.surfaces, w.surf)
	w.surf.Destroy()
	w.win.BeforePaint = nil
}
