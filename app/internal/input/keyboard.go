// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"log/slog"
	"time"

	"waywin.org/app/internal/wm"
	"waywin.org/io/event"
	"waywin.org/io/key"
)

// Default repeat parameters, for devices that never announce their
// own.
const (
	DefaultRepeatRate  = 25
	DefaultRepeatDelay = 600
)

// Keyboard tracks keyboard focus and autorepeat for one keyboard
// device. It must only be used from the loop goroutine.
type Keyboard struct {
	loop     *wm.Loop
	log      *slog.Logger
	physical func(code uint32) key.Physical
	keymap   Keymap

	focus event.WindowID

	delay    time.Duration
	interval time.Duration
	repeat   *repeatState
}

// repeatState is the autorepeat schedule of a held key.
type repeatState struct {
	code   uint32
	window event.WindowID
	event  key.Event
	timer  *wm.Timer
}

// NewKeyboard returns a keyboard delivering to loop. The physical
// function maps native codes to physical keys.
func NewKeyboard(loop *wm.Loop, physical func(code uint32) key.Physical) *Keyboard {
	k := &Keyboard{
		loop:     loop,
		log:      loop.Log(),
		physical: physical,
	}
	k.SetRepeat(DefaultRepeatRate, DefaultRepeatDelay)
	return k
}

// SetKeymap replaces the keymap, destroying the previous one.
func (k *Keyboard) SetKeymap(km Keymap) {
	k.cancelRepeat()
	if k.keymap != nil {
		k.keymap.Destroy()
	}
	k.keymap = km
}

// Keymap returns the current keymap, or nil.
func (k *Keyboard) Keymap() Keymap {
	return k.keymap
}

// Focused returns the window with keyboard focus, or zero.
func (k *Keyboard) Focused() event.WindowID {
	return k.focus
}

// Enter gives the keyboard focus to the window id.
func (k *Keyboard) Enter(id event.WindowID) {
	if id == k.focus {
		return
	}
	if !k.loop.Registry().Alive(id) {
		k.log.Warn("keyboard enter for unknown window", "window", id)
		return
	}
	if k.focus != 0 {
		k.leave()
	}
	k.focus = id
	k.loop.Queue().Push(id, key.FocusEvent{Focus: true})
}

// Leave removes the keyboard focus from the window id.
func (k *Keyboard) Leave(id event.WindowID) {
	if id == 0 || id != k.focus {
		k.log.Warn("keyboard leave for unfocused window", "window", id, "focus", k.focus)
		return
	}
	k.leave()
}

func (k *Keyboard) leave() {
	k.cancelRepeat()
	k.loop.Queue().Push(k.focus, key.FocusEvent{Focus: false})
	k.focus = 0
}

// Key delivers a key press or release to the focused window.
func (k *Keyboard) Key(code uint32, down bool) {
	if k.focus == 0 {
		k.log.Warn("key without keyboard focus", "code", code)
		return
	}
	e := k.event(code, down)
	if !down {
		if r := k.repeat; r != nil && r.code == code {
			k.cancelRepeat()
		}
		k.loop.Queue().Push(k.focus, e)
		return
	}
	repeats := k.interval > 0 && k.keymap != nil && k.keymap.Repeats(code)
	if repeats {
		k.cancelRepeat()
	}
	k.loop.Queue().Push(k.focus, e)
	if repeats {
		r := &repeatState{code: code, window: k.focus, event: e}
		r.timer = k.loop.Timers().AfterFunc(k.delay, func() { k.fire(r) })
		k.repeat = r
	}
}

func (k *Keyboard) event(code uint32, down bool) key.Event {
	e := key.Event{
		State:    key.Release,
		Physical: k.physical(code),
		Logical:  key.Unknown(0),
	}
	if down {
		e.State = key.Press
	}
	if k.keymap == nil {
		return e
	}
	sym := k.keymap.Lookup(code, down)
	e.Logical = sym.Logical
	e.Unmodified = sym.Unmodified
	e.Modifiers = k.keymap.Modifiers()
	if down {
		e.Text = sym.Text
		e.TextRaw = sym.TextRaw
	}
	return e
}

func (k *Keyboard) fire(r *repeatState) {
	if k.repeat != r {
		return
	}
	if k.focus != r.window || !k.loop.Registry().Alive(r.window) {
		k.repeat = nil
		return
	}
	k.loop.Queue().Push(r.window, r.event)
	r.timer = k.loop.Timers().AfterFunc(k.interval, func() { k.fire(r) })
}

func (k *Keyboard) cancelRepeat() {
	if k.repeat == nil {
		return
	}
	k.repeat.timer.Stop()
	k.repeat = nil
}

// Repeating reports whether a key is being repeated.
func (k *Keyboard) Repeating() bool {
	return k.repeat != nil
}

// Modifiers updates the modifier state. No event is delivered.
func (k *Keyboard) Modifiers(depressed, latched, locked, group uint32) {
	if k.keymap == nil {
		return
	}
	k.keymap.UpdateModifiers(depressed, latched, locked, group)
}

// SetRepeat sets the repeat rate in keys per second and the delay
// before repeating in milliseconds. A zero rate disables repeating.
// A repeating key stops when the parameters change.
func (k *Keyboard) SetRepeat(rate, delay int32) {
	var interval, d time.Duration
	if rate > 0 {
		interval = max(time.Second/time.Duration(rate), time.Millisecond)
		d = time.Duration(max(delay, 0)) * time.Millisecond
	}
	if interval == k.interval && d == k.delay {
		return
	}
	k.interval, k.delay = interval, d
	k.cancelRepeat()
}

// Forget drops the focus of the destroyed window id without events.
func (k *Keyboard) Forget(id event.WindowID) {
	if k.focus != id {
		return
	}
	k.cancelRepeat()
	k.focus = 0
}

// Release is called when the keyboard device goes away.
func (k *Keyboard) Release() {
	if k.focus != 0 {
		k.leave()
	}
	k.SetKeymap(nil)
}
