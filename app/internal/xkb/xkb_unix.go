// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

// Package xkb implements keymaps for the X Keyboard Extension library.
// libxkbcommon is loaded at run time so that programs build without
// cgo.
package xkb

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	"waywin.org/app/internal/input"
	"waywin.org/io/key"
)

// Keymap is a compiled keymap with its modifier and compose state.
type Keymap struct {
	ctx       uintptr
	keyMap    uintptr
	state     uintptr
	plain     uintptr
	compTable uintptr
	compState uintptr
	utf8Buf   []byte
}

const (
	_XKB_CONTEXT_NO_FLAGS       = 0
	_XKB_KEYMAP_FORMAT_TEXT_V1  = 1
	_XKB_KEYMAP_COMPILE_NO_FLAG = 0
	_XKB_STATE_MODS_EFFECTIVE   = 1 << 3

	_XKB_COMPOSE_NOTHING   = 0
	_XKB_COMPOSE_COMPOSING = 1
	_XKB_COMPOSE_COMPOSED  = 2
	_XKB_COMPOSE_CANCELLED = 3
)

const (
	_XKB_MOD_NAME_CTRL  = "Control"
	_XKB_MOD_NAME_SHIFT = "Shift"
	_XKB_MOD_NAME_CAPS  = "Lock"
	_XKB_MOD_NAME_ALT   = "Mod1"
	_XKB_MOD_NAME_LOGO  = "Mod4"
)

var (
	loadOnce sync.Once
	loadErr  error

	xkb_context_new              func(flags int32) uintptr
	xkb_context_unref            func(ctx uintptr)
	xkb_keymap_new_from_buffer   func(ctx uintptr, buf *byte, size uintptr, format, flags int32) uintptr
	xkb_keymap_unref             func(keymap uintptr)
	xkb_keymap_key_repeats       func(keymap uintptr, keycode uint32) int32
	xkb_state_new                func(keymap uintptr) uintptr
	xkb_state_unref              func(state uintptr)
	xkb_state_update_mask        func(state uintptr, depressed, latched, locked, depressedLayout, latchedLayout, lockedLayout uint32) int32
	xkb_state_key_get_one_sym    func(state uintptr, keycode uint32) uint32
	xkb_state_key_get_utf8       func(state uintptr, keycode uint32, buf *byte, size uintptr) int32
	xkb_state_mod_name_is_active func(state uintptr, name string, typ int32) int32
	xkb_keysym_to_utf8           func(sym uint32, buf *byte, size uintptr) int32

	xkb_compose_table_new_from_locale func(ctx uintptr, locale string, flags int32) uintptr
	xkb_compose_table_unref           func(table uintptr)
	xkb_compose_state_new             func(table uintptr, flags int32) uintptr
	xkb_compose_state_unref           func(state uintptr)
	xkb_compose_state_feed            func(state uintptr, sym uint32) int32
	xkb_compose_state_reset           func(state uintptr)
	xkb_compose_state_get_status      func(state uintptr) int32
	xkb_compose_state_get_utf8        func(state uintptr, buf *byte, size uintptr) int32
)

func load() error {
	loadOnce.Do(func() {
		lib, err := purego.Dlopen("libxkbcommon.so.0", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("xkb: %v", err)
			return
		}
		purego.RegisterLibFunc(&xkb_context_new, lib, "xkb_context_new")
		purego.RegisterLibFunc(&xkb_context_unref, lib, "xkb_context_unref")
		purego.RegisterLibFunc(&xkb_keymap_new_from_buffer, lib, "xkb_keymap_new_from_buffer")
		purego.RegisterLibFunc(&xkb_keymap_unref, lib, "xkb_keymap_unref")
		purego.RegisterLibFunc(&xkb_keymap_key_repeats, lib, "xkb_keymap_key_repeats")
		purego.RegisterLibFunc(&xkb_state_new, lib, "xkb_state_new")
		purego.RegisterLibFunc(&xkb_state_unref, lib, "xkb_state_unref")
		purego.RegisterLibFunc(&xkb_state_update_mask, lib, "xkb_state_update_mask")
		purego.RegisterLibFunc(&xkb_state_key_get_one_sym, lib, "xkb_state_key_get_one_sym")
		purego.RegisterLibFunc(&xkb_state_key_get_utf8, lib, "xkb_state_key_get_utf8")
		purego.RegisterLibFunc(&xkb_state_mod_name_is_active, lib, "xkb_state_mod_name_is_active")
		purego.RegisterLibFunc(&xkb_keysym_to_utf8, lib, "xkb_keysym_to_utf8")
		purego.RegisterLibFunc(&xkb_compose_table_new_from_locale, lib, "xkb_compose_table_new_from_locale")
		purego.RegisterLibFunc(&xkb_compose_table_unref, lib, "xkb_compose_table_unref")
		purego.RegisterLibFunc(&xkb_compose_state_new, lib, "xkb_compose_state_new")
		purego.RegisterLibFunc(&xkb_compose_state_unref, lib, "xkb_compose_state_unref")
		purego.RegisterLibFunc(&xkb_compose_state_feed, lib, "xkb_compose_state_feed")
		purego.RegisterLibFunc(&xkb_compose_state_reset, lib, "xkb_compose_state_reset")
		purego.RegisterLibFunc(&xkb_compose_state_get_status, lib, "xkb_compose_state_get_status")
		purego.RegisterLibFunc(&xkb_compose_state_get_utf8, lib, "xkb_compose_state_get_utf8")
	})
	return loadErr
}

// Destroy releases the keymap.
func (x *Keymap) Destroy() {
	if x.compState != 0 {
		xkb_compose_state_unref(x.compState)
		x.compState = 0
	}
	if x.compTable != 0 {
		xkb_compose_table_unref(x.compTable)
		x.compTable = 0
	}
	if x.plain != 0 {
		xkb_state_unref(x.plain)
		x.plain = 0
	}
	if x.state != 0 {
		xkb_state_unref(x.state)
		x.state = 0
	}
	if x.keyMap != 0 {
		xkb_keymap_unref(x.keyMap)
		x.keyMap = 0
	}
	if x.ctx != 0 {
		xkb_context_unref(x.ctx)
		x.ctx = 0
	}
}

// New compiles the text keymap of the given size shared through the
// file descriptor fd. The caller keeps ownership of fd.
func New(fd int, size int) (*Keymap, error) {
	if err := load(); err != nil {
		return nil, err
	}
	if size <= 1 {
		return nil, errors.New("xkb: empty keymap")
	}
	x := &Keymap{
		ctx:     xkb_context_new(_XKB_CONTEXT_NO_FLAGS),
		utf8Buf: make([]byte, 16),
	}
	if x.ctx == 0 {
		return nil, errors.New("xkb: xkb_context_new failed")
	}
	mapData, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		x.Destroy()
		return nil, fmt.Errorf("xkb: mmap of keymap failed: %v", err)
	}
	defer unix.Munmap(mapData)
	// The keymap string is NUL terminated.
	x.keyMap = xkb_keymap_new_from_buffer(x.ctx, &mapData[0], uintptr(size-1), _XKB_KEYMAP_FORMAT_TEXT_V1, _XKB_KEYMAP_COMPILE_NO_FLAG)
	if x.keyMap == 0 {
		x.Destroy()
		return nil, errors.New("xkb: xkb_keymap_new_from_buffer failed")
	}
	x.state = xkb_state_new(x.keyMap)
	x.plain = xkb_state_new(x.keyMap)
	if x.state == 0 || x.plain == 0 {
		x.Destroy()
		return nil, errors.New("xkb: xkb_state_new failed")
	}
	// Compose support is optional.
	x.compTable = xkb_compose_table_new_from_locale(x.ctx, locale(), 0)
	if x.compTable != 0 {
		x.compState = xkb_compose_state_new(x.compTable, 0)
	}
	return x, nil
}

func locale() string {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if l := os.Getenv(env); l != "" {
			return l
		}
	}
	return "C"
}

// Lookup implements input.Keymap.
func (x *Keymap) Lookup(code uint32, down bool) input.Symbol {
	kc := mapXKBKeyCode(code)
	sym := xkb_state_key_get_one_sym(x.state, kc)
	raw := x.keyUTF8(x.state, kc)
	s := input.Symbol{
		Logical:    logical(sym, x.keysymUTF8(sym)),
		Unmodified: x.unmodified(kc),
		TextRaw:    raw,
	}
	if !down {
		return s
	}
	text := raw
	if x.compState != 0 {
		xkb_compose_state_feed(x.compState, sym)
		switch xkb_compose_state_get_status(x.compState) {
		case _XKB_COMPOSE_COMPOSING:
			return s
		case _XKB_COMPOSE_CANCELLED:
			xkb_compose_state_reset(x.compState)
			return s
		case _XKB_COMPOSE_COMPOSED:
			text = x.composed()
			xkb_compose_state_reset(x.compState)
		}
	}
	s.Text = printableOnly([]byte(text))
	return s
}

func (x *Keymap) unmodified(kc uint32) key.Logical {
	sym := xkb_state_key_get_one_sym(x.plain, kc)
	return logical(sym, x.keysymUTF8(sym))
}

// getUTF8 calls f with a buffer large enough for its result.
func (x *Keymap) getUTF8(f func(buf *byte, size uintptr) int32) string {
	n := f(&x.utf8Buf[0], uintptr(len(x.utf8Buf)))
	if int(n) >= len(x.utf8Buf) {
		x.utf8Buf = make([]byte, n+1)
		n = f(&x.utf8Buf[0], uintptr(len(x.utf8Buf)))
	}
	if n <= 0 {
		return ""
	}
	return string(x.utf8Buf[:n])
}

func (x *Keymap) keyUTF8(state uintptr, kc uint32) string {
	return x.getUTF8(func(buf *byte, size uintptr) int32 {
		return xkb_state_key_get_utf8(state, kc, buf, size)
	})
}

func (x *Keymap) composed() string {
	return x.getUTF8(func(buf *byte, size uintptr) int32 {
		return xkb_compose_state_get_utf8(x.compState, buf, size)
	})
}

func (x *Keymap) keysymUTF8(sym uint32) string {
	// xkb_keysym_to_utf8 counts the terminating NUL and fails
	// instead of truncating; 8 bytes always suffice.
	var buf [8]byte
	n := xkb_keysym_to_utf8(sym, &buf[0], uintptr(len(buf)))
	if n <= 1 {
		return ""
	}
	return string(buf[:n-1])
}

// Repeats implements input.Keymap.
func (x *Keymap) Repeats(code uint32) bool {
	return xkb_keymap_key_repeats(x.keyMap, mapXKBKeyCode(code)) == 1
}

// UpdateModifiers implements input.Keymap.
func (x *Keymap) UpdateModifiers(depressed, latched, locked, group uint32) {
	xkb_state_update_mask(x.state, depressed, latched, locked, group, group, group)
	// The plain state tracks the layout only.
	xkb_state_update_mask(x.plain, 0, 0, 0, group, group, group)
}

// Modifiers implements input.Keymap.
func (x *Keymap) Modifiers() key.Modifiers {
	var mods key.Modifiers
	active := func(name string) bool {
		return xkb_state_mod_name_is_active(x.state, name, _XKB_STATE_MODS_EFFECTIVE) == 1
	}
	if active(_XKB_MOD_NAME_CTRL) {
		mods |= key.ModCtrl
	}
	if active(_XKB_MOD_NAME_SHIFT) {
		mods |= key.ModShift
	}
	if active(_XKB_MOD_NAME_ALT) {
		mods |= key.ModAlt
	}
	if active(_XKB_MOD_NAME_LOGO) {
		mods |= key.ModSuper
	}
	if active(_XKB_MOD_NAME_CAPS) {
		mods |= key.ModCapsLock
	}
	return mods
}

func mapXKBKeyCode(keyCode uint32) uint32 {
	// According to the xkb_v1 spec: "to determine the xkb keycode, clients must add 8 to the key event keycode."
	return keyCode + 8
}

var _ input.Keymap = (*Keymap)(nil)
