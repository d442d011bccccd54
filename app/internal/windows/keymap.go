// SPDX-License-Identifier: Unlicense OR MIT

//go:build windows

package windows

import (
	"unicode"
	"unicode/utf16"

	"waywin.org/app/internal/input"
	"waywin.org/io/key"
)

// keymap translates keys with the keyboard layout of the thread. The
// system tracks the modifier state and repeats keys itself.
type keymap struct {
	buf [16]uint16
}

// Flag for ToUnicodeEx to leave the dead key state alone.
const _TOUNICODE_NOSTATE = 0x4

// Lookup implements input.Keymap.
func (k *keymap) Lookup(code uint32, down bool) input.Symbol {
	hkl := getKeyboardLayout()
	sc := code &^ extended
	if code&extended != 0 {
		sc |= 0xe000
	}
	vk := mapVirtualKey(sc, hkl)
	if n, ok := vkName(vk, code); ok {
		l := key.Named(n)
		return input.Symbol{Logical: l, Unmodified: l}
	}
	var state [256]byte
	getKeyboardState(&state)
	raw := k.translate(vk, sc, &state, _TOUNICODE_NOSTATE, hkl)
	// Control characters are not logical keys; AltGr sets both Ctrl
	// and Alt and is kept.
	sym := state
	if sym[_VK_RMENU]&0x80 == 0 {
		sym[_VK_CONTROL], sym[_VK_LCONTROL], sym[_VK_RCONTROL] = 0, 0, 0
	}
	var plain [256]byte
	s := input.Symbol{
		Logical:    charLogical(k.translate(vk, sc, &sym, _TOUNICODE_NOSTATE, hkl), vk),
		Unmodified: charLogical(k.translate(vk, sc, &plain, _TOUNICODE_NOSTATE, hkl), vk),
		TextRaw:    printableOnly(raw),
	}
	if down {
		// Feed dead keys.
		s.Text = printableOnly(k.translate(vk, sc, &state, 0, hkl))
	}
	return s
}

func (k *keymap) translate(vk, sc uint32, state *[256]byte, flags uint32, hkl uintptr) string {
	n := toUnicodeEx(vk, sc, state, k.buf[:], flags, hkl)
	if n <= 0 {
		return ""
	}
	return string(utf16.Decode(k.buf[:n]))
}

func charLogical(s string, vk uint32) key.Logical {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return key.Unknown(vk)
		}
	}
	if s == "" {
		return key.Unknown(vk)
	}
	return key.Char(s)
}

func printableOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// Repeats implements input.Keymap. The system sends repeated
// WM_KEYDOWN messages.
func (k *keymap) Repeats(code uint32) bool {
	return false
}

// UpdateModifiers implements input.Keymap.
func (k *keymap) UpdateModifiers(depressed, latched, locked, group uint32) {}

// Modifiers implements input.Keymap.
func (k *keymap) Modifiers() key.Modifiers {
	var mods key.Modifiers
	// The high bit is set while the key is down.
	down := func(vk int32) bool {
		return getKeyState(vk) < 0
	}
	if down(_VK_CONTROL) {
		mods |= key.ModCtrl
	}
	if down(_VK_SHIFT) {
		mods |= key.ModShift
	}
	if down(_VK_MENU) {
		mods |= key.ModAlt
	}
	if down(_VK_LWIN) || down(_VK_RWIN) {
		mods |= key.ModSuper
	}
	if getKeyState(_VK_CAPITAL)&1 != 0 {
		mods |= key.ModCapsLock
	}
	return mods
}

// Destroy implements input.Keymap.
func (k *keymap) Destroy() {}
