// SPDX-License-Identifier: Unlicense OR MIT

// Package input implements the keyboard and pointer state machines
// shared by the platform backends.
package input

import (
	"waywin.org/io/key"
)

// Keymap translates native key codes to symbols under the current
// layout and modifier state.
type Keymap interface {
	// Lookup returns the symbol for the key with the native code.
	// Presses feed dead key and compose sequences.
	Lookup(code uint32, down bool) Symbol
	// Repeats reports whether the key should be repeated by the
	// client while held.
	Repeats(code uint32) bool
	// UpdateModifiers updates the modifier state from serialized
	// modifier masks.
	UpdateModifiers(depressed, latched, locked, group uint32)
	// Modifiers returns the active modifiers.
	Modifiers() key.Modifiers
	// Destroy releases the native resources of the keymap.
	Destroy()
}

// Symbol is the result of a keymap lookup.
type Symbol struct {
	Logical    key.Logical
	Unmodified key.Logical
	Text       string
	TextRaw    string
}
