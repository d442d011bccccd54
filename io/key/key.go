// SPDX-License-Identifier: Unlicense OR MIT

/*
Package key implements key and focus events.

A key Event carries two views of the same key transition: its
Physical identity, which does not depend on the keyboard layout, and
its Logical meaning under the active layout and modifiers.
*/
package key

import (
	"fmt"
	"strings"
)

// Event is generated when a key is pressed or released. Autorepeat
// re-sends the Press event of the held key unchanged.
type Event struct {
	State State
	// Physical is the layout independent identity of the key.
	Physical Physical
	// Logical is the meaning of the key under the active layout
	// and modifiers.
	Logical Logical
	// Unmodified is the meaning of the key with all modifiers
	// released, for matching shortcuts.
	Unmodified Logical
	// Text is the text the key commits, if any.
	Text string
	// TextRaw is the text produced by the key including control
	// characters, such as "\x01" for ctrl-a.
	TextRaw string
	// Modifiers is the set of active modifiers when the key was
	// pressed.
	Modifiers Modifiers
}

// FocusEvent is sent when a window gains or loses keyboard focus.
type FocusEvent struct {
	Focus bool
}

// State is the state of a key during an event.
type State uint8

const (
	// Press is the state of a pressed key.
	Press State = iota
	// Release is the state of a key that has been released.
	Release
)

// Modifiers
type Modifiers uint32

const (
	// ModCtrl is the ctrl modifier key.
	ModCtrl Modifiers = 1 << iota
	// ModShift is the shift modifier key.
	ModShift
	// ModAlt is the alt modifier key.
	ModAlt
	// ModSuper is the "logo" modifier key, often
	// represented by a Windows logo.
	ModSuper
	// ModCapsLock is set while caps lock is engaged.
	ModCapsLock
)

// Name is the identifier for a named, non-character key.
type Name string

const (
	// Names for special keys.
	NameLeftArrow      Name = "←"
	NameRightArrow     Name = "→"
	NameUpArrow        Name = "↑"
	NameDownArrow      Name = "↓"
	NameReturn         Name = "⏎"
	NameEnter          Name = "⌤"
	NameEscape         Name = "⎋"
	NameHome           Name = "⇱"
	NameEnd            Name = "⇲"
	NameDeleteBackward Name = "⌫"
	NameDeleteForward  Name = "⌦"
	NamePageUp         Name = "⇞"
	NamePageDown       Name = "⇟"
	NameInsert         Name = "Insert"
	NameTab            Name = "Tab"
	NameSpace          Name = "Space"
	NameCtrl           Name = "Ctrl"
	NameShift          Name = "Shift"
	NameAlt            Name = "Alt"
	NameAltGr          Name = "AltGr"
	NameSuper          Name = "Super"
	NameMenu           Name = "Menu"
	NameCapsLock       Name = "CapsLock"
	NameNumLock        Name = "NumLock"
	NameScrollLock     Name = "ScrollLock"
	NamePrintScreen    Name = "PrintScreen"
	NamePause          Name = "Pause"
	NameF1             Name = "F1"
	NameF2             Name = "F2"
	NameF3             Name = "F3"
	NameF4             Name = "F4"
	NameF5             Name = "F5"
	NameF6             Name = "F6"
	NameF7             Name = "F7"
	NameF8             Name = "F8"
	NameF9             Name = "F9"
	NameF10            Name = "F10"
	NameF11            Name = "F11"
	NameF12            Name = "F12"
)

// Logical is the layout dependent meaning of a key. Named keys set
// Name, character keys set Char. A key that is neither carries the
// native symbol value in Sym.
type Logical struct {
	Name Name
	Char string
	Sym  uint32
}

// Physical identifies a key independent of the keyboard layout. Code
// is CodeUnknown for keys without a portable code, in which case
// Scancode is the only identity.
type Physical struct {
	Code     Code
	Scancode uint32
}

// Named returns the Logical for the named key n.
func Named(n Name) Logical {
	return Logical{Name: n}
}

// Char returns the Logical for a key producing the text s.
func Char(s string) Logical {
	return Logical{Char: s}
}

// Unknown returns the Logical for the unrecognized native symbol sym.
func Unknown(sym uint32) Logical {
	return Logical{Sym: sym}
}

// IsUnknown reports whether l is neither a named nor a character key.
func (l Logical) IsUnknown() bool {
	return l.Name == "" && l.Char == ""
}

func (l Logical) String() string {
	switch {
	case l.Name != "":
		return string(l.Name)
	case l.Char != "":
		return fmt.Sprintf("%q", l.Char)
	default:
		return fmt.Sprintf("Unknown(%#x)", l.Sym)
	}
}

func (p Physical) String() string {
	if p.Code == CodeUnknown {
		return fmt.Sprintf("Scancode(%#x)", p.Scancode)
	}
	return p.Code.String()
}

// Contain reports whether m contains all modifiers
// in m2.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

func (Event) ImplementsEvent()      {}
func (FocusEvent) ImplementsEvent() {}

func (m Modifiers) String() string {
	var strs []string
	if m.Contain(ModCtrl) {
		strs = append(strs, string(NameCtrl))
	}
	if m.Contain(ModShift) {
		strs = append(strs, string(NameShift))
	}
	if m.Contain(ModAlt) {
		strs = append(strs, string(NameAlt))
	}
	if m.Contain(ModSuper) {
		strs = append(strs, string(NameSuper))
	}
	if m.Contain(ModCapsLock) {
		strs = append(strs, string(NameCapsLock))
	}
	return strings.Join(strs, "-")
}

func (s State) String() string {
	switch s {
	case Press:
		return "Press"
	case Release:
		return "Release"
	default:
		panic("invalid State")
	}
}
