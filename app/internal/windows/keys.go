// SPDX-License-Identifier: Unlicense OR MIT

// Package windows implements the window system on Win32. Its key
// translation tables are portable so they can be tested anywhere.
package windows

import (
	"waywin.org/app/internal/evdev"
	"waywin.org/io/key"
)

// extended marks native key codes of keys sent with the E0 prefix.
// Native key codes are the set 1 scancode of WM_KEYDOWN messages
// or'ed with extended.
const extended = 0x100

// extendedCodes maps the extended scancodes to evdev codes.
var extendedCodes = map[uint32]uint32{
	0x1c: 96,  // KP Enter
	0x1d: 97,  // Right Ctrl
	0x35: 98,  // KP /
	0x37: 99,  // Print Screen
	0x38: 100, // Right Alt
	0x45: 69,  // Num Lock
	0x47: 102, // Home
	0x48: 103, // Up
	0x49: 104, // Page Up
	0x4b: 105, // Left
	0x4d: 106, // Right
	0x4f: 107, // End
	0x50: 108, // Down
	0x51: 109, // Page Down
	0x52: 110, // Insert
	0x53: 111, // Delete
	0x5b: 125, // Left Windows
	0x5c: 126, // Right Windows
	0x5d: 127, // Menu
}

// evdevCode converts a native key code to its evdev equivalent, or 0.
func evdevCode(code uint32) uint32 {
	sc := code &^ extended
	if code&extended != 0 {
		return extendedCodes[sc]
	}
	switch {
	case sc == 0x45:
		// Pause is reported without the extended flag, Num Lock
		// with it.
		return 119
	case sc < 0x59:
		// Set 1 scancodes of the main block equal evdev codes.
		return sc
	}
	return 0
}

// physical returns the physical key of a native key code.
func physical(code uint32) key.Physical {
	p := evdev.Physical(evdevCode(code))
	p.Scancode = code
	return p
}

// nativeCode extracts the native key code from the lParam of a key
// message.
func nativeCode(lParam uintptr) uint32 {
	code := uint32(lParam>>16) & 0xff
	if lParam&(1<<24) != 0 {
		code |= extended
	}
	return code
}

// Virtual key codes.
const (
	_VK_LBUTTON  = 0x01
	_VK_RBUTTON  = 0x02
	_VK_MBUTTON  = 0x04
	_VK_XBUTTON1 = 0x05
	_VK_XBUTTON2 = 0x06
	_VK_BACK     = 0x08
	_VK_TAB      = 0x09
	_VK_RETURN   = 0x0d
	_VK_SHIFT    = 0x10
	_VK_CONTROL  = 0x11
	_VK_MENU     = 0x12
	_VK_PAUSE    = 0x13
	_VK_CAPITAL  = 0x14
	_VK_ESCAPE   = 0x1b
	_VK_SPACE    = 0x20
	_VK_PRIOR    = 0x21
	_VK_NEXT     = 0x22
	_VK_END      = 0x23
	_VK_HOME     = 0x24
	_VK_LEFT     = 0x25
	_VK_UP       = 0x26
	_VK_RIGHT    = 0x27
	_VK_DOWN     = 0x28
	_VK_SNAPSHOT = 0x2c
	_VK_INSERT   = 0x2d
	_VK_DELETE   = 0x2e
	_VK_LWIN     = 0x5b
	_VK_RWIN     = 0x5c
	_VK_APPS     = 0x5d
	_VK_F1       = 0x70
	_VK_F12      = 0x7b
	_VK_NUMLOCK  = 0x90
	_VK_SCROLL   = 0x91
	_VK_LSHIFT   = 0xa0
	_VK_RSHIFT   = 0xa1
	_VK_LCONTROL = 0xa2
	_VK_RCONTROL = 0xa3
	_VK_LMENU    = 0xa4
	_VK_RMENU    = 0xa5
)

var fKeys = [...]key.Name{
	key.NameF1, key.NameF2, key.NameF3, key.NameF4, key.NameF5, key.NameF6,
	key.NameF7, key.NameF8, key.NameF9, key.NameF10, key.NameF11, key.NameF12,
}

// vkName returns the name of the non-character virtual key vk.
func vkName(vk uint32, code uint32) (key.Name, bool) {
	if _VK_F1 <= vk && vk <= _VK_F12 {
		return fKeys[vk-_VK_F1], true
	}
	var n key.Name
	switch vk {
	case _VK_BACK:
		n = key.NameDeleteBackward
	case _VK_TAB:
		n = key.NameTab
	case _VK_RETURN:
		n = key.NameReturn
		if code&extended != 0 {
			n = key.NameEnter
		}
	case _VK_SHIFT, _VK_LSHIFT, _VK_RSHIFT:
		n = key.NameShift
	case _VK_CONTROL, _VK_LCONTROL, _VK_RCONTROL:
		n = key.NameCtrl
	case _VK_MENU, _VK_LMENU:
		n = key.NameAlt
	case _VK_RMENU:
		n = key.NameAltGr
	case _VK_PAUSE:
		n = key.NamePause
	case _VK_CAPITAL:
		n = key.NameCapsLock
	case _VK_ESCAPE:
		n = key.NameEscape
	case _VK_SPACE:
		n = key.NameSpace
	case _VK_PRIOR:
		n = key.NamePageUp
	case _VK_NEXT:
		n = key.NamePageDown
	case _VK_END:
		n = key.NameEnd
	case _VK_HOME:
		n = key.NameHome
	case _VK_LEFT:
		n = key.NameLeftArrow
	case _VK_UP:
		n = key.NameUpArrow
	case _VK_RIGHT:
		n = key.NameRightArrow
	case _VK_DOWN:
		n = key.NameDownArrow
	case _VK_SNAPSHOT:
		n = key.NamePrintScreen
	case _VK_INSERT:
		n = key.NameInsert
	case _VK_DELETE:
		n = key.NameDeleteForward
	case _VK_LWIN, _VK_RWIN:
		n = key.NameSuper
	case _VK_APPS:
		n = key.NameMenu
	case _VK_NUMLOCK:
		n = key.NameNumLock
	case _VK_SCROLL:
		n = key.NameScrollLock
	default:
		return "", false
	}
	return n, true
}
