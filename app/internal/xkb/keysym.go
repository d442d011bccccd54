// SPDX-License-Identifier: Unlicense OR MIT

package xkb

import (
	"unicode"
	"unicode/utf8"

	"waywin.org/io/key"
)

// Keysyms from xkbcommon-keysyms.h.
const (
	keyBackSpace    = 0xff08
	keyTab          = 0xff09
	keyReturn       = 0xff0d
	keyPause        = 0xff13
	keyScrollLock   = 0xff14
	keyEscape       = 0xff1b
	keyHome         = 0xff50
	keyLeft         = 0xff51
	keyUp           = 0xff52
	keyRight        = 0xff53
	keyDown         = 0xff54
	keyPageUp       = 0xff55
	keyPageDown     = 0xff56
	keyEnd          = 0xff57
	keyPrint        = 0xff61
	keyInsert       = 0xff63
	keyMenu         = 0xff67
	keyNumLock      = 0xff7f
	keyKPSpace      = 0xff80
	keyKPTab        = 0xff89
	keyKPEnter      = 0xff8d
	keyKPHome       = 0xff95
	keyKPLeft       = 0xff96
	keyKPUp         = 0xff97
	keyKPRight      = 0xff98
	keyKPDown       = 0xff99
	keyKPPageUp     = 0xff9a
	keyKPPageDown   = 0xff9b
	keyKPEnd        = 0xff9c
	keyKPInsert     = 0xff9e
	keyKPDelete     = 0xff9f
	keyF1           = 0xffbe
	keyF12          = 0xffc9
	keyShiftL       = 0xffe1
	keyShiftR       = 0xffe2
	keyControlL     = 0xffe3
	keyControlR     = 0xffe4
	keyCapsLock     = 0xffe5
	keyAltL         = 0xffe9
	keyAltR         = 0xffea
	keySuperL       = 0xffeb
	keySuperR       = 0xffec
	keyDelete       = 0xffff
	keyISOLevel3    = 0xfe03
	keyISOLeftTab   = 0xfe20
	keySpace        = 0x20
	keyUnicodeStart = 0x01000000
)

var functionKeys = [...]key.Name{
	key.NameF1, key.NameF2, key.NameF3, key.NameF4,
	key.NameF5, key.NameF6, key.NameF7, key.NameF8,
	key.NameF9, key.NameF10, key.NameF11, key.NameF12,
}

// convertKeysym returns the name of a non-character keysym.
func convertKeysym(s uint32) (key.Name, bool) {
	if keyF1 <= s && s <= keyF12 {
		return functionKeys[s-keyF1], true
	}
	var n key.Name
	switch s {
	case keyEscape:
		n = key.NameEscape
	case keyLeft, keyKPLeft:
		n = key.NameLeftArrow
	case keyRight, keyKPRight:
		n = key.NameRightArrow
	case keyUp, keyKPUp:
		n = key.NameUpArrow
	case keyDown, keyKPDown:
		n = key.NameDownArrow
	case keyReturn:
		n = key.NameReturn
	case keyKPEnter:
		n = key.NameEnter
	case keyHome, keyKPHome:
		n = key.NameHome
	case keyEnd, keyKPEnd:
		n = key.NameEnd
	case keyBackSpace:
		n = key.NameDeleteBackward
	case keyDelete, keyKPDelete:
		n = key.NameDeleteForward
	case keyPageUp, keyKPPageUp:
		n = key.NamePageUp
	case keyPageDown, keyKPPageDown:
		n = key.NamePageDown
	case keyInsert, keyKPInsert:
		n = key.NameInsert
	case keyTab, keyKPTab, keyISOLeftTab:
		n = key.NameTab
	case keySpace, keyKPSpace:
		n = key.NameSpace
	case keyControlL, keyControlR:
		n = key.NameCtrl
	case keyShiftL, keyShiftR:
		n = key.NameShift
	case keyAltL, keyAltR:
		n = key.NameAlt
	case keyISOLevel3:
		n = key.NameAltGr
	case keySuperL, keySuperR:
		n = key.NameSuper
	case keyMenu:
		n = key.NameMenu
	case keyCapsLock:
		n = key.NameCapsLock
	case keyNumLock:
		n = key.NameNumLock
	case keyScrollLock:
		n = key.NameScrollLock
	case keyPrint:
		n = key.NamePrintScreen
	case keyPause:
		n = key.NamePause
	default:
		return "", false
	}
	return n, true
}

// logical returns the logical key for the keysym s whose UTF-8
// rendering is text.
func logical(s uint32, text string) key.Logical {
	if n, ok := convertKeysym(s); ok {
		return key.Named(n)
	}
	if text == "" {
		text = keysymRune(s)
	}
	if printable(text) {
		return key.Char(text)
	}
	return key.Unknown(s)
}

// keysymRune converts the keysyms with a direct Unicode mapping.
func keysymRune(s uint32) string {
	var r rune
	switch {
	case 0x20 <= s && s <= 0x7e, 0xa0 <= s && s <= 0xff:
		r = rune(s)
	case s >= keyUnicodeStart && s <= keyUnicodeStart+unicode.MaxRune:
		r = rune(s - keyUnicodeStart)
	default:
		return ""
	}
	return string(r)
}

func printable(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// printableOnly removes the non-printable runes from b, as the
// committed text never contains control characters.
func printableOnly(b []byte) string {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		if unicode.IsPrint(r) {
			out = append(out, b[:n]...)
		}
		b = b[n:]
	}
	return string(out)
}
