// SPDX-License-Identifier: Unlicense OR MIT

// Package evdev translates Linux input event codes, as used by the
// Wayland keyboard and pointer, to portable keys and buttons.
package evdev

import (
	"waywin.org/io/key"
	"waywin.org/io/pointer"
)

// Button codes from linux/input-event-codes.h.
const (
	BTN_LEFT    = 0x110
	BTN_RIGHT   = 0x111
	BTN_MIDDLE  = 0x112
	BTN_SIDE    = 0x113
	BTN_EXTRA   = 0x114
	BTN_FORWARD = 0x115
	BTN_BACK    = 0x116
)

var codes = [...]key.Code{
	1:   key.CodeEscape,
	2:   key.Code1,
	3:   key.Code2,
	4:   key.Code3,
	5:   key.Code4,
	6:   key.Code5,
	7:   key.Code6,
	8:   key.Code7,
	9:   key.Code8,
	10:  key.Code9,
	11:  key.Code0,
	12:  key.CodeMinus,
	13:  key.CodeEqual,
	14:  key.CodeBackspace,
	15:  key.CodeTab,
	16:  key.CodeQ,
	17:  key.CodeW,
	18:  key.CodeE,
	19:  key.CodeR,
	20:  key.CodeT,
	21:  key.CodeY,
	22:  key.CodeU,
	23:  key.CodeI,
	24:  key.CodeO,
	25:  key.CodeP,
	26:  key.CodeLeftBracket,
	27:  key.CodeRightBracket,
	28:  key.CodeEnter,
	29:  key.CodeLeftCtrl,
	30:  key.CodeA,
	31:  key.CodeS,
	32:  key.CodeD,
	33:  key.CodeF,
	34:  key.CodeG,
	35:  key.CodeH,
	36:  key.CodeJ,
	37:  key.CodeK,
	38:  key.CodeL,
	39:  key.CodeSemicolon,
	40:  key.CodeQuote,
	41:  key.CodeGrave,
	42:  key.CodeLeftShift,
	43:  key.CodeBackslash,
	44:  key.CodeZ,
	45:  key.CodeX,
	46:  key.CodeC,
	47:  key.CodeV,
	48:  key.CodeB,
	49:  key.CodeN,
	50:  key.CodeM,
	51:  key.CodeComma,
	52:  key.CodePeriod,
	53:  key.CodeSlash,
	54:  key.CodeRightShift,
	55:  key.CodeNumpadMultiply,
	56:  key.CodeLeftAlt,
	57:  key.CodeSpace,
	58:  key.CodeCapsLock,
	59:  key.CodeF1,
	60:  key.CodeF2,
	61:  key.CodeF3,
	62:  key.CodeF4,
	63:  key.CodeF5,
	64:  key.CodeF6,
	65:  key.CodeF7,
	66:  key.CodeF8,
	67:  key.CodeF9,
	68:  key.CodeF10,
	69:  key.CodeNumLock,
	70:  key.CodeScrollLock,
	71:  key.CodeNumpad7,
	72:  key.CodeNumpad8,
	73:  key.CodeNumpad9,
	74:  key.CodeNumpadSubtract,
	75:  key.CodeNumpad4,
	76:  key.CodeNumpad5,
	77:  key.CodeNumpad6,
	78:  key.CodeNumpadAdd,
	79:  key.CodeNumpad1,
	80:  key.CodeNumpad2,
	81:  key.CodeNumpad3,
	82:  key.CodeNumpad0,
	83:  key.CodeNumpadDecimal,
	87:  key.CodeF11,
	88:  key.CodeF12,
	96:  key.CodeNumpadEnter,
	97:  key.CodeRightCtrl,
	98:  key.CodeNumpadDivide,
	99:  key.CodePrintScreen, // KEY_SYSRQ
	100: key.CodeRightAlt,
	102: key.CodeHome,
	103: key.CodeUpArrow,
	104: key.CodePageUp,
	105: key.CodeLeftArrow,
	106: key.CodeRightArrow,
	107: key.CodeEnd,
	108: key.CodeDownArrow,
	109: key.CodePageDown,
	110: key.CodeInsert,
	111: key.CodeDelete,
	119: key.CodePause,
	125: key.CodeLeftSuper,
	126: key.CodeRightSuper,
	127: key.CodeMenu, // KEY_COMPOSE
}

// Physical returns the physical key for the evdev key code.
func Physical(code uint32) key.Physical {
	p := key.Physical{Scancode: code}
	if code < uint32(len(codes)) {
		p.Code = codes[code]
	}
	return p
}

// Button returns the pointer button for the evdev button code.
func Button(code uint32) pointer.Button {
	switch code {
	case BTN_LEFT:
		return pointer.ButtonLeft
	case BTN_RIGHT:
		return pointer.ButtonRight
	case BTN_MIDDLE:
		return pointer.ButtonMiddle
	case BTN_SIDE, BTN_BACK:
		return pointer.ButtonBack
	case BTN_EXTRA, BTN_FORWARD:
		return pointer.ButtonForward
	default:
		return pointer.ButtonUnknown
	}
}
