// SPDX-License-Identifier: Unlicense OR MIT

package key

import "strconv"

// Code is a layout independent key code, named after the key's
// position on a US keyboard.
type Code uint16

const (
	CodeUnknown Code = iota

	CodeA
	CodeB
	CodeC
	CodeD
	CodeE
	CodeF
	CodeG
	CodeH
	CodeI
	CodeJ
	CodeK
	CodeL
	CodeM
	CodeN
	CodeO
	CodeP
	CodeQ
	CodeR
	CodeS
	CodeT
	CodeU
	CodeV
	CodeW
	CodeX
	CodeY
	CodeZ

	Code1
	Code2
	Code3
	Code4
	Code5
	Code6
	Code7
	Code8
	Code9
	Code0

	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12

	CodeEscape
	CodeTab
	CodeCapsLock
	CodeSpace
	CodeEnter
	CodeBackspace

	CodeLeftCtrl
	CodeLeftShift
	CodeLeftAlt
	CodeLeftSuper
	CodeRightCtrl
	CodeRightShift
	CodeRightAlt
	CodeRightSuper
	CodeMenu

	CodeLeftArrow
	CodeRightArrow
	CodeUpArrow
	CodeDownArrow
	CodePageUp
	CodePageDown
	CodeHome
	CodeEnd
	CodeInsert
	CodeDelete

	CodeGrave
	CodeMinus
	CodeEqual
	CodeLeftBracket
	CodeRightBracket
	CodeBackslash
	CodeSemicolon
	CodeQuote
	CodeComma
	CodePeriod
	CodeSlash

	CodeNumLock
	CodeScrollLock
	CodePrintScreen
	CodePause

	CodeNumpad0
	CodeNumpad1
	CodeNumpad2
	CodeNumpad3
	CodeNumpad4
	CodeNumpad5
	CodeNumpad6
	CodeNumpad7
	CodeNumpad8
	CodeNumpad9
	CodeNumpadDecimal
	CodeNumpadDivide
	CodeNumpadMultiply
	CodeNumpadSubtract
	CodeNumpadAdd
	CodeNumpadEnter

	codeCount
)

var codeNames = [...]string{
	CodeUnknown: "Unknown",
	CodeA:       "A", CodeB: "B", CodeC: "C", CodeD: "D", CodeE: "E",
	CodeF: "F", CodeG: "G", CodeH: "H", CodeI: "I", CodeJ: "J",
	CodeK: "K", CodeL: "L", CodeM: "M", CodeN: "N", CodeO: "O",
	CodeP: "P", CodeQ: "Q", CodeR: "R", CodeS: "S", CodeT: "T",
	CodeU: "U", CodeV: "V", CodeW: "W", CodeX: "X", CodeY: "Y",
	CodeZ: "Z",
	Code1: "1", Code2: "2", Code3: "3", Code4: "4", Code5: "5",
	Code6: "6", Code7: "7", Code8: "8", Code9: "9", Code0: "0",
	CodeF1: "F1", CodeF2: "F2", CodeF3: "F3", CodeF4: "F4",
	CodeF5: "F5", CodeF6: "F6", CodeF7: "F7", CodeF8: "F8",
	CodeF9: "F9", CodeF10: "F10", CodeF11: "F11", CodeF12: "F12",
	CodeEscape:         "Escape",
	CodeTab:            "Tab",
	CodeCapsLock:       "CapsLock",
	CodeSpace:          "Space",
	CodeEnter:          "Enter",
	CodeBackspace:      "Backspace",
	CodeLeftCtrl:       "LeftCtrl",
	CodeLeftShift:      "LeftShift",
	CodeLeftAlt:        "LeftAlt",
	CodeLeftSuper:      "LeftSuper",
	CodeRightCtrl:      "RightCtrl",
	CodeRightShift:     "RightShift",
	CodeRightAlt:       "RightAlt",
	CodeRightSuper:     "RightSuper",
	CodeMenu:           "Menu",
	CodeLeftArrow:      "LeftArrow",
	CodeRightArrow:     "RightArrow",
	CodeUpArrow:        "UpArrow",
	CodeDownArrow:      "DownArrow",
	CodePageUp:         "PageUp",
	CodePageDown:       "PageDown",
	CodeHome:           "Home",
	CodeEnd:            "End",
	CodeInsert:         "Insert",
	CodeDelete:         "Delete",
	CodeGrave:          "Grave",
	CodeMinus:          "Minus",
	CodeEqual:          "Equal",
	CodeLeftBracket:    "LeftBracket",
	CodeRightBracket:   "RightBracket",
	CodeBackslash:      "Backslash",
	CodeSemicolon:      "Semicolon",
	CodeQuote:          "Quote",
	CodeComma:          "Comma",
	CodePeriod:         "Period",
	CodeSlash:          "Slash",
	CodeNumLock:        "NumLock",
	CodeScrollLock:     "ScrollLock",
	CodePrintScreen:    "PrintScreen",
	CodePause:          "Pause",
	CodeNumpad0:        "Numpad0",
	CodeNumpad1:        "Numpad1",
	CodeNumpad2:        "Numpad2",
	CodeNumpad3:        "Numpad3",
	CodeNumpad4:        "Numpad4",
	CodeNumpad5:        "Numpad5",
	CodeNumpad6:        "Numpad6",
	CodeNumpad7:        "Numpad7",
	CodeNumpad8:        "Numpad8",
	CodeNumpad9:        "Numpad9",
	CodeNumpadDecimal:  "NumpadDecimal",
	CodeNumpadDivide:   "NumpadDivide",
	CodeNumpadMultiply: "NumpadMultiply",
	CodeNumpadSubtract: "NumpadSubtract",
	CodeNumpadAdd:      "NumpadAdd",
	CodeNumpadEnter:    "NumpadEnter",
}

func (c Code) String() string {
	if c < codeCount {
		return codeNames[c]
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}
