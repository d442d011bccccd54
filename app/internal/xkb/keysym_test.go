// SPDX-License-Identifier: Unlicense OR MIT

package xkb

import (
	"testing"

	"waywin.org/io/key"
)

func TestLogical(t *testing.T) {
	tests := []struct {
		sym  uint32
		text string
		want key.Logical
	}{
		{keyTab, "\t", key.Named(key.NameTab)},
		{keyISOLeftTab, "", key.Named(key.NameTab)},
		{keyKPLeft, "", key.Named(key.NameLeftArrow)},
		{keyReturn, "\r", key.Named(key.NameReturn)},
		{keyKPEnter, "\r", key.Named(key.NameEnter)},
		{keySpace, " ", key.Named(key.NameSpace)},
		{keyF1, "", key.Named(key.NameF1)},
		{keyF12, "", key.Named(key.NameF12)},
		{keyControlR, "", key.Named(key.NameCtrl)},
		{keyISOLevel3, "", key.Named(key.NameAltGr)},
		{'a', "a", key.Char("a")},
		{'A', "", key.Char("A")},
		{0xe9, "é", key.Char("é")},
		{keyUnicodeStart + 0x20ac, "", key.Char("€")},
		// Dead keys have no text.
		{0xfe51, "", key.Unknown(0xfe51)},
	}
	for _, test := range tests {
		if got := logical(test.sym, test.text); got != test.want {
			t.Errorf("logical(%#x, %q) = %v, want %v", test.sym, test.text, got, test.want)
		}
	}
}

func TestPrintableOnly(t *testing.T) {
	tests := map[string]string{
		"a":      "a",
		"\x01":   "",
		"a\rb":   "ab",
		"ö\x7fü": "öü",
	}
	for in, want := range tests {
		if got := printableOnly([]byte(in)); got != want {
			t.Errorf("printableOnly(%q) = %q, want %q", in, got, want)
		}
	}
}
