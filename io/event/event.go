// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains types for event handling.
package event

import "strconv"

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// WindowID identifies a window for the lifetime of the process. IDs
// are never reused. The zero WindowID identifies no window.
type WindowID uint64

// WindowEvent is an Event tagged with the window it is addressed
// to. Device-level events, such as relative pointer motion, carry
// the zero Window.
type WindowEvent struct {
	Window WindowID
	Event  Event
}

func (id WindowID) String() string {
	if id == 0 {
		return "device"
	}
	return "window-" + strconv.FormatUint(uint64(id), 10)
}
