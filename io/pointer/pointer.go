// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer implements pointer events.

Positions are in logical window coordinates with the origin at the top
left corner of the window.

# Scrolling

ScrollEvent values follow a single polarity on every platform: a
positive Value moves the content down (Vertical) or right
(Horizontal). A wheel that reports detents produces events in
ScrollSteps; touchpads and other smooth sources produce events in
ScrollPixels.

# Relative motion

RelativeEvent reports unaccelerated device motion and is not addressed
to any window. It is available only when the platform supports it.
*/
package pointer

import (
	"fmt"
)

// EnterEvent is sent when the pointer enters a window. It is always
// followed by a MoveEvent for the entry position.
type EnterEvent struct{}

// LeaveEvent is sent when the pointer leaves a window.
type LeaveEvent struct{}

// MoveEvent is sent when the pointer moves within a window.
type MoveEvent struct {
	X, Y float64
}

// ButtonEvent is sent when a button is pressed or released.
type ButtonEvent struct {
	Down   bool
	Button Button
	// Code is the platform code of the button: the evdev code on
	// Wayland and the virtual key on Windows. It tells apart the
	// buttons reported as ButtonUnknown.
	Code uint32
}

// ScrollEvent is sent for scroll wheel and touchpad scrolling.
type ScrollEvent struct {
	Axis Axis
	// Value is the scroll distance in Unit. Positive values move
	// the content down or right.
	Value  float64
	Unit   ScrollUnit
	Source Source
}

// RelativeEvent is a device-level motion event, independent of the
// cursor position.
type RelativeEvent struct {
	// DX and DY is the motion after pointer acceleration.
	DX, DY float64
	// UnaccelDX and UnaccelDY is the raw device motion.
	UnaccelDX, UnaccelDY float64
}

// Button is a pointer button.
type Button uint8

const (
	ButtonUnknown Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
)

// Axis is a scroll axis.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

// ScrollUnit is the unit of ScrollEvent values.
type ScrollUnit uint8

const (
	// ScrollPixels is logical pixels.
	ScrollPixels ScrollUnit = iota
	// ScrollSteps is wheel detents. High resolution wheels report
	// fractions of a detent.
	ScrollSteps
)

// Source is the kind of device that generated a scroll.
type Source uint8

const (
	SourceUnknown Source = iota
	SourceWheel
	SourceFinger
	SourceContinuous
	SourceWheelTilt
)

func (EnterEvent) ImplementsEvent()    {}
func (LeaveEvent) ImplementsEvent()    {}
func (MoveEvent) ImplementsEvent()     {}
func (ButtonEvent) ImplementsEvent()   {}
func (ScrollEvent) ImplementsEvent()   {}
func (RelativeEvent) ImplementsEvent() {}

func (b Button) String() string {
	switch b {
	case ButtonUnknown:
		return "Unknown"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	case ButtonBack:
		return "Back"
	case ButtonForward:
		return "Forward"
	default:
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
}

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "Vertical"
	case Horizontal:
		return "Horizontal"
	default:
		panic("invalid Axis")
	}
}

func (u ScrollUnit) String() string {
	switch u {
	case ScrollPixels:
		return "Pixels"
	case ScrollSteps:
		return "Steps"
	default:
		panic("invalid ScrollUnit")
	}
}

func (s Source) String() string {
	switch s {
	case SourceUnknown:
		return "Unknown"
	case SourceWheel:
		return "Wheel"
	case SourceFinger:
		return "Finger"
	case SourceContinuous:
		return "Continuous"
	case SourceWheelTilt:
		return "WheelTilt"
	default:
		panic("invalid Source")
	}
}
