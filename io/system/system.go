// SPDX-License-Identifier: Unlicense OR MIT

// Package system contains events usually handled at the top-level
// program level.
package system

import (
	"image"
)

// PaintEvent asks the application to redraw the window. At most one
// PaintEvent per window is delivered in each loop iteration, after any
// ResizeEvent or ScaleEvent for the same window.
type PaintEvent struct{}

// CloseEvent is sent when the user or the system asks for the window
// to close. The window stays alive until the application closes it.
type CloseEvent struct{}

// ResizeEvent is sent when the size of the window changed.
type ResizeEvent struct {
	// Size is the logical size of the window.
	Size image.Point
	// PhysicalSize is Size scaled by the window scale, in pixels.
	PhysicalSize image.Point
}

// ScaleEvent is sent when the ratio of physical pixels to logical
// units changed.
type ScaleEvent struct {
	Scale float64
}

func (PaintEvent) ImplementsEvent()  {}
func (CloseEvent) ImplementsEvent()  {}
func (ResizeEvent) ImplementsEvent() {}
func (ScaleEvent) ImplementsEvent()  {}
