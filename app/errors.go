// SPDX-License-Identifier: Unlicense OR MIT

package app

import "waywin.org/app/internal/wm"

var (
	// ErrConnection is returned by Init when the display system cannot
	// be reached.
	ErrConnection = wm.ErrConnection
	// ErrMissingCapability is returned by Init when the display system
	// lacks a mandatory feature. The error is a *CapabilityError.
	ErrMissingCapability = wm.ErrMissingCapability
	// ErrAlreadyInitialized is returned by Init while another Session
	// is open.
	ErrAlreadyInitialized = wm.ErrAlreadyInitialized
	// ErrWindowCreation is returned by NewWindow when the platform
	// refuses to create a window.
	ErrWindowCreation = wm.ErrWindowCreation
	// ErrNotSupported is returned by optional operations the platform
	// cannot perform.
	ErrNotSupported = wm.ErrNotSupported
)

// CapabilityError names the missing capability of an
// ErrMissingCapability.
type CapabilityError = wm.CapabilityError
