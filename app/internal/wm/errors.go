// SPDX-License-Identifier: Unlicense OR MIT

package wm

import "errors"

var (
	// ErrConnection is returned when the display server cannot be
	// reached.
	ErrConnection = errors.New("cannot connect to display server")
	// ErrMissingCapability is returned when the display server lacks a
	// mandatory feature. It is wrapped in a *CapabilityError.
	ErrMissingCapability = errors.New("missing required capability")
	// ErrAlreadyInitialized is returned when a session is opened while
	// another is still open.
	ErrAlreadyInitialized = errors.New("session already initialized")
	// ErrWindowCreation is returned when the platform refuses to create
	// a window.
	ErrWindowCreation = errors.New("window creation failed")
	// ErrNotSupported is returned by optional operations the platform
	// cannot perform.
	ErrNotSupported = errors.New("not supported")
)

// CapabilityError names the missing capability of an
// ErrMissingCapability.
type CapabilityError struct {
	Name string
}

func (e *CapabilityError) Error() string {
	return "missing required capability " + e.Name
}

func (e *CapabilityError) Is(target error) bool {
	return target == ErrMissingCapability
}
