// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"log/slog"
)

// Option configures a session or a window.
type Option func(cfg *config)

// Size sets the initial logical size of windows.
func Size(w, h int) Option {
	return func(cfg *config) {
		cfg.Size = image.Pt(w, h)
	}
}

// Logger sets the logger of the session. The default is
// slog.Default().
func Logger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = l
	}
}

// Display overrides the Wayland display name from the environment.
func Display(name string) Option {
	return func(cfg *config) {
		cfg.Display = name
	}
}

// Decorated controls whether the platform draws window decorations. On
// Wayland it is a preference the compositor may ignore; on Windows it
// selects a window with a caption. The default is true.
func Decorated(enabled bool) Option {
	return func(cfg *config) {
		cfg.Decorated = enabled
	}
}

// AppID overrides the application ID of a window. It is the Wayland
// toplevel app_id and the Win32 window class name.
func AppID(id string) Option {
	return func(cfg *config) {
		cfg.AppID = id
	}
}
