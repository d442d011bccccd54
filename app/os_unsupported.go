// SPDX-License-Identifier: Unlicense OR MIT

//go:build !((linux && !android) || freebsd) && !windows

package app

import (
	"fmt"
	"runtime"

	"waywin.org/app/internal/wm"
)

func init() {
	newBackend = func(loop *wm.Loop, cfg config) (backend, error) {
		return nil, fmt.Errorf("app: %w: no window system on %s", ErrConnection, runtime.GOOS)
	}
}
