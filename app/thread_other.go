// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !windows

package app

// threadID returns zero where the thread ID is not available, which
// disables the thread checks.
func threadID() uint64 {
	return 0
}
