// SPDX-License-Identifier: Unlicense OR MIT

//go:build !android

package wayland

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// createShmFile returns an anonymous file for a shared memory pool.
func createShmFile() (int, error) {
	fd, err := unix.MemfdCreate("waywin-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("wayland: memfd_create: %v", err)
	}
	return fd, nil
}
