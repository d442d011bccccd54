// SPDX-License-Identifier: Unlicense OR MIT

package wayland

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// createShmFile returns an unlinked file in XDG_RUNTIME_DIR for a
// shared memory pool.
func createShmFile() (int, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return -1, errors.New("wayland: XDG_RUNTIME_DIR is not set")
	}
	f, err := os.CreateTemp(dir, "waywin-shm-*")
	if err != nil {
		return -1, fmt.Errorf("wayland: shm file: %v", err)
	}
	defer f.Close()
	os.Remove(f.Name())
	fd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("wayland: shm file: %v", err)
	}
	return fd, nil
}
