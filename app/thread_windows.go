// SPDX-License-Identifier: Unlicense OR MIT

package app

import syscall "golang.org/x/sys/windows"

func threadID() uint64 {
	return uint64(syscall.GetCurrentThreadId())
}
