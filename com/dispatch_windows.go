// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"syscall"
)

func sysInvoke(fn uintptr, this uintptr, args ...uintptr) uintptr {
	callArgs := make([]uintptr, 0, len(args)+1)
	callArgs = append(callArgs, this)
	callArgs = append(callArgs, args...)

	rc, _, _ := syscall.SyscallN(fn, callArgs...)
	return rc
}
