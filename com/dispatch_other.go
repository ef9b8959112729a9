// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package com

import (
	"runtime"
)

// Only Go-implemented objects exist off Windows, so a vtable entry that is
// not a thunk means the object pointer is corrupt or was never a COM object.
func sysInvoke(fn uintptr, this uintptr, args ...uintptr) uintptr {
	violation("invoke", "function pointer %#x of object %#x is not callable on %s", fn, this, runtime.GOOS)
	return 0
}
