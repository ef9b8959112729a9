// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package comkit

func newErrorPlatform(code any) (Error, bool) {
	return Error(E_UNEXPECTED), false
}

// Without ntdll there is no NTSTATUS mapping table.
func ntStatusToErrno(status uint32) (uint32, bool) {
	return 0, false
}

func platformMessage(e Error) string {
	return ""
}
