// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"strings"

	"golang.org/x/sys/windows"
)

// AsErrno returns the Win32 equivalent of e, or ERROR_MR_MID_NOT_FOUND when
// e has none.
func (e Error) AsErrno() windows.Errno {
	if v, ok := e.errno(); ok {
		return windows.Errno(v)
	}
	return windows.ERROR_MR_MID_NOT_FOUND
}

// AsNTStatus returns the NTSTATUS embedded in e, or STATUS_UNSUCCESSFUL when
// e does not carry one.
func (e Error) AsNTStatus() windows.NTStatus {
	hr := HRESULT(e)
	switch {
	case hr == S_OK:
		return windows.STATUS_SUCCESS
	case hr.isNT():
		return windows.NTStatus(uint32(hr) &^ hrFacilityNTBit)
	default:
		return windows.STATUS_UNSUCCESSFUL
	}
}

func hresultFromWin32(errno windows.Errno) HRESULT {
	if errno == windows.ERROR_SUCCESS {
		return S_OK
	}
	return HRESULT((uint32(errno) & hrCodeMask) | (uint32(hrFacilityWin32) << hrFacilityShift) | hrFailBit)
}

func hresultFromNT(status windows.NTStatus) HRESULT {
	if status == windows.STATUS_SUCCESS {
		return S_OK
	}
	return HRESULT(uint32(status) | hrFacilityNTBit)
}

func newErrorPlatform(code any) (Error, bool) {
	switch v := code.(type) {
	case windows.Errno:
		return Error(hresultFromWin32(v)), true
	case windows.NTStatus:
		return Error(hresultFromNT(v)), true
	default:
		return Error(E_UNEXPECTED), false
	}
}

func ntStatusToErrno(status uint32) (uint32, bool) {
	errno := windows.NTStatus(status).Errno()
	if errno == windows.ERROR_MR_MID_NOT_FOUND {
		return 0, false
	}
	return uint32(errno), true
}

func platformMessage(e Error) string {
	var errno windows.Errno
	if v, ok := e.errno(); ok {
		errno = windows.Errno(v)
	} else {
		errno = windows.Errno(uint32(e))
	}
	msg := errno.Error()
	if strings.HasPrefix(msg, "winapi error #") {
		return ""
	}
	return strings.TrimSpace(msg)
}
