// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package comkit contains the identity and status-code primitives shared by
// the COM interop packages in this module.
package comkit

import (
	"fmt"

	"github.com/pkg/errors"
)

// HRESULT is the 32-bit status code returned by COM methods. Zero is success,
// negative values are failures, and positive values are successes that carry
// a qualification the caller must branch on explicitly.
type HRESULT int32

type hrFacility uint16
type hrCode uint16

const (
	hrFailBit       = 0x80000000
	hrCustomerBit   = 0x20000000
	hrFacilityNTBit = 0x10000000
	hrFacilityMask  = 0x0FFF0000
	hrFacilityShift = 16
	hrCodeMask      = 0x0000FFFF
)

const (
	hrFacilityWin32 = hrFacility(7)
)

const (
	S_OK    = HRESULT(0)
	S_FALSE = HRESULT(1)

	E_NOTIMPL             = HRESULT(-((0x80004001 ^ 0xFFFFFFFF) + 1))
	E_NOINTERFACE         = HRESULT(-((0x80004002 ^ 0xFFFFFFFF) + 1))
	E_POINTER             = HRESULT(-((0x80004003 ^ 0xFFFFFFFF) + 1))
	E_FAIL                = HRESULT(-((0x80004005 ^ 0xFFFFFFFF) + 1))
	E_UNEXPECTED          = HRESULT(-((0x8000FFFF ^ 0xFFFFFFFF) + 1))
	E_OUTOFMEMORY         = HRESULT(-((0x8007000E ^ 0xFFFFFFFF) + 1))
	E_INVALIDARG          = HRESULT(-((0x80070057 ^ 0xFFFFFFFF) + 1))
	RPC_E_CHANGED_MODE    = HRESULT(-((0x80010106 ^ 0xFFFFFFFF) + 1))
	CO_E_NOTINITIALIZED   = HRESULT(-((0x800401F0 ^ 0xFFFFFFFF) + 1))
	CLASS_E_NOAGGREGATION = HRESULT(-((0x80040110 ^ 0xFFFFFFFF) + 1))
	REGDB_E_CLASSNOTREG   = HRESULT(-((0x80040154 ^ 0xFFFFFFFF) + 1))

	hrTYPE_E_WRONGTYPEKIND = HRESULT(-((0x8002802A ^ 0xFFFFFFFF) + 1))
)

// ErrUnsupportedPlatform is returned by operations that need the host's COM
// runtime on platforms that do not have one.
var ErrUnsupportedPlatform = errors.New("operation requires the Windows COM runtime")

// Succeeded reports whether hr indicates success, qualified or not.
func (hr HRESULT) Succeeded() bool {
	return hr >= 0
}

// Failed reports whether hr indicates failure.
func (hr HRESULT) Failed() bool {
	return hr < 0
}

// IsQualifiedSuccess reports whether hr is a success code other than S_OK,
// such as S_FALSE or DXGI_STATUS_OCCLUDED.
func (hr HRESULT) IsQualifiedSuccess() bool {
	return hr > 0
}

func (hr HRESULT) isNT() bool {
	return (uint32(hr) & (hrCustomerBit | hrFacilityNTBit)) == hrFacilityNTBit
}

func (hr HRESULT) isCustomer() bool {
	return (uint32(hr) & hrCustomerBit) != 0
}

// facility is only meaningful when hr is neither an NT nor a customer code.
func (hr HRESULT) facility() hrFacility {
	return hrFacility((uint32(hr) & hrFacilityMask) >> hrFacilityShift)
}

func (hr HRESULT) code() hrCode {
	return hrCode(uint32(hr) & hrCodeMask)
}

// Error is an error backed by an HRESULT.
type Error HRESULT

// ErrorFromHRESULT wraps hr as an Error. Callers should still check Failed
// before treating the result as an error.
func ErrorFromHRESULT(hr HRESULT) Error {
	return Error(hr)
}

// NewError converts code into an Error. code may be an HRESULT or an Error;
// on Windows it may also be a windows.Errno or a windows.NTStatus. ok is
// false when code has an unsupported type.
func NewError(code any) (err Error, ok bool) {
	switch v := code.(type) {
	case HRESULT:
		return Error(v), true
	case Error:
		return v, true
	default:
		return newErrorPlatform(code)
	}
}

// Check translates hr into an error. Qualified success returns nil; use
// CheckStatus when the qualification matters.
func Check(hr HRESULT) error {
	if hr.Failed() {
		return Error(hr)
	}
	return nil
}

// CheckStatus is like Check, but also returns hr so that qualified success
// codes reach the caller.
func CheckStatus(hr HRESULT) (HRESULT, error) {
	if hr.Failed() {
		return hr, Error(hr)
	}
	return hr, nil
}

func (e Error) Error() string {
	if msg := e.message(); msg != "" {
		return fmt.Sprintf("%s (HRESULT 0x%08X)", msg, uint32(e))
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(e))
}

func (e Error) Failed() bool {
	return HRESULT(e).Failed()
}

func (e Error) Succeeded() bool {
	return HRESULT(e).Succeeded()
}

func (e Error) AsHRESULT() HRESULT {
	return HRESULT(e)
}

// IsAvailableAsHRESULT always returns true; it exists for symmetry with the
// other IsAvailableAs methods.
func (e Error) IsAvailableAsHRESULT() bool {
	return true
}

// IsAvailableAsErrno reports whether e has an equivalent Win32 error code.
func (e Error) IsAvailableAsErrno() bool {
	_, ok := e.errno()
	return ok
}

// IsAvailableAsNTStatus reports whether e has an equivalent NTSTATUS.
func (e Error) IsAvailableAsNTStatus() bool {
	hr := HRESULT(e)
	return hr == S_OK || hr.isNT()
}

// hrToWin32 holds the common facility-null HRESULTs whose Win32 equivalents
// are well known.
var hrToWin32 = map[HRESULT]uint32{
	E_NOTIMPL:    50,   // ERROR_NOT_SUPPORTED
	E_FAIL:       31,   // ERROR_GEN_FAILURE
	E_UNEXPECTED: 1359, // ERROR_INTERNAL_ERROR
}

func (e Error) errno() (uint32, bool) {
	hr := HRESULT(e)
	switch {
	case hr == S_OK:
		return 0, true
	case hr.isCustomer():
		return 0, false
	case hr.isNT():
		return ntStatusToErrno(uint32(hr) &^ hrFacilityNTBit)
	case hr.facility() == hrFacilityWin32:
		return uint32(hr.code()), true
	}
	v, ok := hrToWin32[hr]
	return v, ok
}

var hrMessages = map[HRESULT]string{
	S_FALSE:               "success with qualification",
	E_NOTIMPL:             "not implemented",
	E_NOINTERFACE:         "no such interface supported",
	E_POINTER:             "invalid pointer",
	E_FAIL:                "unspecified error",
	E_UNEXPECTED:          "catastrophic failure",
	E_OUTOFMEMORY:         "out of memory",
	E_INVALIDARG:          "invalid argument",
	RPC_E_CHANGED_MODE:    "cannot change thread mode after it is set",
	CO_E_NOTINITIALIZED:   "CoInitialize has not been called",
	CLASS_E_NOAGGREGATION: "class does not support aggregation",
	REGDB_E_CLASSNOTREG:   "class not registered",
}

func (e Error) message() string {
	if msg, ok := hrMessages[HRESULT(e)]; ok {
		return msg
	}
	return platformMessage(e)
}
