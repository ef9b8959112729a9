// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"errors"
	"fmt"
	"testing"
)

type hrTestCase struct {
	hr              HRESULT
	expectFacility  hrFacility // only valid when both expectNT and expectCustomer are false
	expectCode      hrCode     // only valid when both expectNT and expectCustomer are false
	expectSucceeded bool
	expectQualified bool
	expectNT        bool
	expectCustomer  bool
}

var hrTestCases = []hrTestCase{
	hrTestCase{S_OK, 0, 0, true, false, false, false},
	hrTestCase{S_FALSE, 0, 1, true, true, false, false},
	hrTestCase{hrTYPE_E_WRONGTYPEKIND, 2, 0x802A, false, false, false, false},
	hrTestCase{E_OUTOFMEMORY, 7, 0x000E, false, false, false, false},
	hrTestCase{HRESULT(0x087A0001), 0x87A, 1, true, true, false, false},
	hrTestCase{HRESULT(-((0xC0000022 ^ 0xFFFFFFFF) + 1)) | hrFacilityNTBit, 0, 0, false, false, true, false},
	hrTestCase{HRESULT(-((((hrCustomerBit + 1) | hrFailBit) ^ 0xFFFFFFFF) + 1)), 0, 0, false, false, false, true},
	hrTestCase{HRESULT(-((((hrCustomerBit + 1) | hrFailBit | hrFacilityNTBit) ^ 0xFFFFFFFF) + 1)), 0, 0, false, false, false, true},
}

func TestHRESULT(t *testing.T) {
	for _, tc := range hrTestCases {
		hr := tc.hr
		if hr.Succeeded() != tc.expectSucceeded {
			t.Errorf("hr 0x%08X Succeeded() got %v, want %v", uint32(hr), hr.Succeeded(), tc.expectSucceeded)
		}
		if hr.Failed() == tc.expectSucceeded {
			t.Errorf("hr 0x%08X Failed() got %v, want %v", uint32(hr), hr.Failed(), !tc.expectSucceeded)
		}
		if hr.IsQualifiedSuccess() != tc.expectQualified {
			t.Errorf("hr 0x%08X IsQualifiedSuccess() got %v, want %v", uint32(hr), hr.IsQualifiedSuccess(), tc.expectQualified)
		}
		if hr.isNT() != tc.expectNT {
			t.Errorf("hr 0x%08X isNT() got %v, want %v", uint32(hr), hr.isNT(), tc.expectNT)
		}
		if hr.isCustomer() != tc.expectCustomer {
			t.Errorf("hr 0x%08X isCustomer() got %v, want %v", uint32(hr), hr.isCustomer(), tc.expectCustomer)
		}
		if !hr.isNT() && !hr.isCustomer() {
			if hr.facility() != tc.expectFacility {
				t.Errorf("hr 0x%08X facility() got %v, want %v", uint32(hr), hr.facility(), tc.expectFacility)
			}
			if hr.code() != tc.expectCode {
				t.Errorf("hr 0x%08X code() got %v, want %v", uint32(hr), hr.code(), tc.expectCode)
			}
		}
	}
}

func TestCheck(t *testing.T) {
	if err := Check(S_OK); err != nil {
		t.Errorf("Check(S_OK) got %v, want nil", err)
	}
	if err := Check(S_FALSE); err != nil {
		t.Errorf("Check(S_FALSE) got %v, want nil", err)
	}

	hr, err := CheckStatus(S_FALSE)
	if err != nil || hr != S_FALSE {
		t.Errorf("CheckStatus(S_FALSE) got (0x%08X, %v), want (S_FALSE, nil)", uint32(hr), err)
	}

	err = Check(E_NOINTERFACE)
	if err == nil {
		t.Fatalf("Check(E_NOINTERFACE) got nil error")
	}

	wrapped := fmt.Errorf("querying: %w", err)
	if !errors.Is(wrapped, Error(E_NOINTERFACE)) {
		t.Errorf("errors.Is(%v, E_NOINTERFACE) got false, want true", wrapped)
	}

	var e Error
	if !errors.As(wrapped, &e) || e.AsHRESULT() != E_NOINTERFACE {
		t.Errorf("errors.As did not recover E_NOINTERFACE from %v", wrapped)
	}
}

func TestErrorString(t *testing.T) {
	got := Error(E_NOINTERFACE).Error()
	want := "no such interface supported (HRESULT 0x80004002)"
	if got != want {
		t.Errorf("Error() got %q, want %q", got, want)
	}
}

func TestNewErrorPortable(t *testing.T) {
	if _, ok := NewError(int64(0)); ok {
		t.Errorf("NewError(int64(0)) ok got true, want false")
	}

	err, ok := NewError(E_POINTER)
	if !ok {
		t.Fatalf("NewError(E_POINTER) ok got false")
	}
	if !err.IsAvailableAsHRESULT() {
		t.Errorf("E_POINTER should be available as HRESULT")
	}
	if err.IsAvailableAsErrno() {
		t.Errorf("E_POINTER should not be available as Errno")
	}
	if err.IsAvailableAsNTStatus() {
		t.Errorf("E_POINTER should not be available as NTStatus")
	}

	err, ok = NewError(Error(E_OUTOFMEMORY))
	if !ok {
		t.Fatalf("NewError(Error(E_OUTOFMEMORY)) ok got false")
	}
	if !err.IsAvailableAsErrno() {
		t.Errorf("E_OUTOFMEMORY is FACILITY_WIN32 and should be available as Errno")
	}
}
