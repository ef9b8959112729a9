// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"unsafe"

	"github.com/dblohm7/comkit"
)

var IID_IUnknown = MustParseIID("00000000-0000-0000-C000-000000000046")

// IUnknownInterface is the root of every interface hierarchy.
var IUnknownInterface = newInterface("IUnknown", IID_IUnknown, nil,
	[]string{"QueryInterface", "AddRef", "Release"})

const (
	slotQueryInterface = 0
	slotAddRef         = 1
	slotRelease        = 2
)

// IUnknownABI is the binary layout shared by every COM object: a pointer to
// its vtable. ABI structs for derived interfaces embed their base's ABI struct
// as their first field, so a pointer to any of them is also a valid
// *IUnknownABI.
type IUnknownABI struct {
	Vtbl *uintptr
}

// Unknown returns abi itself. Because it is promoted through embedding, every
// ABI struct can produce its IUnknown view without a conversion.
func (abi *IUnknownABI) Unknown() *IUnknownABI {
	return abi
}

// Invoke calls the method stored at slot in abi's vtable, passing abi as the
// implicit first argument followed by args. Pointer arguments must be
// converted to uintptr inside the argument list of the call to Invoke so that
// they are kept alive for its duration.
//
//go:uintptrescapes
func (abi *IUnknownABI) Invoke(slot int, args ...uintptr) uintptr {
	if abi == nil {
		violation("Invoke", "nil object pointer")
	}
	if slot < 0 {
		violation("Invoke", "negative slot %d", slot)
	}
	checkLocalSlot(abi, slot)

	method := unsafe.Slice(abi.Vtbl, slot+1)[slot]
	return invoke(method, uintptr(unsafe.Pointer(abi)), args...)
}

// InvokeHR is Invoke for methods that return an HRESULT.
//
//go:uintptrescapes
func (abi *IUnknownABI) InvokeHR(slot int, args ...uintptr) comkit.HRESULT {
	return comkit.HRESULT(abi.Invoke(slot, args...))
}

// QueryInterface asks the object for iid. On success the returned pointer
// carries a new reference that the caller must release.
func (abi *IUnknownABI) QueryInterface(iid *IID) (*IUnknownABI, error) {
	var result *IUnknownABI
	hr := abi.InvokeHR(slotQueryInterface,
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&result)),
	)
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return result, nil
}

// AddRef increments the object's reference count and returns the new count.
// The count is advisory and must not be used for anything but diagnostics.
func (abi *IUnknownABI) AddRef() uint32 {
	return uint32(abi.Invoke(slotAddRef))
}

// Release decrements the object's reference count and returns the new count.
func (abi *IUnknownABI) Release() uint32 {
	return uint32(abi.Invoke(slotRelease))
}

// ObjectBase is the Object for plain IUnknown pointers.
type ObjectBase struct {
	GenericObject[IUnknownABI]
}

func (ObjectBase) Interface() *Interface {
	return IUnknownInterface
}

func (ObjectBase) Make(abi *IUnknownABI) any {
	return ObjectBase{NewGenericObject[IUnknownABI](abi)}
}
