// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"sync"
	"unsafe"

	"github.com/dblohm7/comkit"
)

// A thunk is a Go function that occupies a vtable slot. Its address doubles as
// the function pointer stored in the vtable; those addresses live in the Go
// heap and therefore never collide with code addresses in a host DLL.
type thunk struct {
	fn func(this uintptr, args []uintptr) uintptr
}

var (
	thunkLock sync.RWMutex
	thunks    = map[uintptr]*thunk{}
)

func newThunk(fn func(this uintptr, args []uintptr) uintptr) uintptr {
	t := &thunk{fn: fn}
	addr := uintptr(unsafe.Pointer(t))

	thunkLock.Lock()
	defer thunkLock.Unlock()
	thunks[addr] = t
	return addr
}

func freeThunk(addr uintptr) {
	thunkLock.Lock()
	defer thunkLock.Unlock()
	delete(thunks, addr)
}

func lookupThunk(addr uintptr) (*thunk, bool) {
	thunkLock.RLock()
	defer thunkLock.RUnlock()
	t, ok := thunks[addr]
	return t, ok
}

// invoke calls the function pointer fn with this and args. Go thunks are
// called directly; anything else is a host function and goes through the
// platform's calling convention.
//
//go:uintptrescapes
func invoke(fn uintptr, this uintptr, args ...uintptr) uintptr {
	if fn == 0 {
		violation("invoke", "nil function pointer in vtable of object %#x", this)
	}
	if t, ok := lookupThunk(fn); ok {
		return t.fn(this, args)
	}
	return sysInvoke(fn, this, args...)
}

// HRESULTWord converts hr to the register-sized return value of a MethodFunc.
// Failure codes are negative, so they cannot be converted to uintptr as
// constants.
func HRESULTWord(hr comkit.HRESULT) uintptr {
	return uintptr(uint32(hr))
}

// ArgPointer reinterprets the i'th argument passed to a MethodFunc as a *T.
// The argument must have been produced by converting a pointer to uintptr at
// the call site of Invoke.
func ArgPointer[T any](args []uintptr, i int) *T {
	// Reading the slot as an unsafe.Pointer, rather than converting the uintptr,
	// keeps checkptr from rejecting pointers into the Go heap.
	return (*T)(*(*unsafe.Pointer)(unsafe.Pointer(&args[i])))
}
