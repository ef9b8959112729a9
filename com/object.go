// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"unsafe"
)

// ABI is satisfied by the ABI struct of a COM interface: a struct whose first
// field is IUnknownABI or the ABI struct of its base interface.
type ABI interface{}

// GenericObject is a struct that wraps any interface that implements the COM ABI.
// It does not own a reference; ownership lives in Owned and Shared. A view
// obtained from a handle keeps that handle reachable.
type GenericObject[A ABI] struct {
	p     *A
	owner any
}

func (o *GenericObject[A]) setOwner(owner any) {
	o.owner = owner
}

// ownedView is implemented by pointers to every Object that embeds
// GenericObject.
type ownedView interface {
	setOwner(owner any)
}

// NewGenericObject reinterprets abi as a pointer to A.
func NewGenericObject[A ABI](abi *IUnknownABI) GenericObject[A] {
	return GenericObject[A]{p: (*A)(unsafe.Pointer(abi))}
}

// UnsafeUnwrap returns the interface pointer. It is only valid while a handle
// to the object is open.
func (o GenericObject[A]) UnsafeUnwrap() *A {
	return o.p
}

func (o GenericObject[A]) Unknown() *IUnknownABI {
	return (*IUnknownABI)(unsafe.Pointer(o.p))
}

// Object is implemented by the typed view of each COM interface. Owned and
// Shared hand out Objects as borrowed views of the pointer they hold.
type Object interface {
	// Interface returns the descriptor for the object's interface. This method
	// may be called on Objects containing the zero value, so its return value
	// must not depend on the value of the method's receiver.
	Interface() *Interface

	// Make converts abi to an instance of the Object without touching its
	// reference count. The type of its return value must always match the type
	// of the method's receiver.
	Make(abi *IUnknownABI) any

	Unknown() *IUnknownABI
}

// Handle is anything that can reach an object's IUnknown along with the
// static interface it is viewed through: Objects, Owned and Shared handles.
type Handle interface {
	Unknown() *IUnknownABI
	Interface() *Interface
}

// CheckArg returns the interface pointer behind h for passing to a method
// parameter declared as iface. It panics if h is not viewed through iface or
// one of its descendants.
func CheckArg(op string, h Handle, iface *Interface) *IUnknownABI {
	if h == nil {
		violation(op, "nil %s argument", iface.Name())
	}
	if got := h.Interface(); !got.IsA(iface) {
		violation(op, "%s passed where %s is required", got.Name(), iface.Name())
	}
	return h.Unknown()
}

func interfaceOf[T Object]() *Interface {
	var zero T
	return zero.Interface()
}

func makeObject[T Object](abi *IUnknownABI) T {
	var zero T
	return zero.Make(abi).(T)
}

// makeView is makeObject for views borrowed from owner.
func makeView[T Object](abi *IUnknownABI, owner any) T {
	obj := makeObject[T](abi)
	if v, ok := any(&obj).(ownedView); ok {
		v.setOwner(owner)
	}
	return obj
}

// IIDOf returns the interface ID of T.
func IIDOf[T Object]() *IID {
	return interfaceOf[T]().IID()
}
