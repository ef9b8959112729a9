// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"
)

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Owned is the sole holder of exactly one reference to a COM object viewed as
// T. Closing it releases that reference. Owned is not safe for concurrent use;
// convert it to a Shared handle to use the object from several goroutines.
//
// A handle that is garbage collected without being closed is reported as a
// leak and its reference is never released: the finalizer runs on an
// arbitrary OS thread, outside the object's apartment.
type Owned[T Object] struct {
	noCopy noCopy
	abi    *IUnknownABI
}

// Take adopts the reference carried by raw, which must come from an API that
// transfers ownership to the caller (a creation function, an out parameter,
// QueryInterface). It panics if raw is nil.
func Take[T Object](raw *IUnknownABI) *Owned[T] {
	if raw == nil {
		violation("Take", "nil %s pointer", interfaceOf[T]().Name())
	}
	acquiredRefs.Inc()
	handleOpened()
	Logger().Debug("adopted reference", zap.Stringer("interface", interfaceOf[T]()))
	return adoptOwned[T](raw)
}

// adoptOwned wraps abi without touching any counters. Callers transferring a
// reference between handles use it directly.
func adoptOwned[T Object](abi *IUnknownABI) *Owned[T] {
	o := &Owned[T]{abi: abi}
	runtime.SetFinalizer(o, (*Owned[T]).finalize)
	return o
}

func (o *Owned[T]) detach() *IUnknownABI {
	if o == nil || o.abi == nil {
		return nil
	}
	abi := o.abi
	o.abi = nil
	runtime.SetFinalizer(o, nil)
	return abi
}

func (o *Owned[T]) finalize() {
	abi := o.abi
	if abi == nil {
		return
	}
	o.abi = nil
	reportLeak(abi, interfaceOf[T]())
}

func reportLeak(abi *IUnknownABI, iface *Interface) {
	leakedRefs.Inc()
	handleClosed()
	Logger().Warn("handle was garbage collected without being closed; its reference is leaked",
		zap.Stringer("interface", iface), zap.Uintptr("object", uintptr(unsafe.Pointer(abi))))
}

func releaseRef(abi *IUnknownABI, iface *Interface) {
	n := abi.Release()
	releasedRefs.Inc()
	handleClosed()
	Logger().Debug("released reference", zap.Stringer("interface", iface), zap.Uint32("refs", n))
}

// Close releases the handle's reference. It is safe to call more than once,
// on a nil handle, and on a handle that has been moved from.
func (o *Owned[T]) Close() error {
	if abi := o.detach(); abi != nil {
		releaseRef(abi, interfaceOf[T]())
	}
	return nil
}

// IsValid reports whether o still holds a reference.
func (o *Owned[T]) IsValid() bool {
	return o != nil && o.abi != nil
}

// AsRaw returns the interface pointer without transferring ownership, or nil
// once the handle is closed. The pointer is only valid while o is open.
func (o *Owned[T]) AsRaw() *IUnknownABI {
	if o == nil {
		return nil
	}
	return o.abi
}

// Get returns a borrowed typed view of the object, valid while o is open. The
// view keeps o reachable.
func (o *Owned[T]) Get() T {
	return makeView[T](o.mustABI("Get"), o)
}

func (o *Owned[T]) Unknown() *IUnknownABI {
	return o.mustABI("Unknown")
}

func (o *Owned[T]) Interface() *Interface {
	return interfaceOf[T]()
}

func (o *Owned[T]) mustABI(op string) *IUnknownABI {
	if !o.IsValid() {
		violation(op, "%s handle is closed", interfaceOf[T]().Name())
	}
	return o.abi
}

// Move transfers o's reference into a new handle and leaves o empty. Moving
// an empty handle yields an empty handle. The reference count is unchanged.
func (o *Owned[T]) Move() *Owned[T] {
	abi := o.detach()
	if abi == nil {
		return &Owned[T]{}
	}
	return adoptOwned[T](abi)
}

// Acquire returns a second handle to the same object, adding a reference.
func (o *Owned[T]) Acquire() *Owned[T] {
	abi := o.mustABI("Acquire")
	abi.AddRef()
	acquiredRefs.Inc()
	handleOpened()
	return adoptOwned[T](abi)
}

// Narrow converts o into a handle viewing the same object through B, an
// ancestor of T. No QueryInterface call is made and the reference moves from
// o to the result. It panics if B is not an ancestor of T.
func Narrow[B Object, T Object](o *Owned[T]) *Owned[B] {
	checkNarrow[B, T]("Narrow")
	abi := o.detach()
	if abi == nil {
		violation("Narrow", "%s handle is closed", interfaceOf[T]().Name())
	}
	return adoptOwned[B](abi)
}

func checkNarrow[B Object, T Object](op string) {
	from, to := interfaceOf[T](), interfaceOf[B]()
	if !from.IsA(to) {
		violation(op, "%s does not derive from %s", from.Name(), to.Name())
	}
}
