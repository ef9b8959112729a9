// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"runtime"
	"sync/atomic"
)

// Shared is a handle to a COM object that may be cloned and used from several
// goroutines. Every Shared handle holds its own object reference, so the
// object lives until the last handle is closed, in whatever order they close.
//
// Get, Clone and AsRaw are safe to call concurrently. Close must not race with
// other calls on the same handle; give each goroutine its own Clone instead.
type Shared[T Object] struct {
	noCopy noCopy
	abi    atomic.Pointer[IUnknownABI]
}

// NewShared converts o into a Shared handle. The reference moves from o,
// which is left empty.
func NewShared[T Object](o *Owned[T]) *Shared[T] {
	abi := o.detach()
	if abi == nil {
		violation("NewShared", "%s handle is closed", interfaceOf[T]().Name())
	}
	return adoptShared[T](abi)
}

// Upgrade creates a Shared handle from a pointer the caller does not own,
// adding a reference. It panics if raw is nil.
func Upgrade[T Object](raw *IUnknownABI) *Shared[T] {
	if raw == nil {
		violation("Upgrade", "nil %s pointer", interfaceOf[T]().Name())
	}
	raw.AddRef()
	acquiredRefs.Inc()
	handleOpened()
	return adoptShared[T](raw)
}

func adoptShared[T Object](abi *IUnknownABI) *Shared[T] {
	s := &Shared[T]{}
	s.abi.Store(abi)
	runtime.SetFinalizer(s, (*Shared[T]).finalize)
	return s
}

func (s *Shared[T]) detach() *IUnknownABI {
	if s == nil {
		return nil
	}
	abi := s.abi.Swap(nil)
	if abi != nil {
		runtime.SetFinalizer(s, nil)
	}
	return abi
}

func (s *Shared[T]) finalize() {
	abi := s.abi.Swap(nil)
	if abi == nil {
		return
	}
	reportLeak(abi, interfaceOf[T]())
}

func (s *Shared[T]) mustABI(op string) *IUnknownABI {
	var abi *IUnknownABI
	if s != nil {
		abi = s.abi.Load()
	}
	if abi == nil {
		violation(op, "shared %s handle is closed", interfaceOf[T]().Name())
	}
	return abi
}

// Close releases this handle's reference. Other clones are unaffected. It is
// safe to call more than once.
func (s *Shared[T]) Close() error {
	if abi := s.detach(); abi != nil {
		releaseRef(abi, interfaceOf[T]())
	}
	return nil
}

// IsValid reports whether s still holds a reference.
func (s *Shared[T]) IsValid() bool {
	return s != nil && s.abi.Load() != nil
}

// AsRaw returns the interface pointer without transferring ownership, or nil
// once the handle is closed.
func (s *Shared[T]) AsRaw() *IUnknownABI {
	if s == nil {
		return nil
	}
	return s.abi.Load()
}

// Get returns a borrowed typed view of the object, valid while s is open. The
// view keeps s reachable.
func (s *Shared[T]) Get() T {
	return makeView[T](s.mustABI("Get"), s)
}

func (s *Shared[T]) Unknown() *IUnknownABI {
	return s.mustABI("Unknown")
}

func (s *Shared[T]) Interface() *Interface {
	return interfaceOf[T]()
}

// Clone returns another handle to the same object, adding a reference.
func (s *Shared[T]) Clone() *Shared[T] {
	abi := s.mustABI("Clone")
	abi.AddRef()
	acquiredRefs.Inc()
	handleOpened()
	return adoptShared[T](abi)
}

// Downgrade converts s back into an Owned handle. The reference moves from s,
// which is left closed; other clones are unaffected.
func (s *Shared[T]) Downgrade() *Owned[T] {
	abi := s.detach()
	if abi == nil {
		violation("Downgrade", "shared %s handle is closed", interfaceOf[T]().Name())
	}
	return adoptOwned[T](abi)
}

// NarrowShared is Narrow for Shared handles. s is consumed.
func NarrowShared[B Object, T Object](s *Shared[T]) *Shared[B] {
	checkNarrow[B, T]("NarrowShared")
	abi := s.detach()
	if abi == nil {
		violation("NarrowShared", "shared %s handle is closed", interfaceOf[T]().Name())
	}
	return adoptShared[B](abi)
}

// GetInterface queries the object behind s for U and returns the result as a
// new Shared handle. s remains open.
func GetInterface[U Object, T Object](s *Shared[T]) (*Shared[U], error) {
	o, err := TryAs[U](s)
	if err != nil {
		return nil, err
	}
	return NewShared(o), nil
}
