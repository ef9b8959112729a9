// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/dblohm7/comkit"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ThreadingModel selects the kind of apartment an OS thread joins.
type ThreadingModel int

const (
	// ApartmentThreaded places the thread in its own single-threaded apartment.
	// Objects created there must only be called from that thread.
	ApartmentThreaded ThreadingModel = iota + 1
	// MultiThreaded places the thread in the process-wide multithreaded
	// apartment.
	MultiThreaded
)

func (m ThreadingModel) String() string {
	switch m {
	case ApartmentThreaded:
		return "ApartmentThreaded"
	case MultiThreaded:
		return "MultiThreaded"
	default:
		return fmt.Sprintf("ThreadingModel(%d)", int(m))
	}
}

var (
	// ErrAlreadyInitializedIncompatibly is returned by InitApartment when the
	// current thread already belongs to an apartment of a different model.
	ErrAlreadyInitializedIncompatibly = errors.New("com: thread already initialized with a different threading model")
	// ErrApartmentActive is returned by InitApartment when the current thread
	// already has an open Apartment of the requested model.
	ErrApartmentActive = errors.New("com: thread already has an active apartment")
)

// apartmentHost performs the platform side of apartment membership.
type apartmentHost interface {
	threadID() uint64
	initialize(model ThreadingModel) comkit.HRESULT
	uninitialize()
	current() (ThreadingModel, bool)
}

var (
	apartmentsLock sync.Mutex
	apartments     = map[uint64]*Apartment{}
	host           = newApartmentHost()
)

// Apartment is the current OS thread's membership in a COM apartment. The
// goroutine that calls InitApartment stays locked to its OS thread until
// Close, which must be called from that same goroutine.
type Apartment struct {
	noCopy noCopy
	model  ThreadingModel
	tid    uint64
	closed bool
}

// InitApartment initializes COM on the current OS thread with model. The
// calling goroutine is locked to its thread until the Apartment is closed.
//
// If the thread is already a member of an apartment with a different model,
// the error matches ErrAlreadyInitializedIncompatibly and the thread's state
// is left as it was.
func InitApartment(model ThreadingModel) (*Apartment, error) {
	if model != ApartmentThreaded && model != MultiThreaded {
		return nil, errors.Errorf("com: invalid threading model %d", int(model))
	}

	runtime.LockOSThread()
	tid := host.threadID()

	apartmentsLock.Lock()
	defer apartmentsLock.Unlock()

	if cur, ok := apartments[tid]; ok {
		runtime.UnlockOSThread()
		if cur.model != model {
			return nil, errors.Wrapf(ErrAlreadyInitializedIncompatibly, "requested %v, thread is %v", model, cur.model)
		}
		return nil, ErrApartmentActive
	}

	hr := host.initialize(model)
	if hr == comkit.RPC_E_CHANGED_MODE {
		runtime.UnlockOSThread()
		return nil, errors.Wrapf(ErrAlreadyInitializedIncompatibly, "requested %v", model)
	}
	if err := comkit.Check(hr); err != nil {
		runtime.UnlockOSThread()
		return nil, errors.Wrap(err, "initializing apartment")
	}

	apt := &Apartment{model: model, tid: tid}
	apartments[tid] = apt
	Logger().Debug("apartment initialized", zap.Stringer("model", model), zap.Uint64("thread", tid))
	return apt, nil
}

// Model returns the apartment's threading model.
func (a *Apartment) Model() ThreadingModel {
	return a.model
}

// Close leaves the apartment and unlocks the goroutine from its OS thread.
// Every handle to an object created in the apartment should already be
// closed. Close is safe to call more than once; calling it from a different
// OS thread panics.
func (a *Apartment) Close() error {
	apartmentsLock.Lock()
	defer apartmentsLock.Unlock()

	if a.closed {
		return nil
	}
	if tid := host.threadID(); tid != a.tid {
		violation("Apartment.Close", "apartment of thread %d closed on thread %d", a.tid, tid)
	}
	if n := LiveHandles(); n > 0 {
		Logger().Warn("closing apartment with live handles", zap.Int64("handles", n), zap.Stringer("model", a.model))
	}

	host.uninitialize()
	a.closed = true
	delete(apartments, a.tid)
	runtime.UnlockOSThread()
	Logger().Debug("apartment closed", zap.Stringer("model", a.model), zap.Uint64("thread", a.tid))
	return nil
}

// CurrentThreadingModel reports the apartment the current OS thread belongs
// to. Unless the calling goroutine is locked to its thread, the answer may be
// stale by the time it is used.
func CurrentThreadingModel() (ThreadingModel, bool) {
	apartmentsLock.Lock()
	defer apartmentsLock.Unlock()
	return host.current()
}

// IsCurrentOSThreadSTA reports whether the current OS thread is in a
// single-threaded apartment.
func IsCurrentOSThreadSTA() bool {
	m, ok := CurrentThreadingModel()
	return ok && m == ApartmentThreaded
}

// IsCurrentOSThreadMTA reports whether the current OS thread is in the
// multithreaded apartment, including implicitly.
func IsCurrentOSThreadMTA() bool {
	m, ok := CurrentThreadingModel()
	return ok && m == MultiThreaded
}
