// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dblohm7/comkit"
	"go.uber.org/zap"
)

// MethodFunc implements one vtable slot of a LocalObject. args holds the
// method's declared arguments, without the implicit object pointer. Pointer
// arguments are read with ArgPointer.
type MethodFunc func(obj *LocalObject, args []uintptr) uintptr

// Implementation binds Go functions to methods of Interface. Methods may name
// any slot of Interface, including inherited ones other than the IUnknown
// methods, which LocalObject always supplies itself. Slots left out return
// E_NOTIMPL.
type Implementation struct {
	Interface *Interface
	Methods   map[string]MethodFunc
}

// LocalObject is a COM object implemented in Go. Its memory layout matches
// that of a host object, so it is driven through exactly the same handles and
// dispatch path.
type LocalObject struct {
	refs      atomic.Int32
	faces     []*localFace
	ownThunks []uintptr
	onDestroy func()
}

// localFace is what an interface pointer to a LocalObject points at. vtbl must
// remain the first field.
type localFace struct {
	vtbl  *uintptr
	table []uintptr
	iface *Interface
	obj   *LocalObject
}

var (
	localFacesLock sync.RWMutex
	localFaces     = map[uintptr]*localFace{}
)

var (
	notImplThunkOnce sync.Once
	notImplThunk     uintptr
	deadThunkOnce    sync.Once
	deadThunk        uintptr
)

func getNotImplThunk() uintptr {
	notImplThunkOnce.Do(func() {
		notImplThunk = newThunk(func(this uintptr, args []uintptr) uintptr {
			return HRESULTWord(comkit.E_NOTIMPL)
		})
	})
	return notImplThunk
}

func getDeadThunk() uintptr {
	deadThunkOnce.Do(func() {
		deadThunk = newThunk(func(this uintptr, args []uintptr) uintptr {
			violation("invoke", "method called on destroyed object %#x", this)
			return 0
		})
	})
	return deadThunk
}

// NewLocalObject builds an object implementing impls. The first
// implementation's face is the object's identity. The object starts with a
// single reference, reachable through Unknown, which the caller owns and must
// either hand to Take or release. onDestroy, if non-nil, runs exactly once when
// the last reference is released.
func NewLocalObject(onDestroy func(), impls ...Implementation) *LocalObject {
	if len(impls) == 0 {
		violation("NewLocalObject", "an object must implement at least one interface")
	}

	obj := &LocalObject{onDestroy: onDestroy}
	obj.refs.Store(1)

	qi := newThunk(obj.queryInterface)
	addRef := newThunk(func(this uintptr, args []uintptr) uintptr {
		return uintptr(uint32(obj.addRef()))
	})
	release := newThunk(func(this uintptr, args []uintptr) uintptr {
		return uintptr(uint32(obj.release()))
	})
	obj.ownThunks = []uintptr{qi, addRef, release}

	for _, impl := range impls {
		if impl.Interface == nil {
			violation("NewLocalObject", "implementation without an interface")
		}

		face := &localFace{
			table: make([]uintptr, impl.Interface.NumSlots()),
			iface: impl.Interface,
			obj:   obj,
		}
		face.table[slotQueryInterface] = qi
		face.table[slotAddRef] = addRef
		face.table[slotRelease] = release
		for i := slotRelease + 1; i < len(face.table); i++ {
			face.table[i] = getNotImplThunk()
		}

		for name, fn := range impl.Methods {
			idx, ok := impl.Interface.Slot(name)
			if !ok {
				violation("NewLocalObject", "%s has no method %q", impl.Interface.Name(), name)
			}
			if idx <= slotRelease {
				violation("NewLocalObject", "%s is supplied by LocalObject", name)
			}
			method := fn
			addr := newThunk(func(this uintptr, args []uintptr) uintptr {
				return method(obj, args)
			})
			face.table[idx] = addr
			obj.ownThunks = append(obj.ownThunks, addr)
		}

		face.vtbl = &face.table[0]
		obj.faces = append(obj.faces, face)
	}

	localFacesLock.Lock()
	for _, face := range obj.faces {
		localFaces[uintptr(unsafe.Pointer(face))] = face
	}
	localFacesLock.Unlock()

	return obj
}

// Unknown returns the object's identity pointer without adding a reference.
func (obj *LocalObject) Unknown() *IUnknownABI {
	return obj.faces[0].abi()
}

// Face returns the interface pointer through which obj implements iface, or
// nil. No reference is added.
func (obj *LocalObject) Face(iface *Interface) *IUnknownABI {
	if face := obj.faceFor(iface); face != nil {
		return face.abi()
	}
	return nil
}

// Refs returns the current reference count. It is meant for tests and
// diagnostics.
func (obj *LocalObject) Refs() int32 {
	return obj.refs.Load()
}

func (face *localFace) abi() *IUnknownABI {
	return (*IUnknownABI)(unsafe.Pointer(face))
}

func (obj *LocalObject) faceFor(iface *Interface) *localFace {
	if iface == IUnknownInterface {
		return obj.faces[0]
	}
	for _, face := range obj.faces {
		if face.iface.IsA(iface) {
			return face
		}
	}
	return nil
}

func (obj *LocalObject) queryInterface(this uintptr, args []uintptr) uintptr {
	if len(args) < 2 {
		return HRESULTWord(comkit.E_INVALIDARG)
	}
	out := ArgPointer[*IUnknownABI](args, 1)
	if out == nil {
		return HRESULTWord(comkit.E_POINTER)
	}
	*out = nil

	iid := ArgPointer[IID](args, 0)
	if iid == nil {
		return HRESULTWord(comkit.E_POINTER)
	}

	iface, ok := LookupInterface(iid)
	if !ok {
		return HRESULTWord(comkit.E_NOINTERFACE)
	}
	face := obj.faceFor(iface)
	if face == nil {
		return HRESULTWord(comkit.E_NOINTERFACE)
	}

	obj.addRef()
	*out = face.abi()
	return HRESULTWord(comkit.S_OK)
}

func (obj *LocalObject) addRef() int32 {
	n := obj.refs.Add(1)
	if n <= 1 {
		violation("AddRef", "object %p was already destroyed", obj)
	}
	return n
}

func (obj *LocalObject) release() int32 {
	n := obj.refs.Add(-1)
	if n < 0 {
		violation("Release", "reference count of object %p went negative", obj)
	}
	if n == 0 {
		obj.destroy()
	}
	return n
}

func (obj *LocalObject) destroy() {
	localFacesLock.Lock()
	for _, face := range obj.faces {
		delete(localFaces, uintptr(unsafe.Pointer(face)))
	}
	localFacesLock.Unlock()

	dead := getDeadThunk()
	for _, face := range obj.faces {
		for i := range face.table {
			face.table[i] = dead
		}
	}
	for _, addr := range obj.ownThunks {
		freeThunk(addr)
	}
	obj.ownThunks = nil

	Logger().Debug("local object destroyed", zap.Stringer("interface", obj.faces[0].iface))
	if obj.onDestroy != nil {
		obj.onDestroy()
	}
}

// checkLocalSlot panics when slot lies outside the vtable of a live local
// object. Host objects cannot be checked; their descriptors are trusted.
func checkLocalSlot(abi *IUnknownABI, slot int) {
	localFacesLock.RLock()
	face, ok := localFaces[uintptr(unsafe.Pointer(abi))]
	localFacesLock.RUnlock()
	if ok && slot >= len(face.table) {
		violation("Invoke", "slot %d is outside the %d-slot vtable of %s", slot, len(face.table), face.iface.Name())
	}
}
