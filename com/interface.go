// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Slot describes one entry of an interface's vtable.
type Slot struct {
	Index int
	Name  string
	// Owner is the interface that introduced the method.
	Owner *Interface
}

// Interface describes the binary layout of a COM interface: its IID, its base
// interface, and the methods it appends to its base's vtable. Descriptors are
// immutable once created.
type Interface struct {
	name    string
	iid     IID
	base    *Interface
	methods []string
	slots   []Slot
	index   map[string]int
}

var (
	registryLock sync.RWMutex
	registry     = map[IID]*Interface{}
)

// NewInterface defines an interface named name with identity iid, deriving
// from base and appending methods, in vtable order, to base's slots. It panics
// if the resulting layout is not a valid extension of base or if iid is already
// registered with a different layout. Descriptors are normally declared as
// package-level variables.
func NewInterface(name string, iid *IID, base *Interface, methods ...string) *Interface {
	if base == nil {
		violation("NewInterface", "%s: every interface must derive from IUnknown or one of its descendants", name)
	}
	return newInterface(name, iid, base, methods)
}

func newInterface(name string, iid *IID, base *Interface, methods []string) *Interface {
	if iid == nil {
		violation("NewInterface", "%s: nil IID", name)
	}

	iface := &Interface{
		name:    name,
		iid:     *iid,
		base:    base,
		methods: slices.Clone(methods),
		index:   map[string]int{},
	}

	var inherited []Slot
	if base != nil {
		inherited = base.slots
	}
	iface.slots = make([]Slot, 0, len(inherited)+len(methods))
	iface.slots = append(iface.slots, inherited...)
	for _, m := range methods {
		if m == "" {
			violation("NewInterface", "%s: empty method name at slot %d", name, len(iface.slots))
		}
		iface.slots = append(iface.slots, Slot{Index: len(iface.slots), Name: m, Owner: iface})
	}

	for _, s := range iface.slots {
		if prev, ok := iface.index[s.Name]; ok {
			violation("NewInterface", "%s: method %q appears at slots %d and %d", name, s.Name, prev, s.Index)
		}
		iface.index[s.Name] = s.Index
	}

	if base != nil && !CheckPrefix(iface, base) {
		violation("NewInterface", "%s: vtable is not prefix-compatible with %s", name, base.name)
	}

	registryLock.Lock()
	defer registryLock.Unlock()
	if prev, ok := registry[iface.iid]; ok {
		if !sameLayout(prev, iface) {
			violation("NewInterface", "%s: IID %s already registered by %s with a different layout", name, iid, prev.name)
		}
		return prev
	}
	registry[iface.iid] = iface
	return iface
}

func sameLayout(a, b *Interface) bool {
	return sameSlots(a.slots, b.slots)
}

func sameSlots(x, y []Slot) bool {
	return slices.EqualFunc(x, y, func(a, b Slot) bool {
		return a.Index == b.Index && a.Name == b.Name
	})
}

// CheckPrefix reports whether the vtable of base is a prefix of the vtable of
// derived: every slot of base appears at the same index with the same name.
func CheckPrefix(derived, base *Interface) bool {
	if len(base.slots) > len(derived.slots) {
		return false
	}
	return sameSlots(derived.slots[:len(base.slots)], base.slots)
}

// LookupInterface returns the descriptor registered for iid.
func LookupInterface(iid *IID) (*Interface, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	iface, ok := registry[*iid]
	return iface, ok
}

// Registered returns every registered descriptor, ordered by name.
func Registered() []*Interface {
	registryLock.RLock()
	result := make([]*Interface, 0, len(registry))
	for _, iface := range registry {
		result = append(result, iface)
	}
	registryLock.RUnlock()

	slices.SortFunc(result, func(a, b *Interface) bool {
		return a.name < b.name
	})
	return result
}

func (iface *Interface) Name() string {
	return iface.name
}

// IID returns a pointer to a copy of the interface's identity.
func (iface *Interface) IID() *IID {
	iid := iface.iid
	return &iid
}

// Base returns the interface this one derives from, or nil for IUnknown.
func (iface *Interface) Base() *Interface {
	return iface.base
}

// Methods returns the methods this interface adds to its base.
func (iface *Interface) Methods() []string {
	return slices.Clone(iface.methods)
}

// Slots returns the complete vtable layout: the slots of every ancestor,
// root first, followed by this interface's own.
func (iface *Interface) Slots() []Slot {
	return slices.Clone(iface.slots)
}

func (iface *Interface) NumSlots() int {
	return len(iface.slots)
}

// Slot returns the vtable index of the method called name.
func (iface *Interface) Slot(name string) (int, bool) {
	idx, ok := iface.index[name]
	return idx, ok
}

// MustSlot is like Slot but panics when the interface has no such method,
// which means the caller is about to invoke a slot the object's vtable may not
// have.
func (iface *Interface) MustSlot(name string) int {
	idx, ok := iface.index[name]
	if !ok {
		violation("MustSlot", "%s has no method %q", iface.name, name)
	}
	return idx
}

// IsA reports whether iface is ancestor or derives from it.
func (iface *Interface) IsA(ancestor *Interface) bool {
	for cur := iface; cur != nil; cur = cur.base {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Ancestors returns the chain of base interfaces, nearest first.
func (iface *Interface) Ancestors() []*Interface {
	var result []*Interface
	for cur := iface.base; cur != nil; cur = cur.base {
		result = append(result, cur)
	}
	return result
}

func (iface *Interface) String() string {
	return iface.name + " " + iface.iid.String()
}
