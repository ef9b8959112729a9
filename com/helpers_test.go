// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"sync/atomic"
	"unsafe"

	"github.com/dblohm7/comkit"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	iidCalculator        = MustParseIID("6F3A1B52-0C1E-4A5B-9D2E-1B7C3E5A9F01")
	iidScaledCalculator  = MustParseIID("6F3A1B52-0C1E-4A5B-9D2E-1B7C3E5A9F02")
	iidNamed             = MustParseIID("6F3A1B52-0C1E-4A5B-9D2E-1B7C3E5A9F03")
	iidNeverImplemented  = MustParseIID("6F3A1B52-0C1E-4A5B-9D2E-1B7C3E5A9F04")
	calculatorInterface  = NewInterface("ICalculator", iidCalculator, IUnknownInterface, "Ping", "Add")
	scaledCalcInterface  = NewInterface("IScaledCalculator", iidScaledCalculator, calculatorInterface, "Scale")
	namedInterface       = NewInterface("INamed", iidNamed, IUnknownInterface, "ID")
	neverImplementedFace = NewInterface("INeverImplemented", iidNeverImplemented, IUnknownInterface, "Nothing")
)

type calculatorABI struct {
	IUnknownABI
}

type scaledCalcABI struct {
	calculatorABI
}

type namedABI struct {
	IUnknownABI
}

type calculator struct {
	GenericObject[calculatorABI]
}

func (calculator) Interface() *Interface { return calculatorInterface }

func (calculator) Make(abi *IUnknownABI) any {
	return calculator{NewGenericObject[calculatorABI](abi)}
}

func (o calculator) Ping() uint32 {
	return uint32(o.Unknown().Invoke(calculatorInterface.MustSlot("Ping")))
}

func (o calculator) Add(a, b int32) int32 {
	return int32(o.Unknown().Invoke(calculatorInterface.MustSlot("Add"), uintptr(a), uintptr(b)))
}

type scaledCalc struct {
	GenericObject[scaledCalcABI]
}

func (scaledCalc) Interface() *Interface { return scaledCalcInterface }

func (scaledCalc) Make(abi *IUnknownABI) any {
	return scaledCalc{NewGenericObject[scaledCalcABI](abi)}
}

func (o scaledCalc) Scale(x int32) int32 {
	return int32(o.Unknown().Invoke(scaledCalcInterface.MustSlot("Scale"), uintptr(x)))
}

type named struct {
	GenericObject[namedABI]
}

func (named) Interface() *Interface { return namedInterface }

func (named) Make(abi *IUnknownABI) any {
	return named{NewGenericObject[namedABI](abi)}
}

func (o named) ID() (int32, error) {
	var id int32
	hr := o.Unknown().InvokeHR(namedInterface.MustSlot("ID"), uintptr(unsafe.Pointer(&id)))
	return id, comkit.Check(hr)
}

type neverImplemented struct {
	GenericObject[IUnknownABI]
}

func (neverImplemented) Interface() *Interface { return neverImplementedFace }

func (neverImplemented) Make(abi *IUnknownABI) any {
	return neverImplemented{NewGenericObject[IUnknownABI](abi)}
}

// newTestObject builds an object implementing IScaledCalculator (and so
// ICalculator) plus INamed. destroyed is incremented when it is destroyed.
func newTestObject(destroyed *atomic.Int32) *LocalObject {
	return NewLocalObject(
		func() { destroyed.Add(1) },
		Implementation{
			Interface: scaledCalcInterface,
			Methods: map[string]MethodFunc{
				"Ping": func(obj *LocalObject, args []uintptr) uintptr {
					return 42
				},
				"Add": func(obj *LocalObject, args []uintptr) uintptr {
					return uintptr(int32(args[0]) + int32(args[1]))
				},
				"Scale": func(obj *LocalObject, args []uintptr) uintptr {
					return uintptr(int32(args[0]) * 3)
				},
			},
		},
		Implementation{
			Interface: namedInterface,
			Methods: map[string]MethodFunc{
				"ID": func(obj *LocalObject, args []uintptr) uintptr {
					out := ArgPointer[int32](args, 0)
					if out == nil {
						return HRESULTWord(comkit.E_POINTER)
					}
					*out = 7
					return HRESULTWord(comkit.S_OK)
				},
			},
		},
	)
}

// counters is a snapshot of the reference metrics, used to assert deltas.
type counters struct {
	acquired, released, live float64
}

func snapshot() counters {
	return counters{
		acquired: testutil.ToFloat64(acquiredRefs),
		released: testutil.ToFloat64(releasedRefs),
		live:     testutil.ToFloat64(liveHandles),
	}
}

func (c counters) sub(prev counters) counters {
	return counters{
		acquired: c.acquired - prev.acquired,
		released: c.released - prev.released,
		live:     c.live - prev.live,
	}
}

func violationOp(f func()) (op string) {
	defer func() {
		if cv, ok := recover().(*ContractViolation); ok {
			op = cv.Op
		}
	}()
	f()
	return ""
}
