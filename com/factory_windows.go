// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"unsafe"

	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/internal/modver"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// ProcFactory resolves proc, exported by the system DLL named dll, as a
// creation function taking (REFIID, void**). The DLL is loaded on first use.
func ProcFactory(dll, proc string) FactoryFunc {
	mod := windows.NewLazySystemDLL(dll)
	p := mod.NewProc(proc)

	return func(iid *IID, out **IUnknownABI) comkit.HRESULT {
		if err := p.Find(); err != nil {
			Logger().Error("creation function unavailable", zap.String("dll", dll), zap.String("proc", proc), zap.Error(err))
			return comkit.REGDB_E_CLASSNOTREG
		}
		logModuleVersion(mod)

		return comkit.HRESULT(invoke(p.Addr(),
			uintptr(unsafe.Pointer(iid)),
			uintptr(unsafe.Pointer(out)),
		))
	}
}

func logModuleVersion(mod *windows.LazyDLL) {
	l := Logger()
	if !l.Core().Enabled(zap.DebugLevel) {
		return
	}
	v, err := modver.ForModule(windows.Handle(mod.Handle()))
	if err != nil {
		l.Debug("module version unavailable", zap.String("dll", mod.Name), zap.Error(err))
		return
	}
	l.Debug("using module", zap.String("dll", mod.Name), zap.Stringer("version", v))
}

// ClassFactory creates instances of clsid through the COM runtime. The calling
// thread must belong to an apartment.
func ClassFactory(clsid *CLSID) FactoryFunc {
	return func(iid *IID, out **IUnknownABI) comkit.HRESULT {
		return coCreateInstance(clsid, nil, coCLSCTX_INPROC_SERVER, iid, out)
	}
}

// CreateInstance instantiates a new in-process COM object of class clsid,
// viewed as T.
func CreateInstance[T Object](clsid *CLSID) (*Owned[T], error) {
	o, err := Create[T](ClassFactory(clsid))
	if err != nil {
		return nil, errors.Wrapf(err, "CLSID %v", clsid)
	}
	return o, nil
}
