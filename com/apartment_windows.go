// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"github.com/dblohm7/comkit"
	"golang.org/x/sys/windows"
)

type windowsHost struct{}

func newApartmentHost() apartmentHost {
	return windowsHost{}
}

func (windowsHost) threadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}

func (windowsHost) initialize(model ThreadingModel) comkit.HRESULT {
	flags := coINIT_MULTITHREADED
	if model == ApartmentThreaded {
		flags = coINIT_APARTMENTTHREADED | coINIT_DISABLE_OLE1DDE
	}
	return coInitializeEx(0, flags)
}

func (windowsHost) uninitialize() {
	coUninitialize()
}

func (windowsHost) current() (ThreadingModel, bool) {
	var info aptInfo
	if hr := coGetApartmentType(&info.apt, &info.qualifier); hr.Failed() {
		return 0, false
	}

	switch info.apt {
	case coAPTTYPE_STA, coAPTTYPE_MAINSTA:
		return ApartmentThreaded, true
	case coAPTTYPE_MTA:
		return MultiThreaded, true
	default:
		return 0, false
	}
}
