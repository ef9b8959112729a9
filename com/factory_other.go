// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package com

import (
	"github.com/dblohm7/comkit"
)

func unsupportedFactory(iid *IID, out **IUnknownABI) comkit.HRESULT {
	*out = nil
	return comkit.E_NOTIMPL
}

// ProcFactory always fails with E_NOTIMPL outside Windows.
func ProcFactory(dll, proc string) FactoryFunc {
	return unsupportedFactory
}

// ClassFactory always fails with E_NOTIMPL outside Windows.
func ClassFactory(clsid *CLSID) FactoryFunc {
	return unsupportedFactory
}

// CreateInstance returns comkit.ErrUnsupportedPlatform outside Windows.
func CreateInstance[T Object](clsid *CLSID) (*Owned[T], error) {
	return nil, comkit.ErrUnsupportedPlatform
}
