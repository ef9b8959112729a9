// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"github.com/dblohm7/comkit"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FactoryFunc is the shape of a creation function: it is asked for an
// interface ID and, on success, stores a pointer carrying one reference in
// out.
type FactoryFunc func(iid *IID, out **IUnknownABI) comkit.HRESULT

// Create calls factory for T and adopts the result. When factory fails no
// handle is created and nothing is released; the error wraps the factory's
// status as a comkit.Error. Qualified success statuses are accepted and
// logged.
func Create[T Object](factory FactoryFunc) (*Owned[T], error) {
	iface := interfaceOf[T]()

	var raw *IUnknownABI
	hr := factory(iface.IID(), &raw)
	if hr.Failed() {
		return nil, errors.Wrapf(comkit.ErrorFromHRESULT(hr), "creating %s", iface.Name())
	}
	if raw == nil {
		violation("Create", "factory for %s returned 0x%08X without an object", iface.Name(), uint32(hr))
	}
	if hr.IsQualifiedSuccess() {
		Logger().Info("factory returned qualified success", zap.Stringer("interface", iface), zap.Uint32("hresult", uint32(hr)))
	}

	return Take[T](raw), nil
}

// LocalFactory adapts construct to a FactoryFunc. Each call builds a new
// LocalObject and hands out the face matching the requested interface.
func LocalFactory(construct func() *LocalObject) FactoryFunc {
	return func(iid *IID, out **IUnknownABI) comkit.HRESULT {
		*out = nil

		obj := construct()
		unk := obj.Unknown()
		defer unk.Release()

		result, err := unk.QueryInterface(iid)
		if err != nil {
			var e comkit.Error
			if errors.As(err, &e) {
				return e.AsHRESULT()
			}
			return comkit.E_FAIL
		}

		*out = result
		return comkit.S_OK
	}
}
