// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"github.com/dblohm7/comkit"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoInterface is matched (via errors.Is) by errors from TryAs when the
// object does not implement the requested interface.
var ErrNoInterface error = comkit.Error(comkit.E_NOINTERFACE)

// TryAs asks the object behind h for U. On success the result holds a new
// reference of its own and h is untouched. When the object does not support
// U, the returned error matches ErrNoInterface.
func TryAs[U Object](h Handle) (*Owned[U], error) {
	src := h.Unknown()
	target := interfaceOf[U]()

	abi, err := src.QueryInterface(target.IID())
	if err != nil {
		result := queryResultFailed
		if errors.Is(err, ErrNoInterface) {
			result = queryResultUnsupported
		}
		queries.WithLabelValues(result).Inc()
		return nil, errors.Wrapf(err, "querying %s for %s", h.Interface().Name(), target.Name())
	}
	if abi == nil {
		violation("TryAs", "QueryInterface for %s succeeded without an interface pointer", target.Name())
	}

	queries.WithLabelValues(queryResultSupported).Inc()
	acquiredRefs.Inc()
	handleOpened()
	Logger().Debug("query succeeded", zap.Stringer("from", h.Interface()), zap.Stringer("to", target))
	return adoptOwned[U](abi), nil
}

// As is TryAs for interfaces the object is known to support. It panics with
// the query error otherwise.
func As[U Object](h Handle) *Owned[U] {
	o, err := TryAs[U](h)
	if err != nil {
		panic(err)
	}
	return o
}

// Supports reports whether the object behind h implements U.
func Supports[U Object](h Handle) bool {
	o, err := TryAs[U](h)
	if err != nil {
		return false
	}
	o.Close()
	return true
}
