// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package d2d1

import (
	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
)

// CreateFactory creates a Direct2D 1.1 factory. opts may be nil.
func CreateFactory(factoryType FactoryType, opts *FactoryOptions) (*com.Owned[Factory1], error) {
	if err := procD2D1CreateFactory.Find(); err != nil {
		return nil, comkit.ErrUnsupportedPlatform
	}
	return com.Create[Factory1](func(iid *com.IID, out **com.IUnknownABI) comkit.HRESULT {
		return d2d1CreateFactory(factoryType, iid, opts, out)
	})
}
