// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package dxgi

import (
	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
)

// CreateFactory1 creates a DXGI 1.1 factory.
func CreateFactory1() (*com.Owned[Factory1], error) {
	if err := procCreateDXGIFactory1.Find(); err != nil {
		return nil, comkit.ErrUnsupportedPlatform
	}
	return com.Create[Factory1](createDXGIFactory1)
}
