// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package dxgi

import (
	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
)

// CreateFactory1 returns comkit.ErrUnsupportedPlatform outside Windows.
func CreateFactory1() (*com.Owned[Factory1], error) {
	return nil, comkit.ErrUnsupportedPlatform
}
