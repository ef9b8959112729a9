// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package d2d1

import (
	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
)

// CreateFactory returns comkit.ErrUnsupportedPlatform outside Windows.
func CreateFactory(factoryType FactoryType, opts *FactoryOptions) (*com.Owned[Factory1], error) {
	return nil, comkit.ErrUnsupportedPlatform
}
