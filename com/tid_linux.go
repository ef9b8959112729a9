// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"golang.org/x/sys/unix"
)

func gettid() uint64 {
	return uint64(unix.Gettid())
}
