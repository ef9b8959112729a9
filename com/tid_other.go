// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows && !linux

package com

// gettid has no portable implementation here, so every thread shares one
// emulated apartment slot.
func gettid() uint64 {
	return 0
}
