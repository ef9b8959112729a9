// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package comkit

func IsWin8OrGreater() bool {
	return false
}

func IsWin10OrGreater() bool {
	return false
}

func OSVersion() string {
	return "n/a"
}
