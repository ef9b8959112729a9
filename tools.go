// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build tools

package comkit

// Code generators run by go:generate directives in this module.
import (
	_ "golang.org/x/sys/windows/mkwinsyscall"
	_ "golang.org/x/tools/cmd/goimports"
)
