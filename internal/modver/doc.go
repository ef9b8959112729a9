// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package modver reads the version resource of loaded DLLs so that factory
// diagnostics can say which build of a component produced an object.
package modver
