// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"golang.org/x/sys/windows"
)

// GUID on Windows is the same type used by x/sys so that values may be passed
// directly to system APIs.
type GUID = windows.GUID
