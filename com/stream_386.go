// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows && 386

package com

import (
	"math"
)

const maxStreamRWLen = math.MaxInt32
