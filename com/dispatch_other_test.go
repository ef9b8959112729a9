// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package com

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostDispatchUnavailable(t *testing.T) {
	vtbl := [3]uintptr{1, 1, 1}
	abi := &IUnknownABI{Vtbl: &vtbl[0]}
	assert.NotEmpty(t, violationOp(func() { abi.AddRef() }))

	nilVtbl := [3]uintptr{}
	abi = &IUnknownABI{Vtbl: &nilVtbl[0]}
	assert.Equal(t, "invoke", violationOp(func() { abi.AddRef() }))
}
