// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package com

import (
	"testing"
)

func TestTryAsHostObject(t *testing.T) {
	apt, err := InitApartment(MultiThreaded)
	if err != nil {
		t.Fatalf("InitApartment error: %v", err)
	}
	defer apt.Close()

	globalOpts, err := CreateInstance[GlobalOptions](CLSID_GlobalOptions)
	if err != nil {
		t.Fatalf("CreateInstance(CLSID_GlobalOptions) error: %v", err)
	}
	defer globalOpts.Close()

	unk, err := TryAs[ObjectBase](globalOpts)
	if err != nil {
		t.Fatalf("TryAs(ObjectBase) error: %v", err)
	}
	defer unk.Close()

	globalOpts2, err := TryAs[GlobalOptions](unk)
	if err != nil {
		t.Fatalf("TryAs(GlobalOptions) error: %v", err)
	}
	defer globalOpts2.Close()

	if globalOpts.Get().UnsafeUnwrap() != globalOpts2.Get().UnsafeUnwrap() {
		t.Errorf("globalOpts ABI != globalOpts2 ABI")
	}

	if Supports[Stream](globalOpts) {
		t.Errorf("GlobalOptions unexpectedly supports IStream")
	}
}
