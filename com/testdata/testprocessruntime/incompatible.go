// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package main

import (
	"errors"
	"fmt"

	"github.com/dblohm7/comkit/com"
)

func init() {
	register("IncompatibleApp", IncompatibleApp)
}

func IncompatibleApp() {
	apt, err := com.InitApartment(com.ApartmentThreaded)
	if err != nil {
		fmt.Println("error: ", err)
		return
	}
	defer apt.Close()

	if _, err := com.InitApartment(com.MultiThreaded); !errors.Is(err, com.ErrAlreadyInitializedIncompatibly) {
		fmt.Printf("error: got %v, want %v\n", err, com.ErrAlreadyInitializedIncompatibly)
		return
	}

	if !com.IsCurrentOSThreadSTA() {
		fmt.Println("error: failed re-initialization changed the apartment")
		return
	}

	fmt.Println("OK")
}
