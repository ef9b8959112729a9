// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package main

import (
	"fmt"
	"runtime"

	"github.com/dblohm7/comkit/com"
)

func init() {
	registerInit("MTAApp", MTAAppInit)
	register("MTAApp", MTAApp)
}

func MTAAppInit() {
	mainApartment, err = com.InitApartment(com.MultiThreaded)
	if err != nil {
		fmt.Printf("error: got %v, want nil\n", err)
	}
}

func MTAApp() {
	if err != nil {
		return
	}
	defer mainApartment.Close()

	if !com.IsCurrentOSThreadMTA() {
		fmt.Println("error: IsCurrentOSThreadMTA got false, want true")
		return
	}

	if err := checkGlobalOptions(); err != nil {
		fmt.Printf("error: got %v, want nil\n", err)
		return
	}

	if !checkBackgroundThread(true) {
		fmt.Println("error: background OS thread is not MTA")
		return
	}

	runtime.GC()

	fmt.Println("OK")
}
