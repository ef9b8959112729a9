// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package main

import (
	"fmt"
	"runtime"

	"github.com/dblohm7/comkit/com"
)

var mainApartment *com.Apartment

func init() {
	registerInit("STAApp", STAAppInit)
	register("STAApp", STAApp)
}

func STAAppInit() {
	mainApartment, err = com.InitApartment(com.ApartmentThreaded)
	if err != nil {
		fmt.Println("error: ", err)
	}
}

func STAApp() {
	if err != nil {
		return
	}
	defer mainApartment.Close()

	if !com.IsCurrentOSThreadSTA() {
		fmt.Println("error: IsCurrentOSThreadSTA got false, want true")
		return
	}

	if err := checkGlobalOptions(); err != nil {
		fmt.Println("error: ", err)
		return
	}

	if !checkBackgroundThread(false) {
		fmt.Println("error: background OS thread is not MTA")
		return
	}

	// Leaked handles are reported from their finalizers.
	runtime.GC()

	fmt.Println("OK")
}
