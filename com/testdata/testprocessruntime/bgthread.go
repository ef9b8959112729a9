// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package main

import (
	"fmt"
	"runtime"

	"github.com/dblohm7/comkit/com"
)

// bgThreadCheckMTA joins the MTA on a fresh goroutine and reports whether
// the thread it landed on considers itself MTA.
func bgThreadCheckMTA(c chan bool) {
	apt, err := com.InitApartment(com.MultiThreaded)
	if err != nil {
		c <- false
		return
	}
	defer apt.Close()
	c <- com.IsCurrentOSThreadMTA()
}

func checkBackgroundThread(needLockOSThread bool) bool {
	if needLockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	c := make(chan bool)
	go bgThreadCheckMTA(c)
	return <-c
}

// checkGlobalOptions disables COM exception handling and reads the setting
// back through a second query of the same object.
func checkGlobalOptions() error {
	if err := com.DisableExceptionHandling(); err != nil {
		return err
	}

	globalOpts, err := com.CreateInstance[com.GlobalOptions](com.CLSID_GlobalOptions)
	if err != nil {
		return err
	}
	defer globalOpts.Close()

	val, err := globalOpts.Get().Query(com.COMGLB_EXCEPTION_HANDLING)
	if err != nil {
		return err
	}
	if val != com.COMGLB_EXCEPTION_DONOT_HANDLE_ANY {
		return fmt.Errorf("COMGLB_EXCEPTION_HANDLING got %d, want %d", val, com.COMGLB_EXCEPTION_DONOT_HANDLE_ANY)
	}
	return nil
}
