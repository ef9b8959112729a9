// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package main

import (
	"fmt"
	"os"
	"runtime"
)

var (
	cmds  = map[string]func(){}
	inits = map[string]func(){}
	err   error
)

func register(name string, f func()) {
	if _, ok := cmds[name]; ok {
		panic("duplicate registration: " + name)
	}
	cmds[name] = f
}

func registerInit(name string, f func()) {
	if _, ok := inits[name]; ok {
		panic("duplicate registration: " + name)
	}
	inits[name] = f
}

func init() {
	// Keep main on the process's first thread, as a GUI program would.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: testprocessruntime <name>")
		os.Exit(2)
	}

	name := os.Args[1]
	f, ok := cmds[name]
	if !ok {
		fmt.Printf("unknown function: %s\n", name)
		os.Exit(2)
	}
	if initf, ok := inits[name]; ok {
		initf()
	}
	f()
}
