// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package com

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Each of these tests needs to run as its own process, since the apartment a
// thread joins and the global COM options are fixed for the life of the
// process.

func TestSTA(t *testing.T) {
	output := strings.TrimSpace(runTestProg(t, "testprocessruntime", "STAApp"))
	want := "OK"
	if output != want {
		t.Errorf("%s\n", strings.TrimPrefix(output, "error: "))
	}
}

func TestMTA(t *testing.T) {
	output := strings.TrimSpace(runTestProg(t, "testprocessruntime", "MTAApp"))
	want := "OK"
	if output != want {
		t.Errorf("%s\n", strings.TrimPrefix(output, "error: "))
	}
}

func TestIncompatibleApartment(t *testing.T) {
	output := strings.TrimSpace(runTestProg(t, "testprocessruntime", "IncompatibleApp"))
	want := "OK"
	if output != want {
		t.Errorf("%s\n", strings.TrimPrefix(output, "error: "))
	}
}

var (
	testProgLock  sync.Mutex
	testProgBuilt = map[string]string{}
)

// buildTestProg compiles testdata/binary into a temporary directory, once per
// test binary, and embeds the application manifest into the result.
func buildTestProg(t *testing.T, binary string) string {
	testProgLock.Lock()
	defer testProgLock.Unlock()

	if exe, ok := testProgBuilt[binary]; ok {
		return exe
	}

	dir, err := os.MkdirTemp("", "comkit-"+binary)
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}

	rawExe := filepath.Join(dir, binary+"-nomanifest.exe")
	cmd := exec.Command("go", "build", "-o", rawExe, ".")
	cmd.Dir = filepath.Join("testdata", binary)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building %s: %v\n%s", binary, err, out)
	}

	exe := filepath.Join(dir, binary+".exe")
	if err := addManifest(exe, rawExe); err != nil {
		t.Fatalf("adding manifest to %s: %v", binary, err)
	}

	testProgBuilt[binary] = exe
	return exe
}

func runTestProg(t *testing.T, binary, name string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping subprocess test in short mode")
	}

	exe := buildTestProg(t, binary)
	out, _ := exec.Command(exe, name).CombinedOutput()
	return string(out)
}
